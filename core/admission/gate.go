package admission

import "github.com/shuletech/udahili/core"

// detail keys a department must supply when completing its clearance
var clearanceDetailKeys = map[Department][]string{
	DeptHostel:    {"room"},
	DeptTransport: {"route", "stop"},
}

// RequiredDepartments derives the set of departments that must clear an
// Application before it can enroll. Accounts and inventory always apply;
// hostel and transport only when the matching facility was requested.
func RequiredDepartments(flags FacilityFlags) []Department {
	required := []Department{DeptAccounts, DeptInventory}
	if flags.HostelNeeded {
		required = append(required, DeptHostel)
	}
	if flags.BusNeeded {
		required = append(required, DeptTransport)
	}
	return required
}

// evaluateGate promotes an approved Application to enrolled once every
// required department clearance is completed. It is a no-op on an already
// enrolled Application and never fires from any other status.
func (a *Application) evaluateGate(actor string) (bool, error) {
	switch {
	case a.Status == StatusEnrolled:
		return true, nil
	case a.Status != StatusApproved:
		return false, nil
	}

	for _, dept := range RequiredDepartments(a.Facilities) {
		if a.Clearances[dept].Status != ClearanceCompleted {
			return false, nil
		}
	}
	if err := a.apply(ActionGateSatisfied, actor, ""); err != nil {
		return false, err
	}
	return true, nil
}

func validateClearanceDetail(dept Department, detail map[string]string) error {
	keys, ok := clearanceDetailKeys[dept]
	if !ok {
		return nil
	}
	var flds []core.FieldError
	for _, key := range keys {
		if core.CleanString(detail[key]) == "" {
			flds = append(flds, core.FieldError{Field: "detail." + key, Error: "this field is required"})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
