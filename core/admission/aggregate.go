package admission

import (
	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core"
)

// apply validates (status, action) against the transition table and, if
// legal, commits the status change together with its audit entry. Nothing
// is mutated on failure.
func (a *Application) apply(action Action, actor, remark string) error {
	t, ok := Lookup(a.Status, action)
	if !ok {
		return &IllegalTransitionError{Status: a.Status, Action: action}
	}
	remark = core.CleanString(remark)
	if t.RequiresRemark && remark == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "remark", Error: "a remark is required"})
	}

	now := nowFunc().UTC()
	a.Audit = append(a.Audit, AuditEntry{
		FromStatus: a.Status,
		ToStatus:   t.Next,
		Action:     action,
		Actor:      actor,
		Remark:     remark,
		Timestamp:  now,
	})
	a.Status = t.Next
	a.UpdatedAt = now
	return nil
}

// Submit moves a complete draft to submitted and initializes the
// department clearance map from the facility flags.
func (a *Application) Submit(actor string) error {
	if _, ok := Lookup(a.Status, ActionSubmit); !ok {
		return &IllegalTransitionError{Status: a.Status, Action: ActionSubmit}
	}
	if flds := a.Student.missingFields(); len(flds) > 0 {
		return core.NewValidationError(errors.New("student profile is incomplete"), flds...)
	}
	if err := a.apply(ActionSubmit, actor, ""); err != nil {
		return err
	}
	a.initClearances()
	return nil
}

// StartReview hands the Application to the admission office.
func (a *Application) StartReview(actor string) error {
	return a.apply(ActionStartReview, actor, "")
}

// ReviewDecision records the admission office's decision. A rejection
// requires a remark.
func (a *Application) ReviewDecision(d Decision, actor string) error {
	if d.Approve {
		return a.apply(ActionApproveAdmission, actor, d.Remark)
	}
	return a.apply(ActionRejectAdmission, actor, d.Remark)
}

// AssignFeeStructure computes totals and locks the fee structure in one
// step. A locked structure can never be reassigned.
func (a *Application) AssignFeeStructure(components []FeeComponent, concession Concession, actor string) error {
	if a.Fee != nil && a.Fee.Locked {
		return &ImmutableStateError{Reason: "fee structure is locked and cannot be reassigned"}
	}
	if _, ok := Lookup(a.Status, ActionAssignFee); !ok {
		return &IllegalTransitionError{Status: a.Status, Action: ActionAssignFee}
	}

	var active int
	for _, c := range components {
		if c.IsActive {
			active++
		}
	}
	if active == 0 {
		return core.NewValidationError(nil, core.FieldError{
			Field: "components",
			Error: "at least one active fee component is required",
		})
	}

	totals, err := ComputeTotals(components, concession)
	if err != nil {
		return err
	}

	fee := &FeeStructure{
		Components: append([]FeeComponent(nil), components...),
		Concession: concession,
		Totals:     totals,
		Locked:     true,
		AssignedBy: actor,
		AssignedAt: nowFunc().UTC(),
	}
	if err := a.apply(ActionAssignFee, actor, ""); err != nil {
		return err
	}
	a.Fee = fee
	return nil
}

// PrincipalDecision records the principal's final decision. Approval
// resets every required department clearance to pending.
func (a *Application) PrincipalDecision(d Decision, actor string) error {
	if !d.Approve {
		return a.apply(ActionRejectFinal, actor, d.Remark)
	}
	if err := a.apply(ActionApproveFinal, actor, d.Remark); err != nil {
		return err
	}
	a.initClearances()
	return nil
}

// UpdateDepartmentClearance records a department's progress on an approved
// Application and re-evaluates the enrollment gate.
func (a *Application) UpdateDepartmentClearance(u ClearanceUpdate, actor string) error {
	if a.Status == StatusEnrolled {
		return &ImmutableStateError{Reason: "application is already enrolled"}
	}
	if !clearanceUpdatesAllowed(a.Status) {
		return &IllegalTransitionError{Status: a.Status, Action: ActionUpdateClearance}
	}

	if _, ok := a.Clearances[u.Department]; !ok {
		return core.NewValidationError(nil, core.FieldError{
			Field: "department",
			Error: "this department is not required for the application",
		})
	}
	if u.Status != ClearanceInProgress && u.Status != ClearanceCompleted {
		return core.NewValidationError(nil, core.FieldError{
			Field: "status",
			Error: "status must be in_progress or completed",
		})
	}
	if u.Status == ClearanceCompleted {
		if err := validateClearanceDetail(u.Department, u.Detail); err != nil {
			return err
		}
	}

	now := nowFunc().UTC()
	a.Clearances[u.Department] = Clearance{
		Status:    u.Status,
		Detail:    u.Detail,
		UpdatedBy: actor,
		UpdatedAt: now,
	}
	a.UpdatedAt = now

	_, err := a.evaluateGate(actor)
	return err
}

// Cancel closes the Application administratively; legal from any
// non-terminal status.
func (a *Application) Cancel(remark, actor string) error {
	return a.apply(ActionCancel, actor, remark)
}

// Withdraw closes the Application on the applicant's request.
func (a *Application) Withdraw(remark, actor string) error {
	return a.apply(ActionWithdraw, actor, remark)
}

// initClearances (re)creates the clearance entries required by the
// facility flags, all pending. Entries for departments that are not
// required are never stored.
func (a *Application) initClearances() {
	now := nowFunc().UTC()
	clearances := make(map[Department]Clearance)
	for _, dept := range RequiredDepartments(a.Facilities) {
		clearances[dept] = Clearance{Status: ClearancePending, UpdatedAt: now}
	}
	a.Clearances = clearances
}
