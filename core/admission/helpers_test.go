package admission

import "testing"

func testProfile() StudentProfile {
	return StudentProfile{
		FirstName:     "Amani",
		LastName:      "Mwangi",
		DateOfBirth:   "2014-03-12",
		Category:      "general",
		ClassID:       "class-4",
		GuardianName:  "Neema Mwangi",
		GuardianPhone: "+255700000001",
		GuardianEmail: "neema@example.com",
	}
}

func testComponents() []FeeComponent {
	return []FeeComponent{
		{Name: "Tuition", Type: "tuition", Frequency: "annual", Amount: 40000, IsActive: true},
		{Name: "Admission Fee", Type: "admission", Frequency: "one_time", Amount: 5000, IsActive: true},
		{Name: "Transport", Type: "transport", Frequency: "monthly", Amount: 1500, IsActive: false, IsOptional: true},
	}
}

// newTestApplication drives a fresh draft forward through the workflow
// until it reaches the wanted status.
func newTestApplication(t *testing.T, flags FacilityFlags, upTo Status) *Application {
	t.Helper()

	app := NewApplication(NewApplicationInput{Student: testProfile(), Facilities: flags})
	steps := []struct {
		status Status
		step   func() error
	}{
		{StatusSubmitted, func() error { return app.Submit("registrar") }},
		{StatusPendingAdmissionReview, func() error { return app.StartReview("registrar") }},
		{StatusPendingFeeStructure, func() error { return app.ReviewDecision(Decision{Approve: true}, "admission.head") }},
		{StatusPendingPrincipal, func() error {
			return app.AssignFeeStructure(testComponents(), Concession{Type: ConcessionPercentage, Value: 10, Reason: "sibling"}, "fee.officer")
		}},
		{StatusApproved, func() error { return app.PrincipalDecision(Decision{Approve: true}, "principal") }},
	}
	for _, s := range steps {
		if app.Status == upTo {
			return &app
		}
		if err := s.step(); err != nil {
			t.Fatalf("advancing to %s: %v", s.status, err)
		}
	}
	if app.Status != upTo {
		t.Fatalf("could not drive application to %s, stuck at %s", upTo, app.Status)
	}
	return &app
}

// completeClearances marks every required department completed, supplying
// the detail keys hostel and transport demand.
func completeClearances(t *testing.T, app *Application) {
	t.Helper()

	details := map[Department]map[string]string{
		DeptHostel:    {"room": "B-12"},
		DeptTransport: {"route": "R3", "stop": "Market"},
	}
	for _, dept := range RequiredDepartments(app.Facilities) {
		u := ClearanceUpdate{Department: dept, Status: ClearanceCompleted, Detail: details[dept]}
		if err := app.UpdateDepartmentClearance(u, string(dept)+".officer"); err != nil {
			t.Fatalf("completing %s clearance: %v", dept, err)
		}
	}
}
