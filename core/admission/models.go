package admission

import (
	"time"

	"github.com/google/uuid"

	"github.com/shuletech/udahili/core"
)

// Statuses an Application moves through, from intake to enrollment.
const (
	StatusDraft                  Status = "draft"
	StatusSubmitted              Status = "submitted"
	StatusPendingAdmissionReview Status = "pending_admission_review"
	StatusPendingFeeStructure    Status = "pending_fee_structure"
	StatusPendingPrincipal       Status = "pending_principal_approval"
	StatusApproved               Status = "approved"
	StatusEnrolled               Status = "enrolled"
	StatusRejectedByAdmission    Status = "rejected_by_admission"
	StatusRejectedByPrincipal    Status = "rejected_by_principal"
	StatusCancelled              Status = "cancelled"
	StatusWithdrawn              Status = "withdrawn"
)

// Operational departments that clear an approved Application.
const (
	DeptAccounts  Department = "accounts"
	DeptInventory Department = "inventory"
	DeptHostel    Department = "hostel"
	DeptTransport Department = "transport"
)

const (
	ClearancePending    ClearanceStatus = "pending"
	ClearanceInProgress ClearanceStatus = "in_progress"
	ClearanceCompleted  ClearanceStatus = "completed"
)

const (
	ConcessionNone        ConcessionType = "none"
	ConcessionPercentage  ConcessionType = "percentage"
	ConcessionFixedAmount ConcessionType = "fixed_amount"
)

type (
	Status          string
	Department      string
	ClearanceStatus string
	ConcessionType  string

	// StudentProfile is demographic data carried by an Application.
	// The workflow never branches on it beyond the submit-time completeness check.
	StudentProfile struct {
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
		Category       string `json:"category"`
		ClassID        string `json:"class_id"`
		GuardianName   string `json:"guardian_name"`
		GuardianPhone  string `json:"guardian_phone"`
		GuardianEmail  string `json:"guardian_email" validate:"omitempty,email"`
		PreviousSchool string `json:"previous_school"`
	}

	// FacilityFlags are set at intake and immutable afterwards;
	// they decide which departments must clear the Application.
	FacilityFlags struct {
		HostelNeeded bool `json:"hostel_needed"`
		BusNeeded    bool `json:"bus_needed"`
	}

	FeeComponent struct {
		Name       string `json:"name" validate:"required"`
		Type       string `json:"type"`      // tuition | admission | transport | hostel | misc
		Frequency  string `json:"frequency"` // one_time | monthly | quarterly | annual
		Amount     int64  `json:"amount"`    // minor currency units
		IsActive   bool   `json:"is_active"`
		IsOptional bool   `json:"is_optional"`
	}

	Concession struct {
		Type   ConcessionType `json:"type"`
		Value  float64        `json:"value"`
		Reason string         `json:"reason"`
	}

	Totals struct {
		Gross      int64 `json:"gross"`
		Concession int64 `json:"concession"`
		Net        int64 `json:"net"`
	}

	// FeeStructure is immutable once Locked; a fresh structure may only be
	// assigned while the Application is pending_fee_structure.
	FeeStructure struct {
		Components []FeeComponent `json:"components"`
		Concession Concession     `json:"concession"`
		Totals     Totals         `json:"totals"`
		Locked     bool           `json:"locked"`
		AssignedBy string         `json:"assigned_by"`
		AssignedAt time.Time      `json:"assigned_at"` // UTC
	}

	Clearance struct {
		Status    ClearanceStatus   `json:"status"`
		Detail    map[string]string `json:"detail,omitempty"`
		UpdatedBy string            `json:"updated_by,omitempty"`
		UpdatedAt time.Time         `json:"updated_at"` // UTC
	}

	AuditEntry struct {
		FromStatus Status    `json:"from_status"`
		ToStatus   Status    `json:"to_status"`
		Action     Action    `json:"action"`
		Actor      string    `json:"actor"`
		Remark     string    `json:"remark,omitempty"`
		Timestamp  time.Time `json:"timestamp"` // UTC
	}

	// Application is the aggregate root. All mutations go through the
	// command methods in aggregate.go; Version is bumped by the Service
	// on every accepted command.
	Application struct {
		ID         string                   `json:"id"`
		Status     Status                   `json:"status"`
		Version    int                      `json:"version"`
		Student    StudentProfile           `json:"student"`
		Facilities FacilityFlags            `json:"facilities"`
		Fee        *FeeStructure            `json:"fee_structure,omitempty"`
		Clearances map[Department]Clearance `json:"department_clearances"`
		Audit      []AuditEntry             `json:"audit_trail"`
		CreatedAt  time.Time                `json:"created_at"` // UTC
		UpdatedAt  time.Time                `json:"updated_at"` // UTC
	}

	// PublicApplication is the read-only projection returned to callers.
	PublicApplication struct {
		ID         string                   `json:"id"`
		Status     Status                   `json:"status"`
		Version    int                      `json:"version"`
		Student    StudentProfile           `json:"student"`
		Facilities FacilityFlags            `json:"facilities"`
		Fee        *FeeStructure            `json:"fee_structure,omitempty"`
		Clearances map[Department]Clearance `json:"department_clearances"`
		Audit      []AuditEntry             `json:"audit_trail"`
		Actions    []Action                 `json:"available_actions"`
	}
)

var nowFunc = time.Now // mockable

// NewApplication creates a draft Application from intake data.
func NewApplication(data NewApplicationInput) Application {
	now := nowFunc().UTC()
	return Application{
		ID:         uuid.New().String(),
		Status:     StatusDraft,
		Version:    1,
		Student:    data.Student,
		Facilities: data.Facilities,
		Clearances: make(map[Department]Clearance),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (a *Application) IsTerminal() bool {
	return IsTerminal(a.Status)
}

// Clone returns a deep copy; repositories hand out clones so callers can
// never mutate stored state without going through a save.
func (a Application) Clone() Application {
	cp := a
	cp.Clearances = make(map[Department]Clearance, len(a.Clearances))
	for dept, c := range a.Clearances {
		if c.Detail != nil {
			detail := make(map[string]string, len(c.Detail))
			for k, v := range c.Detail {
				detail[k] = v
			}
			c.Detail = detail
		}
		cp.Clearances[dept] = c
	}
	cp.Audit = append([]AuditEntry(nil), a.Audit...)
	if a.Fee != nil {
		fee := *a.Fee
		fee.Components = append([]FeeComponent(nil), a.Fee.Components...)
		cp.Fee = &fee
	}
	return cp
}

// Public returns the caller-facing projection of the Application.
func (a *Application) Public() PublicApplication {
	clearances := make(map[Department]Clearance, len(a.Clearances))
	for dept, c := range a.Clearances {
		clearances[dept] = c
	}
	audit := make([]AuditEntry, len(a.Audit))
	copy(audit, a.Audit)

	var fee *FeeStructure
	if a.Fee != nil {
		f := *a.Fee
		f.Components = append([]FeeComponent(nil), a.Fee.Components...)
		fee = &f
	}

	return PublicApplication{
		ID:         a.ID,
		Status:     a.Status,
		Version:    a.Version,
		Student:    a.Student,
		Facilities: a.Facilities,
		Fee:        fee,
		Clearances: clearances,
		Audit:      audit,
		Actions:    AvailableActions(a.Status),
	}
}

// mandatory profile fields checked by the submit guard
func (p StudentProfile) missingFields() []core.FieldError {
	var flds []core.FieldError
	required := []struct{ field, value string }{
		{"first_name", p.FirstName},
		{"last_name", p.LastName},
		{"date_of_birth", p.DateOfBirth},
		{"class_id", p.ClassID},
		{"guardian_name", p.GuardianName},
		{"guardian_phone", p.GuardianPhone},
	}
	for _, r := range required {
		if core.CleanString(r.value) == "" {
			flds = append(flds, core.FieldError{Field: r.field, Error: "this field is required"})
		}
	}
	return flds
}

// NewApplicationInput contains information needed to open a draft Application.
type NewApplicationInput struct {
	Student    StudentProfile `json:"student"`
	Facilities FacilityFlags  `json:"facilities"`
}

func (in *NewApplicationInput) Validate() error {
	in.Student.FirstName = core.CleanString(in.Student.FirstName)
	in.Student.LastName = core.CleanString(in.Student.LastName)
	in.Student.GuardianEmail = core.CleanString(in.Student.GuardianEmail, true /* lower */)
	return core.Validate.Struct(in)
}

// Decision is the payload of the admission-review and principal commands.
type Decision struct {
	Approve bool   `json:"approve"`
	Remark  string `json:"remark"`
}

// FeeAssignment is the payload of the assign-fee command. Components may
// come inline or be resolved from a catalog template by ID.
type FeeAssignment struct {
	TemplateID string         `json:"template_id"`
	Components []FeeComponent `json:"components" validate:"omitempty,dive"`
	Concession Concession     `json:"concession"`
}

func (fa *FeeAssignment) Validate() error {
	fa.TemplateID = core.CleanString(fa.TemplateID)
	fa.Concession.Reason = core.CleanString(fa.Concession.Reason)
	if fa.Concession.Type == "" {
		fa.Concession.Type = ConcessionNone
	}
	return core.Validate.Struct(fa)
}

// ClearanceUpdate is the payload of the department clearance command.
type ClearanceUpdate struct {
	Department Department        `json:"department" validate:"required"`
	Status     ClearanceStatus   `json:"status" validate:"required"`
	Detail     map[string]string `json:"detail"`
}

func (cu *ClearanceUpdate) Validate() error {
	return core.Validate.Struct(cu)
}
