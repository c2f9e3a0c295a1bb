package admission

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core"
)

type (
	// Repository persists Applications. SaveApplication must only write when
	// the stored version still equals expectedVersion and return
	// ErrConcurrencyConflict otherwise.
	Repository interface {
		CreateApplication(ctx context.Context, app Application) (Application, error)
		GetApplication(ctx context.Context, id string) (Application, error)
		QueryAllApplications(ctx context.Context) ([]Application, error)
		// FilterApplications applies AND operation on available QueryFilter fields.
		FilterApplications(ctx context.Context, filter QueryFilter) ([]Application, error)
		SaveApplication(ctx context.Context, app Application, expectedVersion int) (Application, error)
	}

	// TemplateDirectory resolves a fee template ID to its components;
	// implemented by the catalog service.
	TemplateDirectory interface {
		TemplateComponents(ctx context.Context, templateID string) ([]FeeComponent, error)
	}

	// Service is the workflow façade: the only entry point external callers
	// use. Every command takes the Application ID, the version the caller
	// loaded, and the acting user.
	Service struct {
		repo      Repository
		templates TemplateDirectory
		notifier  core.Notifier
		logger    core.Logger
	}
)

type QueryFilter struct {
	Status  Status `query:"status"`
	ClassID string `query:"class_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Status == "" && qf.ClassID == ""
}

func NewService(repo Repository, templates TemplateDirectory, notifier core.Notifier, logger core.Logger) *Service {
	return &Service{repo: repo, templates: templates, notifier: notifier, logger: logger}
}

// Create opens a new draft Application.
func (svc *Service) Create(ctx context.Context, data NewApplicationInput) (PublicApplication, error) {
	app, err := svc.repo.CreateApplication(ctx, NewApplication(data))
	if err != nil {
		return PublicApplication{}, errors.Wrap(err, "creating application")
	}
	return app.Public(), nil
}

func (svc *Service) Get(ctx context.Context, id string) (PublicApplication, error) {
	app, err := svc.repo.GetApplication(ctx, id)
	if err != nil {
		return PublicApplication{}, err
	}
	return app.Public(), nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]PublicApplication, error) {
	apps, err := svc.repo.QueryAllApplications(ctx)
	if err != nil {
		return nil, err
	}
	return publicViews(apps), nil
}

func (svc *Service) Filter(ctx context.Context, filter QueryFilter) ([]PublicApplication, error) {
	if filter.IsEmpty() {
		return svc.QueryAll(ctx)
	}
	apps, err := svc.repo.FilterApplications(ctx, filter)
	if err != nil {
		return nil, err
	}
	return publicViews(apps), nil
}

func (svc *Service) Submit(ctx context.Context, id string, expectedVersion int, actor string) (PublicApplication, error) {
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.Submit(actor)
	})
}

func (svc *Service) StartReview(ctx context.Context, id string, expectedVersion int, actor string) (PublicApplication, error) {
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.StartReview(actor)
	})
}

func (svc *Service) ReviewDecision(ctx context.Context, id string, expectedVersion int, actor string, d Decision) (PublicApplication, error) {
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.ReviewDecision(d, actor)
	})
}

// AssignFee resolves the fee components (inline or from a catalog template)
// and locks the fee structure on the Application.
func (svc *Service) AssignFee(ctx context.Context, id string, expectedVersion int, actor string, fa FeeAssignment) (PublicApplication, error) {
	if err := fa.Validate(); err != nil {
		return PublicApplication{}, err
	}

	components := fa.Components
	if len(components) == 0 {
		if fa.TemplateID == "" {
			return PublicApplication{}, core.NewValidationError(nil, core.FieldError{
				Field: "components",
				Error: "fee components or a template_id are required",
			})
		}
		if svc.templates == nil {
			return PublicApplication{}, errors.New("no template directory configured")
		}
		var err error
		if components, err = svc.templates.TemplateComponents(ctx, fa.TemplateID); err != nil {
			return PublicApplication{}, errors.Wrapf(err, "resolving fee template %s", fa.TemplateID)
		}
	}

	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.AssignFeeStructure(components, fa.Concession, actor)
	})
}

func (svc *Service) PrincipalDecision(ctx context.Context, id string, expectedVersion int, actor string, d Decision) (PublicApplication, error) {
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.PrincipalDecision(d, actor)
	})
}

func (svc *Service) UpdateClearance(ctx context.Context, id string, expectedVersion int, actor string, u ClearanceUpdate) (PublicApplication, error) {
	if err := u.Validate(); err != nil {
		return PublicApplication{}, err
	}
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.UpdateDepartmentClearance(u, actor)
	})
}

func (svc *Service) Cancel(ctx context.Context, id string, expectedVersion int, actor, remark string) (PublicApplication, error) {
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.Cancel(remark, actor)
	})
}

func (svc *Service) Withdraw(ctx context.Context, id string, expectedVersion int, actor, remark string) (PublicApplication, error) {
	return svc.mutate(ctx, id, expectedVersion, func(app *Application) error {
		return app.Withdraw(remark, actor)
	})
}

// mutate runs one command against a freshly loaded aggregate under
// optimistic concurrency: the caller's expectedVersion must match both in
// memory and at save time (compare-and-swap in the store). A failed guard
// leaves the stored Application and its version untouched.
func (svc *Service) mutate(ctx context.Context, id string, expectedVersion int, fn func(*Application) error) (PublicApplication, error) {
	app, err := svc.repo.GetApplication(ctx, id)
	if err != nil {
		return PublicApplication{}, err
	}
	if app.Version != expectedVersion {
		return PublicApplication{}, ErrConcurrencyConflict
	}

	before := app.Status
	if err := fn(&app); err != nil {
		// immutable-state hits are caller bugs, not user input problems
		if IsImmutableState(err) && svc.logger != nil {
			svc.logger.Error("immutable state violation", err, "application", id)
		}
		return PublicApplication{}, err
	}

	app.Version++
	saved, err := svc.repo.SaveApplication(ctx, app, expectedVersion)
	if err != nil {
		return PublicApplication{}, err
	}

	if saved.Status != before {
		svc.notifyStatusChange(saved)
	}
	return saved.Public(), nil
}

// notifyStatusChange emails the guardian about decisions and enrollment.
// Delivery is best-effort and never fails the command.
func (svc *Service) notifyStatusChange(app Application) {
	if svc.notifier == nil || app.Student.GuardianEmail == "" {
		return
	}

	var subject, body string
	student := core.CleanString(app.Student.FirstName + " " + app.Student.LastName)
	switch app.Status {
	case StatusRejectedByAdmission, StatusRejectedByPrincipal:
		subject = "Admission application update"
		body = fmt.Sprintf("We are sorry to inform you that the application for %s was not successful.", student)
	case StatusApproved:
		subject = "Admission application approved"
		body = fmt.Sprintf("The application for %s has been approved. Department formalities are now in progress.", student)
	case StatusEnrolled:
		subject = "Enrollment confirmed"
		body = fmt.Sprintf("Congratulations! %s is now enrolled.", student)
	default:
		return
	}

	svc.notifier.SendNotifications(&core.Notification{
		To:      []mail.Address{{Name: app.Student.GuardianName, Address: app.Student.GuardianEmail}},
		Subject: subject,
		Body:    body,
	})
}

func publicViews(apps []Application) []PublicApplication {
	views := make([]PublicApplication, len(apps))
	for i := range apps {
		views[i] = apps[i].Public()
	}
	return views
}
