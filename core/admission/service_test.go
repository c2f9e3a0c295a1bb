package admission

import (
	"context"
	"testing"

	"github.com/shuletech/udahili/core"
	notifsvc "github.com/shuletech/udahili/services/notification"
)

// memRepo is a minimal compare-and-swap store for service tests.
type memRepo struct {
	table map[string]*Application
}

func newMemRepo() *memRepo {
	return &memRepo{table: make(map[string]*Application)}
}

func (r *memRepo) CreateApplication(_ context.Context, app Application) (Application, error) {
	stored := app.Clone()
	r.table[app.ID] = &stored
	return app, nil
}

func (r *memRepo) GetApplication(_ context.Context, id string) (Application, error) {
	if app, ok := r.table[id]; ok {
		return app.Clone(), nil
	}
	return Application{}, ErrNotFound
}

func (r *memRepo) QueryAllApplications(_ context.Context) ([]Application, error) {
	apps := make([]Application, 0, len(r.table))
	for _, app := range r.table {
		apps = append(apps, app.Clone())
	}
	return apps, nil
}

func (r *memRepo) FilterApplications(_ context.Context, filter QueryFilter) ([]Application, error) {
	var apps []Application
	for _, app := range r.table {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.ClassID != "" && app.Student.ClassID != filter.ClassID {
			continue
		}
		apps = append(apps, app.Clone())
	}
	return apps, nil
}

func (r *memRepo) SaveApplication(_ context.Context, app Application, expectedVersion int) (Application, error) {
	stored, ok := r.table[app.ID]
	if !ok {
		return Application{}, ErrNotFound
	}
	if stored.Version != expectedVersion {
		return Application{}, ErrConcurrencyConflict
	}
	cp := app.Clone()
	r.table[app.ID] = &cp
	return app, nil
}

type templateStub struct {
	components []FeeComponent
}

func (s *templateStub) TemplateComponents(context.Context, string) ([]FeeComponent, error) {
	return s.components, nil
}

func newTestService(notifier core.Notifier) (*Service, *memRepo) {
	repo := newMemRepo()
	return NewService(repo, &templateStub{components: testComponents()}, notifier, nil), repo
}

func TestServiceVersioning(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	created, err := svc.Create(ctx, NewApplicationInput{Student: testProfile()})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("Create() version = %d, want 1", created.Version)
	}

	submitted, err := svc.Submit(ctx, created.ID, 1, "registrar")
	if err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if submitted.Version != 2 {
		t.Errorf("Submit() version = %d, want 2", submitted.Version)
	}
	if submitted.Status != StatusSubmitted {
		t.Errorf("Submit() status = %s, want submitted", submitted.Status)
	}

	reviewed, err := svc.StartReview(ctx, created.ID, 2, "registrar")
	if err != nil {
		t.Fatalf("StartReview(): %v", err)
	}
	if reviewed.Version != 3 {
		t.Errorf("StartReview() version = %d, want 3", reviewed.Version)
	}
}

func TestServiceConcurrencyConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	created, err := svc.Create(ctx, NewApplicationInput{Student: testProfile()})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	// two operators loaded version 1; the first command wins
	if _, err = svc.Submit(ctx, created.ID, 1, "registrar.a"); err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	_, err = svc.Cancel(ctx, created.ID, 1, "registrar.b", "duplicate entry")
	if !IsConcurrencyConflict(err) {
		t.Fatalf("Cancel() with stale version error = %v, want ErrConcurrencyConflict", err)
	}

	// state reflects only the winning command
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if got.Status != StatusSubmitted || got.Version != 2 {
		t.Errorf("Get() = %s v%d, want submitted v2", got.Status, got.Version)
	}
}

func TestServiceFailedGuardKeepsVersion(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	profile := testProfile()
	profile.ClassID = ""
	created, err := svc.Create(ctx, NewApplicationInput{Student: profile})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}

	if _, err = svc.Submit(ctx, created.ID, 1, "registrar"); err == nil {
		t.Fatal("Submit() expected validation error")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if got.Status != StatusDraft || got.Version != 1 {
		t.Errorf("Get() = %s v%d, want draft v1", got.Status, got.Version)
	}
}

func TestServiceAssignFeeFromTemplate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	created, err := svc.Create(ctx, NewApplicationInput{Student: testProfile()})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err = svc.Submit(ctx, created.ID, 1, "registrar"); err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if _, err = svc.StartReview(ctx, created.ID, 2, "registrar"); err != nil {
		t.Fatalf("StartReview(): %v", err)
	}
	if _, err = svc.ReviewDecision(ctx, created.ID, 3, "admission.head", Decision{Approve: true}); err != nil {
		t.Fatalf("ReviewDecision(): %v", err)
	}

	got, err := svc.AssignFee(ctx, created.ID, 4, "fee.officer", FeeAssignment{
		TemplateID: "tpl-1",
		Concession: Concession{Type: ConcessionFixedAmount, Value: 5000, Reason: "staff child"},
	})
	if err != nil {
		t.Fatalf("AssignFee(): %v", err)
	}
	if got.Fee == nil || !got.Fee.Locked {
		t.Fatal("AssignFee() fee structure missing or unlocked")
	}
	want := Totals{Gross: 45000, Concession: 5000, Net: 40000}
	if got.Fee.Totals != want {
		t.Errorf("AssignFee() totals = %+v, want %+v", got.Fee.Totals, want)
	}
}

func TestServiceAssignFeeWithoutComponentsOrTemplate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	created, err := svc.Create(ctx, NewApplicationInput{Student: testProfile()})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	_, err = svc.AssignFee(ctx, created.ID, 1, "fee.officer", FeeAssignment{})
	if _, ok := err.(*core.ValidationError); !ok {
		t.Fatalf("AssignFee() error = %T, want *core.ValidationError", err)
	}
}

func TestServiceNotifications(t *testing.T) {
	ctx := context.Background()
	notifier := notifsvc.NewConsoleService()
	svc, _ := newTestService(notifier)

	created, err := svc.Create(ctx, NewApplicationInput{Student: testProfile()})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err = svc.Submit(ctx, created.ID, 1, "registrar"); err != nil {
		t.Fatalf("Submit(): %v", err)
	}
	if _, err = svc.StartReview(ctx, created.ID, 2, "registrar"); err != nil {
		t.Fatalf("StartReview(): %v", err)
	}
	if len(notifier.SentMessages()) != 0 {
		t.Fatal("intermediate transitions should not notify the guardian")
	}

	if _, err = svc.ReviewDecision(ctx, created.ID, 3, "admission.head", Decision{Approve: false, Remark: "incomplete records"}); err != nil {
		t.Fatalf("ReviewDecision(): %v", err)
	}

	sent := notifier.SentMessages()
	if len(sent) != 1 {
		t.Fatalf("rejection sent %d notifications, want 1", len(sent))
	}
	if got := sent[0].To[0].Address; got != "neema@example.com" {
		t.Errorf("notification recipient = %s, want the guardian", got)
	}
}

func TestServiceFilter(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(nil)

	first, err := svc.Create(ctx, NewApplicationInput{Student: testProfile()})
	if err != nil {
		t.Fatalf("Create(): %v", err)
	}
	if _, err = svc.Submit(ctx, first.ID, 1, "registrar"); err != nil {
		t.Fatalf("Submit(): %v", err)
	}

	other := testProfile()
	other.ClassID = "class-7"
	if _, err = svc.Create(ctx, NewApplicationInput{Student: other}); err != nil {
		t.Fatalf("Create(): %v", err)
	}

	submitted, err := svc.Filter(ctx, QueryFilter{Status: StatusSubmitted})
	if err != nil {
		t.Fatalf("Filter(): %v", err)
	}
	if len(submitted) != 1 || submitted[0].ID != first.ID {
		t.Errorf("Filter(status=submitted) = %d results, want the submitted one", len(submitted))
	}

	byClass, err := svc.Filter(ctx, QueryFilter{ClassID: "class-7"})
	if err != nil {
		t.Fatalf("Filter(): %v", err)
	}
	if len(byClass) != 1 {
		t.Errorf("Filter(class_id) = %d results, want 1", len(byClass))
	}

	all, err := svc.Filter(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Filter(): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Filter(empty) = %d results, want 2", len(all))
	}
}

func TestServiceGetUnknownID(t *testing.T) {
	svc, _ := newTestService(nil)
	_, err := svc.Get(context.Background(), "missing")
	if err != ErrNotFound {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}
