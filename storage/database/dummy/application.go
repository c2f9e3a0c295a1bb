package dummydb

import (
	"context"

	"github.com/shuletech/udahili/core/admission"
)

type applicationRepository struct {
	db *applicationTable
}

func NewApplicationRepository(db *DB) admission.Repository {
	return &applicationRepository{db: db.application}
}

func (repo *applicationRepository) query() []admission.Application {
	apps := make([]admission.Application, 0, len(repo.db.table))
	for _, app := range repo.db.table {
		apps = append(apps, app.Clone())
	}
	return apps
}

func (repo *applicationRepository) CreateApplication(_ context.Context, app admission.Application) (admission.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := app.Clone()
	repo.db.table[app.ID] = &stored
	return app, nil
}

func (repo *applicationRepository) GetApplication(_ context.Context, id string) (admission.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if app, ok := repo.db.table[id]; ok {
		return app.Clone(), nil
	}
	return admission.Application{}, admission.ErrNotFound
}

func (repo *applicationRepository) QueryAllApplications(_ context.Context) ([]admission.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *applicationRepository) FilterApplications(_ context.Context, filter admission.QueryFilter) ([]admission.Application, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var apps []admission.Application
	for _, app := range repo.query() {
		if filter.Status != "" && app.Status != filter.Status {
			continue
		}
		if filter.ClassID != "" && app.Student.ClassID != filter.ClassID {
			continue
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// SaveApplication is a compare-and-swap: it only writes when the stored
// version still equals expectedVersion.
func (repo *applicationRepository) SaveApplication(_ context.Context, app admission.Application, expectedVersion int) (admission.Application, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored, ok := repo.db.table[app.ID]
	if !ok {
		return admission.Application{}, admission.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return admission.Application{}, admission.ErrConcurrencyConflict
	}

	cp := app.Clone()
	repo.db.table[app.ID] = &cp
	return app, nil
}
