package dummydb

import (
	"context"

	"github.com/shuletech/udahili/core/catalog"
)

type templateRepository struct {
	db *templateTable
}

func NewFeeTemplateRepository(db *DB) catalog.Repository {
	return &templateRepository{db: db.template}
}

func (repo *templateRepository) CreateFeeTemplate(_ context.Context, t catalog.FeeTemplate) (catalog.FeeTemplate, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[t.ID] = &t
	return t, nil
}

func (repo *templateRepository) GetFeeTemplate(_ context.Context, id string) (catalog.FeeTemplate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.table[id]; ok {
		return *t, nil
	}
	return catalog.FeeTemplate{}, catalog.ErrNotFound
}

func (repo *templateRepository) QueryAllFeeTemplates(_ context.Context) ([]catalog.FeeTemplate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	templates := make([]catalog.FeeTemplate, 0, len(repo.db.table))
	for _, t := range repo.db.table {
		templates = append(templates, *t)
	}
	return templates, nil
}

func (repo *templateRepository) QueryFeeTemplatesByClass(_ context.Context, classID string) ([]catalog.FeeTemplate, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var templates []catalog.FeeTemplate
	for _, t := range repo.db.table {
		if t.ClassID == classID {
			templates = append(templates, *t)
		}
	}
	return templates, nil
}
