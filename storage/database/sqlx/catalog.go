package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core/admission"
	"github.com/shuletech/udahili/core/catalog"
)

type templateRepository struct {
	db *sqlx.DB
}

func NewFeeTemplateRepository(db *sqlx.DB) catalog.Repository {
	return &templateRepository{db: db}
}

type templateRow struct {
	ID           string          `db:"id"`
	Name         string          `db:"name"`
	ClassID      string          `db:"class_id"`
	AcademicYear string          `db:"academic_year"`
	Components   json.RawMessage `db:"components"`
	IsActive     bool            `db:"is_active"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (row templateRow) toTemplate() (catalog.FeeTemplate, error) {
	t := catalog.FeeTemplate{
		ID:           row.ID,
		Name:         row.Name,
		ClassID:      row.ClassID,
		AcademicYear: row.AcademicYear,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	if err := json.Unmarshal(row.Components, &t.Components); err != nil {
		return t, errors.Wrap(err, "unmarshalling components")
	}
	return t, nil
}

const templateColumns = `id, name, class_id, academic_year, components, is_active, created_at, updated_at`

func (repo *templateRepository) CreateFeeTemplate(ctx context.Context, t catalog.FeeTemplate) (catalog.FeeTemplate, error) {
	components, err := json.Marshal(t.Components)
	if err != nil {
		return catalog.FeeTemplate{}, errors.Wrap(err, "marshalling components")
	}
	_, err = repo.db.ExecContext(ctx, `
		INSERT INTO fee_template (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.ClassID, t.AcademicYear, components, t.IsActive, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return catalog.FeeTemplate{}, errors.Wrap(err, "inserting fee template")
	}
	return t, nil
}

func (repo *templateRepository) GetFeeTemplate(ctx context.Context, id string) (catalog.FeeTemplate, error) {
	var row templateRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+templateColumns+` FROM fee_template WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return catalog.FeeTemplate{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.FeeTemplate{}, errors.Wrap(err, "getting fee template")
	}
	return row.toTemplate()
}

func (repo *templateRepository) QueryAllFeeTemplates(ctx context.Context) ([]catalog.FeeTemplate, error) {
	var rows []templateRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT `+templateColumns+` FROM fee_template ORDER BY class_id, name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying fee templates")
	}
	return rowsToTemplates(rows)
}

func (repo *templateRepository) QueryFeeTemplatesByClass(ctx context.Context, classID string) ([]catalog.FeeTemplate, error) {
	var rows []templateRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT `+templateColumns+` FROM fee_template WHERE class_id = $1 ORDER BY name`, classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying fee templates by class")
	}
	return rowsToTemplates(rows)
}

func rowsToTemplates(rows []templateRow) ([]catalog.FeeTemplate, error) {
	templates := make([]catalog.FeeTemplate, 0, len(rows))
	for _, row := range rows {
		t, err := row.toTemplate()
		if err != nil {
			return nil, err
		}
		if t.Components == nil {
			t.Components = []admission.FeeComponent{}
		}
		templates = append(templates, t)
	}
	return templates, nil
}
