package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuletech/udahili/core/admission"
)

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) admission.Repository {
	return &applicationRepository{db: db}
}

type applicationRow struct {
	ID         string          `db:"id"`
	Status     string          `db:"status"`
	Version    int             `db:"version"`
	Student    json.RawMessage `db:"student"`
	Facilities json.RawMessage `db:"facilities"`
	Fee        json.RawMessage `db:"fee_structure"`
	Clearances json.RawMessage `db:"clearances"`
	Audit      json.RawMessage `db:"audit_trail"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func newApplicationRow(app admission.Application) (applicationRow, error) {
	row := applicationRow{
		ID:        app.ID,
		Status:    string(app.Status),
		Version:   app.Version,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.UpdatedAt,
	}

	var err error
	if row.Student, err = json.Marshal(app.Student); err != nil {
		return row, errors.Wrap(err, "marshalling student")
	}
	if row.Facilities, err = json.Marshal(app.Facilities); err != nil {
		return row, errors.Wrap(err, "marshalling facilities")
	}
	if app.Fee != nil {
		if row.Fee, err = json.Marshal(app.Fee); err != nil {
			return row, errors.Wrap(err, "marshalling fee structure")
		}
	}
	if row.Clearances, err = json.Marshal(app.Clearances); err != nil {
		return row, errors.Wrap(err, "marshalling clearances")
	}
	if row.Audit, err = json.Marshal(app.Audit); err != nil {
		return row, errors.Wrap(err, "marshalling audit trail")
	}
	return row, nil
}

func (row applicationRow) toApplication() (admission.Application, error) {
	app := admission.Application{
		ID:        row.ID,
		Status:    admission.Status(row.Status),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	if err := json.Unmarshal(row.Student, &app.Student); err != nil {
		return app, errors.Wrap(err, "unmarshalling student")
	}
	if err := json.Unmarshal(row.Facilities, &app.Facilities); err != nil {
		return app, errors.Wrap(err, "unmarshalling facilities")
	}
	if len(row.Fee) > 0 {
		app.Fee = new(admission.FeeStructure)
		if err := json.Unmarshal(row.Fee, app.Fee); err != nil {
			return app, errors.Wrap(err, "unmarshalling fee structure")
		}
	}
	if err := json.Unmarshal(row.Clearances, &app.Clearances); err != nil {
		return app, errors.Wrap(err, "unmarshalling clearances")
	}
	if err := json.Unmarshal(row.Audit, &app.Audit); err != nil {
		return app, errors.Wrap(err, "unmarshalling audit trail")
	}
	if app.Clearances == nil {
		app.Clearances = make(map[admission.Department]admission.Clearance)
	}
	return app, nil
}

const applicationColumns = `id, status, version, student, facilities, fee_structure, clearances, audit_trail, created_at, updated_at`

func (repo *applicationRepository) CreateApplication(ctx context.Context, app admission.Application) (admission.Application, error) {
	row, err := newApplicationRow(app)
	if err != nil {
		return admission.Application{}, err
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO application (`+applicationColumns+`)
		VALUES (:id, :status, :version, :student, :facilities, :fee_structure, :clearances, :audit_trail, :created_at, :updated_at)`,
		row,
	)
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "inserting application")
	}
	return app, nil
}

func (repo *applicationRepository) GetApplication(ctx context.Context, id string) (admission.Application, error) {
	var row applicationRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+applicationColumns+` FROM application WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return admission.Application{}, admission.ErrNotFound
	}
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "getting application")
	}
	return row.toApplication()
}

func (repo *applicationRepository) QueryAllApplications(ctx context.Context) ([]admission.Application, error) {
	var rows []applicationRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT `+applicationColumns+` FROM application ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "querying applications")
	}
	return rowsToApplications(rows)
}

func (repo *applicationRepository) FilterApplications(ctx context.Context, filter admission.QueryFilter) ([]admission.Application, error) {
	var rows []applicationRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT `+applicationColumns+` FROM application
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR student->>'class_id' = $2)
		ORDER BY created_at`,
		string(filter.Status), filter.ClassID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "filtering applications")
	}
	return rowsToApplications(rows)
}

// SaveApplication performs a conditional write keyed by (id, version):
// the UPDATE matches zero rows when another command won the race.
func (repo *applicationRepository) SaveApplication(ctx context.Context, app admission.Application, expectedVersion int) (admission.Application, error) {
	row, err := newApplicationRow(app)
	if err != nil {
		return admission.Application{}, err
	}

	res, err := repo.db.ExecContext(ctx, `
		UPDATE application
		SET status = $1, version = $2, student = $3, facilities = $4,
		    fee_structure = $5, clearances = $6, audit_trail = $7, updated_at = $8
		WHERE id = $9 AND version = $10`,
		row.Status, row.Version, row.Student, row.Facilities,
		row.Fee, row.Clearances, row.Audit, row.UpdatedAt,
		row.ID, expectedVersion,
	)
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "saving application")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return admission.Application{}, errors.Wrap(err, "saving application")
	}
	if n == 0 {
		var exists bool
		if err := repo.db.GetContext(ctx, &exists, `SELECT true FROM application WHERE id = $1`, app.ID); err != nil {
			if err == sql.ErrNoRows {
				return admission.Application{}, admission.ErrNotFound
			}
			return admission.Application{}, errors.Wrap(err, "saving application")
		}
		return admission.Application{}, admission.ErrConcurrencyConflict
	}
	return app, nil
}

func rowsToApplications(rows []applicationRow) ([]admission.Application, error) {
	apps := make([]admission.Application, 0, len(rows))
	for _, row := range rows {
		app, err := row.toApplication()
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, nil
}
