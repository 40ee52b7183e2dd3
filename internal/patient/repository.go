package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/platform/internal/rounds"
	"github.com/wardwatch/platform/internal/shared/errors"
	"github.com/wardwatch/platform/internal/shared/types"
)

// Repository provides database operations for patient records
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new patient repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreatePatient creates a new patient record
func (r *Repository) CreatePatient(ctx context.Context, p *Patient) error {
	checkIns, err := marshalCheckIns(p.CheckIns)
	if err != nil {
		return errors.Wrap(err, "failed to encode check-ins")
	}

	query := `
		INSERT INTO patients (id, name, location, check_in_interval, check_ins)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.pool.Exec(ctx, query, p.ID, p.Name, p.Location, p.CheckInInterval, checkIns)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("patient with this id already exists")
		}
		return errors.Wrap(err, "failed to create patient")
	}

	return nil
}

// GetPatient retrieves a patient by ID
func (r *Repository) GetPatient(ctx context.Context, id types.ID) (*Patient, error) {
	query := `
		SELECT id, name, location, check_in_interval, check_ins, created_at, updated_at
		FROM patients
		WHERE id = $1`

	p, err := scanPatient(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get patient")
	}

	return p, nil
}

// UpdatePatient updates a patient's descriptive fields. Check-in history
// changes go through AppendCheckIn only.
func (r *Repository) UpdatePatient(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients SET
			name = $2, location = $3, check_in_interval = $4, updated_at = NOW()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.Location, p.CheckInInterval)
	if err != nil {
		return errors.Wrap(err, "failed to update patient")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("patient", p.ID.String())
	}

	return nil
}

// DeletePatient deletes a patient record
func (r *Repository) DeletePatient(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete patient")
	}

	if result.RowsAffected() == 0 {
		return errors.NotFound("patient", id.String())
	}

	return nil
}

// AppendCheckIn appends one check-in to a patient's history. The stored
// payload may still be in the keyed-object shape from older store
// exports; decoding through rounds.CheckInSet converges it to an array
// on the first append.
func (r *Repository) AppendCheckIn(ctx context.Context, id types.ID, entry rounds.CheckIn) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT check_ins FROM patients WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
	if err == pgx.ErrNoRows {
		return errors.NotFound("patient", id.String())
	}
	if err != nil {
		return errors.Wrap(err, "failed to read check-ins")
	}

	var set rounds.CheckInSet
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &set); err != nil {
			return errors.Wrap(err, "failed to decode check-ins")
		}
	}
	set = append(set, entry)

	updated, err := marshalCheckIns(set)
	if err != nil {
		return errors.Wrap(err, "failed to encode check-ins")
	}

	if _, err := tx.Exec(ctx, `UPDATE patients SET check_ins = $2, updated_at = NOW() WHERE id = $1`, id, updated); err != nil {
		return errors.Wrap(err, "failed to append check-in")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

// ListPatients lists patients with optional filters
func (r *Repository) ListPatients(ctx context.Context, filter ListPatientsFilter) ([]Patient, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR location ILIKE $%d)", argNum, argNum))
		args = append(args, "%"+filter.Search+"%")
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM patients %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count patients")
	}

	limit := 50
	if filter.Limit > 0 && filter.Limit <= 500 {
		limit = filter.Limit
	}

	query := fmt.Sprintf(`
		SELECT id, name, location, check_in_interval, check_ins, created_at, updated_at
		FROM patients
		%s
		ORDER BY name, id
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list patients")
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan patient")
		}
		patients = append(patients, *p)
	}

	return patients, total, nil
}

// pageSize is the batch size for full-table walks.
const pageSize = 500

// listAll drains a paged fetch into one slice. The dashboard views and
// the export operate on the whole ward, not a page of it.
func listAll(fetch func(limit, offset int) ([]Patient, error)) ([]Patient, error) {
	var all []Patient
	for offset := 0; ; offset += pageSize {
		batch, err := fetch(pageSize, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}

// ListAllPatients returns every patient, paging through the table.
func (r *Repository) ListAllPatients(ctx context.Context) ([]Patient, error) {
	return listAll(func(limit, offset int) ([]Patient, error) {
		batch, _, err := r.ListPatients(ctx, ListPatientsFilter{Limit: limit, Offset: offset})
		return batch, err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	p := &Patient{}
	var raw []byte

	err := row.Scan(&p.ID, &p.Name, &p.Location, &p.CheckInInterval, &raw, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p.CheckIns); err != nil {
			return nil, fmt.Errorf("failed to decode check-ins: %w", err)
		}
	}

	return p, nil
}

func marshalCheckIns(set rounds.CheckInSet) ([]byte, error) {
	if set == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(set)
}
