package treatments

import (
	"context"
	"database/sql"
	"errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS hospital_treatments (
	id             TEXT PRIMARY KEY,
	report_id      TEXT NOT NULL,
	animal_type    TEXT NOT NULL,
	condition      TEXT NOT NULL,
	status         TEXT NOT NULL,
	admission_date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS hospital_treatments_admission_idx
	ON hospital_treatments (admission_date DESC);
`

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// EnsureSchema creates the treatments table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *repo) Save(ctx context.Context, t *Treatment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hospital_treatments (id, report_id, animal_type, condition, status, admission_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		t.ID,
		t.ReportID,
		t.AnimalType,
		t.Condition,
		string(t.Status),
		t.AdmissionDate,
	)
	return err
}

func (r *repo) List(ctx context.Context) ([]Treatment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, report_id, animal_type, condition, status, admission_date
		FROM hospital_treatments
		ORDER BY admission_date DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Treatment{}
	for rows.Next() {
		var t Treatment
		var status string
		if err := rows.Scan(&t.ID, &t.ReportID, &t.AnimalType, &t.Condition, &status, &t.AdmissionDate); err != nil {
			return nil, err
		}
		t.Status = Status(status)
		t.AdmissionDate = t.AdmissionDate.UTC()
		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *repo) Get(ctx context.Context, id string) (*Treatment, error) {
	var t Treatment
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, report_id, animal_type, condition, status, admission_date
		FROM hospital_treatments
		WHERE id = $1
	`, id).Scan(&t.ID, &t.ReportID, &t.AnimalType, &t.Condition, &status, &t.AdmissionDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Status = Status(status)
	t.AdmissionDate = t.AdmissionDate.UTC()
	return &t, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE hospital_treatments SET status = $2 WHERE id = $1
	`, id, string(status))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
