package reports

import (
	"context"
	"database/sql"
	"errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS animal_condition_reports (
	id                    TEXT PRIMARY KEY,
	user_id               TEXT NOT NULL,
	user_contact          TEXT NOT NULL,
	animal_type           TEXT NOT NULL,
	condition_report      TEXT NOT NULL,
	location_details      TEXT NOT NULL,
	image_url             TEXT NOT NULL DEFAULT '',
	image_hint            TEXT NOT NULL DEFAULT '',
	report_date           TIMESTAMPTZ NOT NULL,
	status                TEXT NOT NULL,
	needs_human_attention BOOLEAN NOT NULL,
	reason                TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS animal_condition_reports_date_idx
	ON animal_condition_reports (report_date DESC);
CREATE INDEX IF NOT EXISTS animal_condition_reports_user_idx
	ON animal_condition_reports (user_id, report_date DESC);
`

const selectColumns = `
	SELECT id, user_id, user_contact, animal_type, condition_report, location_details,
	       image_url, image_hint, report_date, status, needs_human_attention, reason
	FROM animal_condition_reports
`

type repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) Repo {
	return &repo{db: db}
}

// EnsureSchema creates the reports table if it does not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (r *repo) Save(ctx context.Context, rep *Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animal_condition_reports (
			id, user_id, user_contact, animal_type, condition_report, location_details,
			image_url, image_hint, report_date, status, needs_human_attention, reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		rep.ID,
		rep.UserID,
		rep.UserContact,
		rep.AnimalType,
		rep.ConditionReport,
		rep.LocationDetails,
		rep.ImageURL,
		rep.ImageHint,
		rep.ReportDate,
		string(rep.Status),
		rep.NeedsHumanAttention,
		rep.Reason,
	)
	return err
}

func (r *repo) List(ctx context.Context) ([]Report, error) {
	return r.query(ctx, selectColumns+` ORDER BY report_date DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	return r.query(ctx, selectColumns+` WHERE user_id = $1 ORDER BY report_date DESC`, userID)
}

func (r *repo) Get(ctx context.Context, id string) (*Report, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id string, status Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animal_condition_reports SET status = $2 WHERE id = $1
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

func (r *repo) query(ctx context.Context, q string, args ...any) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}

	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(s scanner) (Report, error) {
	var rep Report
	var status string
	err := s.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.UserContact,
		&rep.AnimalType,
		&rep.ConditionReport,
		&rep.LocationDetails,
		&rep.ImageURL,
		&rep.ImageHint,
		&rep.ReportDate,
		&status,
		&rep.NeedsHumanAttention,
		&rep.Reason,
	)
	rep.Status = Status(status)
	rep.ReportDate = rep.ReportDate.UTC()
	return rep, err
}
