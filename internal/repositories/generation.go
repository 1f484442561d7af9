package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/myrjola/avalanchemystery/internal/casegen"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/myrjola/avalanchemystery/internal/models"
	"github.com/myrjola/avalanchemystery/internal/sqlite"
)

const defaultListLimit = 50

// GenerationRepository keeps the audit trail of case generation attempts.
type GenerationRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewGenerationRepository(db *sqlite.Database, logger *slog.Logger) *GenerationRepository {
	return &GenerationRepository{
		db:     db,
		logger: logger.With("source", "GenerationRepository"),
	}
}

type auditRow struct {
	ID         int64  `db:"id"`
	Theme      string `db:"theme"`
	Difficulty string `db:"difficulty"`
	Attempt    int    `db:"attempt"`
	Prompt     string `db:"prompt"`
	Raw        string `db:"raw"`
	Accepted   bool   `db:"accepted"`
	Reason     string `db:"reason"`
	CaseID     string `db:"case_id"`
	Created    string `db:"created"`
}

// RecordAttempt stores an attempt. It implements casegen.Recorder.
func (r *GenerationRepository) RecordAttempt(ctx context.Context, a casegen.Attempt) error {
	row := auditRow{
		ID:         0,
		Theme:      a.Theme,
		Difficulty: string(a.Difficulty),
		Attempt:    a.Number,
		Prompt:     a.Prompt,
		Raw:        a.Raw,
		Accepted:   a.Accepted,
		Reason:     a.Reason,
		CaseID:     a.CaseID,
		Created:    a.At.UTC().Format(time.RFC3339Nano),
	}
	stmt := `INSERT INTO generation_audit (theme, difficulty, attempt, prompt, raw, accepted, reason, case_id, created)
VALUES (:theme, :difficulty, :attempt, :prompt, :raw, :accepted, :reason, :case_id, :created)`
	if _, err := r.db.ReadWrite.NamedExecContext(ctx, stmt, row); err != nil {
		return errors.Wrap(err, "insert generation audit", slog.String("theme", a.Theme), slog.Int("attempt", a.Number))
	}
	return nil
}

// List returns the most recent attempts first. A non-positive limit uses a default page size.
func (r *GenerationRepository) List(ctx context.Context, limit int) ([]models.GenerationAudit, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var rows []auditRow
	stmt := `SELECT id, theme, difficulty, attempt, prompt, raw, accepted, reason, case_id, created
FROM generation_audit
ORDER BY created DESC, id DESC
LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select generation audit")
	}

	audits := make([]models.GenerationAudit, 0, len(rows))
	for _, row := range rows {
		created, err := time.Parse(time.RFC3339Nano, row.Created)
		if err != nil {
			return nil, errors.Wrap(err, "parse created", slog.Int64("id", row.ID))
		}
		audits = append(audits, models.GenerationAudit{
			ID:         row.ID,
			Theme:      row.Theme,
			Difficulty: models.Difficulty(row.Difficulty),
			Attempt:    row.Attempt,
			Prompt:     row.Prompt,
			Raw:        row.Raw,
			Accepted:   row.Accepted,
			Reason:     row.Reason,
			CaseID:     row.CaseID,
			Created:    created,
		})
	}
	return audits, nil
}
