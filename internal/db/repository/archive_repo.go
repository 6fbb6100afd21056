package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const insertArchivedSubmission = `
INSERT INTO submission_archive (filename, challenge_id, student_name, steps, submitted_at, archived_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (filename) DO NOTHING`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ArchivedSubmission is one row of submission_archive.
type ArchivedSubmission struct {
	Filename    string
	ChallengeID string
	StudentName string
	Steps       []byte
	SubmittedAt string
	ArchivedAt  time.Time
}

// ArchiveRepository mirrors stored submissions into Postgres.
type ArchiveRepository struct {
	db execer
}

// NewArchiveRepository constructs a new archive repository. *pgxpool.Pool satisfies execer.
func NewArchiveRepository(db execer) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// Insert stores row unless its filename is already archived. It reports whether a row was written.
func (r *ArchiveRepository) Insert(ctx context.Context, row ArchivedSubmission) (bool, error) {
	tag, err := r.db.Exec(ctx, insertArchivedSubmission,
		row.Filename, row.ChallengeID, row.StudentName, row.Steps, row.SubmittedAt, row.ArchivedAt)
	if err != nil {
		return false, fmt.Errorf("archive %s: %w", row.Filename, err)
	}
	return tag.RowsAffected() > 0, nil
}
