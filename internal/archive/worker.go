// Package archive mirrors stored submissions into Postgres for reporting.
package archive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/db/repository"
	"github.com/gokatarajesh/ingenieras/internal/report"
)

// Source lists every stored report.
type Source interface {
	ListAll() ([]report.Report, error)
}

// Sink persists one archived submission.
type Sink interface {
	Insert(ctx context.Context, row repository.ArchivedSubmission) (bool, error)
}

// Worker periodically copies submissions that are not yet archived. seen holds only
// filenames present in the latest listing.
type Worker struct {
	source   Source
	sink     Sink
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	seen     map[string]struct{}
}

func NewWorker(source Source, sink Sink, interval time.Duration, logger zerolog.Logger) *Worker {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Worker{
		source:   source,
		sink:     sink,
		interval: interval,
		now:      time.Now,
		logger:   logger.With().Str("component", "archive_worker").Logger(),
		seen:     make(map[string]struct{}),
	}
}

// Run blocks until context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if w.source == nil || w.sink == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	archived, err := w.sync(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("archive sync failed")
		return
	}
	if archived > 0 {
		w.logger.Info().Int("archived", archived).Msg("submissions archived")
	}
}

// sync archives unseen reports and returns how many rows were written.
func (w *Worker) sync(ctx context.Context) (int, error) {
	reports, err := w.source.ListAll()
	if err != nil {
		return 0, err
	}

	// Only remember files that still exist.
	live := make(map[string]struct{}, len(reports))
	for _, rep := range reports {
		if _, ok := w.seen[rep.Filename]; ok {
			live[rep.Filename] = struct{}{}
		}
	}
	w.seen = live

	archived := 0
	for _, rep := range reports {
		if _, ok := w.seen[rep.Filename]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return archived, err
		}

		steps, err := json.Marshal(rep.Steps)
		if err != nil {
			w.logger.Warn().Err(err).Str("filename", rep.Filename).Msg("encode steps failed")
			continue
		}
		inserted, err := w.sink.Insert(ctx, repository.ArchivedSubmission{
			Filename:    rep.Filename,
			ChallengeID: rep.ChallengeID,
			StudentName: rep.StudentName,
			Steps:       steps,
			SubmittedAt: rep.Timestamp,
			ArchivedAt:  w.now().UTC(),
		})
		if err != nil {
			return archived, err
		}
		w.seen[rep.Filename] = struct{}{}
		if inserted {
			archived++
		}
	}
	return archived, nil
}
