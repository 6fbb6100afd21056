package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/metrics"
)

// Publisher announces newly stored reports (implemented by the live feed).
type Publisher interface {
	Publish(ctx context.Context, rep Report) error
}

// ServiceOptions configures optional collaborators of the report service.
type ServiceOptions struct {
	Publisher Publisher
	Metrics   *metrics.Collector
}

// Service stores student submissions and answers report queries.
type Service struct {
	store     *Store
	query     *Query
	publisher Publisher
	metrics   *metrics.Collector
	logger    zerolog.Logger
}

// NewService constructs a report service.
func NewService(store *Store, query *Query, logger zerolog.Logger, opts ServiceOptions) *Service {
	return &Service{
		store:     store,
		query:     query,
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    logger.With().Str("component", "report").Logger(),
	}
}

// Submit persists one submission. Step text is stored as posted; renderers escape it.
// Feed delivery is best-effort.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Report, error) {
	challengeID := strings.TrimSpace(req.ChallengeID)
	if err := ValidateChallengeID(challengeID); err != nil {
		return Report{}, err
	}

	rep, err := s.store.Append(Submission{
		ChallengeID: challengeID,
		StudentName: strings.TrimSpace(req.StudentName),
		Steps:       req.Steps,
	})
	if err != nil {
		return Report{}, fmt.Errorf("append submission: %w", err)
	}
	s.metrics.SubmissionStored()
	s.logger.Info().
		Str("challenge_id", rep.ChallengeID).
		Str("filename", rep.Filename).
		Int("steps", len(rep.Steps)).
		Msg("submission stored")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, rep); err != nil {
			s.logger.Warn().Err(err).Str("filename", rep.Filename).Msg("report feed publish failed")
		}
	}
	return rep, nil
}

// All returns every stored report, newest first.
func (s *Service) All(ctx context.Context) ([]Report, error) {
	return s.query.ListAll()
}

// History returns the reports of students whose name contains name.
func (s *Service) History(ctx context.Context, name string) ([]Report, error) {
	return s.query.FindByStudent(name)
}

// Delete removes one report by filename.
func (s *Service) Delete(ctx context.Context, filename string) error {
	if err := s.query.DeleteByFilename(filename); err != nil {
		return err
	}
	s.metrics.ReportDeleted()
	s.logger.Info().Str("filename", filename).Msg("report deleted")
	return nil
}
