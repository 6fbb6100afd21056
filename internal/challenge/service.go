package challenge

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/ingenieras/internal/fsstore"
	"github.com/gokatarajesh/ingenieras/internal/metrics"
)

// ServiceOptions configures the challenge service.
type ServiceOptions struct {
	Metrics *metrics.Collector
	Now     func() time.Time
}

// Service coordinates the metadata document and the per-challenge directories.
type Service struct {
	meta    *MetadataStore
	repo    *Repository
	metrics *metrics.Collector
	now     func() time.Time
	logger  zerolog.Logger
}

// NewService constructs a challenge service.
func NewService(meta *MetadataStore, repo *Repository, logger zerolog.Logger, opts ServiceOptions) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		meta:    meta,
		repo:    repo,
		metrics: opts.Metrics,
		now:     now,
		logger:  logger.With().Str("component", "challenge").Logger(),
	}
}

// List returns every known challenge in metadata order.
func (s *Service) List(ctx context.Context) ([]Challenge, error) {
	return s.meta.Load()
}

// Publish writes the challenge document and creates or refreshes its metadata row.
func (s *Service) Publish(ctx context.Context, req PublishRequest) (Challenge, error) {
	if err := fsstore.ValidateName(req.ID); err != nil {
		return Challenge{}, err
	}

	path, err := s.repo.Publish(req.ID, req.HTML)
	if err != nil {
		return Challenge{}, fmt.Errorf("publish %s: %w", req.ID, err)
	}

	record := Challenge{
		ID:    req.ID,
		Title: req.Title,
		Desc:  req.Desc,
		Date:  s.now().Format(DateLayout),
		Path:  path,
	}
	created, err := s.meta.Upsert(record)
	if err != nil {
		return Challenge{}, fmt.Errorf("update metadata for %s: %w", req.ID, err)
	}

	s.metrics.ChallengePublished()
	s.logger.Info().Str("challenge_id", req.ID).Bool("created", created).Msg("challenge published")
	return record, nil
}

// Document returns the HTML stored for id.
func (s *Service) Document(ctx context.Context, id string) ([]byte, error) {
	return s.repo.Fetch(id)
}

// Delete removes the metadata row, then the directory. Once the metadata row is gone the
// delete counts as done: a failure to remove the directory is only logged.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := fsstore.ValidateName(id); err != nil {
		return err
	}
	if err := s.meta.Remove(id); err != nil {
		return err
	}
	s.metrics.ChallengeDeleted()

	if err := s.repo.Delete(id); err != nil {
		s.logger.Warn().Err(err).Str("challenge_id", id).Msg("challenge directory left behind after metadata delete")
		return nil
	}
	s.logger.Info().Str("challenge_id", id).Msg("challenge deleted")
	return nil
}
