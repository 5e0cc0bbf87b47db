// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lexigo/tilescore/internal/adapters/repository"
	"github.com/lexigo/tilescore/internal/domain/model"
	"github.com/lexigo/tilescore/internal/domain/rules"
	"github.com/lexigo/tilescore/internal/domain/scoring"
	"github.com/lexigo/tilescore/internal/domain/session"
	"github.com/lexigo/tilescore/internal/domain/types"
	"github.com/lexigo/tilescore/pkg/logger"
	"github.com/lexigo/tilescore/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultTopN     = 10
	defaultMaxLimit = 100
)

// Service implements score computation, persistence, ranking, and
// session issuance for the word-scoring API.
type Service struct {
	mu sync.RWMutex

	// Core components
	table  *rules.Table
	scorer scoring.Scorer
	store  repository.Store
	issuer session.Issuer

	// Configuration
	maxWordLength    int
	lenient          bool
	defaultTopN      int
	maxTopLimit      int
	sessionCapacity  int
	snapshotInterval time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a score store, replacing the default in-memory one.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRulesTable replaces the default rule table.
func WithRulesTable(t *rules.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithMaxWordLength sets the maximum accepted word length.
func WithMaxWordLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxWordLength = n
		}
	}
}

// WithLenientScoring selects the lenient validation policy: empty input
// scores 0 and non-alphabet characters are skipped.
func WithLenientScoring(lenient bool) Option {
	return func(s *Service) {
		s.lenient = lenient
	}
}

// WithDefaultTopN sets the leaderboard size used when the caller does
// not specify a limit.
func WithDefaultTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultTopN = n
		}
	}
}

// WithMaxTopLimit caps the leaderboard limit a caller may request.
func WithMaxTopLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopLimit = n
		}
	}
}

// WithSnapshotInterval sets how often the default in-memory store
// publishes its leaderboard snapshot. Ignored when a store is injected
// via WithStore.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithSessionCapacity bounds the number of retained sessions.
func WithSessionCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sessionCapacity = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxWordLength: 10,
		defaultTopN:   defaultTopN,
		maxTopLimit:   defaultMaxLimit,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.table == nil {
		t, err := rules.New()
		if err != nil {
			return err
		}
		s.table = t
	}

	scorerOpts := []scoring.Option{scoring.WithMaxLength(s.maxWordLength)}
	if s.lenient {
		scorerOpts = append(scorerOpts, scoring.WithLenientValidation())
	}
	s.scorer = scoring.NewTableScorer(s.table, scorerOpts...)

	if s.store == nil {
		storeOpts := []repository.Option{}
		if s.snapshotInterval > 0 {
			storeOpts = append(storeOpts, repository.WithSnapshotInterval(s.snapshotInterval))
		}
		s.store = repository.NewTreapStore(ctx, storeOpts...)
		s.logger.Info(ctx, "using in-memory treap store")
	}

	issuerOpts := []session.Option{}
	if s.sessionCapacity > 0 {
		issuerOpts = append(issuerOpts, session.WithMaxSessions(s.sessionCapacity))
	}
	s.issuer = session.NewInMemoryIssuer(issuerOpts...)

	s.started = true
	s.logger.Info(ctx, "score service started",
		logger.Int("maxWordLength", s.maxWordLength),
		logger.Any("lenient", s.lenient),
		logger.Int("maxTopLimit", s.maxTopLimit),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "score service stopped")
}

// Rules returns the scoring rules ascending by points.
func (s *Service) Rules(ctx context.Context) []types.Rule {
	rs := s.table.Rules()
	out := make([]types.Rule, len(rs))
	for i, r := range rs {
		out[i] = types.Rule{Points: r.Points, Letters: r.Letters}
	}
	return out
}

// ComputeScore computes the point value for letters without persisting.
func (s *Service) ComputeScore(ctx context.Context, letters string) (types.Computed, error) {
	metrics.RecordComputeRequest()

	res, err := s.scorer.Compute(letters)
	if err != nil {
		metrics.RecordComputeError(rejectionKind(err))
		return types.Computed{}, err
	}
	return types.Computed{Letters: res.Letters, Score: res.Points}, nil
}

// SaveScore computes and persists a score. Validation happens before
// any persistence attempt; a failed save leaves no partial state.
func (s *Service) SaveScore(ctx context.Context, letters string) (model.ScoreRecord, error) {
	metrics.RecordComputeRequest()

	res, err := s.scorer.Compute(letters)
	if err != nil {
		metrics.RecordComputeError(rejectionKind(err))
		return model.ScoreRecord{}, err
	}

	rec, err := s.store.Save(ctx, res.Letters, res.Points)
	if err != nil {
		return model.ScoreRecord{}, err
	}

	metrics.RecordScoreSaved()
	s.logger.Info(ctx, "score saved",
		logger.String("id", rec.ID),
		logger.String("letters", rec.Letters),
		logger.Int("points", rec.Points),
	)
	return rec, nil
}

// TopScores returns the top n leaderboard entries in the default order:
// points descending, earlier submission first on ties. n <= 0 selects
// the configured default size.
func (s *Service) TopScores(ctx context.Context, n int) ([]types.RankedEntry, error) {
	if n <= 0 {
		n = s.defaultTopN
	}
	return s.ListScores(ctx, n, repository.DefaultSort())
}

// ListScores returns up to limit entries in the requested order, ranked
// 1-based by position. Equal-point entries get distinct consecutive
// ranks, never a shared rank.
func (s *Service) ListScores(ctx context.Context, limit int, sortSpec []repository.SortKey) ([]types.RankedEntry, error) {
	if limit > s.maxTopLimit {
		return nil, ErrLimitExceeded
	}

	records, err := s.store.List(ctx, limit, sortSpec)
	if err != nil {
		return nil, err
	}

	entries := make([]types.RankedEntry, len(records))
	for i, rec := range records {
		entries[i] = types.RankedEntry{
			Rank:      i + 1,
			Score:     rec.Points,
			Letters:   rec.Letters,
			CreatedAt: rec.CreatedAt,
		}
	}
	return entries, nil
}

// DeleteScores removes the given score ids, reporting how many records
// were actually removed. Unknown ids are not errors.
func (s *Service) DeleteScores(ctx context.Context, ids []string) (int, error) {
	removed, err := s.store.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.logger.Info(ctx, "scores deleted",
		logger.Int("requested", len(ids)),
		logger.Int("removed", removed),
	)
	return removed, nil
}

// NewSession issues an anonymous play session.
func (s *Service) NewSession(ctx context.Context) (session.Session, error) {
	return s.issuer.NewSession(ctx)
}

// GetSession resolves a session by id.
func (s *Service) GetSession(ctx context.Context, id string) (session.Session, error) {
	return s.issuer.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":       s.started,
		"maxWordLength": s.maxWordLength,
		"lenient":       s.lenient,
	}

	if s.started {
		records := s.store.Count(ctx)
		stats["records"] = records
		stats["sessions"] = s.issuer.Size()
		metrics.UpdateRepositoryRecords(records)

		if cached, ok := s.store.(interface{ TopCached() []model.ScoreRecord }); ok {
			stats["topCached"] = len(cached.TopCached())
		}
	}

	return stats
}

// rejectionKind maps a scoring error to a stable metric label.
func rejectionKind(err error) string {
	switch {
	case errors.Is(err, scoring.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, scoring.ErrTooLong):
		return "too_long"
	case errors.Is(err, scoring.ErrInvalidCharacter):
		return "invalid_character"
	default:
		return "other"
	}
}
