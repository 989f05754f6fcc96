// Package catalogsvc loads and caches the catalog snapshot and answers
// free-text searches, preferring the search cluster and falling back to
// in-memory substring matching when no backend is configured.
package catalogsvc

import (
	"context"
	"strings"
	"time"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/infrastructure/database/redis"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
)

const snapshotCacheKey = "catalog:snapshot"

// Service is the catalog read side.
type Service struct {
	repo     catalog.Repository
	cache    redis.Cache
	searcher catalog.Searcher
	cacheTTL time.Duration
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// Option customizes service construction.
type Option func(*Service)

// WithCache enables snapshot caching.
func WithCache(cache redis.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithSearcher routes free-text queries to a search backend instead of the
// in-memory fallback.
func WithSearcher(searcher catalog.Searcher) Option {
	return func(s *Service) { s.searcher = searcher }
}

// NewService creates the catalog service.
func NewService(repo catalog.Repository, log logging.Logger, metrics *prometheus.AppMetrics, opts ...Option) *Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	s := &Service{
		repo:    repo,
		logger:  log.Named("catalog"),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the catalog, from cache when possible.
func (s *Service) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	if s.cache == nil {
		return s.load(ctx)
	}

	snap := &catalog.Snapshot{}
	err := s.cache.GetOrSet(ctx, snapshotCacheKey, snap, s.cacheTTL, func(ctx context.Context) (any, error) {
		loaded, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Invalidate drops the cached snapshot.  Called by the worker on refresh
// events.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, snapshotCacheKey)
}

// load reads the full catalog from the repository.
func (s *Service) load(ctx context.Context) (*catalog.Snapshot, error) {
	timer := prometheus.NewTimer(s.metrics.CatalogLoadDuration.WithLabelValues("postgres"))
	defer timer.ObserveDuration()

	universities, err := s.repo.ListUniversities(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.repo.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	partners, err := s.repo.ListPartners(ctx)
	if err != nil {
		return nil, err
	}
	researchers, err := s.repo.ListResearchers(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	snap := &catalog.Snapshot{
		Universities: universities,
		Projects:     projects,
		Partners:     partners,
		Researchers:  researchers,
		Events:       events,
		LoadedAt:     time.Now(),
	}

	s.metrics.CatalogEntityCount.WithLabelValues(string(catalog.EntityUniversity)).Set(float64(len(universities)))
	s.metrics.CatalogEntityCount.WithLabelValues(string(catalog.EntityProject)).Set(float64(len(projects)))
	s.metrics.CatalogEntityCount.WithLabelValues(string(catalog.EntityPartner)).Set(float64(len(partners)))
	s.metrics.CatalogEntityCount.WithLabelValues(string(catalog.EntityResearcher)).Set(float64(len(researchers)))

	s.logger.Info("catalog loaded",
		logging.Int("universities", len(universities)),
		logging.Int("projects", len(projects)),
		logging.Int("partners", len(partners)),
		logging.Int("researchers", len(researchers)),
	)
	return snap, nil
}

// Search resolves a free-text query to matched id sets.  An empty query
// matches everything.
func (s *Service) Search(ctx context.Context, query string) (*catalog.SearchMatches, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	if s.searcher != nil {
		matches, err := s.searchBackend(ctx, query)
		if err == nil {
			s.metrics.CatalogSearchTotal.WithLabelValues("opensearch").Inc()
			return matches, nil
		}
		s.logger.Warn("search backend failed, using in-memory fallback", logging.Err(err))
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.CatalogSearchTotal.WithLabelValues("memory").Inc()
	return substringSearch(snap, query), nil
}

func (s *Service) searchBackend(ctx context.Context, query string) (*catalog.SearchMatches, error) {
	universityIDs, err := s.searcher.SearchUniversities(ctx, query)
	if err != nil {
		return nil, err
	}
	projectIDs, err := s.searcher.SearchProjects(ctx, query)
	if err != nil {
		return nil, err
	}
	partnerIDs, err := s.searcher.SearchPartners(ctx, query)
	if err != nil {
		return nil, err
	}
	return &catalog.SearchMatches{
		Universities: idSet(universityIDs),
		Projects:     idSet(projectIDs),
		Partners:     idSet(partnerIDs),
	}, nil
}

// substringSearch matches the query case-insensitively against name-like
// fields, mirroring what the search cluster indexes.
func substringSearch(snap *catalog.Snapshot, query string) *catalog.SearchMatches {
	q := strings.ToLower(query)
	matches := &catalog.SearchMatches{
		Universities: make(map[string]bool),
		Projects:     make(map[string]bool),
		Partners:     make(map[string]bool),
	}

	for _, u := range snap.Universities {
		if containsAny(q, u.ShortName, u.FullName, u.State, u.TopResearchArea) ||
			containsAnyOf(q, u.Departments) {
			matches.Universities[u.ID] = true
		}
	}
	for _, p := range snap.Projects {
		if containsAny(q, p.Name, p.Type, p.Location, p.LeadResearcher, p.Description) {
			matches.Projects[p.ID] = true
		}
	}
	for _, p := range snap.Partners {
		if containsAny(q, p.Name, p.Sector, p.Location, p.Specialization, p.Description) {
			matches.Partners[p.ID] = true
		}
	}
	return matches
}

func containsAny(q string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func containsAnyOf(q string, fields []string) bool {
	return containsAny(q, fields...)
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
