package mapview

import (
	"context"
	"time"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/domain/network"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// CatalogProvider supplies the entity snapshot and free-text search.
type CatalogProvider interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
	Search(ctx context.Context, query string) (*catalog.SearchMatches, error)
}

// ServiceConfig holds map-view tunables.
type ServiceConfig struct {
	FitPaddingDegrees float64
	FitMaxZoom        int
	FocusZoom         int
	EdgeWeightCap     int
	SessionIdleTTL    time.Duration
}

// Service orchestrates map sessions: filter changes, tab switches, researcher
// focus, network expansion, rankings, and statistics.
type Service struct {
	catalog  CatalogProvider
	graph    network.Repository
	registry *Registry
	ranking  *RankingEngine
	cfg      ServiceConfig
	logger   logging.Logger
	metrics  *prometheus.AppMetrics
}

// NewService wires the map-view service.
func NewService(catalogProvider CatalogProvider, graph network.Repository, factory SurfaceFactory, cfg ServiceConfig, log logging.Logger, metrics *prometheus.AppMetrics) *Service {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	s := &Service{
		catalog: catalogProvider,
		graph:   graph,
		ranking: NewRankingEngine(),
		cfg:     cfg,
		logger:  log.Named("mapview"),
		metrics: metrics,
	}
	s.registry = NewRegistry(RegistryConfig{
		Factory:     factory,
		IdleTimeout: cfg.SessionIdleTTL,
		NewSession:  s.newSession,
	}, log, metrics)
	return s
}

// Registry exposes the session registry for lifecycle management.
func (s *Service) Registry() *Registry { return s.registry }

func (s *Service) newSession(id string, surface MapSurface) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		surface:    surface,
		markers:    NewMarkerLayer(surface, s.cfg.FitPaddingDegrees, s.cfg.FitMaxZoom, s.logger, s.metrics),
		network:    NewNetworkLayer(surface, s.graph, s.cfg.FocusZoom, s.cfg.EdgeWeightCap, s.logger, s.metrics),
		criteria:   DefaultCriteria(),
		tab:        TabOverview,
		lastActive: time.Now(),
	}
}

// SessionView is the state reported back to clients after each operation.
type SessionView struct {
	SessionID         string         `json:"sessionId"`
	Tab               Tab            `json:"tab"`
	Criteria          FilterCriteria `json:"criteria"`
	NetworkState      NetworkState   `json:"networkState"`
	FocusedResearcher string         `json:"focusedResearcher,omitempty"`
	MarkerCount       int            `json:"markerCount"`
	EdgeCount         int            `json:"edgeCount"`
	Statistics        Statistics     `json:"statistics"`
}

// CreateSession opens a session and renders the initial overview.
func (s *Service) CreateSession(ctx context.Context) (*SessionView, error) {
	session, err := s.registry.Create()
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	if err := s.renderLocked(ctx, session, "session_created"); err != nil {
		return nil, err
	}
	return s.viewLocked(ctx, session)
}

// CloseSession ends a session.
func (s *Service) CloseSession(id string) error {
	return s.registry.Close(id)
}

// View reports the current session state without changing it.
func (s *Service) View(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()
	session.mu.Lock()
	defer session.mu.Unlock()
	return s.viewLocked(ctx, session)
}

// UpdateFilters shallow-merges the update into the session criteria and
// re-renders the active tab.  Changing the network-type toggles while the
// network is expanded recomputes the edge sets in place.
func (s *Service) UpdateFilters(ctx context.Context, sessionID string, update FilterUpdate) (*SessionView, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()
	session.mu.Lock()
	defer session.mu.Unlock()

	session.criteria = session.criteria.Apply(update)

	switch session.tab {
	case TabOverview:
		if err := s.renderLocked(ctx, session, "filters_changed"); err != nil {
			return nil, err
		}
	case TabNetwork:
		if session.network.State() == StateExpanded {
			if err := s.expandLocked(ctx, session); err != nil {
				return nil, err
			}
		}
	}
	return s.viewLocked(ctx, session)
}

// SetTab switches between overview and network.  Leaving the network tab
// clears the focused researcher and all edges; criteria persist across
// switches.
func (s *Service) SetTab(ctx context.Context, sessionID string, tab Tab) (*SessionView, error) {
	if !tab.Valid() {
		return nil, errors.New(errors.CodeInvalidTab, "unknown tab").WithDetail(string(tab))
	}
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.tab == tab {
		return s.viewLocked(ctx, session)
	}

	prev := session.tab
	session.tab = tab

	if prev == TabNetwork {
		if err := session.network.Clear(); err != nil {
			return nil, err
		}
	}
	if err := s.renderLocked(ctx, session, "tab_changed"); err != nil {
		return nil, err
	}
	return s.viewLocked(ctx, session)
}

// FocusResearcher selects a researcher on the network tab, replacing any
// prior focus.
func (s *Service) FocusResearcher(ctx context.Context, sessionID, researcherID string) (*SessionView, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.tab != TabNetwork {
		return nil, errors.New(errors.CodeInvalidTab, "researcher focus requires the network tab")
	}

	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	researcher := snap.ResearcherIndex()[researcherID]
	if researcher == nil {
		return nil, errors.New(errors.CodeResearcherNotFound, "researcher not found").WithDetail(researcherID)
	}
	if err := session.network.Focus(researcher); err != nil {
		return nil, err
	}
	return s.viewLocked(ctx, session)
}

// ExpandNetwork shows the focused researcher's collaboration network.
func (s *Service) ExpandNetwork(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := s.expandLocked(ctx, session); err != nil {
		return nil, err
	}
	return s.viewLocked(ctx, session)
}

// SelectEntity handles a popup select event, keyed by entity id.  On the
// network tab selecting a researcher focuses them; on the overview tab the
// select is recorded as activity only, entity details come from the catalog
// API.
func (s *Service) SelectEntity(ctx context.Context, sessionID string, category MarkerCategory, entityID string) (*SessionView, error) {
	if category == CategoryResearcher || category == CategoryCollaborator {
		return s.FocusResearcher(ctx, sessionID, entityID)
	}
	return s.View(ctx, sessionID)
}

// Rankings computes ranked rows over the session's visible universities.
// Rank assignment and display order are two decoupled passes.
func (s *Service) Rankings(ctx context.Context, sessionID string, metric RankingMetric, column SortColumn, direction SortDirection) ([]RankingRow, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()
	session.mu.Lock()
	criteria := session.criteria
	session.mu.Unlock()

	visible, err := s.visibleEntities(ctx, criteria)
	if err != nil {
		return nil, err
	}

	timer := prometheus.NewTimer(s.metrics.RankingComputeDuration.WithLabelValues(string(metric)))
	rows, err := s.ranking.Rank(visible.Universities, metric)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	if column != "" {
		rows = s.ranking.Resort(rows, column, direction)
	}
	return rows, nil
}

// Statistics aggregates the session's visible entity set.
func (s *Service) Statistics(ctx context.Context, sessionID string) (Statistics, error) {
	session, err := s.registry.Get(sessionID)
	if err != nil {
		return Statistics{}, err
	}
	session.Touch()
	session.mu.Lock()
	criteria := session.criteria
	session.mu.Unlock()

	visible, err := s.visibleEntities(ctx, criteria)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(visible.Universities, visible.Projects), nil
}

// renderLocked rebuilds the overview markers for the session's current state.
// The session mutex must be held.
func (s *Service) renderLocked(ctx context.Context, session *Session, reason string) error {
	visible, err := s.visibleEntities(ctx, session.criteria)
	if err != nil {
		return err
	}
	if err := session.markers.Rebuild(session.tab, session.criteria.Layers, visible.Universities, visible.Projects, visible.Partners); err != nil {
		return err
	}
	s.metrics.MarkerRebuildsTotal.WithLabelValues(reason).Inc()
	return nil
}

// expandLocked recomputes the network edges for the current toggles.  The
// session mutex must be held.
func (s *Service) expandLocked(ctx context.Context, session *Session) error {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	return session.network.Expand(ctx, session.criteria.NetworkTypes, snap.ResearcherIndex())
}

func (s *Service) visibleEntities(ctx context.Context, criteria FilterCriteria) (VisibleEntities, error) {
	snap, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return VisibleEntities{}, err
	}
	var matches *catalog.SearchMatches
	if criteria.Search != "" {
		matches, err = s.catalog.Search(ctx, criteria.Search)
		if err != nil {
			// Search backend failures degrade to unfiltered results rather
			// than an empty map.
			s.logger.Warn("search failed, showing unfiltered entities", logging.Err(err))
			matches = nil
		}
	}
	return ApplyFilters(snap, criteria, matches), nil
}

func (s *Service) viewLocked(ctx context.Context, session *Session) (*SessionView, error) {
	visible, err := s.visibleEntities(ctx, session.criteria)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		SessionID:         session.ID,
		Tab:               session.tab,
		Criteria:          session.criteria,
		NetworkState:      session.network.State(),
		FocusedResearcher: session.network.FocusedResearcher(),
		MarkerCount:       session.markers.MarkerCount(),
		EdgeCount:         session.network.EdgeCount(),
		Statistics:        ComputeStatistics(visible.Universities, visible.Projects),
	}, nil
}
