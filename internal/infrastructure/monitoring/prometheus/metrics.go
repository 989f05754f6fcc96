package prometheus

// AppMetrics holds every metric the service emits, grouped by layer.
// Construct once in main with NewAppMetrics and inject where needed.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Catalog layer
	CatalogLoadDuration HistogramVec
	CatalogEntityCount  GaugeVec
	CatalogSearchTotal  CounterVec

	// Map-view layer
	MapSessionsActive     GaugeVec
	MarkerRebuildsTotal   CounterVec
	MarkersRendered       GaugeVec
	MarkersSkippedTotal   CounterVec
	NetworkExpansionsTotal CounterVec
	NetworkEdgesRendered  GaugeVec
	RankingComputeDuration HistogramVec

	// AI search layer
	AISearchRequestsTotal   CounterVec
	AISearchDuration        HistogramVec
	AISearchSupersededTotal CounterVec

	// Infrastructure layer
	CacheHitsTotal    CounterVec
	CacheMissesTotal  CounterVec
	GraphQueryDuration HistogramVec
	RefreshEventsTotal CounterVec
}

var (
	httpDurationBuckets  = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	dbDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	aiDurationBuckets    = []float64{.5, 1, 2, 5, 10, 30, 60}
)

// NewAppMetrics registers all application metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.CatalogLoadDuration = collector.RegisterHistogram("catalog_load_duration_seconds", "Catalog snapshot load duration", dbDurationBuckets, "source")
	m.CatalogEntityCount = collector.RegisterGauge("catalog_entity_count", "Entities in the loaded catalog", "entity_type")
	m.CatalogSearchTotal = collector.RegisterCounter("catalog_search_total", "Free-text catalog searches", "backend")

	m.MapSessionsActive = collector.RegisterGauge("map_sessions_active", "Open map sessions")
	m.MarkerRebuildsTotal = collector.RegisterCounter("marker_rebuilds_total", "Full marker-set rebuilds", "reason")
	m.MarkersRendered = collector.RegisterGauge("markers_rendered", "Markers currently on the surface", "category")
	m.MarkersSkippedTotal = collector.RegisterCounter("markers_skipped_total", "Entities skipped for missing coordinates", "category")
	m.NetworkExpansionsTotal = collector.RegisterCounter("network_expansions_total", "Collaboration network expansions", "kind")
	m.NetworkEdgesRendered = collector.RegisterGauge("network_edges_rendered", "Edges currently on the surface", "kind")
	m.RankingComputeDuration = collector.RegisterHistogram("ranking_compute_duration_seconds", "Ranking computation duration", dbDurationBuckets, "metric")

	m.AISearchRequestsTotal = collector.RegisterCounter("ai_search_requests_total", "AI search requests", "outcome")
	m.AISearchDuration = collector.RegisterHistogram("ai_search_duration_seconds", "AI search round-trip duration", aiDurationBuckets)
	m.AISearchSupersededTotal = collector.RegisterCounter("ai_search_superseded_total", "In-flight AI searches cancelled by a newer query")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.GraphQueryDuration = collector.RegisterHistogram("graph_query_duration_seconds", "Collaboration graph query duration", dbDurationBuckets, "query")
	m.RefreshEventsTotal = collector.RegisterCounter("refresh_events_total", "Catalog refresh events", "entity_type", "result")

	return m
}

// NewNopAppMetrics returns metrics wired to a discarding collector, for tests.
func NewNopAppMetrics() *AppMetrics {
	return NewAppMetrics(NewNopCollector())
}
