package catalog

import "context"

// Repository is the persistence contract for catalog reference data.
// Implementations load from PostgreSQL; the application layer caches the
// resulting snapshot.
type Repository interface {
	ListUniversities(ctx context.Context) ([]University, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListPartners(ctx context.Context) ([]IndustryPartner, error)
	ListResearchers(ctx context.Context) ([]ResearcherLocation, error)
	ListEvents(ctx context.Context) ([]Event, error)

	GetUniversity(ctx context.Context, id string) (*University, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	GetPartner(ctx context.Context, id string) (*IndustryPartner, error)
}

// Searcher is the free-text search contract over catalog entities.  The
// OpenSearch adapter implements it; when no search backend is configured the
// application layer falls back to in-memory substring matching.
type Searcher interface {
	// SearchUniversities returns ids of universities matching the query.
	SearchUniversities(ctx context.Context, query string) ([]string, error)
	// SearchProjects returns ids of projects matching the query.
	SearchProjects(ctx context.Context, query string) ([]string, error)
	// SearchPartners returns ids of industry partners matching the query.
	SearchPartners(ctx context.Context, query string) ([]string, error)
}

// Indexer pushes catalog entities into the search backend.  Used by the
// worker on refresh events.
type Indexer interface {
	IndexSnapshot(ctx context.Context, snap *Snapshot) error
}

// SearchMatches is the id sets a free-text query matched, one per searchable
// entity type.  A nil set means the query was empty and everything matches.
type SearchMatches struct {
	Universities map[string]bool
	Projects     map[string]bool
	Partners     map[string]bool
}

// MatchAll reports whether the matches impose no restriction.
func (m *SearchMatches) MatchAll() bool {
	return m == nil || (m.Universities == nil && m.Projects == nil && m.Partners == nil)
}
