package opensearch

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

const (
	indexUniversities = "universities"
	indexProjects     = "projects"
	indexPartners     = "partners"
)

// searchFields per index: name-like fields are boosted over descriptive text.
var searchFields = map[string][]string{
	indexUniversities: {"short_name^3", "full_name^2", "state", "top_research_area", "departments"},
	indexProjects:     {"name^3", "type", "location", "lead_researcher", "description"},
	indexPartners:     {"name^3", "sector", "location", "specialization", "description"},
}

// Searcher implements catalog.Searcher over the cluster.
type Searcher struct {
	client *Client
}

// NewSearcher creates a Searcher.
func NewSearcher(client *Client) *Searcher {
	return &Searcher{client: client}
}

// SearchUniversities returns ids of universities matching the query.
func (s *Searcher) SearchUniversities(ctx context.Context, query string) ([]string, error) {
	return s.search(ctx, indexUniversities, query)
}

// SearchProjects returns ids of projects matching the query.
func (s *Searcher) SearchProjects(ctx context.Context, query string) ([]string, error) {
	return s.search(ctx, indexProjects, query)
}

// SearchPartners returns ids of industry partners matching the query.
func (s *Searcher) SearchPartners(ctx context.Context, query string) ([]string, error) {
	return s.search(ctx, indexPartners, query)
}

func (s *Searcher) search(ctx context.Context, index, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	body, err := json.Marshal(map[string]any{
		"size":    200,
		"_source": false,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    searchFields[index],
				"fuzziness": "AUTO",
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSerialization, "encode search query")
	}

	resp, err := s.client.api.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{s.client.indexName(index)},
		Body:    strings.NewReader(string(body)),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternalService, "search "+index)
	}

	ids := make([]string, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}

var _ catalog.Searcher = (*Searcher)(nil)
