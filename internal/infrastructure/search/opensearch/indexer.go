package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// Indexer pushes catalog snapshots into the search cluster with bulk
// requests.  Documents are keyed by entity id so re-indexing is idempotent.
type Indexer struct {
	client *Client
	logger logging.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(client *Client, log logging.Logger) *Indexer {
	return &Indexer{client: client, logger: log.Named("search-indexer")}
}

// IndexSnapshot indexes all searchable entities from the snapshot.
func (i *Indexer) IndexSnapshot(ctx context.Context, snap *catalog.Snapshot) error {
	var buf bytes.Buffer

	for _, u := range snap.Universities {
		doc := map[string]any{
			"short_name":        u.ShortName,
			"full_name":         u.FullName,
			"state":             u.State,
			"top_research_area": u.TopResearchArea,
			"departments":       u.Departments,
		}
		if err := i.appendBulkOp(&buf, indexUniversities, u.ID, doc); err != nil {
			return err
		}
	}
	for _, p := range snap.Projects {
		doc := map[string]any{
			"name":            p.Name,
			"type":            p.Type,
			"location":        p.Location,
			"lead_researcher": p.LeadResearcher,
			"description":     p.Description,
		}
		if err := i.appendBulkOp(&buf, indexProjects, p.ID, doc); err != nil {
			return err
		}
	}
	for _, p := range snap.Partners {
		doc := map[string]any{
			"name":           p.Name,
			"sector":         p.Sector,
			"location":       p.Location,
			"specialization": p.Specialization,
			"description":    p.Description,
		}
		if err := i.appendBulkOp(&buf, indexPartners, p.ID, doc); err != nil {
			return err
		}
	}

	if buf.Len() == 0 {
		return nil
	}

	resp, err := i.client.api.Bulk(ctx, opensearchapi.BulkReq{Body: &buf})
	if err != nil {
		return errors.Wrap(err, errors.CodeExternalService, "bulk index snapshot")
	}
	if resp.Errors {
		return errors.New(errors.CodeExternalService, "bulk index reported item failures")
	}

	i.logger.Info("snapshot indexed",
		logging.Int("universities", len(snap.Universities)),
		logging.Int("projects", len(snap.Projects)),
		logging.Int("partners", len(snap.Partners)),
	)
	return nil
}

func (i *Indexer) appendBulkOp(buf *bytes.Buffer, index, id string, doc any) error {
	action := map[string]any{
		"index": map[string]any{
			"_index": i.client.indexName(index),
			"_id":    id,
		},
	}
	actionLine, err := json.Marshal(action)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "encode bulk action")
	}
	docLine, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, fmt.Sprintf("encode %s document", index))
	}
	buf.Write(actionLine)
	buf.WriteByte('\n')
	buf.Write(docLine)
	buf.WriteByte('\n')
	return nil
}

var _ catalog.Indexer = (*Indexer)(nil)
