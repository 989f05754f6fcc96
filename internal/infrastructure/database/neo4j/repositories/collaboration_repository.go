// Package repositories contains the graph-store implementations of the
// network domain contracts.
package repositories

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/scholarmap/scholarmap/internal/domain/network"
	neodriver "github.com/scholarmap/scholarmap/internal/infrastructure/database/neo4j"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

const paperCollaboratorsCypher = `
MATCH (r:Researcher {id: $id})-[c:CO_AUTHORED]-(peer:Researcher)
RETURN peer.id AS id, c.count AS strength
ORDER BY peer.id`

const projectCollaboratorsCypher = `
MATCH (r:Researcher {id: $id})-[c:COLLABORATED_ON]-(peer:Researcher)
RETURN peer.id AS id, c.count AS strength, c.projects AS projects, c.years AS years
ORDER BY peer.id`

// CollaborationRepository reads researcher adjacency from the graph store.
type CollaborationRepository struct {
	driver  *neodriver.Driver
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewCollaborationRepository creates a repository over the driver.
func NewCollaborationRepository(driver *neodriver.Driver, log logging.Logger, metrics *prometheus.AppMetrics) *CollaborationRepository {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &CollaborationRepository{driver: driver, logger: log.Named("collab-repo"), metrics: metrics}
}

// PaperCollaborators returns co-authorship adjacency for one researcher.
func (r *CollaborationRepository) PaperCollaborators(ctx context.Context, researcherID string) ([]network.Collaborator, error) {
	timer := prometheus.NewTimer(r.metrics.GraphQueryDuration.WithLabelValues("paper_collaborators"))
	defer timer.ObserveDuration()

	raw, err := r.driver.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, paperCollaboratorsCypher, map[string]any{"id": researcherID})
		if err != nil {
			return nil, err
		}
		var collaborators []network.Collaborator
		for result.Next(ctx) {
			rec := result.Record()
			collaborators = append(collaborators, network.Collaborator{
				ID:       stringValue(rec, "id"),
				Strength: intValue(rec, "strength"),
			})
		}
		return collaborators, result.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "query paper collaborators")
	}
	collaborators, _ := raw.([]network.Collaborator)
	return collaborators, nil
}

// ProjectCollaborators returns shared-project adjacency for one researcher.
// The projects and years lists are aligned by index on the relationship.
func (r *CollaborationRepository) ProjectCollaborators(ctx context.Context, researcherID string) ([]network.Collaborator, error) {
	timer := prometheus.NewTimer(r.metrics.GraphQueryDuration.WithLabelValues("project_collaborators"))
	defer timer.ObserveDuration()

	raw, err := r.driver.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, projectCollaboratorsCypher, map[string]any{"id": researcherID})
		if err != nil {
			return nil, err
		}
		var collaborators []network.Collaborator
		for result.Next(ctx) {
			rec := result.Record()
			collaborators = append(collaborators, network.Collaborator{
				ID:       stringValue(rec, "id"),
				Strength: intValue(rec, "strength"),
				Projects: projectRefs(rec),
			})
		}
		return collaborators, result.Err()
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "query project collaborators")
	}
	collaborators, _ := raw.([]network.Collaborator)
	return collaborators, nil
}

func stringValue(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func intValue(rec *neo4j.Record, key string) int {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func projectRefs(rec *neo4j.Record) []network.ProjectRef {
	titlesRaw, _ := rec.Get("projects")
	yearsRaw, _ := rec.Get("years")
	titles, _ := titlesRaw.([]any)
	years, _ := yearsRaw.([]any)

	refs := make([]network.ProjectRef, 0, len(titles))
	for i, t := range titles {
		title, _ := t.(string)
		ref := network.ProjectRef{Title: title}
		if i < len(years) {
			if y, ok := years[i].(int64); ok {
				ref.Year = int(y)
			}
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil
	}
	return refs
}

var _ network.Repository = (*CollaborationRepository)(nil)
