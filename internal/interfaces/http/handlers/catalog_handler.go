package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// CatalogReader serves the loaded snapshot and free-text search.
type CatalogReader interface {
	Snapshot(ctx context.Context) (*catalog.Snapshot, error)
	Search(ctx context.Context, query string) (*catalog.SearchMatches, error)
}

// AssetURLResolver turns catalog image references into fetchable URLs.
type AssetURLResolver interface {
	ResolveURL(ctx context.Context, imagePath string, entityType catalog.EntityType) (string, error)
}

// CatalogHandler serves catalog entity listings, details, and asset URLs.
type CatalogHandler struct {
	reader CatalogReader
	repo   catalog.Repository
	assets AssetURLResolver
}

// NewCatalogHandler creates the handler.  assets may be nil when no object
// store is configured; asset URL requests then fail with 503.
func NewCatalogHandler(reader CatalogReader, repo catalog.Repository, assets AssetURLResolver) *CatalogHandler {
	return &CatalogHandler{reader: reader, repo: repo, assets: assets}
}

// ListUniversities returns every university in the catalog.
func (h *CatalogHandler) ListUniversities(c *gin.Context) {
	snap, err := h.reader.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, snap.Universities)
}

// ListProjects returns every project in the catalog.
func (h *CatalogHandler) ListProjects(c *gin.Context) {
	snap, err := h.reader.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, snap.Projects)
}

// ListPartners returns every industry partner in the catalog.
func (h *CatalogHandler) ListPartners(c *gin.Context) {
	snap, err := h.reader.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, snap.Partners)
}

// ListResearchers returns every researcher location in the catalog.
func (h *CatalogHandler) ListResearchers(c *gin.Context) {
	snap, err := h.reader.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, snap.Researchers)
}

// ListEvents returns every event in the catalog.
func (h *CatalogHandler) ListEvents(c *gin.Context) {
	snap, err := h.reader.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, snap.Events)
}

// GetUniversity returns one university by id.
func (h *CatalogHandler) GetUniversity(c *gin.Context) {
	u, err := h.repo.GetUniversity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, u)
}

// GetProject returns one project by id.
func (h *CatalogHandler) GetProject(c *gin.Context) {
	p, err := h.repo.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, p)
}

// GetPartner returns one industry partner by id.
func (h *CatalogHandler) GetPartner(c *gin.Context) {
	p, err := h.repo.GetPartner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, p)
}

// Search resolves a free-text query to matched entity ids per type.
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	matches, err := h.reader.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}
	if matches == nil {
		// Empty query matches everything; report that explicitly instead of
		// echoing the whole catalog.
		respondOK(c, gin.H{"matchAll": true})
		return
	}
	respondOK(c, gin.H{
		"universities": keys(matches.Universities),
		"projects":     keys(matches.Projects),
		"partners":     keys(matches.Partners),
	})
}

// AssetURL resolves an entity image reference to a fetchable URL.  The path
// query parameter may be empty, which yields the entity-type default image.
func (h *CatalogHandler) AssetURL(c *gin.Context) {
	if h.assets == nil {
		respondError(c, errors.New(errors.CodeServiceUnavailable, "object storage is not configured"))
		return
	}
	entityType := catalog.EntityType(c.Query("type"))
	switch entityType {
	case catalog.EntityUniversity, catalog.EntityProject, catalog.EntityPartner,
		catalog.EntityResearcher, catalog.EntityEvent:
	default:
		respondInvalidParam(c, "unknown entity type")
		return
	}

	url, err := h.assets.ResolveURL(c.Request.Context(), c.Query("path"), entityType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"url": url})
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
