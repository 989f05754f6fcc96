package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmap/scholarmap/internal/application/mapview"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// MapViewHandler serves map session lifecycle and interaction endpoints.
type MapViewHandler struct {
	service *mapview.Service
	hub     *mapview.SurfaceHub
}

// NewMapViewHandler creates the handler.  hub may be nil when render state is
// not served over HTTP.
func NewMapViewHandler(service *mapview.Service, hub *mapview.SurfaceHub) *MapViewHandler {
	return &MapViewHandler{service: service, hub: hub}
}

// CreateSession opens a map session and renders the initial overview.
func (h *MapViewHandler) CreateSession(c *gin.Context) {
	view, err := h.service.CreateSession(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, view)
}

// CloseSession ends a session and releases its map surface.
func (h *MapViewHandler) CloseSession(c *gin.Context) {
	if err := h.service.CloseSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// GetSession reports the session state without changing it.
func (h *MapViewHandler) GetSession(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// UpdateFilters applies a partial filter change and re-renders the active tab.
func (h *MapViewHandler) UpdateFilters(c *gin.Context) {
	var update mapview.FilterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondInvalidParam(c, "malformed filter update")
		return
	}
	view, err := h.service.UpdateFilters(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

type setTabRequest struct {
	Tab mapview.Tab `json:"tab"`
}

// SetTab switches between the overview and network tabs.
func (h *MapViewHandler) SetTab(c *gin.Context) {
	var req setTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidParam(c, "malformed tab request")
		return
	}
	view, err := h.service.SetTab(c.Request.Context(), c.Param("id"), req.Tab)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

type focusRequest struct {
	ResearcherID string `json:"researcherId"`
}

// FocusResearcher selects a researcher on the network tab.
func (h *MapViewHandler) FocusResearcher(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ResearcherID == "" {
		respondInvalidParam(c, "researcherId is required")
		return
	}
	view, err := h.service.FocusResearcher(c.Request.Context(), c.Param("id"), req.ResearcherID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// ExpandNetwork shows the focused researcher's collaboration network.
func (h *MapViewHandler) ExpandNetwork(c *gin.Context) {
	view, err := h.service.ExpandNetwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

type selectRequest struct {
	Category mapview.MarkerCategory `json:"category"`
	EntityID string                 `json:"entityId"`
}

// SelectEntity handles a marker popup select event, dispatched by entity id.
func (h *MapViewHandler) SelectEntity(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EntityID == "" {
		respondInvalidParam(c, "category and entityId are required")
		return
	}
	view, err := h.service.SelectEntity(c.Request.Context(), c.Param("id"), req.Category, req.EntityID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, view)
}

// Rankings returns ranked rows for the session's visible universities.
// metric selects the ranked value; sort and direction only reorder the
// display, never the assigned ranks.
func (h *MapViewHandler) Rankings(c *gin.Context) {
	metric := mapview.RankingMetric(c.DefaultQuery("metric", string(mapview.MetricOverall)))
	column := mapview.SortColumn(c.Query("sort"))
	direction := mapview.SortDirection(c.DefaultQuery("direction", string(mapview.SortAscending)))

	rows, err := h.service.Rankings(c.Request.Context(), c.Param("id"), metric, column, direction)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, rows)
}

// SurfaceState returns the session's drawable markers, edges, and viewport.
func (h *MapViewHandler) SurfaceState(c *gin.Context) {
	if h.hub == nil {
		respondError(c, errors.New(errors.CodeServiceUnavailable, "surface state is not served"))
		return
	}
	state, err := h.hub.State(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, state)
}

// Statistics aggregates the session's visible entity set.
func (h *MapViewHandler) Statistics(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
