package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/scholarmap/scholarmap/internal/application/aisearch"
)

// InferenceGateway forwards a free-text question to the AI backend.
// sessionID scopes query supersession to one map session.
type InferenceGateway interface {
	Search(ctx context.Context, sessionID, query string) (*aisearch.Result, error)
}

// SearchHandler serves the AI search endpoint.
type SearchHandler struct {
	gateway InferenceGateway
}

// NewSearchHandler creates the handler.
func NewSearchHandler(gateway InferenceGateway) *SearchHandler {
	return &SearchHandler{gateway: gateway}
}

type aiSearchRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"sessionId"`
}

// AISearch forwards the question to the inference backend.  Upstream and
// transport failures come back as a 200 with a shaped failure payload; only
// invalid or superseded queries produce error statuses.  Requests without a
// session id share one supersession slot.
func (h *SearchHandler) AISearch(c *gin.Context) {
	var req aiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalidParam(c, "malformed search request")
		return
	}
	result, err := h.gateway.Search(c.Request.Context(), req.SessionID, req.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
