// Package aisearch forwards free-text queries to an external inference
// endpoint.  No local NLP happens here; the gateway's only responsibilities
// are transport, error shaping, and superseding stale in-flight queries.
package aisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// GenericFailureMessage is shown to users whenever inference fails; the raw
// error detail travels alongside it for diagnostics.
const GenericFailureMessage = "AI search is currently unavailable. Please try again."

// Result is the outcome of one search.  Either Answer is set, or Failed is
// true with the generic message and the raw upstream detail.
type Result struct {
	Answer  string `json:"answer,omitempty"`
	Failed  bool   `json:"failed,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type inferenceRequest struct {
	Query string `json:"query"`
}

type inferenceResponse struct {
	Answer string `json:"answer"`
	Error  string `json:"error"`
}

// Gateway sends queries to the inference endpoint.  A new query supersedes
// the same session's in-flight one: the older request is cancelled and
// reports CodeInferenceSuperseded instead of racing the newer answer.
// Sessions never cancel each other; queries without a session id share a
// single anonymous slot.
type Gateway struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   logging.Logger
	metrics  *prometheus.AppMetrics

	mu       sync.Mutex
	inflight map[string]*inflightQuery
}

type inflightQuery struct {
	cancel context.CancelFunc
	seq    uint64
}

// NewGateway creates a gateway from the config.
func NewGateway(cfg config.AISearchConfig, log logging.Logger, metrics *prometheus.AppMetrics) *Gateway {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &Gateway{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   log.Named("aisearch"),
		metrics:  metrics,
		inflight: make(map[string]*inflightQuery),
	}
}

// Search sends the trimmed query upstream and returns the answer or a shaped
// failure.  sessionID scopes supersession: a newer query only cancels the
// pending one from the same session.  Transport errors and upstream error
// payloads both produce a non-nil Result with Failed set; only superseded or
// invalid queries return a Go error.
func (g *Gateway) Search(ctx context.Context, sessionID, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.CodeEmptyQuery, "query must not be empty")
	}

	ctx, seq := g.supersede(ctx, sessionID)
	defer g.finish(sessionID, seq)

	timer := time.Now()
	result, err := g.post(ctx, query)
	elapsed := time.Since(timer).Seconds()

	if err != nil {
		if ctx.Err() == context.Canceled {
			g.metrics.AISearchSupersededTotal.WithLabelValues().Inc()
			return nil, errors.New(errors.CodeInferenceSuperseded, "query superseded by a newer search")
		}
		g.metrics.AISearchRequestsTotal.WithLabelValues("transport_error").Inc()
		g.metrics.AISearchDuration.WithLabelValues().Observe(elapsed)
		g.logger.Warn("inference request failed", logging.Err(err))
		return &Result{Failed: true, Message: GenericFailureMessage, Error: err.Error()}, nil
	}

	g.metrics.AISearchDuration.WithLabelValues().Observe(elapsed)
	if result.Failed {
		g.metrics.AISearchRequestsTotal.WithLabelValues("upstream_error").Inc()
	} else {
		g.metrics.AISearchRequestsTotal.WithLabelValues("ok").Inc()
	}
	return result, nil
}

// supersede cancels the session's in-flight query, if any, and registers
// this one in its place.
func (g *Gateway) supersede(parent context.Context, sessionID string) (context.Context, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ctx, cancel := context.WithCancel(parent)
	slot, ok := g.inflight[sessionID]
	if ok {
		slot.cancel()
		slot.cancel = cancel
		slot.seq++
		return ctx, slot.seq
	}
	g.inflight[sessionID] = &inflightQuery{cancel: cancel, seq: 1}
	return ctx, 1
}

// finish releases the session's cancel slot if this query is still its
// newest.
func (g *Gateway) finish(sessionID string, seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	slot, ok := g.inflight[sessionID]
	if ok && slot.seq == seq {
		slot.cancel()
		delete(g.inflight, sessionID)
	}
}

func (g *Gateway) post(ctx context.Context, query string) (*Result, error) {
	body, err := json.Marshal(inferenceRequest{Query: query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var decoded inferenceResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return &Result{Failed: true, Message: GenericFailureMessage, Error: "malformed inference response"}, nil
	}
	if decoded.Error != "" {
		return &Result{Failed: true, Message: GenericFailureMessage, Error: decoded.Error}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return &Result{Failed: true, Message: GenericFailureMessage, Error: resp.Status}, nil
	}
	return &Result{Answer: decoded.Answer}, nil
}
