package aisearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/scholarmap/scholarmap/internal/config"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

func newTestGateway(endpoint string) *Gateway {
	return NewGateway(config.AISearchConfig{Endpoint: endpoint, Timeout: 5 * time.Second}, logging.NewNopLogger(), nil)
}

func TestSearchReturnsAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req["query"] != "top AI universities" {
			t.Errorf("query = %q", req["query"])
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "UM leads in AI output."})
	}))
	defer server.Close()

	result, err := newTestGateway(server.URL).Search(context.Background(), "s-1", "  top AI universities  ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Failed || result.Answer != "UM leads in AI output." {
		t.Errorf("result = %+v", result)
	}
}

func TestUpstreamErrorShapedNotThrown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))
	defer server.Close()

	result, err := newTestGateway(server.URL).Search(context.Background(), "s-1", "anything")
	if err != nil {
		t.Fatalf("upstream errors must not become Go errors: %v", err)
	}
	if !result.Failed {
		t.Fatal("result should be failed")
	}
	if result.Message != GenericFailureMessage {
		t.Errorf("message = %q", result.Message)
	}
	if result.Error != "boom" {
		t.Errorf("raw detail = %q, want boom", result.Error)
	}
	if result.Answer != "" {
		t.Errorf("no answer should be shown, got %q", result.Answer)
	}
}

func TestTransportFailureShaped(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	result, err := newTestGateway(server.URL).Search(context.Background(), "s-1", "anything")
	if err != nil {
		t.Fatalf("transport errors must be shaped: %v", err)
	}
	if !result.Failed || result.Message != GenericFailureMessage || result.Error == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestEmptyQueryRejected(t *testing.T) {
	_, err := newTestGateway("http://unused").Search(context.Background(), "s-1", "   ")
	if !errors.IsCode(err, errors.CodeEmptyQuery) {
		t.Errorf("err = %v", err)
	}
}

func TestNewQuerySupersedesPending(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["query"] == "first" {
			once.Do(func() { close(firstStarted) })
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "answer to " + req["query"]})
	}))
	defer server.Close()
	defer close(release)

	gateway := newTestGateway(server.URL)

	type outcome struct {
		result *Result
		err    error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		result, err := gateway.Search(context.Background(), "s-1", "first")
		firstDone <- outcome{result, err}
	}()

	<-firstStarted
	result, err := gateway.Search(context.Background(), "s-1", "second")
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if result.Answer != "answer to second" {
		t.Errorf("second answer = %+v", result)
	}

	first := <-firstDone
	if !errors.IsCode(first.err, errors.CodeInferenceSuperseded) {
		t.Errorf("first search should be superseded, got result=%+v err=%v", first.result, first.err)
	}
}

func TestSupersedeScopedToSession(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var once, releaseOnce sync.Once
	releaseSlow := func() { releaseOnce.Do(func() { close(release) }) }

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req["query"] == "slow" {
			once.Do(func() { close(firstStarted) })
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "answer to " + req["query"]})
	}))
	defer server.Close()
	defer releaseSlow()

	gateway := newTestGateway(server.URL)

	type outcome struct {
		result *Result
		err    error
	}
	slowDone := make(chan outcome, 1)
	go func() {
		result, err := gateway.Search(context.Background(), "session-a", "slow")
		slowDone <- outcome{result, err}
	}()

	// Another session searching must not cancel session-a's pending query.
	<-firstStarted
	result, err := gateway.Search(context.Background(), "session-b", "quick")
	if err != nil {
		t.Fatalf("other session's search: %v", err)
	}
	if result.Answer != "answer to quick" {
		t.Errorf("other session answer = %+v", result)
	}

	releaseSlow()
	slow := <-slowDone
	if slow.err != nil {
		t.Fatalf("session-a search should survive session-b's query: %v", slow.err)
	}
	if slow.result.Answer != "answer to slow" {
		t.Errorf("session-a answer = %+v", slow.result)
	}
}

func TestMalformedResponseShaped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer server.Close()

	result, err := newTestGateway(server.URL).Search(context.Background(), "s-1", "anything")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Failed || result.Error != "malformed inference response" {
		t.Errorf("result = %+v", result)
	}
}
