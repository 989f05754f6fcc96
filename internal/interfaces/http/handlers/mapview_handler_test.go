package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scholarmap/scholarmap/internal/application/mapview"
	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/domain/network"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

type nopGraph struct{}

func (nopGraph) PaperCollaborators(context.Context, string) ([]network.Collaborator, error) {
	return nil, nil
}
func (nopGraph) ProjectCollaborators(context.Context, string) ([]network.Collaborator, error) {
	return nil, nil
}

type snapCatalog struct{ snap catalog.Snapshot }

func (s *snapCatalog) Snapshot(context.Context) (*catalog.Snapshot, error) { return &s.snap, nil }
func (s *snapCatalog) Search(context.Context, string) (*catalog.SearchMatches, error) {
	return nil, nil
}

func mapRouter(t *testing.T) *gin.Engine {
	t.Helper()
	provider := &snapCatalog{snap: catalog.Snapshot{
		Universities: []catalog.University{
			{ID: "u1", ShortName: "UM", State: "Selangor", ActiveProjects: 5,
				Coordinates: geo.Coordinates{Lat: 3.12, Lng: 101.65}},
			{ID: "u2", ShortName: "USM", State: "Penang", ActiveProjects: 9,
				Coordinates: geo.Coordinates{Lat: 5.36, Lng: 100.30}},
		},
		Researchers: []catalog.ResearcherLocation{
			{ID: "r1", Name: "Aisyah", University: "Universiti Malaya",
				Coordinates: geo.Coordinates{Lat: 3.12, Lng: 101.65}},
		},
	}}
	hub := mapview.NewSurfaceHub()
	service := mapview.NewService(provider, nopGraph{}, hub.Factory(),
		mapview.ServiceConfig{
			FitPaddingDegrees: 0.5,
			FitMaxZoom:        10,
			FocusZoom:         12,
			EdgeWeightCap:     8,
			SessionIdleTTL:    time.Minute,
		},
		logging.NewNopLogger(), nil)

	handler := NewMapViewHandler(service, hub)
	engine := gin.New()
	sessions := engine.Group("/map/sessions")
	sessions.POST("", handler.CreateSession)
	sessions.GET("/:id", handler.GetSession)
	sessions.DELETE("/:id", handler.CloseSession)
	sessions.PATCH("/:id/filters", handler.UpdateFilters)
	sessions.PUT("/:id/tab", handler.SetTab)
	sessions.POST("/:id/focus", handler.FocusResearcher)
	sessions.GET("/:id/surface", handler.SurfaceState)
	sessions.GET("/:id/rankings", handler.Rankings)
	sessions.GET("/:id/statistics", handler.Statistics)
	return engine
}

func send(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	engine.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, engine *gin.Engine) string {
	t.Helper()
	rec := send(t, engine, http.MethodPost, "/map/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status = %d body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Data mapview.SessionView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.SessionID == "" {
		t.Fatal("missing session id")
	}
	return body.Data.SessionID
}

func TestSessionLifecycle(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodGet, "/map/sessions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status = %d", rec.Code)
	}
	var body struct {
		Data mapview.SessionView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.Tab != mapview.TabOverview || body.Data.MarkerCount != 2 {
		t.Errorf("view = %+v", body.Data)
	}

	if rec := send(t, engine, http.MethodDelete, "/map/sessions/"+id, ""); rec.Code != http.StatusOK {
		t.Fatalf("close: status = %d", rec.Code)
	}
	if rec := send(t, engine, http.MethodGet, "/map/sessions/"+id, ""); rec.Code != http.StatusNotFound {
		t.Errorf("closed session should be gone, status = %d", rec.Code)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	engine := mapRouter(t)
	rec := send(t, engine, http.MethodGet, "/map/sessions/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSetTabRejectsUnknown(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodPut, "/map/sessions/"+id+"/tab", `{"tab":"dashboard"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body)
	}
}

func TestFilterUpdateNarrowsMarkers(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodPatch, "/map/sessions/"+id+"/filters", `{"state":"Penang"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Data mapview.SessionView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.MarkerCount != 1 {
		t.Errorf("markers = %d", body.Data.MarkerCount)
	}
	if body.Data.Criteria.State != "Penang" {
		t.Errorf("criteria = %+v", body.Data.Criteria)
	}
}

func TestFocusRequiresNetworkTab(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodPost, "/map/sessions/"+id+"/focus", `{"researcherId":"r1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("focus on overview: status = %d", rec.Code)
	}

	if rec := send(t, engine, http.MethodPut, "/map/sessions/"+id+"/tab", `{"tab":"network"}`); rec.Code != http.StatusOK {
		t.Fatalf("set tab: status = %d", rec.Code)
	}
	rec = send(t, engine, http.MethodPost, "/map/sessions/"+id+"/focus", `{"researcherId":"r1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("focus: status = %d body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Data mapview.SessionView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.FocusedResearcher != "r1" || body.Data.NetworkState != mapview.StateFocused {
		t.Errorf("view = %+v", body.Data)
	}
}

func TestRankingsSortedByMetric(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodGet, "/map/sessions/"+id+"/rankings?metric=activeProjects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Data []mapview.RankingRow `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("rows = %d", len(body.Data))
	}
	if body.Data[0].University.ID != "u2" || body.Data[0].CurrentRank != 1 {
		t.Errorf("top row = %+v", body.Data[0])
	}
}

func TestRankingsUnknownMetric(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodGet, "/map/sessions/"+id+"/rankings?metric=vibes", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSurfaceStateServed(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodGet, "/map/sessions/"+id+"/surface", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body)
	}
	var body struct {
		Data mapview.RenderState `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data.Markers) != 2 || body.Data.Viewport.Kind != "fit" {
		t.Errorf("state = %+v", body.Data)
	}
}

func TestStatistics(t *testing.T) {
	engine := mapRouter(t)
	id := createSession(t, engine)

	rec := send(t, engine, http.MethodGet, "/map/sessions/"+id+"/statistics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data mapview.Statistics `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.TotalUniversities != 2 {
		t.Errorf("stats = %+v", body.Data)
	}
}
