package mapview

import (
	"sync"

	"github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

// Viewport is the last camera instruction issued to the surface.
type Viewport struct {
	// Kind is "fit" after FitBounds, "fly" after FlyTo, empty before either.
	Kind    string          `json:"kind,omitempty"`
	Bounds  geo.Bounds      `json:"bounds,omitempty"`
	Center  geo.Coordinates `json:"center,omitempty"`
	Zoom    int             `json:"zoom,omitempty"`
	MaxZoom int             `json:"maxZoom,omitempty"`
}

// RenderState is the full drawable state of a session, served to clients that
// poll instead of holding a push channel.
type RenderState struct {
	Markers  []Marker `json:"markers"`
	Edges    []Edge   `json:"edges"`
	Viewport Viewport `json:"viewport"`
	// Revision increments on every mutation so clients can skip no-op redraws.
	Revision uint64 `json:"revision"`
}

// StateSurface is the server-side MapSurface: it records markers, edges, and
// the viewport for clients to fetch.  Layer code mutates it under the session
// lock, but reads arrive from other request goroutines, hence the mutex.
type StateSurface struct {
	mu       sync.RWMutex
	markers  map[string]Marker
	edges    map[string]Edge
	viewport Viewport
	revision uint64
	onClose  func()
	closed   bool
}

// NewStateSurface creates an empty surface.
func NewStateSurface() *StateSurface {
	return &StateSurface{
		markers: make(map[string]Marker),
		edges:   make(map[string]Edge),
	}
}

func (s *StateSurface) AddMarker(m Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(errors.CodeSurfaceFailure, "surface is closed")
	}
	if _, exists := s.markers[m.ID]; exists {
		return errors.New(errors.CodeSurfaceFailure, "duplicate marker id").WithDetail(m.ID)
	}
	s.markers[m.ID] = m
	s.revision++
	return nil
}

func (s *StateSurface) RemoveMarker(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.markers[id]; !exists {
		return errors.New(errors.CodeSurfaceFailure, "unknown marker id").WithDetail(id)
	}
	delete(s.markers, id)
	s.revision++
	return nil
}

func (s *StateSurface) AddEdge(e Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(errors.CodeSurfaceFailure, "surface is closed")
	}
	if _, exists := s.edges[e.ID]; exists {
		return errors.New(errors.CodeSurfaceFailure, "duplicate edge id").WithDetail(e.ID)
	}
	s.edges[e.ID] = e
	s.revision++
	return nil
}

func (s *StateSurface) RemoveEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.edges[id]; !exists {
		return errors.New(errors.CodeSurfaceFailure, "unknown edge id").WithDetail(id)
	}
	delete(s.edges, id)
	s.revision++
	return nil
}

func (s *StateSurface) FitBounds(b geo.Bounds, maxZoom int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = Viewport{Kind: "fit", Bounds: b, Center: b.Center(), MaxZoom: maxZoom}
	s.revision++
	return nil
}

func (s *StateSurface) FlyTo(c geo.Coordinates, zoom int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = Viewport{Kind: "fly", Center: c, Zoom: zoom}
	s.revision++
	return nil
}

// Close releases the surface and deregisters it from its hub.
func (s *StateSurface) Close() error {
	s.mu.Lock()
	s.closed = true
	onClose := s.onClose
	s.onClose = nil
	s.mu.Unlock()
	if onClose != nil {
		onClose()
	}
	return nil
}

// State returns a copy of the drawable state.
func (s *StateSurface) State() RenderState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := RenderState{
		Markers:  make([]Marker, 0, len(s.markers)),
		Edges:    make([]Edge, 0, len(s.edges)),
		Viewport: s.viewport,
		Revision: s.revision,
	}
	for _, m := range s.markers {
		state.Markers = append(state.Markers, m)
	}
	for _, e := range s.edges {
		state.Edges = append(state.Edges, e)
	}
	return state
}

// SurfaceHub tracks live state surfaces by session id so the HTTP layer can
// serve render state.
type SurfaceHub struct {
	mu       sync.RWMutex
	surfaces map[string]*StateSurface
}

// NewSurfaceHub creates an empty hub.
func NewSurfaceHub() *SurfaceHub {
	return &SurfaceHub{surfaces: make(map[string]*StateSurface)}
}

// Factory returns a SurfaceFactory that registers every surface it creates
// and deregisters it on close.
func (h *SurfaceHub) Factory() SurfaceFactory {
	return func(sessionID string) (MapSurface, error) {
		surface := NewStateSurface()
		surface.onClose = func() {
			h.mu.Lock()
			delete(h.surfaces, sessionID)
			h.mu.Unlock()
		}
		h.mu.Lock()
		h.surfaces[sessionID] = surface
		h.mu.Unlock()
		return surface, nil
	}
}

// State returns the render state for a session's surface.
func (h *SurfaceHub) State(sessionID string) (RenderState, error) {
	h.mu.RLock()
	surface, ok := h.surfaces[sessionID]
	h.mu.RUnlock()
	if !ok {
		return RenderState{}, errors.New(errors.CodeSessionNotFound, "no surface for session").WithDetail(sessionID)
	}
	return surface.State(), nil
}
