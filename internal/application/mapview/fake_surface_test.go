package mapview

import (
	"context"
	"fmt"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/domain/network"
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

// fakeSurface records every call so tests can assert on marker/edge lifecycle
// without a real map widget.
type fakeSurface struct {
	markers    map[string]Marker
	edges      map[string]Edge
	fitCalls   []geo.Bounds
	flyCalls   []geo.Coordinates
	closeCalls int
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		markers: make(map[string]Marker),
		edges:   make(map[string]Edge),
	}
}

func (f *fakeSurface) AddMarker(m Marker) error {
	if _, exists := f.markers[m.ID]; exists {
		return fmt.Errorf("duplicate marker %s", m.ID)
	}
	f.markers[m.ID] = m
	return nil
}

func (f *fakeSurface) RemoveMarker(id string) error {
	if _, exists := f.markers[id]; !exists {
		return fmt.Errorf("remove of unknown marker %s", id)
	}
	delete(f.markers, id)
	return nil
}

func (f *fakeSurface) AddEdge(e Edge) error {
	if _, exists := f.edges[e.ID]; exists {
		return fmt.Errorf("duplicate edge %s", e.ID)
	}
	f.edges[e.ID] = e
	return nil
}

func (f *fakeSurface) RemoveEdge(id string) error {
	if _, exists := f.edges[id]; !exists {
		return fmt.Errorf("remove of unknown edge %s", id)
	}
	delete(f.edges, id)
	return nil
}

func (f *fakeSurface) FitBounds(b geo.Bounds, maxZoom int) error {
	f.fitCalls = append(f.fitCalls, b)
	return nil
}

func (f *fakeSurface) FlyTo(c geo.Coordinates, zoom int) error {
	f.flyCalls = append(f.flyCalls, c)
	return nil
}

func (f *fakeSurface) Close() error {
	f.closeCalls++
	return nil
}

func (f *fakeSurface) markersByCategory(cat MarkerCategory) []Marker {
	var out []Marker
	for _, m := range f.markers {
		if m.Category == cat {
			out = append(out, m)
		}
	}
	return out
}

// fakeGraph serves fixed adjacency.
type fakeGraph struct {
	papers   map[string][]network.Collaborator
	projects map[string][]network.Collaborator
}

func (g *fakeGraph) PaperCollaborators(_ context.Context, id string) ([]network.Collaborator, error) {
	return g.papers[id], nil
}

func (g *fakeGraph) ProjectCollaborators(_ context.Context, id string) ([]network.Collaborator, error) {
	return g.projects[id], nil
}

// fakeCatalog serves a fixed snapshot with substring search.
type fakeCatalog struct {
	snap *catalog.Snapshot
}

func (c *fakeCatalog) Snapshot(context.Context) (*catalog.Snapshot, error) {
	return c.snap, nil
}

func (c *fakeCatalog) Search(_ context.Context, query string) (*catalog.SearchMatches, error) {
	return nil, nil
}
