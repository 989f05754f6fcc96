// Package mapview implements the interactive map core: marker rendering for
// the overview tab, the collaboration network state machine, ranking,
// statistics, and per-session state.  Layers compute desired marker/edge sets
// from catalog data and reconcile them against a MapSurface, so everything is
// testable without a real map widget.
package mapview

import (
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

// MarkerCategory styles a marker and scopes its identity.
type MarkerCategory string

const (
	CategoryUniversity   MarkerCategory = "university"
	CategoryProject      MarkerCategory = "project"
	CategoryIndustry     MarkerCategory = "industry"
	CategoryResearcher   MarkerCategory = "researcher"
	CategoryCollaborator MarkerCategory = "collaborator"
)

// Popup is the content bound to a marker.  EntityID keys select events, so
// display names need not be unique.
type Popup struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	EntityID string   `json:"entityId"`
	// ActionLabel, when set, renders a button that raises a select event
	// carrying EntityID.
	ActionLabel string `json:"actionLabel,omitempty"`
}

// Marker is one point drawn on the surface.  ID is unique per surface and is
// derived from category and entity id.
type Marker struct {
	ID          string          `json:"id"`
	Category    MarkerCategory  `json:"category"`
	Coordinates geo.Coordinates `json:"coordinates"`
	Popup       Popup           `json:"popup"`
	Highlighted bool            `json:"highlighted,omitempty"`
}

// EdgeStyle distinguishes paper edges from project edges visually.
type EdgeStyle string

const (
	StylePaper   EdgeStyle = "paper"
	StyleProject EdgeStyle = "project"
)

// Edge is one line drawn between two coordinates.  Weight is the stroke
// weight derived from collaboration strength, already capped.
type Edge struct {
	ID      string          `json:"id"`
	From    geo.Coordinates `json:"from"`
	To      geo.Coordinates `json:"to"`
	Style   EdgeStyle       `json:"style"`
	Weight  int             `json:"weight"`
	Tooltip string          `json:"tooltip,omitempty"`
}

// MapSurface is the mutable rendering target.  Implementations push state to
// a client map widget; tests use a recording fake.  All methods are called
// from a single session goroutine, so implementations need no locking.
type MapSurface interface {
	AddMarker(m Marker) error
	RemoveMarker(id string) error
	AddEdge(e Edge) error
	RemoveEdge(id string) error
	// FitBounds moves the viewport to contain b, padded, never zooming in
	// past maxZoom.
	FitBounds(b geo.Bounds, maxZoom int) error
	// FlyTo pans and zooms to a single point.
	FlyTo(c geo.Coordinates, zoom int) error
	Close() error
}
