package mapview

import (
	"context"
	"fmt"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/domain/network"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// NetworkState is the collaboration layer's mode.
type NetworkState string

const (
	// StateIdle draws nothing: either the overview tab is active or no
	// researcher is focused.
	StateIdle NetworkState = "idle"
	// StateFocused draws only the focused researcher's highlighted node.
	StateFocused NetworkState = "focused"
	// StateExpanded additionally draws collaborator nodes and edges per the
	// enabled network types.
	StateExpanded NetworkState = "expanded"
)

// NetworkLayer owns the collaboration nodes and edges on a surface.  It moves
// between Idle, Focused, and Expanded; edge sets are rebuilt in place when
// the type toggles change while Expanded.
type NetworkLayer struct {
	surface       MapSurface
	repo          network.Repository
	focusZoom     int
	edgeWeightCap int
	logger        logging.Logger
	metrics       *prometheus.AppMetrics

	state     NetworkState
	focusedID string
	markerIDs []string
	edgeIDs   []string
}

// NewNetworkLayer creates an idle layer over the surface.
func NewNetworkLayer(surface MapSurface, repo network.Repository, focusZoom, edgeWeightCap int, log logging.Logger, metrics *prometheus.AppMetrics) *NetworkLayer {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	if edgeWeightCap < 1 {
		edgeWeightCap = 1
	}
	return &NetworkLayer{
		surface:       surface,
		repo:          repo,
		focusZoom:     focusZoom,
		edgeWeightCap: edgeWeightCap,
		logger:        log.Named("network"),
		metrics:       metrics,
		state:         StateIdle,
	}
}

// State returns the current mode.
func (l *NetworkLayer) State() NetworkState { return l.state }

// FocusedResearcher returns the focused researcher id, or empty when idle.
func (l *NetworkLayer) FocusedResearcher() string { return l.focusedID }

// Focus selects a researcher, replacing any prior focus and clearing all
// prior nodes and edges.  The viewport flies to the researcher.  Researchers
// without valid coordinates cannot be focused.
func (l *NetworkLayer) Focus(researcher *catalog.ResearcherLocation) error {
	if researcher == nil {
		return errors.New(errors.CodeResearcherNotFound, "no researcher to focus")
	}
	if !researcher.Coordinates.Valid() {
		return errors.New(errors.CodeResearcherNotFound, "researcher has no coordinates").WithDetail(researcher.ID)
	}
	if err := l.Clear(); err != nil {
		return err
	}

	marker := focusedMarker(researcher)
	if err := l.surface.AddMarker(marker); err != nil {
		return errors.Wrap(err, errors.CodeSurfaceFailure, "add focused marker")
	}
	l.markerIDs = append(l.markerIDs, marker.ID)
	l.focusedID = researcher.ID
	l.state = StateFocused

	if err := l.surface.FlyTo(researcher.Coordinates, l.focusZoom); err != nil {
		return errors.Wrap(err, errors.CodeSurfaceFailure, "fly to researcher")
	}
	return nil
}

// Expand shows the focused researcher's collaboration network per the
// enabled types.  Calling Expand again with different types recomputes the
// collaborator nodes and edges in place, preserving the focused marker.
func (l *NetworkLayer) Expand(ctx context.Context, types NetworkTypes, locations map[string]*catalog.ResearcherLocation) error {
	if l.state == StateIdle || l.focusedID == "" {
		return errors.New(errors.CodeNoFocusedNode, "no focused researcher to expand")
	}
	focused := locations[l.focusedID]
	if focused == nil {
		return errors.New(errors.CodeResearcherNotFound, "focused researcher left the catalog").WithDetail(l.focusedID)
	}

	if err := l.clearCollaborators(); err != nil {
		return err
	}
	l.state = StateExpanded

	if types.Papers {
		collaborators, err := l.repo.PaperCollaborators(ctx, l.focusedID)
		if err != nil {
			return err
		}
		edges := network.EdgesFrom(l.focusedID, network.KindPaper, collaborators)
		if err := l.drawEdges(edges, focused, locations); err != nil {
			return err
		}
		l.metrics.NetworkExpansionsTotal.WithLabelValues(string(network.KindPaper)).Inc()
	}
	if types.Projects {
		collaborators, err := l.repo.ProjectCollaborators(ctx, l.focusedID)
		if err != nil {
			return err
		}
		edges := network.EdgesFrom(l.focusedID, network.KindProject, collaborators)
		if err := l.drawEdges(edges, focused, locations); err != nil {
			return err
		}
		l.metrics.NetworkExpansionsTotal.WithLabelValues(string(network.KindProject)).Inc()
	}

	l.metrics.NetworkEdgesRendered.WithLabelValues("all").Set(float64(len(l.edgeIDs)))
	return nil
}

// Clear tears everything down and returns to Idle.  Called when the focus
// changes, the tab leaves network mode, or the session closes.
func (l *NetworkLayer) Clear() error {
	for _, id := range l.edgeIDs {
		if err := l.surface.RemoveEdge(id); err != nil {
			return errors.Wrap(err, errors.CodeSurfaceFailure, "remove edge")
		}
	}
	l.edgeIDs = l.edgeIDs[:0]
	for _, id := range l.markerIDs {
		if err := l.surface.RemoveMarker(id); err != nil {
			return errors.Wrap(err, errors.CodeSurfaceFailure, "remove network marker")
		}
	}
	l.markerIDs = l.markerIDs[:0]
	l.focusedID = ""
	l.state = StateIdle
	l.metrics.NetworkEdgesRendered.WithLabelValues("all").Set(0)
	return nil
}

// EdgeCount returns the number of edges currently drawn.
func (l *NetworkLayer) EdgeCount() int { return len(l.edgeIDs) }

// clearCollaborators removes collaborator nodes and all edges but keeps the
// focused researcher's marker.
func (l *NetworkLayer) clearCollaborators() error {
	for _, id := range l.edgeIDs {
		if err := l.surface.RemoveEdge(id); err != nil {
			return errors.Wrap(err, errors.CodeSurfaceFailure, "remove edge")
		}
	}
	l.edgeIDs = l.edgeIDs[:0]

	focusedMarkerID := markerID(CategoryResearcher, l.focusedID)
	kept := l.markerIDs[:0]
	for _, id := range l.markerIDs {
		if id == focusedMarkerID {
			kept = append(kept, id)
			continue
		}
		if err := l.surface.RemoveMarker(id); err != nil {
			return errors.Wrap(err, errors.CodeSurfaceFailure, "remove collaborator marker")
		}
	}
	l.markerIDs = kept
	return nil
}

// drawEdges renders one kind's edges and collaborator nodes.  Collaborators
// missing from the location lookup are skipped silently, same policy as
// missing marker coordinates.
func (l *NetworkLayer) drawEdges(edges []network.CollaborationEdge, focused *catalog.ResearcherLocation, locations map[string]*catalog.ResearcherLocation) error {
	for _, e := range edges {
		target := locations[e.TargetID]
		if target == nil || !target.Coordinates.Valid() {
			continue
		}

		edge := Edge{
			ID:      edgeID(e),
			From:    focused.Coordinates,
			To:      target.Coordinates,
			Style:   edgeStyle(e.Kind),
			Weight:  l.edgeWeight(e.Strength),
			Tooltip: edgeTooltip(e, target),
		}
		if err := l.surface.AddEdge(edge); err != nil {
			return errors.Wrap(err, errors.CodeSurfaceFailure, "add edge")
		}
		l.edgeIDs = append(l.edgeIDs, edge.ID)

		if err := l.drawCollaborator(e, target); err != nil {
			return err
		}
	}
	return nil
}

// drawCollaborator adds the collaborator node for one edge.  A collaborator
// reached by both kinds gets one marker per kind; the ids differ so removal
// stays balanced.
func (l *NetworkLayer) drawCollaborator(e network.CollaborationEdge, target *catalog.ResearcherLocation) error {
	category := CategoryCollaborator
	popup := Popup{
		Title:    target.Name,
		Subtitle: target.UniversityName(),
		EntityID: target.ID,
	}
	switch e.Kind {
	case network.KindPaper:
		popup.Lines = []string{fmt.Sprintf("Co-authored papers: %d", e.Strength)}
	case network.KindProject:
		for _, p := range e.Projects {
			popup.Lines = append(popup.Lines, fmt.Sprintf("%s (%d)", p.Title, p.Year))
		}
		if len(popup.Lines) == 0 {
			popup.Lines = []string{fmt.Sprintf("Shared projects: %d", e.Strength)}
		}
	}

	marker := Marker{
		ID:          markerID(category, string(e.Kind)+":"+target.ID),
		Category:    category,
		Coordinates: target.Coordinates,
		Popup:       popup,
	}
	if err := l.surface.AddMarker(marker); err != nil {
		return errors.Wrap(err, errors.CodeSurfaceFailure, "add collaborator marker")
	}
	l.markerIDs = append(l.markerIDs, marker.ID)
	return nil
}

// edgeWeight scales strength to a stroke weight, capped.
func (l *NetworkLayer) edgeWeight(strength int) int {
	if strength < 1 {
		strength = 1
	}
	if strength > l.edgeWeightCap {
		return l.edgeWeightCap
	}
	return strength
}

func edgeID(e network.CollaborationEdge) string {
	return fmt.Sprintf("edge:%s:%s:%s", e.Kind, e.SourceID, e.TargetID)
}

func edgeStyle(kind network.EdgeKind) EdgeStyle {
	if kind == network.KindProject {
		return StyleProject
	}
	return StylePaper
}

func edgeTooltip(e network.CollaborationEdge, target *catalog.ResearcherLocation) string {
	if e.Kind == network.KindProject {
		return fmt.Sprintf("%d shared project(s) with %s", e.Strength, target.Name)
	}
	return fmt.Sprintf("%d co-authored paper(s) with %s", e.Strength, target.Name)
}

func focusedMarker(r *catalog.ResearcherLocation) Marker {
	return Marker{
		ID:          markerID(CategoryResearcher, r.ID),
		Category:    CategoryResearcher,
		Coordinates: r.Coordinates,
		Highlighted: true,
		Popup: Popup{
			Title:       r.Name,
			Subtitle:    r.UniversityName(),
			Lines:       []string{"Department: " + r.Department},
			EntityID:    r.ID,
			ActionLabel: "Show collaboration network",
		},
	}
}
