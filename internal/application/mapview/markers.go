package mapview

import (
	"fmt"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/logging"
	"github.com/scholarmap/scholarmap/internal/infrastructure/monitoring/prometheus"
	"github.com/scholarmap/scholarmap/pkg/errors"
	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

// MarkerLayer owns the overview markers on a surface.  On every rebuild the
// full marker set is torn down and recreated; entity counts are small enough
// that diffing would buy nothing.
type MarkerLayer struct {
	surface    MapSurface
	fitPadding float64
	fitMaxZoom int
	logger     logging.Logger
	metrics    *prometheus.AppMetrics

	markerIDs []string
}

// NewMarkerLayer creates a layer over the surface.
func NewMarkerLayer(surface MapSurface, fitPadding float64, fitMaxZoom int, log logging.Logger, metrics *prometheus.AppMetrics) *MarkerLayer {
	if metrics == nil {
		metrics = prometheus.NewNopAppMetrics()
	}
	return &MarkerLayer{
		surface:    surface,
		fitPadding: fitPadding,
		fitMaxZoom: fitMaxZoom,
		logger:     log.Named("markers"),
		metrics:    metrics,
	}
}

// Rebuild replaces all overview markers.  Only called for the overview tab;
// callers pass the already-filtered entity sets.  Entities without valid
// coordinates are skipped silently.  When at least one marker was drawn the
// viewport fits the padded bounds of all visible markers; an empty result
// leaves the viewport untouched.
func (l *MarkerLayer) Rebuild(tab Tab, layers LayerVisibility, universities []catalog.University, projects []catalog.Project, industries []catalog.IndustryPartner) error {
	if err := l.Clear(); err != nil {
		return err
	}
	if tab != TabOverview {
		return nil
	}

	var points []geo.Coordinates

	if layers.ShowUniversities {
		for i := range universities {
			u := &universities[i]
			if !u.Coordinates.Valid() {
				l.metrics.MarkersSkippedTotal.WithLabelValues(string(CategoryUniversity)).Inc()
				continue
			}
			if err := l.add(universityMarker(u)); err != nil {
				return err
			}
			points = append(points, u.Coordinates)
		}
	}
	if layers.ShowProjects {
		for i := range projects {
			p := &projects[i]
			if !p.Coordinates.Valid() {
				l.metrics.MarkersSkippedTotal.WithLabelValues(string(CategoryProject)).Inc()
				continue
			}
			if err := l.add(projectMarker(p)); err != nil {
				return err
			}
			points = append(points, p.Coordinates)
		}
	}
	if layers.ShowIndustry {
		for i := range industries {
			p := &industries[i]
			if !p.Coordinates.Valid() {
				l.metrics.MarkersSkippedTotal.WithLabelValues(string(CategoryIndustry)).Inc()
				continue
			}
			if err := l.add(industryMarker(p)); err != nil {
				return err
			}
			points = append(points, p.Coordinates)
		}
	}

	l.metrics.MarkersRendered.WithLabelValues("overview").Set(float64(len(l.markerIDs)))

	if len(points) == 0 {
		return nil
	}
	bounds := geo.BoundsOf(points).Pad(l.fitPadding)
	if err := l.surface.FitBounds(bounds, l.fitMaxZoom); err != nil {
		return errors.Wrap(err, errors.CodeSurfaceFailure, "fit overview bounds")
	}
	return nil
}

// Clear removes every marker the layer owns.  Ids leave the owned set as
// each removal succeeds, so a failed removal can be retried by the next
// Clear without re-removing markers that are already gone.
func (l *MarkerLayer) Clear() error {
	defer func() {
		l.metrics.MarkersRendered.WithLabelValues("overview").Set(float64(len(l.markerIDs)))
	}()
	for len(l.markerIDs) > 0 {
		last := len(l.markerIDs) - 1
		if err := l.surface.RemoveMarker(l.markerIDs[last]); err != nil {
			return errors.Wrap(err, errors.CodeSurfaceFailure, "remove marker")
		}
		l.markerIDs = l.markerIDs[:last]
	}
	return nil
}

// MarkerCount returns the number of markers currently drawn.
func (l *MarkerLayer) MarkerCount() int {
	return len(l.markerIDs)
}

func (l *MarkerLayer) add(m Marker) error {
	if err := l.surface.AddMarker(m); err != nil {
		return errors.Wrap(err, errors.CodeSurfaceFailure, "add marker")
	}
	l.markerIDs = append(l.markerIDs, m.ID)
	return nil
}

func markerID(category MarkerCategory, entityID string) string {
	return string(category) + ":" + entityID
}

func universityMarker(u *catalog.University) Marker {
	return Marker{
		ID:          markerID(CategoryUniversity, u.ID),
		Category:    CategoryUniversity,
		Coordinates: u.Coordinates,
		Popup: Popup{
			Title:    u.DisplayName(),
			Subtitle: u.State,
			Lines: []string{
				fmt.Sprintf("Researchers: %d", u.ResearchersCount),
				fmt.Sprintf("Active projects: %d", u.ActiveProjects),
				fmt.Sprintf("Publications: %d", u.Publications),
			},
			EntityID:    u.ID,
			ActionLabel: "View university",
		},
	}
}

func projectMarker(p *catalog.Project) Marker {
	return Marker{
		ID:          markerID(CategoryProject, p.ID),
		Category:    CategoryProject,
		Coordinates: p.Coordinates,
		Popup: Popup{
			Title:    p.DisplayName(),
			Subtitle: p.Location,
			Lines: []string{
				"Status: " + string(p.Status),
				"Lead: " + p.LeadResearcher,
			},
			EntityID:    p.ID,
			ActionLabel: "View project",
		},
	}
}

func industryMarker(p *catalog.IndustryPartner) Marker {
	return Marker{
		ID:          markerID(CategoryIndustry, p.ID),
		Category:    CategoryIndustry,
		Coordinates: p.Coordinates,
		Popup: Popup{
			Title:    p.Name,
			Subtitle: p.Sector,
			Lines: []string{
				fmt.Sprintf("Active collaborations: %d", p.ActiveCollaborations),
				"Specialization: " + p.Specialization,
			},
			EntityID:    p.ID,
			ActionLabel: "View partner",
		},
	}
}
