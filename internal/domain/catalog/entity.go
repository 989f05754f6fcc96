// Package catalog implements the geographic entity catalog bounded context:
// universities, research projects, industry partners, researcher locations,
// and campus events.  Entities are immutable reference data for a session;
// the map view filters and sorts them but never mutates them.  All business
// rules about descriptive fallbacks and coordinate validity live here.
package catalog

import (
	"strings"
	"time"

	"github.com/scholarmap/scholarmap/pkg/types/geo"
)

// Fallback literals rendered when a descriptive field is absent.  These exact
// strings are user-visible contract, not placeholders to improve on.
const (
	FallbackProjectName    = "Untitled Project"
	FallbackEventName      = "Untitled Event"
	FallbackEventTheme     = "No Theme"
	FallbackUniversityName = "Unknown University"
	FallbackValue          = "N/A"
)

// EntityType discriminates catalog entities in caches, metrics, and refresh
// events.
type EntityType string

const (
	EntityUniversity EntityType = "university"
	EntityProject    EntityType = "project"
	EntityPartner    EntityType = "industry_partner"
	EntityResearcher EntityType = "researcher"
	EntityEvent      EntityType = "event"
)

// ProjectStatus is the lifecycle state of a research project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "Active"
	ProjectPlanning  ProjectStatus = "Planning"
	ProjectCompleted ProjectStatus = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPlanning, ProjectCompleted:
		return true
	}
	return false
}

// University is reference data describing one institution.  Rank is an
// optional precomputed ordinal; zero means unranked.
type University struct {
	ID                string
	ShortName         string
	FullName          string
	State             string
	Coordinates       geo.Coordinates
	ResearchersCount  int
	ActiveProjects    int
	Publications      int
	IndustryCitations int
	TopResearchArea   string
	Departments       []string
	Rank              int
	ImagePath         string
}

// DisplayName returns the short name, falling back to the full name and then
// to the unknown-university literal.
func (u *University) DisplayName() string {
	if u.ShortName != "" {
		return u.ShortName
	}
	if u.FullName != "" {
		return u.FullName
	}
	return FallbackUniversityName
}

// HasDepartment reports whether the university lists the department,
// case-insensitively.
func (u *University) HasDepartment(name string) bool {
	for _, d := range u.Departments {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// Project is a research project placed on the map.  UniversityID is a weak
// reference; a dangling id is not an error.
type Project struct {
	ID                string
	Name              string
	Type              string
	Status            ProjectStatus
	Location          string
	Coordinates       geo.Coordinates
	StartDate         time.Time
	EndDate           time.Time
	Budget            float64
	LeadResearcher    string
	UniversityID      string
	CollaborationType string
	Category          string
	SDGTags           []string
	FundingType       string
	Description       string
	ImagePath         string
}

// DisplayName returns the project name or the untitled fallback.
func (p *Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return FallbackProjectName
}

// IndustryPartner is a company collaborating with one or more universities.
// UniversityPartners holds weak references to University ids.
type IndustryPartner struct {
	ID                   string
	Name                 string
	Sector               string
	Location             string
	Coordinates          geo.Coordinates
	Description          string
	UniversityPartners   []string
	ActiveCollaborations int
	FundingProvided      float64
	Specialization       string
	PartnershipType      string
	Tags                 []string
	ImagePath            string
}

// PartnersWith reports whether the partner collaborates with the university.
func (p *IndustryPartner) PartnersWith(universityID string) bool {
	for _, id := range p.UniversityPartners {
		if id == universityID {
			return true
		}
	}
	return false
}

// ResearcherLocation is the authoritative coordinate record for a researcher,
// used in network mode to place both the focused researcher and collaborators.
type ResearcherLocation struct {
	ID          string
	Name        string
	Department  string
	University  string
	Coordinates geo.Coordinates
}

// UniversityName returns the researcher's university or the unknown fallback.
func (r *ResearcherLocation) UniversityName() string {
	if r.University != "" {
		return r.University
	}
	return FallbackUniversityName
}

// Event is a campus or conference event shown in dashboard listings.
type Event struct {
	ID        string
	Name      string
	Theme     string
	Location  string
	StartsAt  time.Time
	EndsAt    time.Time
	ImagePath string
}

// DisplayName returns the event name or the untitled fallback.
func (e *Event) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return FallbackEventName
}

// DisplayTheme returns the event theme or the no-theme fallback.
func (e *Event) DisplayTheme() string {
	if e.Theme != "" {
		return e.Theme
	}
	return FallbackEventTheme
}

// Snapshot is a consistent view of the whole catalog, loaded once and shared
// read-only across map sessions.
type Snapshot struct {
	Universities []University
	Projects     []Project
	Partners     []IndustryPartner
	Researchers  []ResearcherLocation
	Events       []Event
	LoadedAt     time.Time
}

// ResearcherIndex builds an id-keyed lookup over the snapshot's researchers.
func (s *Snapshot) ResearcherIndex() map[string]*ResearcherLocation {
	idx := make(map[string]*ResearcherLocation, len(s.Researchers))
	for i := range s.Researchers {
		idx[s.Researchers[i].ID] = &s.Researchers[i]
	}
	return idx
}

// UniversityByID returns the university with the given id, or nil.
func (s *Snapshot) UniversityByID(id string) *University {
	for i := range s.Universities {
		if s.Universities[i].ID == id {
			return &s.Universities[i]
		}
	}
	return nil
}
