package mapview

import (
	"strings"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
)

// VisibleEntities is the filtered entity set the overview markers,
// statistics, and rankings all derive from.
type VisibleEntities struct {
	Universities []catalog.University
	Projects     []catalog.Project
	Partners     []catalog.IndustryPartner
}

// ApplyFilters narrows the snapshot to the entities matching the criteria
// and, when a search ran, the matched id sets.  Empty criteria fields match
// everything.
func ApplyFilters(snap *catalog.Snapshot, criteria FilterCriteria, matches *catalog.SearchMatches) VisibleEntities {
	var visible VisibleEntities

	for _, u := range snap.Universities {
		if !universityMatches(&u, criteria, matches) {
			continue
		}
		visible.Universities = append(visible.Universities, u)
	}
	for _, p := range snap.Projects {
		if !projectMatches(&p, criteria, matches) {
			continue
		}
		visible.Projects = append(visible.Projects, p)
	}
	for _, p := range snap.Partners {
		if !partnerMatches(&p, criteria, matches) {
			continue
		}
		visible.Partners = append(visible.Partners, p)
	}
	return visible
}

func universityMatches(u *catalog.University, c FilterCriteria, matches *catalog.SearchMatches) bool {
	if c.State != "" && !strings.EqualFold(u.State, c.State) {
		return false
	}
	if c.Department != "" && !u.HasDepartment(c.Department) {
		return false
	}
	if matches != nil && matches.Universities != nil && !matches.Universities[u.ID] {
		return false
	}
	return true
}

func projectMatches(p *catalog.Project, c FilterCriteria, matches *catalog.SearchMatches) bool {
	if c.Type != "" && !strings.EqualFold(p.Type, c.Type) {
		return false
	}
	if c.ProjectStatus != "" && !strings.EqualFold(string(p.Status), c.ProjectStatus) {
		return false
	}
	if c.ProjectCategory != "" && !strings.EqualFold(p.Category, c.ProjectCategory) {
		return false
	}
	if c.CollaborationType != "" && !strings.EqualFold(p.CollaborationType, c.CollaborationType) {
		return false
	}
	if c.FundingType != "" && !strings.EqualFold(p.FundingType, c.FundingType) {
		return false
	}
	if c.SDGTag != "" && !containsFold(p.SDGTags, c.SDGTag) {
		return false
	}
	if matches != nil && matches.Projects != nil && !matches.Projects[p.ID] {
		return false
	}
	return true
}

func partnerMatches(p *catalog.IndustryPartner, c FilterCriteria, matches *catalog.SearchMatches) bool {
	if c.IndustrySector != "" && !strings.EqualFold(p.Sector, c.IndustrySector) {
		return false
	}
	if c.PartnershipType != "" && !strings.EqualFold(p.PartnershipType, c.PartnershipType) {
		return false
	}
	if matches != nil && matches.Partners != nil && !matches.Partners[p.ID] {
		return false
	}
	return true
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
