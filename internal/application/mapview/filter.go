package mapview

import "strings"

// Tab is the active map view.
type Tab string

const (
	TabOverview Tab = "overview"
	TabNetwork  Tab = "network"
)

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	return t == TabOverview || t == TabNetwork
}

// LayerVisibility controls which overview marker categories are drawn.
type LayerVisibility struct {
	ShowUniversities bool `json:"showUniversities"`
	ShowProjects     bool `json:"showProjects"`
	ShowIndustry     bool `json:"showIndustry"`
}

// NetworkTypes are the two independent collaboration toggles.  Both may be
// enabled at once; each contributes its own edges.
type NetworkTypes struct {
	Papers   bool `json:"papers"`
	Projects bool `json:"projects"`
}

// FilterCriteria is the active filter state.  Empty string fields mean
// match-all.
type FilterCriteria struct {
	Search            string          `json:"search"`
	State             string          `json:"state"`
	Type              string          `json:"type"`
	IndustrySector    string          `json:"industrySector"`
	PartnershipType   string          `json:"partnershipType"`
	Department        string          `json:"department"`
	CollaborationType string          `json:"collaborationType"`
	ProjectCategory   string          `json:"projectCategory"`
	ProjectStatus     string          `json:"projectStatus"`
	SDGTag            string          `json:"sdgTag"`
	FundingType       string          `json:"fundingType"`
	Layers            LayerVisibility `json:"layers"`
	NetworkTypes      NetworkTypes    `json:"networkTypes"`
}

// DefaultCriteria matches everything with all overview layers visible.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Layers: LayerVisibility{
			ShowUniversities: true,
			ShowProjects:     true,
			ShowIndustry:     true,
		},
	}
}

// FilterUpdate is a partial criteria change.  Nil fields are left untouched,
// mirroring shallow-merge semantics; set a field to the empty string to clear
// that filter.
type FilterUpdate struct {
	Search            *string `json:"search,omitempty"`
	State             *string `json:"state,omitempty"`
	Type              *string `json:"type,omitempty"`
	IndustrySector    *string `json:"industrySector,omitempty"`
	PartnershipType   *string `json:"partnershipType,omitempty"`
	Department        *string `json:"department,omitempty"`
	CollaborationType *string `json:"collaborationType,omitempty"`
	ProjectCategory   *string `json:"projectCategory,omitempty"`
	ProjectStatus     *string `json:"projectStatus,omitempty"`
	SDGTag            *string `json:"sdgTag,omitempty"`
	FundingType       *string `json:"fundingType,omitempty"`
	ShowUniversities  *bool   `json:"showUniversities,omitempty"`
	ShowProjects      *bool   `json:"showProjects,omitempty"`
	ShowIndustry      *bool   `json:"showIndustry,omitempty"`
	NetworkPapers     *bool   `json:"networkPapers,omitempty"`
	NetworkProjects   *bool   `json:"networkProjects,omitempty"`
}

// Apply shallow-merges the update into the criteria and returns the result.
func (c FilterCriteria) Apply(u FilterUpdate) FilterCriteria {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&c.Search, u.Search)
	setStr(&c.State, u.State)
	setStr(&c.Type, u.Type)
	setStr(&c.IndustrySector, u.IndustrySector)
	setStr(&c.PartnershipType, u.PartnershipType)
	setStr(&c.Department, u.Department)
	setStr(&c.CollaborationType, u.CollaborationType)
	setStr(&c.ProjectCategory, u.ProjectCategory)
	setStr(&c.ProjectStatus, u.ProjectStatus)
	setStr(&c.SDGTag, u.SDGTag)
	setStr(&c.FundingType, u.FundingType)

	if u.ShowUniversities != nil {
		c.Layers.ShowUniversities = *u.ShowUniversities
	}
	if u.ShowProjects != nil {
		c.Layers.ShowProjects = *u.ShowProjects
	}
	if u.ShowIndustry != nil {
		c.Layers.ShowIndustry = *u.ShowIndustry
	}
	if u.NetworkPapers != nil {
		c.NetworkTypes.Papers = *u.NetworkPapers
	}
	if u.NetworkProjects != nil {
		c.NetworkTypes.Projects = *u.NetworkProjects
	}
	return c
}
