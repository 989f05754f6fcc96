package mapview

import "github.com/scholarmap/scholarmap/internal/domain/catalog"

// Statistics are summary values over the currently visible entity set.
// Recomputed on every relevant change; never cached.
type Statistics struct {
	TotalUniversities int    `json:"totalUniversities"`
	TotalResearchers  int    `json:"totalResearchers"`
	TotalProjects     int    `json:"totalProjects"`
	TopResearchArea   string `json:"topResearchArea"`
	MostActiveState   string `json:"mostActiveState"`
}

// ComputeStatistics aggregates the visible universities and projects.  Top
// research area is the most common area across universities; most active
// state is the state with the highest active-project total.  Empty inputs
// yield zero counts and empty strings.
func ComputeStatistics(universities []catalog.University, projects []catalog.Project) Statistics {
	stats := Statistics{
		TotalUniversities: len(universities),
		TotalProjects:     len(projects),
	}

	areaCounts := make(map[string]int)
	stateActivity := make(map[string]int)
	for i := range universities {
		u := &universities[i]
		stats.TotalResearchers += u.ResearchersCount
		if u.TopResearchArea != "" {
			areaCounts[u.TopResearchArea]++
		}
		if u.State != "" {
			stateActivity[u.State] += u.ActiveProjects
		}
	}

	stats.TopResearchArea = maxKey(areaCounts)
	stats.MostActiveState = maxKey(stateActivity)
	return stats
}

// maxKey returns the key with the largest count; ties break toward the
// lexicographically smaller key so the result is deterministic.
func maxKey(counts map[string]int) string {
	var best string
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best = k
			bestCount = c
		}
	}
	if bestCount <= 0 {
		return ""
	}
	return best
}
