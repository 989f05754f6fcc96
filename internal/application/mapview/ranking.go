package mapview

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// RankingMetric selects the value universities are ranked by.
type RankingMetric string

const (
	// MetricOverall uses the precomputed rank field, or the 1-based catalog
	// order where it is absent.
	MetricOverall           RankingMetric = "overall"
	MetricResearchers       RankingMetric = "researchers"
	MetricActiveProjects    RankingMetric = "activeProjects"
	MetricPublications      RankingMetric = "publications"
	MetricIndustryCitations RankingMetric = "industryCitations"
)

// Valid reports whether m is a known metric.
func (m RankingMetric) Valid() bool {
	switch m {
	case MetricOverall, MetricResearchers, MetricActiveProjects, MetricPublications, MetricIndustryCitations:
		return true
	}
	return false
}

// SortDirection orders the displayed rows.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// RankingRow is a university with its computed rank.  CurrentRank is dense
// (1..N) and fixed at ranking time; re-sorting the rows never changes it.
type RankingRow struct {
	University  catalog.University `json:"university"`
	CurrentRank int                `json:"currentRank"`
}

// Badge returns the display badge for the row's rank.  The top three ranks
// get ordinal badges with distinct styling; the rest show the number.
func (r RankingRow) Badge() string {
	switch r.CurrentRank {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%d", r.CurrentRank)
	}
}

// RankingEngine computes ranks and, separately, display order.  The two
// passes are deliberately decoupled: ranks are assigned from the metric,
// then the rows may be re-sorted by any column without touching the ranks.
type RankingEngine struct {
	collator *collate.Collator
}

// NewRankingEngine creates an engine with a locale-aware string collator.
func NewRankingEngine() *RankingEngine {
	return &RankingEngine{collator: collate.New(language.English, collate.IgnoreCase)}
}

// Rank assigns dense 1..N ranks by the metric, descending (larger is
// better).  Ties keep the input order, which breaks them by original array
// position.  The input slice is not modified.
func (e *RankingEngine) Rank(universities []catalog.University, metric RankingMetric) ([]RankingRow, error) {
	if !metric.Valid() {
		return nil, errors.New(errors.CodeInvalidMetric, "unknown ranking metric").WithDetail(string(metric))
	}

	rows := make([]RankingRow, len(universities))
	for i, u := range universities {
		rows[i] = RankingRow{University: u}
	}

	if metric == MetricOverall {
		for i := range rows {
			if rank := rows[i].University.Rank; rank > 0 {
				rows[i].CurrentRank = rank
			} else {
				rows[i].CurrentRank = i + 1
			}
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].CurrentRank < rows[j].CurrentRank
		})
		return rows, nil
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return metricValue(&rows[i].University, metric) > metricValue(&rows[j].University, metric)
	})
	for i := range rows {
		rows[i].CurrentRank = i + 1
	}
	return rows, nil
}

// SortColumn names a displayable column for the secondary sort.
type SortColumn string

const (
	ColumnShortName         SortColumn = "shortName"
	ColumnState             SortColumn = "state"
	ColumnRank              SortColumn = "rank"
	ColumnResearchers       SortColumn = "researchers"
	ColumnActiveProjects    SortColumn = "activeProjects"
	ColumnPublications      SortColumn = "publications"
	ColumnIndustryCitations SortColumn = "industryCitations"
)

// Resort orders rows for display without touching CurrentRank.  String
// columns compare with the locale collator; numeric columns treat the value
// as 0 when missing.  The input slice is sorted in place and returned.
func (e *RankingEngine) Resort(rows []RankingRow, column SortColumn, direction SortDirection) []RankingRow {
	less := e.lessFunc(rows, column)
	if direction == SortDescending {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(rows, less)
	return rows
}

func (e *RankingEngine) lessFunc(rows []RankingRow, column SortColumn) func(i, j int) bool {
	switch column {
	case ColumnShortName:
		return func(i, j int) bool {
			return e.collator.CompareString(rows[i].University.DisplayName(), rows[j].University.DisplayName()) < 0
		}
	case ColumnState:
		return func(i, j int) bool {
			return e.collator.CompareString(rows[i].University.State, rows[j].University.State) < 0
		}
	case ColumnRank:
		return func(i, j int) bool { return rows[i].CurrentRank < rows[j].CurrentRank }
	case ColumnResearchers:
		return func(i, j int) bool {
			return rows[i].University.ResearchersCount < rows[j].University.ResearchersCount
		}
	case ColumnActiveProjects:
		return func(i, j int) bool {
			return rows[i].University.ActiveProjects < rows[j].University.ActiveProjects
		}
	case ColumnPublications:
		return func(i, j int) bool {
			return rows[i].University.Publications < rows[j].University.Publications
		}
	case ColumnIndustryCitations:
		return func(i, j int) bool {
			return rows[i].University.IndustryCitations < rows[j].University.IndustryCitations
		}
	default:
		return func(i, j int) bool { return rows[i].CurrentRank < rows[j].CurrentRank }
	}
}

// metricValue reads the metric's numeric field; absent values count as 0 for
// ordering.
func metricValue(u *catalog.University, metric RankingMetric) int {
	switch metric {
	case MetricResearchers:
		return u.ResearchersCount
	case MetricActiveProjects:
		return u.ActiveProjects
	case MetricPublications:
		return u.Publications
	case MetricIndustryCitations:
		return u.IndustryCitations
	default:
		return 0
	}
}

// FormatMetric renders a numeric cell; non-positive values display the
// not-available literal since the catalog never records true zeros.
func FormatMetric(value int) string {
	if value <= 0 {
		return catalog.FallbackValue
	}
	return fmt.Sprintf("%d", value)
}
