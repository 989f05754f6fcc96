package repositories

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

func record(keys []string, values []any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func TestIntValueHandlesDriverTypes(t *testing.T) {
	rec := record([]string{"a", "b", "c", "d"}, []any{int64(5), nil, 2.0, "x"})
	if got := intValue(rec, "a"); got != 5 {
		t.Errorf("int64 = %d", got)
	}
	if got := intValue(rec, "b"); got != 0 {
		t.Errorf("nil = %d", got)
	}
	if got := intValue(rec, "c"); got != 2 {
		t.Errorf("float64 = %d", got)
	}
	if got := intValue(rec, "missing"); got != 0 {
		t.Errorf("missing key = %d", got)
	}
}

func TestProjectRefsAlignsTitlesAndYears(t *testing.T) {
	rec := record(
		[]string{"projects", "years"},
		[]any{[]any{"Smart Grid", "River Sensors"}, []any{int64(2023), int64(2024)}},
	)
	refs := projectRefs(rec)
	if len(refs) != 2 {
		t.Fatalf("refs = %d", len(refs))
	}
	if refs[0].Title != "Smart Grid" || refs[0].Year != 2023 {
		t.Errorf("refs[0] = %+v", refs[0])
	}
	if refs[1].Title != "River Sensors" || refs[1].Year != 2024 {
		t.Errorf("refs[1] = %+v", refs[1])
	}
}

func TestProjectRefsShortYearList(t *testing.T) {
	rec := record([]string{"projects", "years"}, []any{[]any{"Solo"}, []any{}})
	refs := projectRefs(rec)
	if len(refs) != 1 || refs[0].Year != 0 {
		t.Errorf("refs = %+v", refs)
	}
}

func TestProjectRefsEmpty(t *testing.T) {
	rec := record([]string{"projects", "years"}, []any{nil, nil})
	if refs := projectRefs(rec); refs != nil {
		t.Errorf("expected nil, got %+v", refs)
	}
}
