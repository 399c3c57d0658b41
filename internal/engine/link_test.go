package engine

import (
	"strings"
	"testing"
)

func marks(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func TestLinkAlternativesStandalone(t *testing.T) {
	raw := []RawAnswer{
		{Answer: "mitochondrion", Marks: marks(1)},
		{Answer: "ribosome", Marks: marks(1)},
	}
	groups, warnings := LinkAlternatives(raw)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	for i, g := range groups {
		if g.Cardinality != CardinalityStandalone {
			t.Errorf("group %d cardinality = %q, want standalone", i, g.Cardinality)
		}
		if len(g.Alternatives) != 1 {
			t.Errorf("group %d has %d alternatives, want 1", i, len(g.Alternatives))
		}
	}
	if groups[0].Alternatives[0].Index != 1 || groups[1].Alternatives[0].Index != 2 {
		t.Errorf("alternative indices not preserved: %+v", groups)
	}
}

func TestLinkAlternativesByLinkedIndices(t *testing.T) {
	raw := []RawAnswer{
		{Answer: "purple", Marks: marks(1), AlternativeType: "one_required", LinkedAlternatives: []int{2}},
		{Answer: "violet", Marks: marks(1), AlternativeType: "one_required", LinkedAlternatives: []int{1}},
		{Answer: "oxygen", Marks: marks(1)},
	}
	groups, warnings := LinkAlternatives(raw)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Cardinality != CardinalityOneRequired {
		t.Errorf("group 0 cardinality = %q, want one_required", groups[0].Cardinality)
	}
	if len(groups[0].Alternatives) != 2 {
		t.Fatalf("group 0 has %d alternatives, want 2", len(groups[0].Alternatives))
	}
	if got := groups[0].Alternatives[0].LinkedAlternatives; len(got) != 1 || got[0] != 2 {
		t.Errorf("alternative 1 siblings = %v, want [2]", got)
	}
	if groups[1].Cardinality != CardinalityStandalone {
		t.Errorf("group 1 cardinality = %q, want standalone", groups[1].Cardinality)
	}
}

func TestLinkAlternativesByAlternativeID(t *testing.T) {
	raw := []RawAnswer{
		{Answer: "glucose", Marks: marks(1), AlternativeID: intp(7)},
		{Answer: "dextrose", Marks: marks(1), AlternativeID: intp(7)},
		{Answer: "starch", Marks: marks(1), AlternativeID: intp(8)},
	}
	groups, _ := LinkAlternatives(raw)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if len(groups[0].Alternatives) != 2 {
		t.Errorf("group 0 has %d alternatives, want 2", len(groups[0].Alternatives))
	}
}

func TestLinkAlternativesConsecutiveType(t *testing.T) {
	raw := []RawAnswer{
		{Answer: "condensation", Marks: marks(1), AlternativeType: "all_required"},
		{Answer: "precipitation", Marks: marks(1), AlternativeType: "all_required"},
		{Answer: "evaporation", Marks: marks(1), AlternativeType: "standalone"},
	}
	groups, _ := LinkAlternatives(raw)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].Cardinality != CardinalityAllRequired {
		t.Errorf("group 0 cardinality = %q, want all_required", groups[0].Cardinality)
	}
	if groups[1].Cardinality != CardinalityStandalone {
		t.Errorf("group 1 cardinality = %q, want standalone", groups[1].Cardinality)
	}
}

func TestLinkAlternativesAsymmetryWarns(t *testing.T) {
	raw := []RawAnswer{
		{Answer: "purple", Marks: marks(1), LinkedAlternatives: []int{2}},
		{Answer: "violet", Marks: marks(1)},
	}
	groups, warnings := LinkAlternatives(raw)
	// best-effort grouping still merges the pair
	if len(groups) != 1 || len(groups[0].Alternatives) != 2 {
		t.Fatalf("asymmetric link should still group: %+v", groups)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "not linked back") {
		t.Errorf("warnings = %v, want one symmetry warning", warnings)
	}
}

func TestLinkAlternativesOutOfRangeWarns(t *testing.T) {
	raw := []RawAnswer{
		{Answer: "purple", Marks: marks(1), LinkedAlternatives: []int{5}},
	}
	groups, warnings := LinkAlternatives(raw)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "out-of-range") {
		t.Errorf("warnings = %v, want one out-of-range warning", warnings)
	}
}

func TestGroupMarks(t *testing.T) {
	oneReq := AnswerGroup{
		Cardinality: CardinalityOneRequired,
		Alternatives: []AnswerAlternative{
			{Text: "purple", Marks: 1},
			{Text: "violet", Marks: 2},
		},
	}
	if got := oneReq.Marks(); got != 2 {
		t.Errorf("one_required group marks = %v, want best alternative 2", got)
	}

	allReq := AnswerGroup{
		Cardinality: CardinalityAllRequired,
		Alternatives: []AnswerAlternative{
			{Text: "a", Marks: 1},
			{Text: "b", Marks: 1.5},
		},
	}
	if got := allReq.Marks(); got != 2.5 {
		t.Errorf("all_required group marks = %v, want sum 2.5", got)
	}
}
