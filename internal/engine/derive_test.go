package engine

import "testing"

func singleGroup(card GroupCardinality, texts ...string) []AnswerGroup {
	g := AnswerGroup{Cardinality: card}
	for i, text := range texts {
		g.Alternatives = append(g.Alternatives, AnswerAlternative{Index: i + 1, Text: text, Marks: 1})
	}
	return []AnswerGroup{g}
}

func TestDeriveFormat(t *testing.T) {
	tests := []struct {
		name      string
		groups    []AnswerGroup
		tabular   bool
		want      AnswerFormat
		wantNotes int
	}{
		{"table template wins", nil, true, FormatTable, 0},
		{"single exact answer", singleGroup(CardinalityStandalone, "oxygen"), false, FormatSingleLine, 0},
		{"single one_required group", singleGroup(CardinalityOneRequired, "purple", "violet"), false, FormatSingleLine, 0},
		{"no alternatives", nil, false, FormatFreeText, 1},
		{
			"multiple groups are ambiguous",
			append(singleGroup(CardinalityStandalone, "a"), singleGroup(CardinalityStandalone, "b")...),
			false, FormatFreeText, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes := DeriveFormat(tt.groups, tt.tabular)
			if got != tt.want {
				t.Errorf("format = %q, want %q", got, tt.want)
			}
			if len(notes) != tt.wantNotes {
				t.Errorf("notes = %v, want %d note(s)", notes, tt.wantNotes)
			}
		})
	}
}

func TestDeriveRequirement(t *testing.T) {
	tests := []struct {
		name      string
		groups    []AnswerGroup
		want      AnswerRequirement
		wantNotes int
	}{
		{"one_required group", singleGroup(CardinalityOneRequired, "purple", "violet"), RequirementAnyOne, 0},
		{"all_required group", singleGroup(CardinalityAllRequired, "a", "b"), RequirementAll, 0},
		{"single exact answer", singleGroup(CardinalityStandalone, "oxygen"), RequirementExact, 0},
		{
			"multiple standalone groups",
			append(singleGroup(CardinalityStandalone, "a"), singleGroup(CardinalityStandalone, "b")...),
			RequirementAll, 0,
		},
		{"no groups falls back", nil, RequirementExact, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes := DeriveRequirement(tt.groups)
			if got != tt.want {
				t.Errorf("requirement = %q, want %q", got, tt.want)
			}
			if len(notes) != tt.wantNotes {
				t.Errorf("notes = %v, want %d note(s)", notes, tt.wantNotes)
			}
		})
	}
}
