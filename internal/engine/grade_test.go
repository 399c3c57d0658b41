package engine

import "testing"

func oneRequiredColours() []AnswerGroup {
	return []AnswerGroup{{
		Cardinality: CardinalityOneRequired,
		Alternatives: []AnswerAlternative{
			{Index: 1, Text: "purple", Marks: 1},
			{Index: 2, Text: "violet", Marks: 1},
			{Index: 3, Text: "lilac", Marks: 1},
			{Index: 4, Text: "mauve", Marks: 1},
		},
	}}
}

func TestGradeAnswersOneRequired(t *testing.T) {
	tests := []struct {
		name         string
		submitted    []string
		wantAchieved float64
		wantStatus   string
	}{
		{"first alternative", []string{"purple"}, 1, StatusMatched},
		{"later alternative", []string{"mauve"}, 1, StatusMatched},
		{"case and spacing ignored", []string{"  VIOLET "}, 1, StatusMatched},
		{"wrong colour", []string{"green"}, 0, StatusUnmatched},
		{"nothing submitted", nil, 0, StatusUnanswered},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GradeAnswers(oneRequiredColours(), tt.submitted)
			if result.Total != 1 {
				t.Errorf("total = %v, want 1 (best single alternative)", result.Total)
			}
			if result.Achieved != tt.wantAchieved {
				t.Errorf("achieved = %v, want %v", result.Achieved, tt.wantAchieved)
			}
			if len(result.Feedback) != 1 {
				t.Fatalf("got %d feedback entries, want 1", len(result.Feedback))
			}
			if result.Feedback[0].Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", result.Feedback[0].Status, tt.wantStatus)
			}
		})
	}
}

func TestGradeAnswersNoDoubleCredit(t *testing.T) {
	groups := []AnswerGroup{{
		Cardinality: CardinalityAllRequired,
		Alternatives: []AnswerAlternative{
			{Index: 1, Text: "violet", Marks: 1},
			{Index: 2, Text: "purple", Marks: 1},
		},
	}}

	// the same correct word twice satisfies only its own slot
	result := GradeAnswers(groups, []string{"violet", "violet"})
	if result.Achieved != 1 {
		t.Errorf("achieved = %v, want 1", result.Achieved)
	}
	if result.Total != 2 {
		t.Errorf("total = %v, want 2", result.Total)
	}
	if result.Feedback[0].Status != StatusMatched || result.Feedback[1].Status != StatusUnmatched {
		t.Errorf("statuses = %q, %q", result.Feedback[0].Status, result.Feedback[1].Status)
	}
}

func TestGradeAnswersPartialSubmission(t *testing.T) {
	groups := []AnswerGroup{
		{Cardinality: CardinalityStandalone, Alternatives: []AnswerAlternative{{Index: 1, Text: "iron", Marks: 1}}},
		{Cardinality: CardinalityStandalone, Alternatives: []AnswerAlternative{{Index: 2, Text: "copper", Marks: 1}}},
	}
	result := GradeAnswers(groups, []string{"iron"})
	if result.Achieved != 1 || result.Total != 2 {
		t.Errorf("achieved/total = %v/%v, want 1/2", result.Achieved, result.Total)
	}
	if result.Feedback[1].Status != StatusUnanswered {
		t.Errorf("missing answer status = %q, want unanswered", result.Feedback[1].Status)
	}
	if result.Percentage != 50 {
		t.Errorf("percentage = %v, want 50", result.Percentage)
	}
}

func TestMatchAlternative(t *testing.T) {
	tests := []struct {
		name      string
		alt       AnswerAlternative
		submitted string
		want      bool
	}{
		{"exact", AnswerAlternative{Text: "oxygen"}, "oxygen", true},
		{"case-insensitive by default", AnswerAlternative{Text: "Oxygen"}, "OXYGEN", true},
		{"case-sensitive when flagged", AnswerAlternative{Text: "pH", CaseSensitive: true}, "ph", false},
		{"internal spacing collapsed", AnswerAlternative{Text: "carbon dioxide"}, "carbon   dioxide", true},
		{
			"variation accepted with equivalent phrasing",
			AnswerAlternative{Text: "water", Variations: []string{"H2O"}, AcceptsEquivalentPhrasing: true},
			"h2o", true,
		},
		{
			"variation rejected without equivalent phrasing",
			AnswerAlternative{Text: "water", Variations: []string{"H2O"}},
			"h2o", false,
		},
		{
			"literal still accepted without equivalent phrasing",
			AnswerAlternative{Text: "water", Variations: []string{"H2O"}},
			"water", true,
		},
		{"unit optional", AnswerAlternative{Text: "7.5 cm", Unit: "cm"}, "7.5", true},
		{"unit spacing irrelevant", AnswerAlternative{Text: "7.5 cm", Unit: "cm"}, "7.5cm", true},
		{"magnitude never altered", AnswerAlternative{Text: "7.5 cm", Unit: "cm"}, "75 cm", false},
		{"empty submission never matches", AnswerAlternative{Text: "oxygen"}, "   ", false},
		{"wrong word", AnswerAlternative{Text: "oxygen"}, "nitrogen", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchAlternative(tt.alt, tt.submitted); got != tt.want {
				t.Errorf("matchAlternative(%q) = %v, want %v", tt.submitted, got, tt.want)
			}
		})
	}
}

func TestGradeQuestionWholeTree(t *testing.T) {
	raw := mustDecodeQuestion(t, complexQuestionSrc)
	q, _, err := Transform(raw, 0)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	result := GradeQuestion(q, map[string][]string{
		"q3-a":    {"chloroplast"},
		"q3-b-i":  {"oxygen"},
		"q3-b-ii": nil, // left blank
	})
	if result.Total != 4 {
		t.Errorf("total = %v, want 4", result.Total)
	}
	if result.Achieved != 2 {
		t.Errorf("achieved = %v, want 2", result.Achieved)
	}
	if result.Percentage != 50 {
		t.Errorf("percentage = %v, want 50", result.Percentage)
	}

	last := result.Feedback[len(result.Feedback)-1]
	if last.Ref != "q3-b-ii answer 1" {
		t.Errorf("feedback ref = %q, want node-qualified ref", last.Ref)
	}
	if last.Status != StatusUnanswered {
		t.Errorf("blank subpart status = %q, want unanswered", last.Status)
	}
}

func TestGradingResultIsFresh(t *testing.T) {
	groups := oneRequiredColours()
	first := GradeAnswers(groups, []string{"purple"})
	second := GradeAnswers(groups, []string{"green"})
	if first.Achieved != 1 || second.Achieved != 0 {
		t.Errorf("results leaked state: %v then %v", first.Achieved, second.Achieved)
	}
}
