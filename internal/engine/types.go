package engine

// QuestionKind discriminates the two canonical question shapes.
type QuestionKind string

const (
	KindSimple  QuestionKind = "simple"
	KindComplex QuestionKind = "complex"
)

// GroupCardinality is the grading rule shared by all alternatives in a group.
type GroupCardinality string

const (
	CardinalityStandalone  GroupCardinality = "standalone"
	CardinalityOneRequired GroupCardinality = "one_required"
	CardinalityAllRequired GroupCardinality = "all_required"
)

// AnswerFormat is the input widget hint derived for consumers.
type AnswerFormat string

const (
	FormatSingleLine AnswerFormat = "single_line"
	FormatFreeText   AnswerFormat = "free_text"
	FormatTable      AnswerFormat = "table"
)

// AnswerRequirement describes how many alternatives a candidate must satisfy.
type AnswerRequirement string

const (
	RequirementExact  AnswerRequirement = "exact_match"
	RequirementAnyOne AnswerRequirement = "any_one_from"
	RequirementAll    AnswerRequirement = "all_required"
)

// Question is the canonical root entity produced by Transform.
type Question struct {
	ID          string            `json:"id"`
	Number      int               `json:"number"`
	Kind        QuestionKind      `json:"kind"`
	Text        string            `json:"text"`
	Marks       float64           `json:"marks"`
	Format      AnswerFormat      `json:"answer_format"`
	Requirement AnswerRequirement `json:"answer_requirement"`
	Parts       []Part            `json:"parts,omitempty"`
	Groups      []AnswerGroup     `json:"answer_groups,omitempty"`
	Table       *TableTemplate    `json:"table_template,omitempty"`
}

// Part belongs to exactly one Question. A part without a direct answer is
// contextual-only: it carries shared stem text for its subparts and no
// answer groups.
type Part struct {
	ID              string            `json:"id"`
	Label           string            `json:"label"`
	Text            string            `json:"text"`
	Marks           float64           `json:"marks"`
	HasDirectAnswer bool              `json:"has_direct_answer"`
	Format          AnswerFormat      `json:"answer_format"`
	Requirement     AnswerRequirement `json:"answer_requirement"`
	Subparts        []Subpart         `json:"subparts,omitempty"`
	Groups          []AnswerGroup     `json:"answer_groups,omitempty"`
	Table           *TableTemplate    `json:"table_template,omitempty"`
}

// Subpart belongs to exactly one Part.
type Subpart struct {
	ID          string            `json:"id"`
	Label       string            `json:"label"`
	Text        string            `json:"text"`
	Marks       float64           `json:"marks"`
	Hint        string            `json:"hint,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
	Format      AnswerFormat      `json:"answer_format"`
	Requirement AnswerRequirement `json:"answer_requirement"`
	Groups      []AnswerGroup     `json:"answer_groups,omitempty"`
}

// AnswerAlternative is one candidate-acceptable answer string within a group.
// Index is 1-based and stable across edits. LinkedAlternatives records the
// sibling indices in the same group so the grader can resolve membership
// without a second lookup table.
type AnswerAlternative struct {
	Index                     int      `json:"index"`
	Text                      string   `json:"text"`
	Marks                     float64  `json:"marks"`
	Working                   string   `json:"working,omitempty"`
	AcceptsEquivalentPhrasing bool     `json:"accepts_equivalent_phrasing"`
	AcceptsReverseArgument    bool     `json:"accepts_reverse_argument"`
	ErrorCarriedForward       bool     `json:"error_carried_forward"`
	CaseSensitive             bool     `json:"case_sensitive"`
	Unit                      string   `json:"unit,omitempty"`
	Variations                []string `json:"variations,omitempty"`
	LinkedAlternatives        []int    `json:"linked_alternatives,omitempty"`
}

// AnswerGroup is a set of alternatives graded under one cardinality rule.
type AnswerGroup struct {
	Cardinality  GroupCardinality    `json:"cardinality"`
	Alternatives []AnswerAlternative `json:"alternatives"`
}

// Marks returns the group's static contribution to the gradable total.
// A one_required group is worth its best single alternative; other groups
// are worth the sum of their alternatives.
func (g AnswerGroup) Marks() float64 {
	if g.Cardinality == CardinalityOneRequired {
		best := 0.0
		for _, a := range g.Alternatives {
			if a.Marks > best {
				best = a.Marks
			}
		}
		return best
	}
	total := 0.0
	for _, a := range g.Alternatives {
		total += a.Marks
	}
	return total
}

// UnitFeedback is one per-unit record inside a GradingResult: one entry per
// graded alternative or editable table cell.
type UnitFeedback struct {
	Ref       string  `json:"ref"`
	Expected  string  `json:"expected"`
	Submitted string  `json:"submitted,omitempty"`
	Status    string  `json:"status"` // matched, unmatched, unanswered
	Awarded   float64 `json:"awarded"`
	Available float64 `json:"available"`
}

const (
	StatusMatched    = "matched"
	StatusUnmatched  = "unmatched"
	StatusUnanswered = "unanswered"
)

// GradingResult is created fresh per grading invocation and never mutated.
type GradingResult struct {
	Achieved   float64        `json:"achieved_marks"`
	Total      float64        `json:"total_marks"`
	Percentage float64        `json:"percentage"`
	Feedback   []UnitFeedback `json:"feedback"`
}

func finalizeResult(r GradingResult) GradingResult {
	if r.Total > 0 {
		r.Percentage = r.Achieved / r.Total * 100
	}
	return r
}
