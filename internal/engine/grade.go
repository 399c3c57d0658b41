package engine

import (
	"strconv"
	"strings"
)

// GradeAnswers marks a list of submitted text answers against the answer
// groups of a single question node.
//
// Submitted values are consumed in order: a one_required group takes exactly
// one value and awards the first alternative it matches, while standalone and
// all_required groups take one value per alternative, compared positionally.
// Positional comparison means a value can satisfy at most one alternative, so
// repeating the same correct answer never earns credit twice.
func GradeAnswers(groups []AnswerGroup, submitted []string) GradingResult {
	result := GradingResult{}
	cursor := 0

	next := func() (string, bool) {
		if cursor >= len(submitted) {
			return "", false
		}
		v := submitted[cursor]
		cursor++
		return v, true
	}

	slot := func() string {
		return "answer " + strconv.Itoa(len(result.Feedback)+1)
	}

	for _, group := range groups {
		if group.Cardinality == CardinalityOneRequired {
			available := group.Marks()
			result.Total += available
			fb := UnitFeedback{
				Ref:       slot(),
				Expected:  expectedText(group),
				Available: available,
				Status:    StatusUnanswered,
			}
			if value, ok := next(); ok {
				fb.Submitted = value
				fb.Status = StatusUnmatched
				for _, alt := range group.Alternatives {
					if matchAlternative(alt, value) {
						fb.Status = StatusMatched
						fb.Awarded = alt.Marks
						break
					}
				}
			}
			result.Achieved += fb.Awarded
			result.Feedback = append(result.Feedback, fb)
			continue
		}

		for _, alt := range group.Alternatives {
			result.Total += alt.Marks
			fb := UnitFeedback{
				Ref:       slot(),
				Expected:  alt.Text,
				Available: alt.Marks,
				Status:    StatusUnanswered,
			}
			if value, ok := next(); ok {
				fb.Submitted = value
				if matchAlternative(alt, value) {
					fb.Status = StatusMatched
					fb.Awarded = alt.Marks
				} else {
					fb.Status = StatusUnmatched
				}
			}
			result.Achieved += fb.Awarded
			result.Feedback = append(result.Feedback, fb)
		}
	}

	return finalizeResult(result)
}

// GradeQuestion grades a whole question tree. Submissions are keyed by node
// ID (question, part or subpart); a node with no entry is graded as fully
// unanswered rather than skipped, so totals always reflect the whole
// question. Feedback refs are qualified with the node ID they belong to.
func GradeQuestion(q *Question, submissions map[string][]string) GradingResult {
	result := GradingResult{}

	merge := func(nodeID string, r GradingResult) {
		result.Achieved += r.Achieved
		result.Total += r.Total
		for _, fb := range r.Feedback {
			fb.Ref = nodeID + " " + fb.Ref
			result.Feedback = append(result.Feedback, fb)
		}
	}

	if len(q.Groups) > 0 {
		merge(q.ID, GradeAnswers(q.Groups, submissions[q.ID]))
	}
	for pi := range q.Parts {
		part := &q.Parts[pi]
		if part.HasDirectAnswer {
			merge(part.ID, GradeAnswers(part.Groups, submissions[part.ID]))
		}
		for si := range part.Subparts {
			sub := &part.Subparts[si]
			merge(sub.ID, GradeAnswers(sub.Groups, submissions[sub.ID]))
		}
	}

	return finalizeResult(result)
}

// matchAlternative reports whether a submitted value earns the alternative's
// marks. Comparison trims and collapses whitespace, and ignores case unless
// the alternative is case-sensitive. Listed variations are acceptable only
// when the alternative allows equivalent phrasing; otherwise the literal
// answer string is the only match. When the alternative carries a unit, the
// unit token is treated as optional formatting: "7.5 cm" and "7.5" both match
// an expected "7.5 cm", but the magnitude itself is never altered.
func matchAlternative(alt AnswerAlternative, submitted string) bool {
	got := normalizeText(submitted, alt.CaseSensitive)
	if got == "" {
		return false
	}

	candidates := make([]string, 0, 1+len(alt.Variations))
	candidates = append(candidates, alt.Text)
	if alt.AcceptsEquivalentPhrasing {
		candidates = append(candidates, alt.Variations...)
	}

	for _, candidate := range candidates {
		want := normalizeText(candidate, alt.CaseSensitive)
		if want == "" {
			continue
		}
		if got == want {
			return true
		}
		if alt.Unit != "" {
			unit := normalizeText(alt.Unit, alt.CaseSensitive)
			if stripUnit(got, unit) == stripUnit(want, unit) {
				return true
			}
		}
	}
	return false
}

// normalizeText trims, collapses runs of whitespace to single spaces and
// lowercases unless the comparison is case-sensitive.
func normalizeText(s string, caseSensitive bool) string {
	s = strings.Join(strings.Fields(s), " ")
	if !caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

// stripUnit removes a trailing unit token so "7.5cm", "7.5 cm" and "7.5"
// all normalize to the same value.
func stripUnit(s, unit string) string {
	if unit == "" {
		return s
	}
	s = strings.TrimSuffix(s, unit)
	return strings.TrimSpace(s)
}

func expectedText(group AnswerGroup) string {
	texts := make([]string, 0, len(group.Alternatives))
	for _, alt := range group.Alternatives {
		texts = append(texts, alt.Text)
	}
	return strings.Join(texts, " / ")
}
