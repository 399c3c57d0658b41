package engine

import "fmt"

// DeriveFormat infers answer_format from the shape of the canonical answer
// groups, used only when the source omits an explicit value. tabular reports
// whether the owning question/part carries a table template. Any ambiguity
// defaults to the generic free-text format: guessing a structured format
// without structural cues would present the wrong input widget to the
// learner.
func DeriveFormat(groups []AnswerGroup, tabular bool) (AnswerFormat, []string) {
	if tabular {
		return FormatTable, nil
	}
	if len(groups) == 1 && groups[0].Cardinality == CardinalityStandalone && len(groups[0].Alternatives) == 1 {
		return FormatSingleLine, nil
	}
	if len(groups) == 1 && groups[0].Cardinality == CardinalityOneRequired {
		return FormatSingleLine, nil
	}
	if len(groups) == 0 {
		return FormatFreeText, []string{"no alternatives present; defaulting to free text"}
	}
	return FormatFreeText, []string{"ambiguous answer structure; defaulting to free text"}
}

// DeriveRequirement infers answer_requirement from the canonical answer
// groups. A one_required group always yields the any-one requirement;
// consumers must never pair such a group with an all-required presentation.
func DeriveRequirement(groups []AnswerGroup) (AnswerRequirement, []string) {
	for _, g := range groups {
		switch g.Cardinality {
		case CardinalityOneRequired:
			return RequirementAnyOne, nil
		case CardinalityAllRequired:
			return RequirementAll, nil
		}
	}
	if len(groups) == 1 && len(groups[0].Alternatives) == 1 {
		return RequirementExact, nil
	}
	if len(groups) > 1 {
		return RequirementAll, nil
	}
	note := fmt.Sprintf("insufficient alternative signal (%d groups); defaulting to exact match", len(groups))
	return RequirementExact, []string{note}
}
