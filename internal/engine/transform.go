package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TransformError is raised when a structurally plausible question still fails
// during canonical construction. Path context is added at each recursion
// level so the top-level caller sees the full location while the nested
// cause stays available for logging via errors.Unwrap.
type TransformError struct {
	Path string
	Err  error
}

func (e *TransformError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("Failed to process question: %v", e.Err)
	}
	return fmt.Sprintf("Failed to process %s: %v", e.Path, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// Transform walks one validated raw question and produces the canonical
// Question tree with stable identifiers. The returned diagnostics carry
// non-fatal linking warnings and derivation fallback notes, path-prefixed.
//
// Transformation is pure and side-effect-free: a failed question leaves
// nothing behind, so batch callers can skip it and continue.
func Transform(raw RawQuestion, index int) (*Question, []string, error) {
	number := raw.QuestionNumber
	if number <= 0 {
		number = index + 1
	}

	q := &Question{
		ID:     fmt.Sprintf("q%d", number),
		Number: number,
		Kind:   raw.Kind(),
		Text:   strings.TrimSpace(raw.QuestionText),
		Table:  raw.Table,
	}

	if q.Table != nil {
		if err := q.Table.Validate(); err != nil {
			return nil, nil, &TransformError{Path: "table template", Err: err}
		}
	}

	var diags []string

	if q.Kind == KindComplex {
		rawParts, err := raw.DecodeParts()
		if err != nil {
			return nil, nil, &TransformError{Err: err}
		}
		if len(rawParts) == 0 {
			return nil, nil, &TransformError{Err: errors.New("complex question has no parts")}
		}
		q.Parts = make([]Part, 0, len(rawParts))
		for i, rawPart := range rawParts {
			part, partDiags, err := transformPart(q.ID, i, rawPart)
			if err != nil {
				return nil, nil, &TransformError{Path: fmt.Sprintf("part %d", i+1), Err: err}
			}
			q.Parts = append(q.Parts, part)
			for _, d := range partDiags {
				diags = append(diags, fmt.Sprintf("question %d %s", number, d))
			}
		}
	} else {
		rawAnswers, err := raw.DecodeAnswers()
		if err != nil {
			return nil, nil, &TransformError{Path: "answers", Err: err}
		}
		answers, err := decodeAnswerList(rawAnswers)
		if err != nil {
			return nil, nil, &TransformError{Path: "answers", Err: err}
		}
		groups, warnings := LinkAlternatives(answers)
		q.Groups = groups
		for _, w := range warnings {
			diags = append(diags, fmt.Sprintf("question %d: %s", number, w))
		}
	}

	// a complex question carries no answers of its own, so derivation
	// notes only apply to the simple kind
	if q.Kind == KindComplex {
		q.Format, q.Requirement, _ = resolveMeta(raw.Format, raw.Requirement, nil, q.Table != nil)
	} else {
		format, requirement, metaDiags := resolveMeta(raw.Format, raw.Requirement, q.Groups, q.Table != nil)
		q.Format = format
		q.Requirement = requirement
		for _, d := range metaDiags {
			diags = append(diags, fmt.Sprintf("question %d: %s", number, d))
		}
	}

	if raw.Marks != nil {
		q.Marks = *raw.Marks
	} else {
		q.Marks = derivedQuestionMarks(q)
	}

	return q, diags, nil
}

func transformPart(questionID string, index int, raw json.RawMessage) (Part, []string, error) {
	var rp RawPart
	if !isJSONObject(raw) || json.Unmarshal(raw, &rp) != nil {
		return Part{}, nil, errors.New("part is not an object")
	}

	// source labels always take priority over generated ones
	label := strings.ToLower(strings.TrimSpace(rp.Part))
	if label == "" {
		label = PartLabel(index)
	}

	part := Part{
		ID:    questionID + "-" + label,
		Label: label,
		Text:  strings.TrimSpace(rp.QuestionText),
		Table: rp.Table,
	}
	if part.Table != nil {
		if err := part.Table.Validate(); err != nil {
			return Part{}, nil, fmt.Errorf("table template: %w", err)
		}
	}

	rawAnswers, err := rp.DecodeAnswers()
	if err != nil {
		return Part{}, nil, err
	}
	answers, err := decodeAnswerList(rawAnswers)
	if err != nil {
		return Part{}, nil, err
	}

	var diags []string
	part.HasDirectAnswer = len(answers) > 0
	if part.HasDirectAnswer {
		groups, warnings := LinkAlternatives(answers)
		part.Groups = groups
		for _, w := range warnings {
			diags = append(diags, fmt.Sprintf("part %s: %s", label, w))
		}
	}

	rawSubparts, err := rp.DecodeSubparts()
	if err != nil {
		return Part{}, nil, err
	}
	part.Subparts = make([]Subpart, 0, len(rawSubparts))
	for j, rawSub := range rawSubparts {
		sub, subDiags, err := transformSubpart(part.ID, j, rawSub)
		if err != nil {
			return Part{}, nil, fmt.Errorf("subpart %d: %w", j+1, err)
		}
		part.Subparts = append(part.Subparts, sub)
		for _, d := range subDiags {
			diags = append(diags, fmt.Sprintf("part %s %s", label, d))
		}
	}

	if part.HasDirectAnswer || part.Table != nil {
		format, requirement, metaDiags := resolveMeta(rp.Format, rp.Requirement, part.Groups, part.Table != nil)
		part.Format = format
		part.Requirement = requirement
		for _, d := range metaDiags {
			diags = append(diags, fmt.Sprintf("part %s: %s", label, d))
		}
	} else {
		// contextual-only part: nothing is submitted against it
		part.Format, part.Requirement, _ = resolveMeta(rp.Format, rp.Requirement, nil, false)
	}

	if rp.Marks != nil {
		part.Marks = *rp.Marks
	} else {
		for _, g := range part.Groups {
			part.Marks += g.Marks()
		}
		for _, s := range part.Subparts {
			part.Marks += s.Marks
		}
	}

	return part, diags, nil
}

func transformSubpart(partID string, index int, raw json.RawMessage) (Subpart, []string, error) {
	var rs RawPart
	if !isJSONObject(raw) || json.Unmarshal(raw, &rs) != nil {
		return Subpart{}, nil, errors.New("subpart is not an object")
	}

	label := strings.ToLower(strings.TrimSpace(rs.Part))
	if label == "" {
		label = SubpartLabel(index)
	}

	sub := Subpart{
		ID:          partID + "-" + label,
		Label:       label,
		Text:        strings.TrimSpace(rs.QuestionText),
		Hint:        strings.TrimSpace(rs.Hint),
		Explanation: strings.TrimSpace(rs.Explanation),
	}

	rawAnswers, err := rs.DecodeAnswers()
	if err != nil {
		return Subpart{}, nil, err
	}
	answers, err := decodeAnswerList(rawAnswers)
	if err != nil {
		return Subpart{}, nil, err
	}

	var diags []string
	groups, warnings := LinkAlternatives(answers)
	sub.Groups = groups
	for _, w := range warnings {
		diags = append(diags, fmt.Sprintf("subpart %s: %s", label, w))
	}

	format, requirement, metaDiags := resolveMeta(rs.Format, rs.Requirement, sub.Groups, false)
	sub.Format = format
	sub.Requirement = requirement
	for _, d := range metaDiags {
		diags = append(diags, fmt.Sprintf("subpart %s: %s", label, d))
	}

	if rs.Marks != nil {
		sub.Marks = *rs.Marks
	} else {
		for _, g := range sub.Groups {
			sub.Marks += g.Marks()
		}
	}

	return sub, diags, nil
}

// resolveMeta honours explicit source metadata and falls back to derivation
// when the source omits it.
func resolveMeta(rawFormat, rawRequirement string, groups []AnswerGroup, tabular bool) (AnswerFormat, AnswerRequirement, []string) {
	var diags []string

	format := AnswerFormat(strings.TrimSpace(strings.ToLower(rawFormat)))
	switch format {
	case FormatSingleLine, FormatFreeText, FormatTable:
	default:
		var notes []string
		format, notes = DeriveFormat(groups, tabular)
		diags = append(diags, notes...)
	}

	requirement := AnswerRequirement(strings.TrimSpace(strings.ToLower(rawRequirement)))
	switch requirement {
	case RequirementExact, RequirementAnyOne, RequirementAll:
	default:
		var notes []string
		requirement, notes = DeriveRequirement(groups)
		diags = append(diags, notes...)
	}

	return format, requirement, diags
}

func derivedQuestionMarks(q *Question) float64 {
	total := 0.0
	for _, p := range q.Parts {
		total += p.Marks
	}
	for _, g := range q.Groups {
		total += g.Marks()
	}
	return total
}

// BatchFailure records one skipped question in a batch import.
type BatchFailure struct {
	Index          int    `json:"index"`
	QuestionNumber int    `json:"question_number"`
	Error          string `json:"error"`
}

// BatchResult is the outcome of transforming a whole paper.
type BatchResult struct {
	Questions   []Question     `json:"questions"`
	Failures    []BatchFailure `json:"failures"`
	Diagnostics []string       `json:"diagnostics,omitempty"`
}

// TransformBatch validates and transforms every question in a paper,
// isolating failures per question: a malformed question is recorded against
// its number and skipped, and the import continues with the next one.
func TransformBatch(rawQuestions []json.RawMessage) BatchResult {
	var result BatchResult
	for i, rawQ := range rawQuestions {
		raw, err := DecodeQuestion(rawQ)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{
				Index:          i,
				QuestionNumber: i + 1,
				Error:          err.Error(),
			})
			continue
		}
		number := raw.QuestionNumber
		if number <= 0 {
			number = i + 1
		}

		if v := Validate(raw); !v.Valid {
			result.Failures = append(result.Failures, BatchFailure{
				Index:          i,
				QuestionNumber: number,
				Error:          strings.Join(v.Errors, "; "),
			})
			continue
		}

		q, diags, err := Transform(raw, i)
		if err != nil {
			result.Failures = append(result.Failures, BatchFailure{
				Index:          i,
				QuestionNumber: number,
				Error:          err.Error(),
			})
			continue
		}
		result.Questions = append(result.Questions, *q)
		result.Diagnostics = append(result.Diagnostics, diags...)
	}
	return result
}
