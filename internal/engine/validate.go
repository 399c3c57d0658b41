package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationResult carries every structural defect found in a raw question.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate inspects a raw question before transformation. It never stops at
// the first defect: every part and subpart is checked so a reviewer sees the
// complete list in one pass. A part or subpart is invalid when it is not a
// non-null JSON object or has no marks value (zero is a valid mark, a missing
// or null marks field is not).
func Validate(raw RawQuestion) ValidationResult {
	var errs []string

	if raw.Kind() == KindComplex {
		parts, err := raw.DecodeParts()
		if err != nil {
			errs = append(errs, err.Error())
		} else if len(parts) == 0 {
			errs = append(errs, "complex question has no parts")
		} else {
			for i, rawPart := range parts {
				errs = append(errs, validatePart(rawPart, i+1)...)
			}
		}
	} else {
		if raw.Marks == nil {
			errs = append(errs, "question is missing marks")
		}
		errs = append(errs, validateAnswerTexts(raw.CorrectAnswers, "")...)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validatePart(raw json.RawMessage, number int) []string {
	var part RawPart
	if !isJSONObject(raw) || json.Unmarshal(raw, &part) != nil {
		return []string{fmt.Sprintf("Part %d is invalid", number)}
	}
	if part.Marks == nil {
		return []string{fmt.Sprintf("Part %d is invalid", number)}
	}

	var errs []string
	errs = append(errs, validateAnswerTexts(part.CorrectAnswers, fmt.Sprintf("Part %d ", number))...)

	subparts, err := part.DecodeSubparts()
	if err != nil {
		errs = append(errs, fmt.Sprintf("Part %d %s", number, err.Error()))
		return errs
	}
	for j, rawSub := range subparts {
		var sub RawPart
		if !isJSONObject(rawSub) || json.Unmarshal(rawSub, &sub) != nil || sub.Marks == nil {
			errs = append(errs, fmt.Sprintf("Part %d, Subpart %d is invalid", number, j+1))
			continue
		}
		errs = append(errs, validateAnswerTexts(sub.CorrectAnswers, fmt.Sprintf("Part %d, Subpart %d ", number, j+1))...)
	}
	return errs
}

func validateAnswerTexts(raw json.RawMessage, prefix string) []string {
	items, err := decodeRawList(raw, "correct_answers")
	if err != nil {
		return []string{prefix + err.Error()}
	}
	var errs []string
	for i, item := range items {
		if !isJSONObject(item) {
			continue // reported by the transformer with full path context
		}
		var a RawAnswer
		if json.Unmarshal(item, &a) != nil {
			continue
		}
		if strings.TrimSpace(a.Answer) == "" {
			errs = append(errs, fmt.Sprintf("%sanswer %d has empty text", prefix, i+1))
		}
	}
	return errs
}
