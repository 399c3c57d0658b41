package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Raw types mirror the hand-authored paper JSON. Nested collections stay as
// json.RawMessage so a malformed element surfaces as a path-qualified defect
// for that element instead of failing the whole decode.

type RawQuestion struct {
	QuestionNumber int             `json:"question_number"`
	Type           string          `json:"type"` // mcq | tf | descriptive | complex
	QuestionText   string          `json:"question_text"`
	Marks          *float64        `json:"marks"`
	Format         string          `json:"answer_format"`
	Requirement    string          `json:"answer_requirement"`
	Parts          json.RawMessage `json:"parts"`
	CorrectAnswers json.RawMessage `json:"correct_answers"`
	Table          *TableTemplate  `json:"table_template"`
}

type RawPart struct {
	Part           string          `json:"part"`
	QuestionText   string          `json:"question_text"`
	Marks          *float64        `json:"marks"`
	Hint           string          `json:"hint"`
	Explanation    string          `json:"explanation"`
	Format         string          `json:"answer_format"`
	Requirement    string          `json:"answer_requirement"`
	Subparts       json.RawMessage `json:"subparts"`
	CorrectAnswers json.RawMessage `json:"correct_answers"`
	Table          *TableTemplate  `json:"table_template"`
}

type RawAnswer struct {
	Answer                    string   `json:"answer"`
	Marks                     *float64 `json:"marks"`
	AlternativeID             *int     `json:"alternative_id"`
	AlternativeType           string   `json:"alternative_type"`
	LinkedAlternatives        []int    `json:"linked_alternatives"`
	AcceptsEquivalentPhrasing bool     `json:"accepts_equivalent_phrasing"`
	AcceptsReverseArgument    bool     `json:"accepts_reverse_argument"`
	ErrorCarriedForward       bool     `json:"error_carried_forward"`
	CaseSensitive             bool     `json:"case_sensitive"`
	Unit                      string   `json:"unit"`
	Working                   string   `json:"working"`
	AlternativeTexts          []string `json:"alternative_text"`
}

// Kind maps the source type tag onto the canonical kind.
func (q RawQuestion) Kind() QuestionKind {
	if strings.TrimSpace(strings.ToLower(q.Type)) == "complex" {
		return KindComplex
	}
	return KindSimple
}

// DecodeParts returns the question's parts as raw elements, or an error when
// the parts field is present but not an array.
func (q RawQuestion) DecodeParts() ([]json.RawMessage, error) {
	return decodeRawList(q.Parts, "parts")
}

// DecodeAnswers returns the question's direct correct answers as raw elements.
func (q RawQuestion) DecodeAnswers() ([]json.RawMessage, error) {
	return decodeRawList(q.CorrectAnswers, "correct_answers")
}

// DecodeSubparts returns the part's subparts as raw elements.
func (p RawPart) DecodeSubparts() ([]json.RawMessage, error) {
	return decodeRawList(p.Subparts, "subparts")
}

// DecodeAnswers returns the part's correct answers as raw elements.
func (p RawPart) DecodeAnswers() ([]json.RawMessage, error) {
	return decodeRawList(p.CorrectAnswers, "correct_answers")
}

func decodeRawList(raw json.RawMessage, field string) ([]json.RawMessage, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s must be an array", field)
	}
	return items, nil
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func decodeAnswerList(items []json.RawMessage) ([]RawAnswer, error) {
	answers := make([]RawAnswer, 0, len(items))
	for i, item := range items {
		if !isJSONObject(item) {
			return nil, fmt.Errorf("answer %d is not an object", i+1)
		}
		var a RawAnswer
		if err := json.Unmarshal(item, &a); err != nil {
			return nil, fmt.Errorf("answer %d: %w", i+1, err)
		}
		answers = append(answers, a)
	}
	return answers, nil
}

// paperEnvelope tolerates both a bare question array and a wrapped object.
type paperEnvelope struct {
	Questions []json.RawMessage `json:"questions"`
}

// ParsePaper splits an uploaded paper document into one raw element per
// question so a defect in one question cannot abort the batch. The source may
// be a bare array of questions or an object with a "questions" field.
func ParsePaper(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("paper document is empty")
	}
	if trimmed[0] == '[' {
		var questions []json.RawMessage
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return nil, fmt.Errorf("parse paper: %w", err)
		}
		return questions, nil
	}
	var env paperEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("parse paper: %w", err)
	}
	if env.Questions == nil {
		return nil, errors.New("paper document has no questions field")
	}
	return env.Questions, nil
}

// DecodeQuestion decodes one raw paper element into a RawQuestion.
func DecodeQuestion(raw json.RawMessage) (RawQuestion, error) {
	var q RawQuestion
	if !isJSONObject(raw) {
		return q, errors.New("question is not an object")
	}
	if err := json.Unmarshal(raw, &q); err != nil {
		return q, fmt.Errorf("decode question: %w", err)
	}
	return q, nil
}
