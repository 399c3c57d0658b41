package engine

import (
	"encoding/json"
	"testing"
)

func mustDecodeQuestion(t *testing.T, src string) RawQuestion {
	t.Helper()
	q, err := DecodeQuestion(json.RawMessage(src))
	if err != nil {
		t.Fatalf("DecodeQuestion: %v", err)
	}
	return q
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantValid  bool
		wantErrors []string
	}{
		{
			name:      "valid simple question",
			src:       `{"question_number":1,"type":"descriptive","question_text":"Name the gas.","marks":1,"correct_answers":[{"answer":"oxygen","marks":1}]}`,
			wantValid: true,
		},
		{
			name:       "simple question missing marks",
			src:        `{"question_number":1,"type":"descriptive","question_text":"Name the gas.","correct_answers":[{"answer":"oxygen","marks":1}]}`,
			wantErrors: []string{"question is missing marks"},
		},
		{
			name:       "simple question with empty answer text",
			src:        `{"question_number":1,"type":"descriptive","marks":2,"correct_answers":[{"answer":"oxygen","marks":1},{"answer":"  ","marks":1}]}`,
			wantErrors: []string{"answer 2 has empty text"},
		},
		{
			name:       "complex question with no parts",
			src:        `{"question_number":2,"type":"complex","question_text":"See below.","parts":[]}`,
			wantErrors: []string{"complex question has no parts"},
		},
		{
			name:       "complex question with non-array parts",
			src:        `{"question_number":2,"type":"complex","parts":{"part":"a"}}`,
			wantErrors: []string{"parts must be an array"},
		},
		{
			name: "two invalid parts reported together",
			src: `{"question_number":3,"type":"complex","parts":[
				{"part":"a","marks":2,"correct_answers":[{"answer":"x","marks":2}]},
				{"part":"b"},
				{"part":"c","marks":null}
			]}`,
			wantErrors: []string{"Part 2 is invalid", "Part 3 is invalid"},
		},
		{
			name: "invalid subpart reported with full path",
			src: `{"question_number":4,"type":"complex","parts":[
				{"part":"a","marks":3,"subparts":[
					{"part":"i","marks":1,"correct_answers":[{"answer":"x","marks":1}]},
					"not an object"
				]}
			]}`,
			wantErrors: []string{"Part 1, Subpart 2 is invalid"},
		},
		{
			name: "empty answer in subpart carries path prefix",
			src: `{"question_number":5,"type":"complex","parts":[
				{"part":"a","marks":1,"subparts":[
					{"part":"i","marks":1,"correct_answers":[{"answer":"","marks":1}]}
				]}
			]}`,
			wantErrors: []string{"Part 1, Subpart 1 answer 1 has empty text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(mustDecodeQuestion(t, tt.src))
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if len(result.Errors) != len(tt.wantErrors) {
				t.Fatalf("got %d errors %v, want %d %v", len(result.Errors), result.Errors, len(tt.wantErrors), tt.wantErrors)
			}
			for i, want := range tt.wantErrors {
				if result.Errors[i] != want {
					t.Errorf("error %d = %q, want %q", i, result.Errors[i], want)
				}
			}
		})
	}
}

func TestValidateNeverPanics(t *testing.T) {
	sources := []string{
		`{}`,
		`{"type":"complex"}`,
		`{"type":"complex","parts":[null,1,"x",[]]}`,
		`{"marks":1,"correct_answers":"nope"}`,
		`{"marks":1,"correct_answers":[null,42]}`,
	}
	for _, src := range sources {
		q, err := DecodeQuestion(json.RawMessage(src))
		if err != nil {
			continue
		}
		_ = Validate(q)
	}
}
