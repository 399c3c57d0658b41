package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

const complexQuestionSrc = `{
	"question_number": 3,
	"type": "complex",
	"question_text": "The diagram shows a plant cell.",
	"parts": [
		{
			"question_text": "Name structure X.",
			"marks": 1,
			"correct_answers": [{"answer": "Chloroplast", "marks": 1}]
		},
		{
			"part": "B",
			"question_text": "Photosynthesis.",
			"marks": 3,
			"subparts": [
				{
					"question_text": "Name the gas produced.",
					"marks": 1,
					"hint": "Think of respiration.",
					"correct_answers": [{"answer": "oxygen", "marks": 1}]
				},
				{
					"question_text": "State the word equation.",
					"marks": 2,
					"correct_answers": [{"answer": "carbon dioxide + water -> glucose + oxygen", "marks": 2}]
				}
			]
		}
	]
}`

func TestTransformComplexQuestion(t *testing.T) {
	raw := mustDecodeQuestion(t, complexQuestionSrc)
	q, diags, err := Transform(raw, 0)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	if q.ID != "q3" || q.Number != 3 || q.Kind != KindComplex {
		t.Errorf("question identity = %q/%d/%q", q.ID, q.Number, q.Kind)
	}
	if len(q.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(q.Parts))
	}

	// first part has no label in the source, second declares "B"
	if q.Parts[0].Label != "a" || q.Parts[0].ID != "q3-a" {
		t.Errorf("part 1 = %q/%q, want a/q3-a", q.Parts[0].Label, q.Parts[0].ID)
	}
	if q.Parts[1].Label != "b" || q.Parts[1].ID != "q3-b" {
		t.Errorf("part 2 = %q/%q, want b/q3-b", q.Parts[1].Label, q.Parts[1].ID)
	}

	if !q.Parts[0].HasDirectAnswer {
		t.Error("part a should have a direct answer")
	}
	if q.Parts[1].HasDirectAnswer {
		t.Error("part b is contextual-only and should not have a direct answer")
	}

	subs := q.Parts[1].Subparts
	if len(subs) != 2 {
		t.Fatalf("got %d subparts, want 2", len(subs))
	}
	if subs[0].ID != "q3-b-i" || subs[1].ID != "q3-b-ii" {
		t.Errorf("subpart IDs = %q, %q", subs[0].ID, subs[1].ID)
	}
	if subs[0].Hint != "Think of respiration." {
		t.Errorf("subpart hint = %q", subs[0].Hint)
	}
	if subs[0].Format != FormatSingleLine || subs[0].Requirement != RequirementExact {
		t.Errorf("subpart i meta = %q/%q", subs[0].Format, subs[0].Requirement)
	}

	if q.Marks != 4 {
		t.Errorf("question marks = %v, want 4", q.Marks)
	}
}

func TestTransformIsDeterministic(t *testing.T) {
	raw := mustDecodeQuestion(t, complexQuestionSrc)
	first, _, err := Transform(raw, 0)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	second, _, err := Transform(raw, 0)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Error("two transforms of the same source differ")
	}
}

func TestTransformSimpleDerivesMarks(t *testing.T) {
	raw := mustDecodeQuestion(t, `{
		"question_number": 1,
		"type": "descriptive",
		"question_text": "Give two transition metals.",
		"correct_answers": [
			{"answer": "iron", "marks": 1},
			{"answer": "copper", "marks": 1}
		]
	}`)
	q, _, err := Transform(raw, 0)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if q.Marks != 2 {
		t.Errorf("derived marks = %v, want 2", q.Marks)
	}
	if q.Format != FormatFreeText {
		t.Errorf("format = %q, want free_text for ambiguous structure", q.Format)
	}
}

func TestTransformErrorCarriesPartPath(t *testing.T) {
	raw := mustDecodeQuestion(t, `{
		"question_number": 2,
		"type": "complex",
		"parts": [
			{"part": "a", "marks": 1, "correct_answers": [{"answer": "x", "marks": 1}]},
			{"part": "b", "marks": 1, "correct_answers": ["not an object"]}
		]
	}`)
	_, _, err := Transform(raw, 1)
	if err == nil {
		t.Fatal("expected error for malformed answer")
	}
	if !strings.HasPrefix(err.Error(), "Failed to process part 2:") {
		t.Errorf("error = %q, want 'Failed to process part 2:' prefix", err)
	}
}

func TestTransformBatchIsolatesFailures(t *testing.T) {
	paper := `[
		{"question_number": 1, "type": "descriptive", "marks": 1, "correct_answers": [{"answer": "oxygen", "marks": 1}]},
		{"question_number": 2, "type": "complex", "parts": []},
		{"question_number": 3, "type": "descriptive", "marks": 1, "correct_answers": [{"answer": "iron", "marks": 1}]}
	]`
	rawQuestions, err := ParsePaper([]byte(paper))
	if err != nil {
		t.Fatalf("ParsePaper: %v", err)
	}

	result := TransformBatch(rawQuestions)
	if len(result.Questions) != 2 {
		t.Fatalf("got %d questions, want 2: %+v", len(result.Questions), result.Failures)
	}
	if result.Questions[0].ID != "q1" || result.Questions[1].ID != "q3" {
		t.Errorf("surviving questions = %q, %q", result.Questions[0].ID, result.Questions[1].ID)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(result.Failures))
	}
	failure := result.Failures[0]
	if failure.QuestionNumber != 2 || failure.Index != 1 {
		t.Errorf("failure attribution = number %d index %d", failure.QuestionNumber, failure.Index)
	}
	if !strings.Contains(failure.Error, "no parts") {
		t.Errorf("failure error = %q", failure.Error)
	}
}

func TestParsePaperEnvelopes(t *testing.T) {
	bare := `[{"question_number": 1, "marks": 1}]`
	wrapped := `{"questions": [{"question_number": 1, "marks": 1}]}`

	for _, src := range []string{bare, wrapped} {
		questions, err := ParsePaper([]byte(src))
		if err != nil {
			t.Errorf("ParsePaper(%q): %v", src, err)
			continue
		}
		if len(questions) != 1 {
			t.Errorf("ParsePaper(%q) = %d questions, want 1", src, len(questions))
		}
	}

	if _, err := ParsePaper([]byte(`{"papers": []}`)); err == nil {
		t.Error("expected error for document without questions")
	}
	if _, err := ParsePaper(nil); err == nil {
		t.Error("expected error for empty document")
	}
}
