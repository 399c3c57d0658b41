package engine

import (
	"strings"
	"testing"
)

func solubilityTable() *TableTemplate {
	return &TableTemplate{
		Rows:    2,
		Cols:    2,
		Headers: []string{"Substance", "Soluble"},
		Cells: []TableCell{
			{Row: 0, Col: 0, Type: CellLocked, LockedValue: "Salt"},
			{Row: 0, Col: 1, Type: CellEditable, Expected: "yes", Marks: 1},
			{Row: 1, Col: 0, Type: CellLocked, LockedValue: "Sand"},
			{Row: 1, Col: 1, Type: CellEditable, Expected: "no", Marks: 2, Alternatives: []string{"insoluble"}},
		},
	}
}

func TestTableTemplateValidate(t *testing.T) {
	if err := solubilityTable().Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*TableTemplate)
		wantErr string
	}{
		{"too few rows", func(tt *TableTemplate) { tt.Rows = 1 }, "rows must be between"},
		{"too many rows", func(tt *TableTemplate) { tt.Rows = 51 }, "rows must be between"},
		{"too many columns", func(tt *TableTemplate) { tt.Cols = 21 }, "columns must be between"},
		{"header count mismatch", func(tt *TableTemplate) { tt.Headers = []string{"only one"} }, "headers for"},
		{"cell out of bounds", func(tt *TableTemplate) { tt.Cells[1].Col = 5 }, "out of bounds"},
		{"duplicate cell", func(tt *TableTemplate) { tt.Cells[2].Row = 0; tt.Cells[2].Col = 0 }, "duplicates"},
		{"editable without expected value", func(tt *TableTemplate) { tt.Cells[1].Expected = "" }, "no expected value"},
		{"unknown cell type", func(tt *TableTemplate) { tt.Cells[0].Type = "frozen" }, "unknown type"},
		{
			"no editable cells",
			func(tt *TableTemplate) { tt.Cells[1].Type = CellLocked; tt.Cells[3].Type = CellLocked },
			"no editable cells",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := solubilityTable()
			tt.mutate(tmpl)
			err := tmpl.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestGradeTable(t *testing.T) {
	tmpl := solubilityTable()

	result := GradeTable(tmpl, map[string]string{
		"0-1": "YES",
		"1-1": "maybe",
	})
	if result.Total != 3 {
		t.Errorf("total = %v, want 3 (locked cells excluded)", result.Total)
	}
	if result.Achieved != 1 {
		t.Errorf("achieved = %v, want 1", result.Achieved)
	}
	if len(result.Feedback) != 2 {
		t.Fatalf("got %d feedback entries, want 2 editable cells", len(result.Feedback))
	}
	if result.Feedback[0].Status != StatusMatched {
		t.Errorf("cell 0-1 status = %q, want matched", result.Feedback[0].Status)
	}
	if result.Feedback[1].Status != StatusUnmatched {
		t.Errorf("cell 1-1 status = %q, want unmatched", result.Feedback[1].Status)
	}
}

func TestGradeTableAlternativesAndMissing(t *testing.T) {
	tmpl := solubilityTable()

	result := GradeTable(tmpl, map[string]string{"1-1": "Insoluble"})
	if result.Achieved != 2 {
		t.Errorf("achieved = %v, want 2 for accepted alternative", result.Achieved)
	}
	if result.Feedback[0].Status != StatusUnanswered {
		t.Errorf("missing cell status = %q, want unanswered (never an error)", result.Feedback[0].Status)
	}
	if result.Feedback[0].Ref != "cell 0-1" {
		t.Errorf("feedback ref = %q, want cell 0-1", result.Feedback[0].Ref)
	}
}
