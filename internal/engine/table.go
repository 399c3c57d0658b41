package engine

import (
	"fmt"
	"strconv"
)

// Table dimension bounds. Anything outside these is almost certainly an
// authoring mistake rather than a real exam table.
const (
	minTableRows = 2
	maxTableRows = 50
	minTableCols = 2
	maxTableCols = 20
)

// Cell types.
const (
	CellLocked   = "locked"
	CellEditable = "editable"
)

// TableCell is one addressed cell in a table template. Row and Col are
// 0-based. Locked cells are pre-filled context the candidate cannot change;
// editable cells carry an expected value and marks.
type TableCell struct {
	Row           int      `json:"row"`
	Col           int      `json:"col"`
	Type          string   `json:"type"`
	LockedValue   string   `json:"locked_value,omitempty"`
	Expected      string   `json:"expected,omitempty"`
	Marks         float64  `json:"marks,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`
	Alternatives  []string `json:"alternatives,omitempty"`
}

// TableTemplate is the authored grid for a table-format answer.
type TableTemplate struct {
	Rows    int         `json:"rows"`
	Cols    int         `json:"columns"`
	Headers []string    `json:"headers,omitempty"`
	Cells   []TableCell `json:"cells"`
}

// CellKey is the submission map key for a cell coordinate.
func CellKey(row, col int) string {
	return strconv.Itoa(row) + "-" + strconv.Itoa(col)
}

// Validate checks dimensions, cell addressing and cell typing. It returns
// the first defect found; templates are small enough that authors fix them
// one at a time anyway.
func (t *TableTemplate) Validate() error {
	if t.Rows < minTableRows || t.Rows > maxTableRows {
		return fmt.Errorf("table rows must be between %d and %d, got %d", minTableRows, maxTableRows, t.Rows)
	}
	if t.Cols < minTableCols || t.Cols > maxTableCols {
		return fmt.Errorf("table columns must be between %d and %d, got %d", minTableCols, maxTableCols, t.Cols)
	}
	if len(t.Headers) > 0 && len(t.Headers) != t.Cols {
		return fmt.Errorf("table has %d headers for %d columns", len(t.Headers), t.Cols)
	}

	seen := make(map[string]bool, len(t.Cells))
	editable := 0
	for i, cell := range t.Cells {
		if cell.Row < 0 || cell.Row >= t.Rows || cell.Col < 0 || cell.Col >= t.Cols {
			return fmt.Errorf("cell %d is out of bounds at row %d, column %d", i+1, cell.Row, cell.Col)
		}
		key := CellKey(cell.Row, cell.Col)
		if seen[key] {
			return fmt.Errorf("cell %d duplicates row %d, column %d", i+1, cell.Row, cell.Col)
		}
		seen[key] = true

		switch cell.Type {
		case CellLocked:
		case CellEditable:
			if cell.Expected == "" {
				return fmt.Errorf("editable cell at row %d, column %d has no expected value", cell.Row, cell.Col)
			}
			if cell.Marks < 0 {
				return fmt.Errorf("editable cell at row %d, column %d has negative marks", cell.Row, cell.Col)
			}
			editable++
		default:
			return fmt.Errorf("cell at row %d, column %d has unknown type %q", cell.Row, cell.Col, cell.Type)
		}
	}
	if editable == 0 {
		return fmt.Errorf("table has no editable cells")
	}
	return nil
}

// GradeTable marks a table submission against its template. Submitted values
// are keyed by "{row}-{col}". Locked cells never contribute marks; an
// editable cell missing from the submission is reported as unanswered, not
// as an error.
func GradeTable(t *TableTemplate, submitted map[string]string) GradingResult {
	result := GradingResult{}

	for _, cell := range t.Cells {
		if cell.Type != CellEditable {
			continue
		}
		result.Total += cell.Marks
		fb := UnitFeedback{
			Ref:       "cell " + CellKey(cell.Row, cell.Col),
			Expected:  cell.Expected,
			Available: cell.Marks,
			Status:    StatusUnanswered,
		}
		if value, ok := submitted[CellKey(cell.Row, cell.Col)]; ok {
			fb.Submitted = value
			if matchCell(cell, value) {
				fb.Status = StatusMatched
				fb.Awarded = cell.Marks
			} else {
				fb.Status = StatusUnmatched
			}
		}
		result.Achieved += fb.Awarded
		result.Feedback = append(result.Feedback, fb)
	}

	return finalizeResult(result)
}

func matchCell(cell TableCell, submitted string) bool {
	got := normalizeText(submitted, cell.CaseSensitive)
	if got == "" {
		return false
	}
	if got == normalizeText(cell.Expected, cell.CaseSensitive) {
		return true
	}
	for _, alt := range cell.Alternatives {
		if got == normalizeText(alt, cell.CaseSensitive) {
			return true
		}
	}
	return false
}
