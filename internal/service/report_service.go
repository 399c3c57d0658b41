package service

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/repository"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/util"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService exports grading outcomes for offline review.
type ReportService struct {
	Papers  *repository.PaperRepository
	Grading *repository.GradingRepository
}

func NewReportService(papers *repository.PaperRepository, grading *repository.GradingRepository) *ReportService {
	return &ReportService{Papers: papers, Grading: grading}
}

// ExportGradingExcel writes every grading record of a paper into a
// spreadsheet, one row per record.
func (s *ReportService) ExportGradingExcel(paperID uint) ([]byte, error) {
	records, _, err := s.Grading.ListByPaper(paperID, 1, 10000)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPaperNotFound
	}
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"record_id", "candidate_id", "question_node", "achieved", "total", "percentage", "graded_at"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, rec := range records {
		row := i + 2
		values := []any{
			rec.ID,
			rec.CandidateID,
			rec.NodeID,
			rec.Achieved,
			rec.Total,
			rec.Percentage,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "G", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
