package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/config"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/engine"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/repository"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/util"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/logger"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type GradingService struct {
	Papers  *repository.PaperRepository
	Grading *repository.GradingRepository
	Cfg     *config.Config
}

func NewGradingService(papers *repository.PaperRepository, grading *repository.GradingRepository, cfg *config.Config) *GradingService {
	return &GradingService{
		Papers:  papers,
		Grading: grading,
		Cfg:     cfg,
	}
}

func (s *GradingService) loadQuestion(paperID, questionID uint) (*model.PaperQuestion, *engine.Question, error) {
	stored, err := s.Papers.FindQuestion(paperID, questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	var q engine.Question
	if err := json.Unmarshal(stored.Canonical, &q); err != nil {
		return nil, nil, err
	}
	return stored, &q, nil
}

// GradeText grades free-form text answers against a question. Submissions
// are keyed by canonical node ID (question, part or subpart).
func (s *GradingService) GradeText(ctx context.Context, paperID, questionID, candidateID uint, submissions map[string][]string) (*model.GradingRecord, *engine.GradingResult, error) {
	stored, q, err := s.loadQuestion(paperID, questionID)
	if err != nil {
		return nil, nil, err
	}

	result := engine.GradeQuestion(q, submissions)
	monitoring.GradingRequests.WithLabelValues("text").Inc()

	record, err := s.persist(stored, candidateID, submissions, &result)
	return record, &result, err
}

// GradeTable grades a table submission keyed by "{row}-{col}" cell address.
func (s *GradingService) GradeTable(ctx context.Context, paperID, questionID, candidateID uint, cells map[string]string) (*model.GradingRecord, *engine.GradingResult, error) {
	stored, q, err := s.loadQuestion(paperID, questionID)
	if err != nil {
		return nil, nil, err
	}

	tmpl := tableTemplate(q)
	if tmpl == nil {
		return nil, nil, util.ErrNotTableQuestion
	}

	result := engine.GradeTable(tmpl, cells)
	monitoring.GradingRequests.WithLabelValues("table").Inc()

	record, err := s.persist(stored, candidateID, cells, &result)
	return record, &result, err
}

// tableTemplate finds the question's template, checking the root first and
// then its parts.
func tableTemplate(q *engine.Question) *engine.TableTemplate {
	if q.Table != nil {
		return q.Table
	}
	for i := range q.Parts {
		if q.Parts[i].Table != nil {
			return q.Parts[i].Table
		}
	}
	return nil
}

func (s *GradingService) persist(stored *model.PaperQuestion, candidateID uint, submitted interface{}, result *engine.GradingResult) (*model.GradingRecord, error) {
	submittedJSON, err := json.Marshal(submitted)
	if err != nil {
		return nil, err
	}
	feedbackJSON, err := json.Marshal(result.Feedback)
	if err != nil {
		return nil, err
	}

	record := &model.GradingRecord{
		PaperID:     stored.PaperID,
		QuestionID:  stored.ID,
		NodeID:      stored.NodeID,
		CandidateID: candidateID,
		Achieved:    result.Achieved,
		Total:       result.Total,
		Percentage:  result.Percentage,
		Submitted:   submittedJSON,
		Feedback:    feedbackJSON,
	}
	if err := s.Grading.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

// BatchSubmission is one candidate's answers to one question.
type BatchSubmission struct {
	CandidateID uint                `json:"candidate_id" binding:"required"`
	QuestionID  uint                `json:"question_id" binding:"required"`
	Answers     map[string][]string `json:"answers"`
	TableCells  map[string]string   `json:"table_cells,omitempty"`
}

// BatchOutcome is the result for one batch entry. A failed entry carries its
// error and never blocks the rest of the batch.
type BatchOutcome struct {
	CandidateID uint    `json:"candidate_id"`
	QuestionID  uint    `json:"question_id"`
	Achieved    float64 `json:"achieved_marks"`
	Total       float64 `json:"total_marks"`
	Percentage  float64 `json:"percentage"`
	RecordID    uint    `json:"record_id,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// GradeBatch grades many submissions concurrently with a bounded worker
// pool. Outcomes keep the submission order.
func (s *GradingService) GradeBatch(ctx context.Context, paperID uint, submissions []BatchSubmission) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(submissions))

	workers := s.Cfg.Import.GradingWorkers
	if workers > len(submissions) {
		workers = len(submissions)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = s.gradeOne(ctx, paperID, submissions[i])
			}
		}()
	}

send:
	for i := range submissions {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	monitoring.GradingRequests.WithLabelValues("batch").Inc()
	logger.Log.Info("Batch grading completed",
		zap.Uint("paperId", paperID),
		zap.Int("submissions", len(submissions)))

	return outcomes
}

func (s *GradingService) gradeOne(ctx context.Context, paperID uint, sub BatchSubmission) BatchOutcome {
	outcome := BatchOutcome{CandidateID: sub.CandidateID, QuestionID: sub.QuestionID}

	var record *model.GradingRecord
	var result *engine.GradingResult
	var err error
	if len(sub.TableCells) > 0 {
		record, result, err = s.GradeTable(ctx, paperID, sub.QuestionID, sub.CandidateID, sub.TableCells)
	} else {
		record, result, err = s.GradeText(ctx, paperID, sub.QuestionID, sub.CandidateID, sub.Answers)
	}
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Achieved = result.Achieved
	outcome.Total = result.Total
	outcome.Percentage = result.Percentage
	outcome.RecordID = record.ID
	return outcome
}

func (s *GradingService) GetRecord(id uint) (*model.GradingRecord, error) {
	record, err := s.Grading.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGradingNotFound
	}
	return record, err
}

// ListCandidateRecords returns every grading record one candidate holds on a
// paper, ordered by question.
func (s *GradingService) ListCandidateRecords(paperID, candidateID uint) ([]model.GradingRecord, error) {
	return s.Grading.ListByCandidate(paperID, candidateID)
}

func (s *GradingService) ListRecords(paperID uint, page, limit int) ([]model.GradingRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Grading.ListByPaper(paperID, page, limit)
}
