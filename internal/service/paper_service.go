package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

type PaperService struct {
	Papers  *repository.PaperRepository
	Imports *repository.ImportRepository
	Storage *StorageService
	Cfg     *config.Config
}

func NewPaperService(papers *repository.PaperRepository, imports *repository.ImportRepository, storage *StorageService, cfg *config.Config) *PaperService {
	return &PaperService{
		Papers:  papers,
		Imports: imports,
		Storage: storage,
		Cfg:     cfg,
	}
}

// ImportRequest carries the paper metadata alongside the document.
type ImportRequest struct {
	Title   string `json:"title" binding:"required"`
	Subject string `json:"subject"`
	Season  string `json:"season"`
	Year    int    `json:"year"`
}

// ImportPaper ingests an uploaded paper document: parse, validate and
// transform each question, persist the canonical set and record an import
// job. A document already imported byte-for-byte returns the existing paper
// without running the pipeline again.
func (s *PaperService) ImportPaper(ctx context.Context, req ImportRequest, document []byte, userID uint) (*model.QuestionPaper, *model.ImportJob, error) {
	if int64(len(document)) > s.Cfg.Import.MaxDocumentBytes {
		return nil, nil, fmt.Errorf("document exceeds %d bytes", s.Cfg.Import.MaxDocumentBytes)
	}

	sum := sha256.Sum256(document)
	hash := hex.EncodeToString(sum[:])

	if existing, err := s.Papers.FindBySourceHash(hash); err == nil && existing.Status == model.PaperReady {
		logger.Log.Info("Paper already imported, skipping pipeline",
			zap.Uint("paperId", existing.ID),
			zap.String("hash", hash))
		return existing, nil, nil
	}

	sourceKey := fmt.Sprintf("papers/%s.json", hash)
	if _, err := s.Storage.Upload(ctx, sourceKey, bytes.NewReader(document), int64(len(document)), "application/json"); err != nil {
		return nil, nil, fmt.Errorf("store source document: %w", err)
	}

	paper := &model.QuestionPaper{
		Title:        req.Title,
		Subject:      req.Subject,
		Season:       req.Season,
		Year:         req.Year,
		Status:       model.PaperImporting,
		SourceKey:    sourceKey,
		SourceSHA256: hash,
		UploadedBy:   userID,
	}
	if err := s.Papers.Create(paper); err != nil {
		return nil, nil, err
	}

	job, err := s.runImport(paper, document, userID)
	return paper, job, err
}

// importStaleAfter bounds how long a running job can block re-import.
// Imports run synchronously inside one request, so a running job older than
// this was orphaned by a crash and never finished.
const importStaleAfter = 15 * time.Minute

// importBlocked reports whether an existing job still holds the paper: only
// a running job younger than the staleness cutoff does.
func importBlocked(job *model.ImportJob, now time.Time) bool {
	return job.Status == model.ImportRunning && now.Sub(job.CreatedAt) < importStaleAfter
}

// ReimportPaper re-runs the pipeline over a paper's stored source document.
// The new canonical question set fully replaces the previous one.
func (s *PaperService) ReimportPaper(ctx context.Context, paperID, userID uint) (*model.ImportJob, error) {
	paper, err := s.Papers.FindByID(ctx, paperID)
	if err != nil {
		return nil, util.ErrPaperNotFound
	}

	if job, err := s.Imports.FindRunningByPaper(paperID); err == nil {
		if importBlocked(job, time.Now()) {
			return nil, util.ErrImportInProgress
		}
		job.Status = model.ImportFailed
		job.Error = "import orphaned; superseded by re-import"
		if err := s.Imports.Update(job); err != nil {
			return nil, err
		}
		logger.Log.Warn("Failed orphaned import job before re-import",
			zap.Uint("paperId", paperID),
			zap.Uint("jobId", job.ID))
	}

	src, err := s.Storage.Download(ctx, paper.SourceKey)
	if err != nil {
		return nil, fmt.Errorf("load source document: %w", err)
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, fmt.Errorf("read source document: %w", err)
	}

	return s.runImport(paper, buf.Bytes(), userID)
}

func (s *PaperService) runImport(paper *model.QuestionPaper, document []byte, userID uint) (*model.ImportJob, error) {
	start := time.Now()

	job := &model.ImportJob{
		PaperID:   paper.ID,
		Status:    model.ImportRunning,
		StartedBy: userID,
	}
	if err := s.Imports.Create(job); err != nil {
		return nil, err
	}

	rawQuestions, err := engine.ParsePaper(document)
	if err != nil {
		job.Status = model.ImportFailed
		job.Error = err.Error()
		s.Imports.Update(job)
		s.Papers.UpdateStatus(paper.ID, model.PaperFailed)
		logger.Log.Error("Paper document unreadable",
			zap.Uint("paperId", paper.ID),
			zap.Error(err))
		return job, err
	}

	result := engine.TransformBatch(rawQuestions)

	questions := make([]model.PaperQuestion, 0, len(result.Questions))
	totalMarks := 0.0
	for i := range result.Questions {
		q := &result.Questions[i]
		canonical, err := json.Marshal(q)
		if err != nil {
			continue
		}
		questions = append(questions, model.PaperQuestion{
			PaperID:     paper.ID,
			NodeID:      q.ID,
			Number:      q.Number,
			Kind:        string(q.Kind),
			Marks:       q.Marks,
			Format:      string(q.Format),
			Requirement: string(q.Requirement),
			Canonical:   canonical,
		})
		totalMarks += q.Marks
	}

	if err := s.Papers.ReplaceQuestions(paper.ID, questions); err != nil {
		job.Status = model.ImportFailed
		job.Error = err.Error()
		s.Imports.Update(job)
		s.Papers.UpdateStatus(paper.ID, model.PaperFailed)
		return job, err
	}

	paper.Status = model.PaperReady
	paper.TotalMarks = totalMarks
	paper.QuestionCount = len(questions)
	if err := s.Papers.Update(paper); err != nil {
		return job, err
	}

	failures := make([]model.ImportFailure, 0, len(result.Failures))
	for _, f := range result.Failures {
		failures = append(failures, model.ImportFailure{
			JobID:          job.ID,
			QuestionIndex:  f.Index,
			QuestionNumber: f.QuestionNumber,
			Reason:         f.Error,
		})
	}
	if err := s.Imports.AddFailures(failures); err != nil {
		logger.Log.Error("Failed to persist import failures", zap.Error(err))
	}

	job.Status = model.ImportCompleted
	job.QuestionCount = len(questions)
	job.FailureCount = len(failures)
	if len(result.Diagnostics) > 0 {
		if diag, err := json.Marshal(result.Diagnostics); err == nil {
			job.Diagnostics = diag
		}
	}
	if err := s.Imports.Update(job); err != nil {
		return job, err
	}

	monitoring.QuestionsImported.WithLabelValues("imported").Add(float64(len(questions)))
	monitoring.QuestionsImported.WithLabelValues("failed").Add(float64(len(failures)))
	monitoring.ImportDuration.Observe(time.Since(start).Seconds())

	logger.Log.Info("Paper import completed",
		zap.Uint("paperId", paper.ID),
		zap.Uint("jobId", job.ID),
		zap.Int("questions", len(questions)),
		zap.Int("failures", len(failures)),
		zap.Int("diagnostics", len(result.Diagnostics)),
		zap.Duration("elapsed", time.Since(start)))

	return job, nil
}

// QuestionValidation is the dry-run validation report for one question.
type QuestionValidation struct {
	Index          int      `json:"index"`
	QuestionNumber int      `json:"question_number"`
	Valid          bool     `json:"valid"`
	Errors         []string `json:"errors,omitempty"`
}

// ValidateDocument checks a paper document without persisting anything, so
// authors can fix defects before a real import.
func (s *PaperService) ValidateDocument(document []byte) ([]QuestionValidation, error) {
	rawQuestions, err := engine.ParsePaper(document)
	if err != nil {
		return nil, err
	}

	reports := make([]QuestionValidation, 0, len(rawQuestions))
	for i, rawQ := range rawQuestions {
		report := QuestionValidation{Index: i, QuestionNumber: i + 1}
		raw, err := engine.DecodeQuestion(rawQ)
		if err != nil {
			report.Errors = []string{err.Error()}
			reports = append(reports, report)
			continue
		}
		if raw.QuestionNumber > 0 {
			report.QuestionNumber = raw.QuestionNumber
		}
		v := engine.Validate(raw)
		report.Valid = v.Valid
		report.Errors = v.Errors
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *PaperService) GetPaper(ctx context.Context, id uint) (*model.QuestionPaper, error) {
	paper, err := s.Papers.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPaperNotFound
	}
	return paper, err
}

func (s *PaperService) ListPapers(subject string, year, page, limit int) ([]model.QuestionPaper, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Papers.List(subject, year, page, limit)
}

// GetQuestionByNode resolves a canonical question by its node ID, e.g. "q3".
func (s *PaperService) GetQuestionByNode(paperID uint, nodeID string) (*model.PaperQuestion, error) {
	q, err := s.Papers.FindQuestionByNode(paperID, nodeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *PaperService) GetImportJob(id uint) (*model.ImportJob, error) {
	job, err := s.Imports.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrImportJobNotFound
	}
	return job, err
}

func (s *PaperService) ListImportJobs(paperID uint) ([]model.ImportJob, error) {
	return s.Imports.ListByPaper(paperID)
}
