package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/service"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	GradingService *service.GradingService
	ReportService  *service.ReportService
}

func NewGradingController(gradingService *service.GradingService, reportService *service.ReportService) *GradingController {
	return &GradingController{
		GradingService: gradingService,
		ReportService:  reportService,
	}
}

// swagger:model GradeTextRequest
type GradeTextRequest struct {
	CandidateID uint                `json:"candidate_id"`
	Answers     map[string][]string `json:"answers" binding:"required"`
}

// GradeText godoc
// @Summary Grade text answers for one question
// @Description Answers are keyed by canonical node ID (e.g. "q3-b-ii"); each key maps to the submitted lines for that node.
// @Tags grading
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Param   questionId path int true "question ID"
// @Param   body body GradeTextRequest true "submission"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/papers/{id}/questions/{questionId}/grade [post]
func (c *GradingController) GradeText(ctx *gin.Context) {
	var req GradeTextRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, result, err := c.GradingService.GradeText(
		ctx.Request.Context(),
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("questionId")),
		req.CandidateID,
		req.Answers,
	)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"record_id": record.ID,
		"result":    result,
	})
}

// swagger:model GradeTableRequest
type GradeTableRequest struct {
	CandidateID uint              `json:"candidate_id"`
	Cells       map[string]string `json:"cells" binding:"required"`
}

// GradeTable godoc
// @Summary Grade a table submission for one question
// @Description Cells are keyed by "{row}-{col}". Locked cells never earn marks; missing editable cells are reported as unanswered.
// @Tags grading
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Param   questionId path int true "question ID"
// @Param   body body GradeTableRequest true "submission"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/papers/{id}/questions/{questionId}/grade-table [post]
func (c *GradingController) GradeTable(ctx *gin.Context) {
	var req GradeTableRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, result, err := c.GradingService.GradeTable(
		ctx.Request.Context(),
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("questionId")),
		req.CandidateID,
		req.Cells,
	)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotTableQuestion):
			util.UnprocessableEntity(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"record_id": record.ID,
		"result":    result,
	})
}

// swagger:model GradeBatchRequest
type GradeBatchRequest struct {
	Submissions []service.BatchSubmission `json:"submissions" binding:"required"`
}

// GradeBatch godoc
// @Summary Grade many submissions in one call
// @Tags grading
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Param   body body GradeBatchRequest true "batch of submissions"
// @Success 200 {object} util.Response{data=object}
// @Router /api/papers/{id}/grade-batch [post]
func (c *GradingController) GradeBatch(ctx *gin.Context) {
	var req GradeBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcomes := c.GradingService.GradeBatch(
		ctx.Request.Context(),
		util.MustParseUint(ctx.Param("id")),
		req.Submissions,
	)
	util.Success(ctx, gin.H{"outcomes": outcomes})
}

// GetRecord godoc
// @Summary Fetch one grading record
// @Tags grading
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "record ID"
// @Success 200 {object} util.Response{data=model.GradingRecord}
// @Failure 404 {object} util.Response
// @Router /api/grading-records/{id} [get]
func (c *GradingController) GetRecord(ctx *gin.Context) {
	record, err := c.GradingService.GetRecord(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrGradingNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, record)
}

// ListRecords godoc
// @Summary List a paper's grading records
// @Tags grading
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Param   page query int false "page number"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/papers/{id}/grading-records [get]
func (c *GradingController) ListRecords(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	records, total, err := c.GradingService.ListRecords(util.MustParseUint(ctx.Param("id")), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  records,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// ListCandidateRecords godoc
// @Summary List one candidate's grading records on a paper
// @Tags grading
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Param   candidateId path int true "candidate ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/papers/{id}/candidates/{candidateId}/grading-records [get]
func (c *GradingController) ListCandidateRecords(ctx *gin.Context) {
	records, err := c.GradingService.ListCandidateRecords(
		util.MustParseUint(ctx.Param("id")),
		util.MustParseUint(ctx.Param("candidateId")),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"records": records})
}

// ExportReport godoc
// @Summary Export a paper's grading records as a spreadsheet
// @Tags grading
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Success 200 {file} binary
// @Router /api/papers/{id}/grading-report [get]
func (c *GradingController) ExportReport(ctx *gin.Context) {
	paperID := util.MustParseUint(ctx.Param("id"))
	data, err := c.ReportService.ExportGradingExcel(paperID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := fmt.Sprintf("grading-report-paper-%d.xlsx", paperID)
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
