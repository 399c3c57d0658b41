package controller

import (
	"errors"
	"io"
	"strconv"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/service"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/util"

	"github.com/gin-gonic/gin"
)

type PaperController struct {
	PaperService *service.PaperService
}

func NewPaperController(paperService *service.PaperService) *PaperController {
	return &PaperController{PaperService: paperService}
}

// readDocument pulls the paper JSON out of a multipart "document" file part,
// falling back to the raw request body for clients that post JSON directly.
func readDocument(ctx *gin.Context, maxBytes int64) ([]byte, error) {
	if file, err := ctx.FormFile("document"); err == nil {
		if file.Size > maxBytes {
			return nil, errors.New("document too large")
		}
		src, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return io.ReadAll(io.LimitReader(src, maxBytes+1))
	}
	return io.ReadAll(io.LimitReader(ctx.Request.Body, maxBytes+1))
}

// ImportPaper godoc
// @Summary Import a question paper document
// @Description Parses, validates and transforms every question; questions that fail are recorded and skipped.
// @Tags papers
// @Accept  mpfd
// @Produce  json
// @Security ApiKeyAuth
// @Param   title formData string true "paper title"
// @Param   subject formData string false "subject"
// @Param   season formData string false "exam season"
// @Param   year formData int false "exam year"
// @Param   document formData file true "paper JSON document"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/papers/import [post]
func (c *PaperController) ImportPaper(ctx *gin.Context) {
	req := service.ImportRequest{
		Title:   ctx.PostForm("title"),
		Subject: ctx.PostForm("subject"),
		Season:  ctx.PostForm("season"),
	}
	if req.Title == "" {
		util.BadRequest(ctx, "title is required")
		return
	}
	req.Year, _ = strconv.Atoi(ctx.PostForm("year"))

	document, err := readDocument(ctx, c.PaperService.Cfg.Import.MaxDocumentBytes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if len(document) == 0 {
		util.BadRequest(ctx, "document is required")
		return
	}

	claims := util.GetUserFromContext(ctx)
	var userID uint
	if claims != nil {
		userID = claims.UserID
	}

	paper, job, err := c.PaperService.ImportPaper(ctx.Request.Context(), req, document, userID)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, gin.H{
		"paper": paper,
		"job":   job,
	})
}

// ValidatePaper godoc
// @Summary Dry-run validation of a paper document
// @Description Reports structural defects per question without persisting anything.
// @Tags papers
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/papers/validate [post]
func (c *PaperController) ValidatePaper(ctx *gin.Context) {
	document, err := readDocument(ctx, c.PaperService.Cfg.Import.MaxDocumentBytes)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reports, err := c.PaperService.ValidateDocument(document)
	if err != nil {
		util.UnprocessableEntity(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"questions": reports})
}

// ReimportPaper godoc
// @Summary Re-run the import pipeline over a paper's stored source
// @Tags papers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Success 200 {object} util.Response{data=model.ImportJob}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/papers/{id}/reimport [post]
func (c *PaperController) ReimportPaper(ctx *gin.Context) {
	paperID := util.MustParseUint(ctx.Param("id"))

	claims := util.GetUserFromContext(ctx)
	var userID uint
	if claims != nil {
		userID = claims.UserID
	}

	job, err := c.PaperService.ReimportPaper(ctx.Request.Context(), paperID, userID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPaperNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrImportInProgress):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, job)
}

// GetPaper godoc
// @Summary Fetch a paper with its canonical questions
// @Tags papers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Success 200 {object} util.Response{data=model.QuestionPaper}
// @Failure 404 {object} util.Response
// @Router /api/papers/{id} [get]
func (c *PaperController) GetPaper(ctx *gin.Context) {
	paper, err := c.PaperService.GetPaper(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrPaperNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, paper)
}

// ListPapers godoc
// @Summary List papers
// @Tags papers
// @Produce  json
// @Security ApiKeyAuth
// @Param   subject query string false "filter by subject"
// @Param   year query int false "filter by year"
// @Param   page query int false "page number"
// @Param   limit query int false "page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/papers [get]
func (c *PaperController) ListPapers(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	year, _ := strconv.Atoi(ctx.Query("year"))

	papers, total, err := c.PaperService.ListPapers(ctx.Query("subject"), year, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:  papers,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetQuestionByNode godoc
// @Summary Fetch one canonical question by node ID
// @Tags papers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Param   nodeId path string true "canonical node ID, e.g. q3"
// @Success 200 {object} util.Response{data=model.PaperQuestion}
// @Failure 404 {object} util.Response
// @Router /api/papers/{id}/nodes/{nodeId} [get]
func (c *PaperController) GetQuestionByNode(ctx *gin.Context) {
	q, err := c.PaperService.GetQuestionByNode(util.MustParseUint(ctx.Param("id")), ctx.Param("nodeId"))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, q)
}

// GetImportJob godoc
// @Summary Fetch an import job with its failures
// @Tags papers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "job ID"
// @Success 200 {object} util.Response{data=model.ImportJob}
// @Failure 404 {object} util.Response
// @Router /api/import-jobs/{id} [get]
func (c *PaperController) GetImportJob(ctx *gin.Context) {
	job, err := c.PaperService.GetImportJob(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		if errors.Is(err, util.ErrImportJobNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, job)
}

// ListImportJobs godoc
// @Summary List a paper's import jobs
// @Tags papers
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "paper ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/papers/{id}/import-jobs [get]
func (c *PaperController) ListImportJobs(ctx *gin.Context) {
	jobs, err := c.PaperService.ListImportJobs(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"jobs": jobs})
}
