package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/akarpov/docflow/internal/app/models/dto"
	"github.com/akarpov/docflow/internal/app/services"
	"github.com/akarpov/docflow/internal/middleware"
)

// DocumentController handles document workflow operations
type DocumentController struct {
	documentService services.DocumentService
	logger          zerolog.Logger
}

// NewDocumentController creates a new DocumentController
func NewDocumentController(documentService services.DocumentService, logger zerolog.Logger) *DocumentController {
	return &DocumentController{
		documentService: documentService,
		logger:          logger,
	}
}

// Create opens a new document for a student from a named template
func (c *DocumentController) Create(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	var req dto.CreateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create document payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	id, err := c.documentService.Create(ctx.Request.Context(), p, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("documentId", id).
		Str("template", req.TemplateName).
		Str("student", req.StudentEmail).
		Msg("Document created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.CreateDocumentResponse{DocumentID: id}))
}

// ListMine returns the documents relevant to the caller's role. Students
// get documents awaiting their input; pass history=true to include
// completed ones as well.
func (c *DocumentController) ListMine(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	includeHistory := ctx.Query("history") == "true"

	docs, err := c.documentService.ListMine(ctx.Request.Context(), p, includeHistory)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(docs))
}

// Get returns a single document if it is visible to the caller
func (c *DocumentController) Get(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	id, ok := parseDocumentID(ctx)
	if !ok {
		return
	}

	doc, err := c.documentService.Get(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(doc))
}

// Submit records the student's field values and moves the document to review
func (c *DocumentController) Submit(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	id, ok := parseDocumentID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid submit payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	doc, err := c.documentService.Submit(ctx.Request.Context(), p, id, req.Data)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("documentId", id).Msg("Document submitted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(doc))
}

// Review approves or rejects a submitted document
func (c *DocumentController) Review(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	id, ok := parseDocumentID(ctx)
	if !ok {
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid review payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.BindingErrorDetail(err)))
		return
	}

	doc, err := c.documentService.Review(ctx.Request.Context(), p, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("documentId", id).Str("action", req.Action).Msg("Document reviewed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(doc))
}

// Finalize renders the artifact, stores it and completes the document
func (c *DocumentController) Finalize(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	id, ok := parseDocumentID(ctx)
	if !ok {
		return
	}

	doc, err := c.documentService.Finalize(ctx.Request.Context(), p, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("documentId", id).Msg("Document finalized")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(doc))
}

// Download streams the rendered artifact. Pass format=text for a plain
// text rendering instead of the binary document.
func (c *DocumentController) Download(ctx *gin.Context) {
	p, ok := middleware.GetPrincipal(ctx)
	if !ok {
		abortUnauthenticated(ctx)
		return
	}

	id, ok := parseDocumentID(ctx)
	if !ok {
		return
	}

	artifact, err := c.documentService.Download(ctx.Request.Context(), p, id, ctx.Query("format"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	ctx.Data(http.StatusOK, artifact.ContentType, artifact.Content)
}

func parseDocumentID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid document ID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

func abortUnauthenticated(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
