package runs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cv-standardizer/internal/extract"
	"cv-standardizer/internal/pipeline"
	"cv-standardizer/internal/render"
	"cv-standardizer/internal/shared/server/middleware"
	"cv-standardizer/internal/shared/server/respond"
)

const maxUploadSize = 5 << 20 // 5MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches run routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/runs", h.upload)
	rg.GET("/runs", h.list)
	rg.GET("/runs/:id", h.get)
	rg.POST("/runs/:id/standardize", h.standardize)
	rg.PUT("/runs/:id/markdown", h.updateMarkdown)
	rg.GET("/runs/:id/pdf", h.pdf)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the 5 MiB upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	run, err := h.Svc.Upload(c.Request.Context(), sessionID, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "only txt, docx and pdf files are accepted", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
		}
		return
	}

	respond.Created(c, toResponse(run))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	run, err := h.Svc.Get(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(run))
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.Svc.List(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	resp := make([]RunResponse, 0, len(list))
	for _, run := range list {
		resp = append(resp, toResponse(run))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) standardize(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	run, err := h.Svc.Process(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(run))
}

type updateMarkdownRequest struct {
	Markdown string `json:"markdown"`
}

func (h *Handler) updateMarkdown(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req updateMarkdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Markdown == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "markdown is required", nil)
		return
	}

	run, err := h.Svc.UpdateMarkdown(c.Request.Context(), sessionID, c.Param("id"), req.Markdown)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(run))
}

func (h *Handler) pdf(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	pdfBytes, err := h.Svc.RenderPDF(c.Request.Context(), sessionID, c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="output.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// respondErr maps service errors onto the API error envelope.
func (h *Handler) respondErr(c *gin.Context, err error) {
	var extractErr *extract.ExtractionError
	var stageErr *pipeline.StageError
	var renderErr *render.RenderError

	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "run not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInProgress):
		respond.Error(c, http.StatusConflict, "in_progress", "run is already processing", nil)
	case errors.Is(err, ErrNotProcessed):
		respond.Error(c, http.StatusConflict, "not_processed", "run has not been standardized yet", nil)
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", err.Error(), nil)
	case errors.As(err, &extractErr):
		respond.Error(c, http.StatusUnprocessableEntity, ErrorCodeExtraction, "could not extract text from the uploaded file", map[string]string{
			"format": string(extractErr.Format),
		})
	case errors.As(err, &stageErr):
		respond.Error(c, http.StatusBadGateway, ErrorCodeModelCall, "standardization model call failed", map[string]string{
			"stage": stageErr.Stage,
		})
	case errors.As(err, &renderErr):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeRender, "failed to render PDF", map[string]string{
			"step": renderErr.Step,
		})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
