// Package server exposes the HTTP API: document upload and retrieval,
// follow-up questions and XLSX export.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/common"
	"github.com/plainclause/plainclause/internal/entity"
	"github.com/plainclause/plainclause/internal/extract"
	"github.com/plainclause/plainclause/internal/repository"
)

// DocumentProcessor runs the simplification pipeline and the follow-up
// question flow.
type DocumentProcessor interface {
	Process(ctx context.Context, documentText, documentType string) (*entity.AnalysisRecord, error)
	Answer(ctx context.Context, documentText, question string) (string, error)
}

// AnalysisExporter produces an XLSX review sheet for a stored document.
type AnalysisExporter interface {
	ExportAnalysisXLSX(ctx context.Context, documentID uuid.UUID) ([]byte, error)
}

type Handler struct {
	extractor extract.TextExtractor
	processor DocumentProcessor
	docs      repository.DocumentRepository
	exporter  AnalysisExporter
	logger    *slog.Logger
}

func NewHandler(extractor extract.TextExtractor, processor DocumentProcessor, docs repository.DocumentRepository, exporter AnalysisExporter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		extractor: extractor,
		processor: processor,
		docs:      docs,
		exporter:  exporter,
		logger:    logger,
	}
}

func (h *Handler) register(r *gin.Engine) {
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	api.POST("/documents", h.uploadDocument)
	api.GET("/documents", h.listDocuments)
	api.GET("/documents/:id", h.getDocument)
	api.POST("/documents/:id/questions", h.askQuestion)
	api.GET("/documents/:id/export", h.exportDocument)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// uploadDocument accepts a multipart upload, extracts its text, runs the
// pipeline synchronously and stores the finished document. A failed model
// call still leaves a FAILED row behind so the attempt is visible.
func (h *Handler) uploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	documentType := c.PostForm("document_type")
	if documentType == "" {
		documentType = "general"
	}

	format := constants.MapExtToFormat(filepath.Ext(file.Filename))
	if format == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: " + filepath.Ext(file.Filename)})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}

	res, err := h.extractor.Extract(c.Request.Context(), content, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not extract text from document"})
		return
	}
	if strings.TrimSpace(res.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document contains no extractable text"})
		return
	}

	doc := &entity.Document{
		ID:           uuid.New(),
		Filename:     file.Filename,
		DocumentType: documentType,
		OriginalText: res.Text,
		Status:       constants.StatusCompleted,
		CreatedAt:    time.Now().UTC(),
	}

	rec, err := h.processor.Process(c.Request.Context(), res.Text, documentType)
	if err != nil {
		doc.Status = constants.StatusFailed
		if saveErr := h.docs.Save(c.Request.Context(), doc); saveErr != nil {
			h.logger.Error("server.upload.save_failed_record", "document_id", doc.ID, "error", saveErr)
		}
		h.logger.Error("server.upload.process_failed", "document_id", doc.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "document processing failed", "document_id": doc.ID})
		return
	}
	doc.Analysis = rec
	doc.RiskScore = rec.Analysis.Risk.OverallRisk

	if err := h.docs.Save(c.Request.Context(), doc); err != nil {
		h.logger.Error("server.upload.save_failed", "document_id", doc.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store document"})
		return
	}

	h.logger.Info("server.upload.ok",
		"document_id", doc.ID,
		"filename", doc.Filename,
		"format", format,
		"risk_score", doc.RiskScore,
	)
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) listDocuments(c *gin.Context) {
	docs, err := h.docs.List(c.Request.Context())
	if err != nil {
		h.logger.Error("server.list.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list documents"})
		return
	}
	if docs == nil {
		docs = []*entity.Document{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) getDocument(c *gin.Context) {
	doc, ok := h.lookupDocument(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, doc)
}

type questionRequest struct {
	Question string `json:"question" binding:"required"`
}

// askQuestion answers a follow-up question about a stored document. The
// flow is independent of the original analysis; only the source text is
// quoted back to the model.
func (h *Handler) askQuestion(c *gin.Context) {
	doc, ok := h.lookupDocument(c)
	if !ok {
		return
	}

	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	answer, err := h.processor.Answer(c.Request.Context(), doc.OriginalText, req.Question)
	if err != nil {
		h.logger.Error("server.question.failed", "document_id", doc.ID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not answer question"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": doc.ID,
		"question":    req.Question,
		"answer":      answer,
	})
}

func (h *Handler) exportDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return
	}

	out, err := h.exporter.ExportAnalysisXLSX(c.Request.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	if err != nil {
		h.logger.Error("server.export.failed", "document_id", id, "error", err)
		c.JSON(http.StatusConflict, gin.H{"error": "document cannot be exported"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="analysis-`+id.String()+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
}

func (h *Handler) lookupDocument(c *gin.Context) (*entity.Document, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document id"})
		return nil, false
	}

	doc, err := h.docs.GetByID(c.Request.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return nil, false
	}
	if err != nil {
		h.logger.Error("server.get.failed", "document_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load document"})
		return nil, false
	}
	return doc, true
}
