package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"cennik/internal/ingest"
	"cennik/internal/logger"
	"cennik/internal/services/uploads"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	store    *uploads.Store
	analyzer *ingest.PDFAnalyzer
	maxBytes int64
	logger   *logger.Logger
}

func NewUploadHandler(store *uploads.Store, analyzer *ingest.PDFAnalyzer, maxUploadMB int, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{
		store:    store,
		analyzer: analyzer,
		maxBytes: int64(maxUploadMB) << 20,
		logger:   logger,
	}
}

// Image stores a product photo from the multipart field "file".
func (h *UploadHandler) Image(c *gin.Context) {
	name, data, ok := h.readFile(c)
	if !ok {
		return
	}
	stored, err := h.store.SaveImage(c.PostForm("producer"), name, data)
	if err != nil {
		respondError(c, h.logger, err, "Failed to store image")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": stored})
}

// PDF stores a price-list PDF as uploaded.
func (h *UploadHandler) PDF(c *gin.Context) {
	name, data, ok := h.readFile(c)
	if !ok {
		return
	}
	stored, err := h.store.SavePDF(name, data)
	if err != nil {
		respondError(c, h.logger, err, "Failed to store PDF")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": stored})
}

// AnalyzePDF extracts text and tables from an uploaded PDF.
func (h *UploadHandler) AnalyzePDF(c *gin.Context) {
	name, data, ok := h.readFile(c)
	if !ok {
		return
	}
	analysis, err := h.analyzer.Analyze(c.Request.Context(), data)
	if err != nil {
		h.logger.Error("Failed to analyze %s: %v", name, err)
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": "Failed to analyze PDF: " + err.Error()})
		return
	}
	h.logger.Info("Analyzed %s via %s: %d tables", name, analysis.Source, len(analysis.Tables))
	c.JSON(http.StatusOK, gin.H{"data": analysis})
}

// ParseExcel returns the first worksheet of an uploaded workbook as rows.
func (h *UploadHandler) ParseExcel(c *gin.Context) {
	name, data, ok := h.readFile(c)
	if !ok {
		return
	}
	sheet, err := ingest.ParseExcel(bytes.NewReader(data))
	if err != nil {
		h.logger.Debug("Failed to parse %s: %v", name, err)
		badRequest(c, "Failed to parse workbook: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": sheet})
}

func (h *UploadHandler) readFile(c *gin.Context) (string, []byte, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Missing file")
		return "", nil, false
	}
	if h.maxBytes > 0 && fh.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("File exceeds %d MB", h.maxBytes>>20),
		})
		return "", nil, false
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, h.logger, err, "Failed to read upload")
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, h.logger, err, "Failed to read upload")
		return "", nil, false
	}
	return fh.Filename, data, true
}
