package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appsvc "docuchat/internal/app"
	"docuchat/internal/model"
	"docuchat/internal/transport/http/response"
)

const maxPDFSize = 10 << 20 // 10 MB

// DocumentLister reads the async-populated document catalog.
type DocumentLister interface {
	List() ([]model.Document, error)
}

type PDFHandler struct {
	ingest *appsvc.IngestService
	docs   DocumentLister
}

func NewPDFHandler(ingest *appsvc.IngestService, docs DocumentLister) *PDFHandler {
	return &PDFHandler{ingest: ingest, docs: docs}
}

// Upload accepts a multipart PDF, indexes it and returns the generated
// document id the RAG endpoint filters on.
func (h *PDFHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "missing file")
		return
	}
	if file.Size > maxPDFSize {
		response.Error(c, http.StatusBadRequest, "file too large (max 10MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file")
		return
	}

	result, err := h.ingest.Ingest(c.Request.Context(), appsvc.IngestInput{
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, appsvc.ErrNotPDF):
			response.Error(c, http.StatusBadRequest, "Only PDF files are allowed.")
		case errors.Is(err, appsvc.ErrNoText), errors.Is(err, appsvc.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"pdf_path": result.ArchiveKey,
		"pdf_uuid": result.DocumentID,
	})
}

// List serves the ingested-document catalog.
func (h *PDFHandler) List(c *gin.Context) {
	docs, err := h.docs.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, docs)
}
