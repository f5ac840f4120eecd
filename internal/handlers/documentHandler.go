package handlers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yotome/rag-assistant/internal/adapter"
	"github.com/yotome/rag-assistant/internal/adapter/utils"
	"github.com/yotome/rag-assistant/internal/api"
	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/ingest"
)

// ListDocuments godoc
// @Summary      List indexed documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/docs [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	h.writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
}

// UploadDocument godoc
// @Summary      Upload a document to the knowledge base
// @Description  Receives a file via multipart/form-data, extracts its text, chunks it and indexes the chunks.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "The document to upload"
// @Param        tags  formData  string  false  "Comma separated tags"
// @Success      200  {object}  api.UploadResponse
// @Failure      400  {object}  api.ErrorResponse "Missing file, unsupported type, too large or no usable text"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/docs/upload [post]
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	log := h.logger.With(config.TRACE_ID_KEY, traceOf(r.Context()))

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		h.writeError(w, http.StatusBadRequest, "Bad Request", "File too large or bad request")
		return
	}

	fileReader, fileMeta, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Bad Request", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	mimeType := ingest.DetectMimeType(fileMeta.Filename, fileMeta.Header.Get("Content-Type"))

	if err := ingest.ValidateUpload(fileMeta.Filename, mimeType, fileMeta.Size); err != nil {
		h.writeDomainError(w, err)
		return
	}

	data, err := io.ReadAll(fileReader)
	if err != nil {
		log.Error("failed reading upload", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}

	text, err := ingest.ExtractText(data, fileMeta.Filename, mimeType)
	if err != nil {
		log.Error("extraction failed", "filename", fileMeta.Filename, "error", err)
		h.writeError(w, http.StatusBadRequest, "Bad Request", "Could not extract text from file")
		return
	}

	doc, err := h.svc.IngestDocument(r.Context(), ragmodel.IngestRequest{
		Text:     text,
		Filename: fileMeta.Filename,
		MimeType: mimeType,
		Size:     fileMeta.Size,
		Tags:     parseTags(r.FormValue("tags")),
	})
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	log.Info("document uploaded", "docId", doc.DocID, "filename", doc.Filename, "chunks", doc.ChunkCount)
	h.writeJsonResponse(w, http.StatusOK, adapter.ToUploadResponse(doc))
}

// DeleteDocument godoc
// @Summary      Delete a document and its chunks
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DeleteResponse
// @Failure      404  {object}  api.ErrorResponse "Document not found"
// @Failure      500  {object}  api.ErrorResponse
// @Router       /api/docs/{id} [delete]
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		return
	}
	docID := utils.GetChiURLParam(r, "id")

	found, err := h.svc.DeleteDocument(r.Context(), docID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !found {
		h.writeError(w, http.StatusNotFound, "Not Found", "Document not found")
		return
	}
	h.writeJsonResponse(w, http.StatusOK, api.DeleteResponse{Deleted: true, Message: "Document deleted successfully"})
}

// Settings godoc
// @Summary      Public application settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  api.SettingsResponse
// @Router       /api/settings [get]
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	h.writeJsonResponse(w, http.StatusOK, api.SettingsResponse{
		MaxTokens:        config.MaxOutputTokens,
		ChunkSize:        config.ChunkSize,
		ChunkOverlap:     config.ChunkOverlap,
		TopK:             config.TopK,
		AllowedMimeTypes: config.AllowedMimeTypes(),
		MaxFileSize:      config.MaxUploadSize,
	})
}

// Health godoc
// @Summary      Health probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  api.HealthResponse
// @Router       /api/healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{"workflow": "healthy"}
	status := "healthy"

	if _, err := h.svc.Stats(r.Context()); err != nil {
		services["vector_store"] = "unhealthy"
		status = "unhealthy"
	} else {
		services["vector_store"] = "healthy"
	}

	h.writeJsonResponse(w, http.StatusOK, api.HealthResponse{
		Status:    status,
		Version:   "1.0.0",
		Timestamp: time.Now().UTC(),
		Services:  services,
	})
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
