package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/yotome/rag-assistant/internal/adapter/utils"
	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/chunker"
	"github.com/yotome/rag-assistant/internal/rag/vectorDB"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

var logger = logger_i.NewLogger("ingest")

// ProcessDocumentIngestion chunks extracted text and indexes it under a fresh
// doc id. A document that yields zero usable chunks is a validation error,
// nothing is written in that case.
func ProcessDocumentIngestion(ctx context.Context, req ragmodel.IngestRequest, index vectorDB.Index) (ragmodel.Document, error) {
	log := logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	chunks, err := chunker.New().Split(req.Text, req.Filename, req.MimeType)
	if err != nil {
		return ragmodel.Document{}, err
	}

	docID := utils.GetNewUUID()
	hash := md5.Sum([]byte(req.Text))

	meta := ragmodel.DocumentMeta{
		Filename:    req.Filename,
		MimeType:    req.MimeType,
		Size:        req.Size,
		Tags:        req.Tags,
		UploadedAt:  time.Now().UTC(),
		ContentHash: hex.EncodeToString(hash[:]),
	}

	count, err := index.AddDocument(ctx, docID, chunks, meta)
	if err != nil {
		return ragmodel.Document{}, err
	}

	log.Info("document ingested", "docId", docID, "filename", req.Filename, "chunks", count)
	return ragmodel.Document{
		DocID:       docID,
		Filename:    req.Filename,
		MimeType:    req.MimeType,
		Size:        req.Size,
		Tags:        req.Tags,
		UploadedAt:  meta.UploadedAt,
		ContentHash: meta.ContentHash,
		ChunkCount:  count,
	}, nil
}

// ValidateUpload enforces upload constraints before any extraction work.
func ValidateUpload(filename string, mimeType string, size int64) error {
	if filename == "" || strings.HasPrefix(filename, ".") {
		return &ragmodel.ValidationError{Msg: "invalid filename"}
	}
	if size > config.MaxUploadSize {
		return &ragmodel.ValidationError{Msg: fmt.Sprintf("file exceeds maximum upload size of %d bytes", config.MaxUploadSize)}
	}
	for _, allowed := range config.AllowedMimeTypes() {
		if mimeType == allowed {
			return nil
		}
	}
	return &ragmodel.ValidationError{Msg: fmt.Sprintf("unsupported file type %q", mimeType)}
}
