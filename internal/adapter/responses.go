package adapter

import (
	"github.com/yotome/rag-assistant/internal/api"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

func ToChatResponse(resp ragmodel.QueryResponse, chatID string) api.ChatResponse {
	sources := resp.Citations
	if sources == nil {
		sources = []ragmodel.Citation{}
	}
	return api.ChatResponse{
		Answer:     resp.Answer,
		Sources:    sources,
		Confidence: resp.Confidence,
		FollowUp:   resp.FollowUp,
		Usage:      resp.Usage,
		ChatID:     chatID,
	}
}

func ToDocumentListResponse(docs []ragmodel.Document) api.DocumentListResponse {
	if docs == nil {
		docs = []ragmodel.Document{}
	}
	return api.DocumentListResponse{Items: docs, Total: len(docs)}
}

func ToUploadResponse(doc ragmodel.Document) api.UploadResponse {
	return api.UploadResponse{
		DocID:    doc.DocID,
		Filename: doc.Filename,
		Chunks:   doc.ChunkCount,
		Message:  "Document uploaded successfully",
	}
}

func ErrorBody(code int, err string, detail string) api.ErrorResponse {
	return api.ErrorResponse{Error: err, Detail: detail, Code: code}
}
