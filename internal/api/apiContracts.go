package api

import (
	"time"

	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// requests---------------------

type ChatRequest struct {
	Messages []ragmodel.ChatMessage `json:"messages" validate:"required"`
	ChatID   string                 `json:"chat_id,omitempty"`
	RagOnly  bool                   `json:"rag_only"`
}

// responses--------------------

type ChatResponse struct {
	Answer     string               `json:"answer" example:"Paris is the capital of France [geo.txt#0]."`
	Sources    []ragmodel.Citation  `json:"sources"`
	Confidence float64              `json:"confidence" example:"0.87"`
	FollowUp   string               `json:"follow_up,omitempty"`
	Usage      *ragmodel.TokenUsage `json:"usage,omitempty"`
	ChatID     string               `json:"chat_id,omitempty"`
}

type DocumentListResponse struct {
	Items []ragmodel.Document `json:"items"`
	Total int                 `json:"total"`
}

type UploadResponse struct {
	DocID    string `json:"doc_id" example:"0d1f6e09-6b2a-4c5d-9f3e-8a7b6c5d4e3f"`
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
	Message  string `json:"message"`
}

type DeleteResponse struct {
	Deleted bool   `json:"deleted"`
	Message string `json:"message"`
}

type SettingsResponse struct {
	MaxTokens        int      `json:"max_tokens"`
	ChunkSize        int      `json:"chunk_size"`
	ChunkOverlap     int      `json:"chunk_overlap"`
	TopK             int      `json:"top_k"`
	AllowedMimeTypes []string `json:"allowed_mime_types"`
	MaxFileSize      int64    `json:"max_file_size"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

type ErrorResponse struct {
	Error  string `json:"error" example:"Bad Request"`
	Detail string `json:"detail,omitempty"`
	Code   int    `json:"code" example:"400"`
}
