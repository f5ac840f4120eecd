package ragModel

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is one role-tagged conversation turn.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Document is the per-doc_id view derived from indexed chunk metadata.
type Document struct {
	DocID       string    `json:"doc_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	Tags        []string  `json:"tags"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ContentHash string    `json:"content_hash"`
	ChunkCount  int       `json:"chunks"`
}

// DocumentMeta is what ingestion hands the index alongside the chunk texts.
type DocumentMeta struct {
	Filename    string
	MimeType    string
	Size        int64
	Tags        []string
	UploadedAt  time.Time
	ContentHash string
}

// RetrievedChunk is a search hit. Score is 1 - distance from the index's
// native metric and is not clamped, weak matches can go negative.
type RetrievedChunk struct {
	DocID      string  `json:"doc_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// Citation points from generated answer text back to a supporting chunk.
type Citation struct {
	DocID      string  `json:"doc_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet"`
}

type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// QueryResponse is the terminal output of the workflow engine. ProcessQuery
// always returns one of these, never an error.
type QueryResponse struct {
	Answer     string      `json:"answer"`
	Citations  []Citation  `json:"citations"`
	Confidence float64     `json:"confidence"`
	FollowUp   string      `json:"follow_up,omitempty"`
	Usage      *TokenUsage `json:"usage,omitempty"`
}

// IngestRequest carries already-extracted text into the core ingest path.
// Size is the raw upload size, not len(Text).
type IngestRequest struct {
	Text     string
	Filename string
	MimeType string
	Size     int64
	Tags     []string
}

// IndexStats backs the health probe.
type IndexStats struct {
	TotalDocuments int    `json:"total_documents"`
	TotalChunks    int    `json:"total_chunks"`
	Collection     string `json:"collection_name"`
}
