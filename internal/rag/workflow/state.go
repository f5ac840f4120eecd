package workflow

import (
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

// RouteDecision is where the router sends a query.
type RouteDecision string

const (
	RouteRetrieve RouteDecision = "retrieve"
	RouteClarify  RouteDecision = "clarify"
	RouteError    RouteDecision = "error"
)

// State is the working set threaded through the workflow nodes for a single
// query. Nodes mutate it in place; Err records the first node failure and
// later nodes consult it instead of aborting traversal.
type State struct {
	Query   string
	History []ragmodel.ChatMessage
	RagOnly bool

	Route      RouteDecision
	Chunks     []ragmodel.RetrievedChunk
	Answer     string
	Citations  []ragmodel.Citation
	Confidence float64
	FollowUp   string
	Usage      *ragmodel.TokenUsage

	Err error
}
