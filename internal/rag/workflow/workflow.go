package workflow

import (
	"context"
	"strings"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag/citation"
	"github.com/yotome/rag-assistant/internal/rag/llm"
	"github.com/yotome/rag-assistant/internal/rag/vectorDB"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

const (
	msgClarify       = "Could you please provide more details about what you're looking for?"
	msgNoKnowledge   = "I don't have enough information in my knowledge base to answer your question. You might want to upload relevant documents or ask about something else."
	msgNoAnswer      = "I don't have enough information to answer your question."
	msgProcessingErr = "I encountered an error while processing your request. Please try again."
	msgUnrecoverable = "I encountered an error while processing your request. Please try again or contact support if the issue persists."
	msgMissingCite   = "I found relevant information but couldn't properly cite the sources. Could you rephrase your question?"
	msgLowConfidence = "I'm not very confident in this answer. Could you provide more specific details or upload additional relevant documents?"
)

// Engine runs the query workflow: router, retrieve, grounded answer,
// guardrails, finalize. Node failures are recorded on the State and
// traversal continues, so ProcessQuery always produces a response.
type Engine struct {
	index  vectorDB.Index
	llm    llm.Provider
	logger *logger_i.Logger
}

func NewEngine(index vectorDB.Index, provider llm.Provider) *Engine {
	return &Engine{
		index:  index,
		llm:    provider,
		logger: logger_i.NewLogger("workflow"),
	}
}

// ProcessQuery drives a query through the workflow and never returns an
// error. Failures degrade to an apologetic answer with zero confidence.
func (e *Engine) ProcessQuery(ctx context.Context, query string, history []ragmodel.ChatMessage, ragOnly bool) ragmodel.QueryResponse {
	log := e.logger.With(config.TRACE_ID_KEY, ctx.Value(config.TRACE_ID_KEY))

	state := &State{Query: query, History: history, RagOnly: ragOnly}
	e.router(state)
	log.Debug("router decision", "route", string(state.Route))

	switch state.Route {
	case RouteRetrieve:
		if err := e.retrieve(ctx, state); err != nil {
			log.Error("retrieve failed", "error", err)
			state.Err = err
		}
		if err := e.groundedAnswer(ctx, state); err != nil {
			log.Error("answer generation failed", "error", err)
			state.Err = err
		}
		e.guardrails(state)
		e.finalize(state)
	case RouteClarify:
		e.finalize(state)
	default:
		e.handleError(state)
	}

	return ragmodel.QueryResponse{
		Answer:     state.Answer,
		Citations:  state.Citations,
		Confidence: state.Confidence,
		FollowUp:   state.FollowUp,
		Usage:      state.Usage,
	}
}

// router is the only node whose failure short-circuits to handleError.
func (e *Engine) router(state *State) {
	trimmed := strings.TrimSpace(state.Query)
	if trimmed == "" {
		state.Route = RouteError
		state.Err = &ragmodel.ValidationError{Msg: "empty query provided"}
		return
	}
	if len(strings.Fields(trimmed)) < 2 {
		state.Route = RouteClarify
		state.FollowUp = msgClarify
		return
	}
	state.Route = RouteRetrieve
}

func (e *Engine) retrieve(ctx context.Context, state *State) error {
	chunks, err := e.index.Search(ctx, state.Query, config.TopK, nil)
	if err != nil {
		return err
	}
	state.Chunks = chunks
	return nil
}

func (e *Engine) groundedAnswer(ctx context.Context, state *State) error {
	if len(state.Chunks) == 0 {
		state.Answer = msgNoKnowledge
		state.Confidence = 0.0
		return nil
	}

	prompt := buildRAGPrompt(state.Query, state.Chunks, state.History)
	messages := []ragmodel.ChatMessage{
		{Role: ragmodel.RoleSystem, Content: prompt},
		{Role: ragmodel.RoleUser, Content: "Answer this question: " + state.Query},
	}

	answer, usage, err := e.llm.Complete(ctx, messages, config.ModelTemperature, config.MaxOutputTokens)
	if err != nil {
		return err
	}

	state.Answer = answer
	state.Citations = citation.ExtractCitations(answer, state.Chunks)
	state.Confidence = citation.ComputeConfidence(state.Chunks, answer)
	state.Usage = usage
	return nil
}

// guardrails only annotates; it never changes the answer text. A failed
// confidence check overrides the citation follow-up.
func (e *Engine) guardrails(state *State) {
	if state.Answer == "" || state.Err != nil {
		return
	}
	if !strings.Contains(state.Answer, "[") && len(state.Chunks) > 0 {
		e.logger.Warn("answer lacks citations despite retrieved chunks")
		state.FollowUp = msgMissingCite
	}
	if state.Confidence < config.ConfidenceThreshold {
		state.FollowUp = msgLowConfidence
	}
}

func (e *Engine) finalize(state *State) {
	if state.Err != nil {
		state.Answer = msgProcessingErr
		state.Confidence = 0.0
	}
	if state.Answer == "" {
		state.Answer = msgNoAnswer
		state.Confidence = 0.0
	}
}

func (e *Engine) handleError(state *State) {
	e.logger.Error("workflow error", "error", state.Err)
	state.Answer = msgUnrecoverable
	state.Confidence = 0.0
	state.Citations = nil
}
