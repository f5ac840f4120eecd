package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/yotome/rag-assistant/internal/adapter"
	"github.com/yotome/rag-assistant/internal/adapter/utils"
	"github.com/yotome/rag-assistant/internal/api"
	"github.com/yotome/rag-assistant/internal/config"
	"github.com/yotome/rag-assistant/internal/data/store"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
	"github.com/yotome/rag-assistant/internal/rag"
	"github.com/yotome/rag-assistant/pkg/logger_i"
)

type Handler struct {
	svc    rag.Service
	conv   store.ConversationStore
	logger *logger_i.Logger
}

func New(svc rag.Service, conv store.ConversationStore) *Handler {
	return &Handler{
		svc:    svc,
		conv:   conv,
		logger: logger_i.NewLogger("handlers"),
	}
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Chat godoc
// @Summary      Ask the knowledge base a question
// @Description  Runs the query workflow over the indexed documents and returns a grounded answer with citations. Pass chat_id to continue a conversation.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      api.ChatRequest  true  "Message list and optional chat id"
// @Success      200      {object}  api.ChatResponse "Grounded answer"
// @Failure      400      {object}  api.ErrorResponse "No messages or no user message"
// @Router       /api/chat [post]
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	if !h.validateContext(r.Context()) {
		h.logger.Warn("Invalid Context by request ", "remote", r.RemoteAddr)
		return
	}
	log := h.logger.With(config.TRACE_ID_KEY, traceOf(r.Context()))

	var req api.ChatRequest
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			log.Error("Couldn't close the Chat handler reader", "error", err)
		}
	}(r.Body)

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Bad Chat Request", "error", err)
		h.writeError(w, http.StatusBadRequest, "Bad Request", "malformed json body")
		return
	}
	if len(req.Messages) == 0 {
		h.writeError(w, http.StatusBadRequest, "Bad Request", "No messages provided")
		return
	}

	userMsg, ok := latestUserMessage(req.Messages)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "Bad Request", "No user message found")
		return
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = utils.GetNewUUID()
		log.Debug("New Chat request", "chatId", chatID)
	}

	history := h.resolveHistory(r, req, chatID)

	resp := h.svc.ProcessQuery(r.Context(), userMsg.Content, history, req.RagOnly)
	h.rememberTurn(r, chatID, userMsg, resp)

	log.Info("chat answered", "chatId", chatID, "sources", len(resp.Citations), "confidence", resp.Confidence)
	h.writeJsonResponse(w, http.StatusOK, adapter.ToChatResponse(resp, chatID))
}

// resolveHistory prefers the server-side conversation when the client sent a
// chat id, otherwise the inline messages minus the current question.
func (h *Handler) resolveHistory(r *http.Request, req api.ChatRequest, chatID string) []ragmodel.ChatMessage {
	if req.ChatID != "" && h.conv != nil {
		stored, err := h.conv.GetHistory(r.Context(), chatID)
		if err != nil {
			h.logger.Error("failed loading conversation, falling back to inline history", "error", err)
		} else if len(stored) > 0 {
			return stored
		}
	}
	return req.Messages[:len(req.Messages)-1]
}

func (h *Handler) rememberTurn(r *http.Request, chatID string, userMsg ragmodel.ChatMessage, resp ragmodel.QueryResponse) {
	if h.conv == nil {
		return
	}
	if err := h.conv.AppendMessage(r.Context(), chatID, userMsg); err != nil {
		h.logger.Error("failed saving user turn", "error", err)
		return
	}
	assistant := ragmodel.ChatMessage{Role: ragmodel.RoleAssistant, Content: resp.Answer}
	if err := h.conv.AppendMessage(r.Context(), chatID, assistant); err != nil {
		h.logger.Error("failed saving assistant turn", "error", err)
	}
}

func latestUserMessage(messages []ragmodel.ChatMessage) (ragmodel.ChatMessage, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ragmodel.RoleUser {
			return messages[i], true
		}
	}
	return ragmodel.ChatMessage{}, false
}
