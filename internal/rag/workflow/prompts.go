package workflow

import (
	"fmt"
	"strings"

	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

const systemPromptAssistant = `You are "Yotome Assistant," a retrieval-augmented chatbot. Answer ONLY using facts from the provided context chunks ("KB").
If the KB does not contain the answer, say you don't have enough information and optionally ask a precise follow-up question.

Rules:
- Cite sources inline as [filename#chunk] after the sentence that uses them.
- Be concise; use bullet points for multi-part answers.
- Never fabricate citations or statistics.
- If the user asks for info outside the KB, offer to upload documents or broaden the scope (if policy allows).
- When asked for code, include clear, runnable snippets with assumptions noted.`

// buildRAGPrompt assembles the full system prompt: persona, recent
// conversation, then the retrieved chunks with their provenance fields.
func buildRAGPrompt(query string, chunks []ragmodel.RetrievedChunk, history []ragmodel.ChatMessage) string {
	var b strings.Builder
	b.WriteString(systemPromptAssistant)
	b.WriteString("\n\n")

	if len(history) > 0 {
		b.WriteString("Conversation History:\n")
		b.WriteString(formatHistory(history, config.HistoryWindow))
		b.WriteString("\n\n")
	}

	b.WriteString("Retrieved Knowledge Base Chunks:\n")
	b.WriteString(formatChunks(chunks))
	b.WriteString("\n\n")

	b.WriteString("Current User Question: ")
	b.WriteString(query)
	b.WriteString("\n\nBased on the retrieved chunks above, provide a comprehensive answer with proper citations.")
	return b.String()
}

func formatChunks(chunks []ragmodel.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "No relevant chunks found in the knowledge base."
	}
	formatted := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		formatted = append(formatted, strings.TrimSpace(fmt.Sprintf(`Chunk %d:
- Document: %s
- Doc ID: %s
- Chunk Index: %d
- Relevance Score: %.3f
- Content: %s`, i+1, chunk.Filename, chunk.DocID, chunk.ChunkIndex, chunk.Score, chunk.Content)))
	}
	return strings.Join(formatted, "\n\n")
}

// formatHistory renders the last maxMessages turns as "Role: content" lines.
func formatHistory(messages []ragmodel.ChatMessage, maxMessages int) string {
	if len(messages) == 0 {
		return "No conversation history."
	}
	if len(messages) > maxMessages {
		messages = messages[len(messages)-maxMessages:]
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, titleRole(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

func titleRole(r ragmodel.Role) string {
	s := string(r)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
