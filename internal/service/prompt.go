package service

import (
	"fmt"
	"strings"

	"infomate/internal/domain"
)

const systemInstruction = "You are a helpful assistant for questions about the indexed document. " +
	"Use the provided context chunks to answer the user's question. " +
	"If the answer isn't in the context, say you don't know. Keep the answer concise."

const fallbackAnswer = "I'm sorry, I couldn't generate an answer from the provided context."

// historyWindow bounds how many trailing turns (3 exchanges) are replayed
// into the prompt.
const historyWindow = 6

// buildPrompt assembles the generation prompt: system instruction, recent
// conversation, the current question, then every retrieved passage labeled
// as a numbered context chunk.
func buildPrompt(query string, contexts []string, history []domain.Turn) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n")

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		for _, turn := range history {
			if turn.Role == domain.RoleUser {
				b.WriteString("User: ")
			} else {
				b.WriteString("Assistant: ")
			}
			b.WriteString(turn.Content)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "User question: %s\n\nContext:\n", query)
	for i, c := range contexts {
		fmt.Fprintf(&b, "Context chunk %d:\n%s\n\n", i+1, c)
	}
	return strings.TrimRight(b.String(), "\n")
}
