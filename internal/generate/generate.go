// Package generate produces the final answer text from assembled
// context. The pipeline depends only on the Generator interface;
// callers inject an HTTP-backed client or the offline static
// generator, and any failure degrades to a context-only answer.
package generate

import (
	"context"
	"fmt"
	"strings"
)

// systemPrompt frames the assistant for handbook answers.
const systemPrompt = `You are an expert on Ontario driving rules and regulations with access to the official MTO Driver's Handbook.

CRITICAL INSTRUCTIONS:
1. Answer ONLY based on the provided context
2. Be specific and include exact details (numbers, distances, fines, etc.)
3. Cite page numbers when available
4. If context is insufficient, say so clearly
5. Use bullet points for complex answers
6. Be accurate - this affects people's driving tests and safety`

// userPromptFormat carries the assembled context, the question, and
// the page references for the top sources.
const userPromptFormat = `Based on the MTO Driver's Handbook context below, provide a precise answer:

CONTEXT:
%s

QUESTION: %s

REQUIREMENTS:
- Be specific with numbers, distances, fines, and procedures
- Include relevant page references: %s
- Format clearly with headers and bullet points if needed
- If multiple scenarios exist, explain each one

ANSWER:`

const (
	// fallbackPrefix opens every degraded answer.
	fallbackPrefix = "Based on the MTO handbook: "

	// fallbackContextChars bounds how much context a degraded answer
	// quotes.
	fallbackContextChars = 400
)

// Generator produces an answer for a question given assembled context
// and a source line describing where the context came from.
type Generator interface {
	Generate(ctx context.Context, question, contextText, sources string) (string, error)
}

// UserPrompt renders the full user message sent to the backend.
func UserPrompt(question, contextText, sources string) string {
	return fmt.Sprintf(userPromptFormat, contextText, question, sources)
}

// Fallback builds the degraded answer used when no generator is
// configured or generation fails: a fixed prefix plus the head of the
// assembled context.
func Fallback(contextText string) string {
	excerpt := contextText
	if runes := []rune(excerpt); len(runes) > fallbackContextChars {
		excerpt = string(runes[:fallbackContextChars])
	}
	return fallbackPrefix + excerpt + "..."
}

// Static is an offline Generator that always answers from context
// alone. It keeps the pipeline fully functional without a backend.
type Static struct{}

// Generate returns the degraded answer for the given context.
func (Static) Generate(_ context.Context, _, contextText string, _ string) (string, error) {
	return Fallback(contextText), nil
}

// PageSources formats the source line for a prompt from the pages of
// the top-ranked chunks, deduplicated in first-seen order.
func PageSources(pages []int) string {
	seen := make(map[int]bool, len(pages))
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if seen[p] {
			continue
		}
		seen[p] = true
		parts = append(parts, fmt.Sprintf("%d", p))
	}
	return "Sources: Pages " + strings.Join(parts, ", ")
}
