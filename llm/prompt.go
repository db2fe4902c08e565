package llm

import (
	"strings"
)

// AnswerPrompt builds a question answering prompt from retrieved context and
// optional web sources.
func AnswerPrompt(question, context string, urls []string) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using the context below. ")
	sb.WriteString("If the context does not contain the answer, say you don't know.\n\n")

	if context != "" {
		sb.WriteString("Context:\n")
		sb.WriteString(context)
		sb.WriteString("\n\n")
	}
	if len(urls) > 0 {
		sb.WriteString("Related web pages:\n")
		for _, u := range urls {
			sb.WriteString("- ")
			sb.WriteString(u)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\nAnswer:")
	return sb.String()
}
