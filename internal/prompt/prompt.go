// Package prompt builds the grounded prompt sent to the language model.
package prompt

import (
	"fmt"
	"strings"
)

// NoContextFallback stands in for the context section when retrieval
// produced nothing, keeping the prompt structure uniform for the model.
const NoContextFallback = "No specific information found in the knowledge base for this query."

// The instruction wrapper directs the model to answer only from the
// supplied context and to say so when the context is insufficient.
const template = `You are an empathetic and helpful AI assistant. Your primary goal is to assist users with their questions based *only* on the information provided in the "Knowledge Base Context" below.
If the context does not contain the answer to the question, clearly state that you don't have enough information from the knowledge base. Do not make up information or answer from your general knowledge.
Be polite, understanding, and aim to provide clear and concise answers.

Knowledge Base Context:
---
%s
---

User's Question: %s

Helpful and Empathetic Answer (based *only* on the Knowledge Base Context):
`

// Assemble combines the retrieved document texts (most relevant first) and
// the user's question into a single grounded prompt. Pure function of its
// inputs.
func Assemble(query string, docs []string) string {
	context := NoContextFallback
	if len(docs) > 0 {
		context = strings.Join(docs, "\n\n")
	}
	return fmt.Sprintf(template, context, query)
}
