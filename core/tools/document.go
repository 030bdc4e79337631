package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/menschrobotics/ruby-core/core/llms"
	"github.com/menschrobotics/ruby-core/core/rag"
)

const defaultDocumentResults = 4

// NewDocumentQueryTool answers questions from the ingested document index by
// returning the best-matching passages as numbered context blocks.
func NewDocumentQueryTool(index *rag.Index) Spec {
	return Spec{
		Tool: llms.NewTool(
			"query_document",
			"Look up information in the loaded documents. Use this whenever the user asks about the documents' contents, and answer only from the returned passages.",
			func(parameters struct {
				Question string `json:"question" jsonschema:"required,description=The question to look up in the documents"`
			}) (string, error) {
				scored, err := index.Query(context.Background(), parameters.Question, defaultDocumentResults)
				if err != nil {
					if errors.Is(err, rag.ErrEmptyIndex) {
						return "no documents have been loaded yet", nil
					}
					return "", fmt.Errorf("document lookup failed: %w", err)
				}

				var b strings.Builder
				for i, chunk := range scored {
					fmt.Fprintf(&b, "[%d] %s\n\n", i+1, strings.TrimSpace(chunk.Text))
				}
				return strings.TrimSpace(b.String()), nil
			},
		),
	}
}
