package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"

	"advisor/pkg/messages"
	"advisor/pkg/models"
)

// Index is the internal document index the retrieval agent searches. Its
// internals (ranking, embeddings, loading) live outside this core.
type Index interface {
	Search(ctx context.Context, query, primaryHint string) ([]models.Document, error)
	TopSources() []models.Document
}

type Handler struct {
	index Index
	chain chains.Chain
}

func New(index Index, chain chains.Chain) *Handler {
	return &Handler{
		index: index,
		chain: chain,
	}
}

// Run searches internal documents and generates an answer grounded in them.
// An empty search yields an empty result, not an error.
func (h *Handler) Run(ctx context.Context, req messages.StartRetrieval) (models.RetrievalResult, error) {
	docs, err := h.index.Search(ctx, req.SearchQuery, req.PrimaryHint)
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("search: %w", err)
	}
	if len(docs) == 0 {
		return models.RetrievalResult{}, nil
	}

	completion, err := chains.Call(ctx, h.chain, map[string]any{
		"Query":     req.OriginalQuery,
		"Documents": renderDocuments(docs),
	})
	if err != nil {
		return models.RetrievalResult{}, fmt.Errorf("call: %w", err)
	}
	answer, _ := completion["text"].(string)

	return models.RetrievalResult{
		Answer:     strings.TrimSpace(answer),
		Documents:  docs,
		TopSources: h.index.TopSources(),
	}, nil
}

func renderDocuments(docs []models.Document) string {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "%d. %s", i+1, d.File)
		if d.Date != "" {
			fmt.Fprintf(&b, " (%s)", d.Date)
		}
		b.WriteString("\n")
		b.WriteString(d.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}
