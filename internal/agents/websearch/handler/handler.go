package handler

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/chains"

	"advisor/pkg/messages"
	"advisor/pkg/models"
	"advisor/pkg/payload"
)

type Handler struct {
	chain chains.Chain
}

func New(chain chains.Chain) *Handler {
	return &Handler{
		chain: chain,
	}
}

// Call runs the external-cases search. The generated payload is kept raw;
// sources are lifted out eagerly when the payload decodes, the rest of the
// unwrapping happens tolerantly at read time.
func (h *Handler) Call(ctx context.Context, req messages.StartWebsearch) (models.WebsearchResult, error) {
	completion, err := chains.Call(ctx, h.chain, map[string]any{
		"SessionID": req.SessionID.String(),
		"Query":     req.Query,
	})
	if err != nil {
		return models.WebsearchResult{}, fmt.Errorf("call: %w", err)
	}
	raw, _ := completion["text"].(string)

	result := models.WebsearchResult{RawPayload: raw}
	if ex, ok := payload.Unwrap(raw); ok {
		result.Sources = ex.Sources
	}
	return result, nil
}
