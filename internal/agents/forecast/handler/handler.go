package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"

	"advisor/pkg/messages"
	"advisor/pkg/models"
)

type Handler struct {
	chain chains.Chain
}

func New(chain chains.Chain) *Handler {
	return &Handler{
		chain: chain,
	}
}

func (h *Handler) Call(ctx context.Context, req messages.StartForecast) (models.ForecastResult, error) {
	completion, err := chains.Call(ctx, h.chain, map[string]any{
		"SessionID": req.SessionID.String(),
		"Query":     req.Query,
	})
	if err != nil {
		return models.ForecastResult{}, fmt.Errorf("call: %w", err)
	}
	answer, _ := completion["text"].(string)
	return models.ForecastResult{Answer: strings.TrimSpace(answer)}, nil
}
