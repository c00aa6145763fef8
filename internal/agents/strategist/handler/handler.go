package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"

	"advisor/pkg/prompts"
	"advisor/pkg/template"
)

type Handler struct {
	chain chains.Chain
}

func New(chain chains.Chain) *Handler {
	return &Handler{
		chain: chain,
	}
}

type input struct {
	Retrieval  string
	WebSummary string
	WebBullets string
	Forecast   string
}

// Build aggregates the three upstream results and asks for the final
// ranked strategies. The call blocks for as long as the gateway takes;
// callers own any budget.
func (h *Handler) Build(ctx context.Context, retrievalSummary, webSummary string, webBullets []string, forecastText string) (string, error) {
	bullets := "—"
	if len(webBullets) > 0 {
		bullets = strings.Join(webBullets, "; ")
	}
	userInput, err := template.Parse(prompts.StrategistInput, input{
		Retrieval:  retrievalSummary,
		WebSummary: webSummary,
		WebBullets: bullets,
		Forecast:   forecastText,
	})
	if err != nil {
		return "", fmt.Errorf("execute: %w", err)
	}

	completion, err := chains.Call(ctx, h.chain, map[string]any{"Input": userInput})
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}
	text, _ := completion["text"].(string)
	return strings.TrimSpace(text), nil
}
