package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/chains"

	"advisor/pkg/payload"
	"advisor/pkg/prompts"
)

// Handler prepares a query for analysis: parameter recognition and
// enrichment, both optional ahead of the analysis itself.
type Handler struct {
	classify chains.Chain
	enrich   chains.Chain
}

func New(classify, enrich chains.Chain) *Handler {
	return &Handler{
		classify: classify,
		enrich:   enrich,
	}
}

// Classify recognizes the analysis parameters in a query. Unrecognized
// fields come back empty.
func (h *Handler) Classify(ctx context.Context, query string) (map[string]string, error) {
	completion, err := chains.Call(ctx, h.classify, map[string]any{"Query": query})
	if err != nil {
		return nil, fmt.Errorf("call: %w", err)
	}
	answer, _ := completion["text"].(string)

	match, err := payload.ExtractObject(answer)
	if err != nil {
		return nil, fmt.Errorf("classifier answer: %w", err)
	}
	raw := map[string]any{}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	params := map[string]string{}
	for _, f := range prompts.Fields {
		if v, ok := raw[f].(string); ok {
			params[f] = strings.TrimSpace(v)
		} else {
			params[f] = ""
		}
	}
	return params, nil
}

// Enrich rewrites the query into a richer search query.
func (h *Handler) Enrich(ctx context.Context, query string) (string, error) {
	completion, err := chains.Call(ctx, h.enrich, map[string]any{"Query": query})
	if err != nil {
		return "", fmt.Errorf("call: %w", err)
	}
	answer, _ := completion["text"].(string)
	return strings.TrimSpace(answer), nil
}

// KeywordLine flattens recognized parameters into keywords appended to the
// document search query.
func KeywordLine(params map[string]string) string {
	var parts []string
	for _, f := range prompts.Fields {
		if v := strings.TrimSpace(params[f]); v != "" && !strings.EqualFold(v, "null") {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
