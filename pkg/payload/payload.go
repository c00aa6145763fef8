// Package payload recovers structured data from tolerant, possibly
// double-encoded agent payloads. Generated payloads arrive as decoded
// objects, JSON strings, code-fenced JSON strings, or objects whose
// summary field itself holds encoded JSON; Unwrap accepts all of them and
// never fails harder than "treat it as plain text".
package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"advisor/pkg/models"
)

// Extract is the structured view of a websearch payload.
type Extract struct {
	Summary string
	Bullets []string
	Sources []models.Source
}

// Unwrap decodes a raw websearch payload. The second return value is false
// when nothing structured could be recovered; the Extract then carries the
// original text as the Summary so callers render it as-is.
func Unwrap(raw any) (Extract, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return secondPass(fromMap(v)), true
	case json.RawMessage:
		return Unwrap(string(v))
	case string:
		if m, ok := decodeObject(v); ok {
			return secondPass(fromMap(m)), true
		}
		return Extract{Summary: unquote(strings.TrimSpace(v))}, false
	default:
		return Extract{}, false
	}
}

// secondPass handles the double-encoded form: a decoded object whose
// summary field is itself a (possibly fenced) JSON object.
func secondPass(ex Extract) Extract {
	candidate := strings.TrimSpace(stripFences(ex.Summary))
	if !strings.HasPrefix(candidate, "{") {
		return ex
	}
	nested, ok := decodeObject(candidate)
	if !ok {
		return ex
	}
	inner := fromMap(nested)
	if inner.Summary != "" {
		ex.Summary = inner.Summary
	}
	if len(inner.Bullets) > 0 {
		ex.Bullets = inner.Bullets
	}
	if len(inner.Sources) > 0 {
		ex.Sources = inner.Sources
	}
	return ex
}

func fromMap(m map[string]any) Extract {
	ex := Extract{}
	if s, ok := m["summary"].(string); ok {
		ex.Summary = unquote(strings.TrimSpace(s))
	}
	if bullets, ok := m["bullets"].([]any); ok {
		for _, b := range bullets {
			text := unquote(strings.TrimSpace(fmt.Sprint(b)))
			if text != "" {
				ex.Bullets = append(ex.Bullets, text)
			}
		}
	}
	if sources, ok := m["sources"].([]any); ok {
		for _, s := range sources {
			entry, ok := s.(map[string]any)
			if !ok {
				continue
			}
			src := models.Source{}
			src.Title, _ = entry["title"].(string)
			src.URL, _ = entry["url"].(string)
			src.Date, _ = entry["date"].(string)
			if src.Title != "" || src.URL != "" {
				ex.Sources = append(ex.Sources, src)
			}
		}
	}
	return ex
}

// decodeObject strips code fences and attempts a strict decode, then a
// repaired one.
func decodeObject(s string) (map[string]any, bool) {
	candidate := strings.TrimSpace(stripFences(s))
	if candidate == "" {
		return nil, false
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(candidate), &m); err == nil {
		return m, true
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, false
	}
	m = map[string]any{}
	if err := json.Unmarshal([]byte(repaired), &m); err != nil {
		return nil, false
	}
	return m, true
}

// stripFences removes markdown code-fence markers, with or without a
// language tag.
func stripFences(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	s = fenceOpen.ReplaceAllString(s, "")
	return strings.ReplaceAll(s, "```", "")
}

func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

var (
	fenceOpen = regexp.MustCompile("```[a-zA-Z]*")
	objectRe  = regexp.MustCompile(`\{[^{}]*\}`)
)

// ExtractObject pulls the first flat JSON object out of a generated answer,
// repairing it when the model emitted almost-JSON.
func ExtractObject(ans string) (string, error) {
	match := objectRe.FindString(stripFences(ans))
	if match == "" {
		return "", errors.New("no object found in answer")
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(match), &m); err == nil {
		return match, nil
	}
	repaired, err := jsonrepair.JSONRepair(match)
	if err != nil {
		return "", fmt.Errorf("repair object: %w", err)
	}
	return repaired, nil
}
