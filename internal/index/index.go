// Package index is a naive in-memory document index backing the retrieval
// agent: plain term matching over a directory of text files. It stands in
// for a real retriever, which is outside this core.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"advisor/pkg/models"
)

const maxResults = 8

type Index struct {
	docs []models.Document

	mu   sync.Mutex
	last []models.Document
}

// Load reads every .txt and .md file under dir. A missing directory yields
// an empty index, not an error.
func Load(dir string) (*Index, error) {
	idx := &Index{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return idx, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		idx.docs = append(idx.docs, models.Document{
			File: entry.Name(),
			Date: modDate(entry),
			Text: string(data),
		})
	}
	return idx, nil
}

// Search returns documents containing any query term, primary-hint matches
// first.
func (idx *Index) Search(ctx context.Context, query, primaryHint string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := strings.Fields(strings.ToLower(query))
	hint := strings.ToLower(strings.TrimSpace(primaryHint))

	var hinted, matched []models.Document
	for _, doc := range idx.docs {
		text := strings.ToLower(doc.Text)
		if !containsAny(text, terms) {
			continue
		}
		if hint != "" && strings.Contains(text, hint) {
			hinted = append(hinted, doc)
		} else {
			matched = append(matched, doc)
		}
	}
	results := append(hinted, matched...)
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	idx.mu.Lock()
	idx.last = results
	idx.mu.Unlock()
	return results, nil
}

// TopSources lists the documents of the most recent search, text omitted.
func (idx *Index) TopSources() []models.Document {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	sources := make([]models.Document, 0, len(idx.last))
	for _, doc := range idx.last {
		sources = append(sources, models.Document{File: doc.File, Date: doc.Date})
	}
	return sources
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

func modDate(entry os.DirEntry) string {
	info, err := entry.Info()
	if err != nil {
		return ""
	}
	return info.ModTime().Format("2006-01-02")
}
