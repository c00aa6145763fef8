package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
}

func Test_Load_missingDir(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)

	docs, err := idx.Search(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func Test_Search(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "sales.txt", "quarterly sales figures for the north region")
	writeDoc(t, dir, "hr.md", "hiring plan and headcount")
	writeDoc(t, dir, "ignored.csv", "sales,1,2,3")

	idx, err := Load(dir)
	require.NoError(t, err)

	docs, err := idx.Search(context.Background(), "sales", "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "sales.txt", docs[0].File)

	sources := idx.TopSources()
	require.Len(t, sources, 1)
	assert.Equal(t, "sales.txt", sources[0].File)
	assert.Empty(t, sources[0].Text)
}

func Test_Search_hintFirst(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "report mentions budget only")
	writeDoc(t, dir, "b.txt", "report mentions budget and the exact phrase")

	idx, err := Load(dir)
	require.NoError(t, err)

	docs, err := idx.Search(context.Background(), "budget", "exact phrase")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b.txt", docs[0].File)
}

func Test_Search_noMatch(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "nothing relevant")

	idx, err := Load(dir)
	require.NoError(t, err)

	docs, err := idx.Search(context.Background(), "zebra", "")
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, idx.TopSources())
}
