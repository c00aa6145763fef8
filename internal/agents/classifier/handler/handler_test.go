package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KeywordLine(t *testing.T) {
	line := KeywordLine(map[string]string{
		"topic":        "sales",
		"organization": "",
		"department":   "null",
		"period":       "2023",
		"region":       " north ",
	})

	assert.Equal(t, "sales 2023 north", line)
}

func Test_KeywordLine_empty(t *testing.T) {
	assert.Empty(t, KeywordLine(map[string]string{}))
	assert.Empty(t, KeywordLine(nil))
}
