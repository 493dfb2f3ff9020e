package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRow(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeRow(&buf, "a", "", "c"))
	assert.Equal(t, "a\t\tc\n", buf.String())
}

func TestWriteRow_SanitizesEmbeddedTabs(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeRow(&buf, "has\ttab", "has\nnewline"))
	assert.Equal(t, "has tab\thas newline\n", buf.String())
}

func TestSanitizeField(t *testing.T) {
	assert.Equal(t, "plain", sanitizeField("plain"))
	assert.Equal(t, "a b c", sanitizeField("a\tb\rc"))
}
