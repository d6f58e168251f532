package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizePicksDominantTopic(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Placement season brought strong placement offers. Placement statistics improved. The cafeteria got a new menu. Placement training continues weekly."
	out, err := s.Summarize(text, 2)
	require.NoError(t, err)
	assert.Contains(t, strings.ToLower(out), "placement")
	assert.NotContains(t, strings.ToLower(out), "cafeteria")
}

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "Research labs host projects. Labs run experiments daily. Labs publish results."
	out, err := s.Summarize(text, 3)
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Research labs"), strings.Index(out, "publish"))
}

func TestSummarizeNoSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("  just a fragment with no terminator  ", 2)
	require.NoError(t, err)
	assert.Equal(t, "just a fragment with no terminator", out)
}
