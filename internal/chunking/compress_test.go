package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressCorpus_SmallTextUnchanged(t *testing.T) {
	text := "short document"
	assert.Equal(t, text, CompressCorpus(text, DefaultCompressConfig()))
}

func TestCompressCorpus_ExactLimitUnchanged(t *testing.T) {
	text := strings.Repeat("a", 12000)
	assert.Equal(t, text, CompressCorpus(text, DefaultCompressConfig()))
}

func TestCompressCorpus_BoundsOutputSize(t *testing.T) {
	text := strings.Repeat("a", 50000)
	cfg := CompressConfig{MaxChars: 12000, Slices: 8}

	out := CompressCorpus(text, cfg)

	separatorOverhead := (cfg.Slices - 1) * len(sliceSeparator)
	assert.LessOrEqual(t, len(out), cfg.MaxChars+separatorOverhead)
	assert.Equal(t, cfg.Slices-1, strings.Count(out, sliceSeparator))
}

func TestCompressCorpus_CoversStartAndEnd(t *testing.T) {
	// Distinct markers at both ends must survive compression.
	middle := strings.Repeat("m", 50000)
	text := "BEGINNING-MARKER " + middle + " ENDING-MARKER"
	cfg := CompressConfig{MaxChars: 12000, Slices: 8}

	out := CompressCorpus(text, cfg)

	segs := strings.Split(out, sliceSeparator)
	require.Len(t, segs, cfg.Slices)
	assert.True(t, strings.HasPrefix(segs[0], "BEGINNING-MARKER"))
	assert.True(t, strings.HasSuffix(segs[len(segs)-1], "ENDING-MARKER"))
}

func TestCompressCorpus_ZeroConfigUsesDefaults(t *testing.T) {
	text := strings.Repeat("b", 20000)

	out := CompressCorpus(text, CompressConfig{})

	assert.Less(t, len(out), len(text))
}
