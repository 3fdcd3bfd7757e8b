package chunking

import (
	"math"
	"strings"
)

// sliceSeparator marks elided regions between sampled slices.
const sliceSeparator = "\n...\n"

// CompressConfig controls corpus downsampling.
type CompressConfig struct {
	MaxChars int
	Slices   int
}

// DefaultCompressConfig bounds a generation request to roughly 12k chars.
func DefaultCompressConfig() CompressConfig {
	return CompressConfig{
		MaxChars: 12000,
		Slices:   8,
	}
}

// CompressCorpus downsamples an oversized document into evenly spaced slices
// so one request still covers its beginning, middle and end. Text at or under
// cfg.MaxChars is returned unchanged.
func CompressCorpus(text string, cfg CompressConfig) string {
	if cfg.MaxChars <= 0 || cfg.Slices <= 0 {
		cfg = DefaultCompressConfig()
	}

	runes := []rune(text)
	if len(runes) <= cfg.MaxChars {
		return text
	}

	sliceLen := cfg.MaxChars / cfg.Slices
	denom := cfg.Slices - 1
	if denom < 1 {
		denom = 1
	}

	segs := make([]string, 0, cfg.Slices)
	for i := 0; i < cfg.Slices; i++ {
		start := int(math.Round(float64(i) * float64(len(runes)-sliceLen) / float64(denom)))
		end := start + sliceLen
		if end > len(runes) {
			end = len(runes)
		}
		segs = append(segs, string(runes[start:end]))
	}

	return strings.Join(segs, sliceSeparator)
}
