// Package chunking packs source text into token-bounded chunks for model
// calls. Units (sections, paragraphs or sentences) are packed greedily up to
// a target token count, with the tail of each chunk repeated at the start of
// the next so context survives chunk boundaries.
package chunking

import "strings"

// unitSeparator joins units inside a chunk.
const unitSeparator = "\n\n"

// hardSplitFactor is the slack allowed before an oversized accumulator is
// split by raw token offsets.
const hardSplitFactor = 1.3

// Tokenizer is the token codec the packer needs. *token.Tokenizer satisfies
// it.
type Tokenizer interface {
	Count(text string) int
	Encode(text string) []int
	Decode(tokens []int) string
}

// Config controls chunk packing.
type Config struct {
	TargetTokens  int
	OverlapTokens int
}

// DefaultConfig provides sane defaults for flashcard generation.
func DefaultConfig() Config {
	return Config{
		TargetTokens:  1400,
		OverlapTokens: 150,
	}
}

// ChunkText splits text into chunks of roughly cfg.TargetTokens tokens,
// preferring whole units and carrying cfg.OverlapTokens of trailing context
// into each subsequent chunk. A single unit larger than the hard-split bound
// is cut by token offsets, with overlap preserved across the cut. Empty or
// whitespace-only input yields no chunks.
func ChunkText(tok Tokenizer, text string, cfg Config) []string {
	if cfg.TargetTokens <= 0 {
		cfg = DefaultConfig()
	}
	// Overlap has to stay below the target or the hard-split re-seed cannot
	// advance past it; out-of-range values fall back to no overlap.
	if cfg.OverlapTokens < 0 || cfg.OverlapTokens >= cfg.TargetTokens {
		cfg.OverlapTokens = 0
	}

	units := SplitUnits(text)

	var chunks []string
	var cur []string
	curTokens := 0

	for _, unit := range units {
		unitTokens := tok.Count(unit)
		if curTokens+unitTokens <= cfg.TargetTokens {
			cur = append(cur, unit)
			curTokens += unitTokens
			continue
		}

		if len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, unitSeparator))
		}

		// Seed the next accumulator with the tail of the previous chunk.
		// The very first chunk has no predecessor to borrow from.
		if len(chunks) > 0 {
			overlap := trailingTokens(tok, chunks[len(chunks)-1], cfg.OverlapTokens)
			cur = []string{overlap, unit}
			curTokens = tok.Count(overlap) + unitTokens
		} else {
			cur = []string{unit}
			curTokens = unitTokens
		}

		// A single oversized unit: split by token offsets until the
		// remainder fits, re-seeding from target-overlap so overlap holds
		// across hard splits too.
		limit := int(float64(cfg.TargetTokens) * hardSplitFactor)
		for curTokens > limit {
			ids := tok.Encode(strings.Join(cur, unitSeparator))
			chunks = append(chunks, tok.Decode(ids[:cfg.TargetTokens]))
			rest := tok.Decode(ids[cfg.TargetTokens-cfg.OverlapTokens:])
			cur = []string{rest}
			curTokens = tok.Count(rest)
		}
	}

	if len(cur) > 0 {
		chunks = append(chunks, strings.Join(cur, unitSeparator))
	}

	return chunks
}

// trailingTokens decodes the last n tokens of text back to a string.
func trailingTokens(tok Tokenizer, text string, n int) string {
	ids := tok.Encode(text)
	if len(ids) > n {
		ids = ids[len(ids)-n:]
	}
	return tok.Decode(ids)
}
