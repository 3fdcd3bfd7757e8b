package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadOrSkip(t *testing.T) *Tokenizer {
	t.Helper()
	tok, err := Load()
	if err != nil {
		t.Skipf("no encoding data available: %v", err)
	}
	return tok
}

func TestLoad_ReturnsSameInstance(t *testing.T) {
	first := loadOrSkip(t)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCount_EmptyTextIsZero(t *testing.T) {
	tok := loadOrSkip(t)
	assert.Equal(t, 0, tok.Count(""))
}

func TestCount_Deterministic(t *testing.T) {
	tok := loadOrSkip(t)
	text := "Photosynthesis converts light energy into chemical energy."

	first := tok.Count(text)
	assert.Greater(t, first, 0)
	assert.Equal(t, first, tok.Count(text))
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tok := loadOrSkip(t)
	text := "The mitochondria is the powerhouse of the cell."

	ids := tok.Encode(text)
	require.NotEmpty(t, ids)
	assert.Equal(t, text, tok.Decode(ids))
	assert.Equal(t, len(ids), tok.Count(text))
}

func TestEncoding_Reported(t *testing.T) {
	tok := loadOrSkip(t)
	assert.Contains(t, []string{PrimaryEncoding, FallbackEncoding}, tok.Encoding())
}
