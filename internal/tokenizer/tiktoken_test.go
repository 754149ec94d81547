package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTikTokenOrSkip loads an encoding; the BPE ranks are downloaded on
// first use, so the test is skipped when they are unavailable.
func newTikTokenOrSkip(t *testing.T, encoding string) *TikToken {
	t.Helper()
	tok, err := NewTikToken(encoding)
	if err != nil {
		t.Skipf("tiktoken encoding %s unavailable: %v", encoding, err)
	}
	return tok
}

func TestTikToken_Metadata(t *testing.T) {
	tests := []struct {
		encoding  string
		vocabSize int
		eos       int32
	}{
		{EncodingO200kBase, 200019, 199999},
		{EncodingCL100kBase, 100277, 100257},
		{EncodingP50kBase, 50281, 50256},
		{EncodingP50kEdit, 50284, 50256},
		{EncodingR50kBase, 50257, 50256},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			tok := newTikTokenOrSkip(t, tt.encoding)
			assert.Equal(t, tt.vocabSize, tok.VocabSize())
			assert.Equal(t, tt.eos, tok.EosToken())
			assert.Equal(t, int32(-1), tok.PadToken())
			assert.Equal(t, tt.encoding, tok.Name())
			assert.Less(t, int(tok.EosToken()), tok.VocabSize())
		})
	}
}

func TestTikToken_InvalidEncoding(t *testing.T) {
	tok, err := NewTikToken("invalid_encoding_xyz")
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	assert.Nil(t, tok)
}

func TestTikToken_LayoutCoversSpecialTokens(t *testing.T) {
	// Every emitted id, specials included, must fit the one-hot depth.
	for name := range tiktokenLayouts {
		t.Run(name, func(t *testing.T) {
			tok := newTikTokenOrSkip(t, name)
			ids, err := tok.Encode("hello <|endoftext|> world")
			require.NoError(t, err)
			for _, id := range ids {
				assert.Less(t, int(id), tok.VocabSize())
			}
			text, err := tok.Decode([]int32{tok.EosToken()})
			require.NoError(t, err)
			assert.Equal(t, "<|endoftext|>", text)
		})
	}
}

func TestTikToken_SentenceEncoderRoundTrip(t *testing.T) {
	tok := newTikTokenOrSkip(t, EncodingCL100kBase)
	enc := NewSentenceEncoder(tok)

	sentences := []string{"Hello, world!", "The quick brown fox jumps over the lazy dog."}
	batch, err := enc.Encode(sentences)
	require.NoError(t, err)

	for i, row := range batch.IDs {
		n := batch.Lengths[i]
		assert.Equal(t, tok.EosToken(), row[n-1], "row %d ends with EOS", i)
		for _, id := range row {
			assert.Less(t, int(id), tok.VocabSize())
		}
	}

	decoded, err := enc.Decode(batch.IDs)
	require.NoError(t, err)
	assert.Equal(t, sentences, decoded)
}
