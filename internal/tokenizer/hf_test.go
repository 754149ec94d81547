package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTokenizerFile = "testdata/tokenizer.json"

func newTestHF(t *testing.T) *HFTokenizer {
	t.Helper()
	tok, err := NewHFTokenizer(testTokenizerFile)
	require.NoError(t, err)
	return tok
}

func TestHFTokenizer_Metadata(t *testing.T) {
	tok := newTestHF(t)

	// No <eos> or </s> in the vocabulary, so EOS falls through to [SEP].
	assert.Equal(t, int32(2), tok.EosToken())
	assert.Equal(t, int32(0), tok.PadToken())
	assert.Equal(t, "tokenizer.json", tok.Name())
	assert.GreaterOrEqual(t, tok.VocabSize(), 10)
}

func TestHFTokenizer_Encode(t *testing.T) {
	tok := newTestHF(t)

	ids, err := tok.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 4}, ids)

	ids, err = tok.Encode("hellos, bye.")
	require.NoError(t, err)
	assert.Equal(t, []int32{3, 7, 9, 6, 8}, ids)
}

func TestHFTokenizer_SentenceEncoderRoundTrip(t *testing.T) {
	tok := newTestHF(t)
	enc := NewSentenceEncoder(tok)

	sentences := []string{"hello world", "bye"}
	batch, err := enc.Encode(sentences)
	require.NoError(t, err)

	assert.Equal(t, [][]int32{{3, 4, 2}, {6, 2, 0}}, batch.IDs)
	assert.Equal(t, []int32{3, 2}, batch.Lengths)
	assert.Equal(t, [][]bool{{true, true, true}, {true, true, false}}, batch.Mask)

	decoded, err := enc.Decode(batch.IDs)
	require.NoError(t, err)
	assert.Equal(t, sentences, decoded)
}

func TestHFTokenizer_DecodeNegativeID(t *testing.T) {
	tok := newTestHF(t)

	_, err := tok.Decode([]int32{3, -1})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHFTokenizer_MissingFile(t *testing.T) {
	tok, err := NewHFTokenizer("testdata/missing.json")
	assert.Error(t, err)
	assert.Nil(t, tok)
}

func TestNew_RoutesJSONToHF(t *testing.T) {
	tok, err := New(testTokenizerFile)
	require.NoError(t, err)
	assert.IsType(t, &HFTokenizer{}, tok)

	_, err = New("testdata/missing.json")
	assert.Error(t, err)
}
