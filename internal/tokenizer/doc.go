// Package tokenizer turns sentences into the token-id batches that feed the
// LSTM cell.
//
// Tokenizers:
//   - char: one token per ASCII character, cp -> cp+1, 0 is EOS and padding
//   - tiktoken: BPE encodings used by GPT-3/GPT-4 (cl100k_base, p50k_base)
//   - HuggingFace: any tokenizer.json, loaded with sugarme/tokenizer
//
// Example usage:
//
//	enc := tokenizer.NewSentenceEncoder(tokenizer.NewCharTokenizer())
//	batch, err := enc.Encode([]string{"Hello, world!", "Bye bye."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(batch.IDs[0]) // [73 102 109 109 112 45 33 120 112 115 109 101 34 0]
package tokenizer
