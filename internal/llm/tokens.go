package llm

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const (
	// charsPerToken is the approximation used when no tokenizer is available.
	charsPerToken = 4

	truncationMarker = "\n\n[... content truncated to fit the model context ...]"

	encodingName = "cl100k_base"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// encoding lazily loads the BPE encoding. Loading can fail in offline
// environments; callers fall back to the character approximation.
func encoding() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding(encodingName)
		if err == nil {
			enc = e
		}
	})
	return enc
}

// TruncateToTokens cuts text down to roughly maxTokens tokens, appending a
// truncation marker when anything was removed. Exact when the tokenizer is
// available, otherwise approximated at 4 characters per token.
func TruncateToTokens(text string, maxTokens int) string {
	if maxTokens <= 0 {
		return text
	}

	if e := encoding(); e != nil {
		tokens := e.Encode(text, nil, nil)
		if len(tokens) <= maxTokens {
			return text
		}
		return e.Decode(tokens[:maxTokens]) + truncationMarker
	}

	maxChars := maxTokens * charsPerToken
	if len(text) <= maxChars {
		return text
	}
	cut := text[:maxChars]
	// never split a UTF-8 rune
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return strings.TrimRight(cut, " \n") + truncationMarker
}
