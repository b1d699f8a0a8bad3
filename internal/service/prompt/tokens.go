package prompt

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

// EstimateTokens approximates how many tokens a prompt occupies so callers
// can log how close a turn gets to the engine's context limit. Falls back
// to a bytes/4 heuristic when the encoder is unavailable.
func EstimateTokens(text string) int {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tk = enc
		}
	})
	if tk == nil {
		return len(text) / 4
	}
	return len(tk.Encode(text, nil, nil))
}
