package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_LineFiltering(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "thinking prefix dropped",
			raw:  "Thinking: figuring out...\nHello there!",
			want: "Hello there!",
		},
		{
			name: "done thinking marker dropped",
			raw:  "...done thinking\nSiap, ada yang bisa kubantu?",
			want: "Siap, ada yang bisa kubantu?",
		},
		{
			name: "role labels dropped",
			raw:  "Assistant: hello\nuser: hi\nApa kabar?",
			want: "Apa kabar?",
		},
		{
			name: "analysis label with dash separator dropped",
			raw:  "analysis - user wants a greeting\nHalo!",
			want: "Halo!",
		},
		{
			name: "bracketed meta dropped",
			raw:  "[internal analysis of the request]\n(system note)\nSure thing.",
			want: "Sure thing.",
		},
		{
			name: "bracketed non-meta kept",
			raw:  "(laughs) that tickles",
			want: "(laughs) that tickles",
		},
		{
			name: "fenced meta treated as lines",
			raw:  "```\nreasoning: step one\n```\nHere you go.",
			want: "Here you go.",
		},
		{
			name: "blank lines collapsed",
			raw:  "First part.\n\n\nSecond part.",
			want: "First part.\nSecond part.",
		},
		{
			name: "clean reply untouched",
			raw:  "Halo Sam! Senang ketemu kamu.",
			want: "Halo Sam! Senang ketemu kamu.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw))
		})
	}
}

func TestClean_BackwardParagraphFallback(t *testing.T) {
	// Every line trips a leak phrase, so line filtering empties the
	// output; the answer is recovered positionally from the last
	// paragraph.
	raw := "We need to respond warmly here.\n\nWe need to be friendly. Hello Sam!"
	assert.Equal(t, "We need to be friendly. Hello Sam!", Clean(raw))
}

func TestClean_FallbackSkipsLabeledParagraphs(t *testing.T) {
	raw := "analysis: reading the room\n\nassistant: a draft reply\n\nThe conversation: user asks, assistant answers"
	// All paragraphs are label-prefixed; nothing survives either tier.
	assert.Equal(t, Apology, Clean(raw))
}

func TestClean_TotalFunction(t *testing.T) {
	inputs := []string{
		"",
		"   \n \t \n",
		"Thinking: only meta here",
		"system: a\nassistant: b\nuser: c",
		"```\n```",
	}
	for _, raw := range inputs {
		got := Clean(raw)
		assert.NotEmpty(t, got, "input %q", raw)
	}
}

func TestClean_EmptyInputApology(t *testing.T) {
	assert.Equal(t, Apology, Clean(""))
}
