package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSummary string
		wantFacts   []string
	}{
		{
			name:        "summary and facts",
			raw:         "SUMMARY: user likes coffee.\nFACTS:\n- likes coffee\n- works night shift\n",
			wantSummary: "user likes coffee.",
			wantFacts:   []string{"likes coffee", "works night shift"},
		},
		{
			name:        "lowercase labels",
			raw:         "summary: short digest\nfacts:\n* fact one\n• fact two",
			wantSummary: "short digest",
			wantFacts:   []string{"fact one", "fact two"},
		},
		{
			name:        "wrapped summary continues",
			raw:         "SUMMARY: the user moved\nto Jakarta last month.\nFACTS:\n- lives in Jakarta",
			wantSummary: "the user moved to Jakarta last month.",
			wantFacts:   []string{"lives in Jakarta"},
		},
		{
			name:        "bullets outside facts ignored",
			raw:         "- stray bullet\nSUMMARY: digest\n- another stray\nFACTS:\n- real fact",
			wantSummary: "digest",
			wantFacts:   []string{"real fact"},
		},
		{
			name:        "bullet between summary and facts labels dropped",
			raw:         "SUMMARY: digest\n- stray bullet\nFACTS:\n- real fact",
			wantSummary: "digest",
			wantFacts:   []string{"real fact"},
		},
		{
			name:        "facts before summary transitions states",
			raw:         "FACTS:\n- early fact\nSUMMARY: late digest",
			wantSummary: "late digest",
			wantFacts:   []string{"early fact"},
		},
		{
			name:        "terminal marker stops parsing",
			raw:         "SUMMARY: digest\nFACTS:\n- kept\n<<END>>\n- dropped",
			wantSummary: "digest",
			wantFacts:   []string{"kept"},
		},
		{
			name:        "unparseable chatter",
			raw:         "Sure! Here is what I remember about the user.",
			wantSummary: "",
			wantFacts:   nil,
		},
		{
			name:        "empty input",
			raw:         "",
			wantSummary: "",
			wantFacts:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, facts := parseResponse(tt.raw)
			assert.Equal(t, tt.wantSummary, summary)
			assert.Equal(t, tt.wantFacts, facts)
		})
	}
}
