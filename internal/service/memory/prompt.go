package memory

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// buildRequest composes the summarization prompt. Compression is
// incremental: the previous summary and facts are embedded so the engine
// refines existing memory instead of recomputing it from scratch. The old
// dialogue is hard-truncated to charBudget to respect the engine's own
// context limit, keeping the most recent end.
func buildRequest(prevSummary string, prevFacts []string, oldDialogue, newTail string, charBudget int) string {
	if len(oldDialogue) > charBudget {
		oldDialogue = oldDialogue[len(oldDialogue)-charBudget:]
		// The byte cut can land mid-rune; skip forward to the next rune
		// start so the prompt stays valid UTF-8.
		for len(oldDialogue) > 0 && !utf8.RuneStart(oldDialogue[0]) {
			oldDialogue = oldDialogue[1:]
		}
	}

	var b strings.Builder
	b.WriteString("<<SYSTEM>>\n")
	b.WriteString("You compress chat history into durable memory. Reply with exactly two sections and nothing else:\n")
	b.WriteString("SUMMARY: one short paragraph digesting the older dialogue.\n")
	b.WriteString("FACTS: a bulleted list of short, self-contained facts about the user worth remembering.\n")
	b.WriteString("<<END>>\n")

	if prevSummary != "" {
		fmt.Fprintf(&b, "Previous summary: %s\n", prevSummary)
	}
	if len(prevFacts) > 0 {
		b.WriteString("Previous facts:\n")
		for _, f := range prevFacts {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	b.WriteString("Older dialogue:\n")
	b.WriteString(oldDialogue)
	if !strings.HasSuffix(oldDialogue, "\n") {
		b.WriteByte('\n')
	}

	if newTail != "" {
		b.WriteString("Where the conversation is heading:\n")
		b.WriteString(newTail)
	}

	b.WriteString("SUMMARY:")
	return b.String()
}
