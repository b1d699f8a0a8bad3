package memory

import "strings"

// parseState tracks which labeled section the line cursor sits in.
type parseState int

const (
	stateNone parseState = iota
	stateSummary
	stateFacts
)

const terminalMarker = "<<END>>"

// parseResponse extracts the SUMMARY line and the FACTS bullet list from a
// summarization reply. It is a stricter sibling of the reply sanitizer:
// a summary:/facts: line always forces a state transition, bullet lines
// are only consumed inside the facts section, and parsing stops at the
// terminal marker. Anything else is ignored.
func parseResponse(raw string) (summary string, facts []string) {
	state := stateNone

	for _, line := range strings.Split(raw, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, terminalMarker) {
			break
		}

		lower := strings.ToLower(s)
		switch {
		case strings.HasPrefix(lower, "summary:"):
			state = stateSummary
			summary = strings.TrimSpace(s[len("summary:"):])
			continue
		case strings.HasPrefix(lower, "facts:"):
			state = stateFacts
			continue
		}

		switch state {
		case stateSummary:
			// Bullets belong to the facts section only; a stray one here
			// must not pollute the summary.
			if _, ok := stripBullet(s); ok {
				continue
			}
			// Continuation of a wrapped summary paragraph.
			if summary != "" {
				summary += " "
			}
			summary += s
		case stateFacts:
			if fact, ok := stripBullet(s); ok && fact != "" {
				facts = append(facts, fact)
			}
		}
	}

	return summary, facts
}

func stripBullet(s string) (string, bool) {
	for _, prefix := range []string{"-", "•", "*"} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(s, prefix)), true
		}
	}
	return "", false
}
