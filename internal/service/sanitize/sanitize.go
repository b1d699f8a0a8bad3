// Package sanitize recovers the single clean reply a user should see from
// raw generation output, which may carry chain-of-thought leakage, role
// label echoes or formatting noise.
package sanitize

import "strings"

// Apology is the fixed degraded reply when nothing usable survives.
const Apology = "Sorry sayang, aku lagi bingung nih... 😢"

// Clean is total: it never fails and always returns a non-empty string.
//
// Two tiers are needed because leakage shapes vary. Line-prefixed leakage
// is caught by the rule tables; an unstructured reasoning preamble has no
// per-line marker, so the fallback scans paragraphs from the end, where
// front-loaded-reasoning models put the actual answer.
func Clean(raw string) string {
	normalized := normalizeFences(raw)

	if out := filterLines(normalized); out != "" {
		return out
	}

	if out := lastCleanParagraph(normalized); out != "" {
		return out
	}

	return Apology
}

// normalizeFences turns triple-backtick fence lines into blank separators
// so fenced content is filtered like ordinary lines. Engines sometimes
// wrap meta commentary in fences.
func normalizeFences(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if fenceRe.MatchString(line) {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func filterLines(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if dropLine(s) {
			continue
		}
		kept = append(kept, s)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func dropLine(s string) bool {
	lower := strings.ToLower(s)

	for _, phrase := range leakPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	if metaLabelRe.MatchString(s) {
		return true
	}

	return isBracketedMeta(lower)
}

func isBracketedMeta(lower string) bool {
	var inner string
	switch {
	case strings.HasPrefix(lower, "(") && strings.HasSuffix(lower, ")"):
		inner = lower[1 : len(lower)-1]
	case strings.HasPrefix(lower, "[") && strings.HasSuffix(lower, "]"):
		inner = lower[1 : len(lower)-1]
	default:
		return false
	}

	for _, kw := range bracketMetaKeywords {
		if strings.Contains(inner, kw) {
			return true
		}
	}
	return false
}

// lastCleanParagraph scans blank-line-separated paragraphs backward and
// returns the first one that is neither label-prefixed nor carrying an
// inline labeled section.
func lastCleanParagraph(text string) string {
	paragraphs := paragraphSplitRe.Split(text, -1)
	for i := len(paragraphs) - 1; i >= 0; i-- {
		p := strings.TrimSpace(paragraphs[i])
		if p == "" {
			continue
		}
		if metaLabelRe.MatchString(p) {
			continue
		}
		if containsInlineMarker(strings.ToLower(p)) {
			continue
		}
		return p
	}
	return ""
}

func containsInlineMarker(lower string) bool {
	for _, marker := range inlineSectionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
