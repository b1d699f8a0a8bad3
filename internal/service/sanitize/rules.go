package sanitize

import "regexp"

// The rule tables below are data, not control flow: the cleaner walks them
// so the leakage vocabulary can grow without touching the algorithm.

// leakPhrases drop a line when its lowercase form contains any of them.
// Mostly chain-of-thought narration seen from local models.
var leakPhrases = []string{
	"thinking",
	"...done thinking",
	"we need to respond",
	"we need to be friendly",
	"the user says",
	"personality:",
}

// metaLabelRe drops lines that open with a role or reasoning label.
var metaLabelRe = regexp.MustCompile(`(?i)^\s*(analysis|reasoning|system|assistant|user|developer|the conversation|as an ai|final answer)\s*[:\-]`)

// bracketMetaKeywords drop a fully bracketed or parenthesized line whose
// lowercase content mentions one of them (stage directions, annotations).
var bracketMetaKeywords = []string{
	"analysis",
	"system",
	"thought",
	"tool",
	"meta",
	"context",
}

// inlineSectionMarkers disqualify a fallback paragraph that still embeds a
// labeled section somewhere inside it.
var inlineSectionMarkers = []string{
	"the conversation:",
	"assistant:",
	"user:",
	"system:",
	"analysis:",
	"reasoning:",
}

var fenceRe = regexp.MustCompile("^\\s*```")

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
