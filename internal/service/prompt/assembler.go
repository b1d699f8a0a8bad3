// Package prompt assembles the flat prompt string sent to the generation
// engine. The engine has no structured input channel, so each optional
// context block is bounded by sentinel markers that separate instruction,
// persona, long-term memory and live dialogue.
package prompt

import (
	"fmt"
	"strings"

	"github.com/sandevgo/changli/internal/core"
)

const (
	markerSystem  = "<<SYSTEM>>"
	markerProfile = "<<PROFILE>>"
	markerMemory  = "<<MEMORY>>"
	markerEnd     = "<<END>>"
)

// Input is everything a single assembly depends on. Assemble is a pure
// function of it.
type Input struct {
	Session   core.Session
	UserInput string
	Profile   core.Profile
	LangHint  string
}

// segment is one layer of the outbound prompt, rendered in fixed order.
// Optional layers declare an include predicate; bounded layers declare
// their sentinel pair.
type segment struct {
	begin   string
	end     string
	include func(in Input) bool
	render  func(in Input, b *strings.Builder)
}

type Assembler struct {
	window   int
	segments []segment
}

// New builds an assembler with the given recent-turn window size.
func New(window int) *Assembler {
	a := &Assembler{window: window}
	a.segments = []segment{
		// The header closes its own <<END>> so the few-shot name anchors
		// land outside the instruction block, like live dialogue.
		{
			begin:  markerSystem,
			render: renderHeader,
		},
		{
			include: func(in Input) bool { return in.Session.CustomPrompt != "" },
			render: func(in Input, b *strings.Builder) {
				b.WriteString(in.Session.CustomPrompt)
				b.WriteByte('\n')
			},
		},
		{
			begin:   markerProfile,
			end:     markerEnd,
			include: func(in Input) bool { return !in.Profile.IsEmpty() },
			render:  renderProfile,
		},
		{
			begin:   markerMemory,
			end:     markerEnd,
			include: func(in Input) bool { return in.Session.MemorySummary != "" || len(in.Session.MemoryFacts) > 0 },
			render:  renderMemory,
		},
		{
			render: a.renderWindow,
		},
	}
	return a
}

// Assemble composes the outbound prompt from the layered segments:
// system header, persona, profile block, memory block, recent dialogue
// window with the trailing "AI:" cue.
func (a *Assembler) Assemble(in Input) string {
	var b strings.Builder
	for _, seg := range a.segments {
		if seg.include != nil && !seg.include(in) {
			continue
		}
		if seg.begin != "" {
			b.WriteString(seg.begin)
			b.WriteByte('\n')
		}
		seg.render(in, &b)
		if seg.end != "" {
			b.WriteString(seg.end)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderHeader(in Input, b *strings.Builder) {
	user := in.Session.UserName
	if user == "" {
		user = core.DefaultUserName
	}
	ai := in.Session.AIName
	if ai == "" {
		ai = core.DefaultAIName
	}
	lang := in.LangHint
	if lang == "" {
		lang = "Bahasa Indonesia"
	}

	fmt.Fprintf(b, "- The user's name is '%s'. Always address them as '%s'.\n", user, user)
	fmt.Fprintf(b, "- Your name is '%s'. If asked for your name, answer '%s'.\n", ai, ai)
	fmt.Fprintf(b, "- If asked for the user's name, answer '%s'.\n", user)
	b.WriteString("- Be concise and stay in character/persona.\n")
	b.WriteString("- Reply with the answer text only: no role labels, no analysis, no meta commentary.\n")
	fmt.Fprintf(b, "- Prefer %s, but mirror the user's language if it differs.\n", lang)
	b.WriteString(markerEnd)
	b.WriteByte('\n')
	fmt.Fprintf(b, "User: what's my name?\nAI: %s\n", user)
	fmt.Fprintf(b, "User: what's your name?\nAI: %s\n", ai)
}

func renderProfile(in Input, b *strings.Builder) {
	if in.Profile.About != "" {
		fmt.Fprintf(b, "AboutUser: %s\n", in.Profile.About)
	}
	if in.Profile.Job != "" {
		fmt.Fprintf(b, "Occupation: %s\n", in.Profile.Job)
	}
	if len(in.Profile.Facts) > 0 {
		b.WriteString("UserFacts:\n")
		for _, f := range in.Profile.Facts {
			fmt.Fprintf(b, "- %s\n", f)
		}
	}
}

func renderMemory(in Input, b *strings.Builder) {
	if in.Session.MemorySummary != "" {
		fmt.Fprintf(b, "Summary: %s\n", in.Session.MemorySummary)
	}
	if len(in.Session.MemoryFacts) > 0 {
		b.WriteString("Facts:\n")
		for _, f := range in.Session.MemoryFacts {
			fmt.Fprintf(b, "- %s\n", f)
		}
	}
}

func (a *Assembler) renderWindow(in Input, b *strings.Builder) {
	history := in.Session.History
	if len(history) > a.window {
		history = history[len(history)-a.window:]
	}
	for _, t := range history {
		fmt.Fprintf(b, "User: %s\nAI: %s\n", t.User, t.Reply)
	}
	fmt.Fprintf(b, "User: %s\nAI:", in.UserInput)
}

// RenderTurns serializes turns as alternating dialogue lines, the same
// shape the window layer uses. Shared with the memory controller.
func RenderTurns(turns []core.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "User: %s\nAI: %s\n", t.User, t.Reply)
	}
	return b.String()
}
