// Package memory decides when a session's old dialogue must be compressed
// into durable memory and merges the result back into the session. It is
// best-effort: no outcome here may abort or fail the turn that invoked it.
package memory

import (
	"context"

	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/internal/service/prompt"
	"github.com/sandevgo/changli/pkg/log"
)

// Result reports what a Maybe call did. The caller folds everything but
// Applied into "no session mutation".
type Result int

const (
	// Applied means the session's memory fields were updated.
	Applied Result = iota
	// NotDue means the cadence check decided against summarizing.
	NotDue
	// NoOldDialogue means there was nothing older than the window.
	NoOldDialogue
	// EngineFailed means the summarization call failed; memory untouched.
	EngineFailed
	// Unparseable means the engine reply had no usable SUMMARY/FACTS.
	Unparseable
)

func (r Result) String() string {
	switch r {
	case Applied:
		return "applied"
	case NotDue:
		return "not_due"
	case NoOldDialogue:
		return "no_old_dialogue"
	case EngineFailed:
		return "engine_failed"
	case Unparseable:
		return "unparseable"
	}
	return "unknown"
}

// tailTurns is the short look-ahead hint appended after the old dialogue.
const tailTurns = 2

type Controller struct {
	engine     core.Engine
	window     int
	cadence    int
	charBudget int
}

func NewController(engine core.Engine, window, cadence, charBudget int) *Controller {
	return &Controller{
		engine:     engine,
		window:     window,
		cadence:    cadence,
		charBudget: charBudget,
	}
}

// Maybe summarizes the session's pre-window dialogue when due and merges
// the result into its memory fields. Failure is never destructive: the
// existing memory stays as-is and the next due cadence retries.
func (c *Controller) Maybe(ctx context.Context, session *core.Session) Result {
	logger := log.FromCtx(ctx)

	n := len(session.History)
	if n <= c.window || n%c.cadence != 0 {
		return NotDue
	}

	old := session.History[:n-c.window]
	if len(old) == 0 {
		return NoOldDialogue
	}

	tailStart := n - tailTurns
	if tailStart < 0 {
		tailStart = 0
	}

	req := buildRequest(
		session.MemorySummary,
		session.MemoryFacts,
		prompt.RenderTurns(old),
		prompt.RenderTurns(session.History[tailStart:]),
		c.charBudget,
	)

	raw, err := c.engine.Generate(ctx, req, session.Model)
	if err != nil {
		logger.Warn().Err(err).Str("session", session.ID).Msg("memory summarization call failed")
		return EngineFailed
	}

	summary, facts := parseResponse(raw)
	if summary == "" && len(facts) == 0 {
		logger.Warn().Str("session", session.ID).Msg("memory summarization reply unparseable")
		return Unparseable
	}

	if summary != "" {
		session.MemorySummary = summary
	}
	if len(facts) > 0 {
		session.MemoryFacts = mergeFacts(facts, session.MemoryFacts, core.MaxMemoryFacts)
	}

	logger.Debug().
		Str("session", session.ID).
		Int("facts", len(session.MemoryFacts)).
		Msg("session memory updated")
	return Applied
}

// mergeFacts prepends the new facts, dedupes by exact string match with
// first occurrence winning, and truncates to max keeping the front. Older
// established facts can fall off the end once the cap is hit; that is the
// intended newest-first policy.
func mergeFacts(newFacts, oldFacts []string, max int) []string {
	merged := make([]string, 0, len(newFacts)+len(oldFacts))
	seen := make(map[string]struct{}, len(newFacts)+len(oldFacts))

	for _, f := range append(append([]string{}, newFacts...), oldFacts...) {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		merged = append(merged, f)
	}

	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
