// Package chat ties the prompt assembler, generation engine, output
// sanitizer and memory controller together into per-turn processing. It
// owns the mutation sequence of a session: append turn, maybe summarize,
// persist.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/internal/service/memory"
	"github.com/sandevgo/changli/internal/service/prompt"
	"github.com/sandevgo/changli/internal/service/sanitize"
	"github.com/sandevgo/changli/pkg/log"
)

type Service struct {
	cfg       *config.AppConfig
	engine    core.Engine
	sessions  core.SessionRepository
	profiles  core.ProfileRepository
	assembler *prompt.Assembler
	memory    *memory.Controller
	langHint  string
	locks     *sessionLocks
	now       func() time.Time
}

func NewService(
	cfg *config.AppConfig,
	engine core.Engine,
	sessions core.SessionRepository,
	profiles core.ProfileRepository,
	assembler *prompt.Assembler,
	controller *memory.Controller,
	langHint string,
) *Service {
	return &Service{
		cfg:       cfg,
		engine:    engine,
		sessions:  sessions,
		profiles:  profiles,
		assembler: assembler,
		memory:    controller,
		langHint:  langHint,
		locks:     newSessionLocks(),
		now:       time.Now,
	}
}

// TurnRequest carries the user text plus identity overrides. Nil or blank
// override fields keep the stored (or default) value; a non-blank field
// wins.
type TurnRequest struct {
	Message      string
	UserName     *string
	AIName       *string
	Model        *string
	CustomPrompt *string
}

type TurnResult struct {
	Reply     string
	History   []core.Turn
	SessionID string
	Model     string
}

// CreateTurn starts a new session from the first user message.
func (s *Service) CreateTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	input := strings.TrimSpace(req.Message)
	if input == "" {
		return TurnResult{}, core.ErrEmptyMessage
	}

	sess := core.Session{
		ID:       uuid.NewString(),
		UserName: core.DefaultUserName,
		AIName:   core.DefaultAIName,
		Model:    s.cfg.DefaultModel,
		History:  []core.Turn{},
	}
	applyOverrides(&sess, req)

	lock := s.locks.get(sess.ID)
	lock.Lock()
	defer lock.Unlock()

	reply := s.runTurn(ctx, &sess, input)
	return TurnResult{Reply: reply, History: sess.History, SessionID: sess.ID, Model: sess.Model}, nil
}

// ContinueTurn appends a turn to an existing session. An empty message is
// a no-op echo of the current history, matching the UI reloading a chat.
func (s *Service) ContinueTurn(ctx context.Context, sessionID string, req TurnRequest) (TurnResult, error) {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return TurnResult{}, err
	}

	input := strings.TrimSpace(req.Message)
	if input == "" {
		return TurnResult{History: sess.History, SessionID: sess.ID, Model: sess.Model}, nil
	}

	applyOverrides(&sess, req)

	reply := s.runTurn(ctx, &sess, input)
	return TurnResult{Reply: reply, History: sess.History, SessionID: sess.ID, Model: sess.Model}, nil
}

// runTurn executes steps 3-8 of a turn against a locked session: assemble
// prompt, generate, sanitize, append, maybe summarize, persist. The engine
// never fails a turn; it degrades to an apology reply.
func (s *Service) runTurn(ctx context.Context, sess *core.Session, input string) string {
	logger := log.FromCtx(ctx)

	profile, err := s.profiles.Get(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load profile, prompting without it")
		profile = core.Profile{}
	}

	outbound := s.assembler.Assemble(prompt.Input{
		Session:   *sess,
		UserInput: input,
		Profile:   profile,
		LangHint:  s.langHint,
	})
	logger.Debug().
		Str("session", sess.ID).
		Int("tokens", prompt.EstimateTokens(outbound)).
		Msg("prompt assembled")

	genCtx, cancel := context.WithTimeout(ctx, s.cfg.EngineTimeout)
	raw, err := s.engine.Generate(genCtx, outbound, sess.Model)
	cancel()

	var reply string
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("session", sess.ID).Msg("engine call failed, degrading to apology")
		reply = apologyFor(sess.UserName)
	case strings.TrimSpace(raw) == "":
		logger.Warn().Str("session", sess.ID).Msg("engine returned nothing, degrading to apology")
		reply = apologyFor(sess.UserName)
	default:
		reply = sanitize.Clean(raw)
	}

	sess.History = append(sess.History, core.Turn{User: input, Reply: reply})

	memCtx, cancel := context.WithTimeout(ctx, s.cfg.EngineTimeout)
	result := s.memory.Maybe(memCtx, sess)
	cancel()
	if result != memory.NotDue {
		logger.Info().Str("session", sess.ID).Stringer("memory", result).Msg("memory controller ran")
	}

	sess.Touch(s.now())

	// A failed save must not lose the reply already produced; the next
	// read may be stale until a later save succeeds.
	if err := s.sessions.Put(ctx, *sess); err != nil {
		logger.Error().Err(err).Str("session", sess.ID).Msg("failed to persist session")
	}

	return reply
}

func (s *Service) ListSessions(ctx context.Context) ([]core.SessionSummary, error) {
	return s.sessions.List(ctx)
}

func (s *Service) GetSession(ctx context.Context, sessionID string) (core.Session, error) {
	return s.sessions.Get(ctx, sessionID)
}

// ClearMemory resets the session's compressed memory, leaving history
// untouched. Idempotent.
func (s *Service) ClearMemory(ctx context.Context, sessionID string) error {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.MemorySummary = ""
	sess.MemoryFacts = nil
	sess.Touch(s.now())

	if err := s.sessions.Put(ctx, sess); err != nil {
		return fmt.Errorf("failed to persist cleared memory: %w", err)
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context) (core.Profile, error) {
	return s.profiles.Get(ctx)
}

// ProfileUpdate is a partial update: nil fields keep their prior value,
// a supplied Facts list fully replaces the stored one.
type ProfileUpdate struct {
	About *string
	Job   *string
	Facts *[]string
}

func (s *Service) SetProfile(ctx context.Context, update ProfileUpdate) (core.Profile, error) {
	profile, err := s.profiles.Get(ctx)
	if err != nil {
		return core.Profile{}, err
	}

	if update.About != nil {
		profile.About = *update.About
	}
	if update.Job != nil {
		profile.Job = *update.Job
	}
	if update.Facts != nil {
		profile.Facts = *update.Facts
	}

	if err := s.profiles.Put(ctx, profile); err != nil {
		return core.Profile{}, fmt.Errorf("failed to persist profile: %w", err)
	}
	return profile, nil
}

func applyOverrides(sess *core.Session, req TurnRequest) {
	if req.UserName != nil && *req.UserName != "" {
		sess.UserName = *req.UserName
	}
	if req.AIName != nil && *req.AIName != "" {
		sess.AIName = *req.AIName
	}
	if req.Model != nil && *req.Model != "" {
		sess.Model = *req.Model
	}
	if req.CustomPrompt != nil {
		if cp := strings.TrimSpace(*req.CustomPrompt); cp != "" {
			sess.CustomPrompt = cp
		}
	}
}

func apologyFor(userName string) string {
	if userName == "" {
		userName = core.DefaultUserName
	}
	return fmt.Sprintf("Sorry %s, aku lagi bingung nih... 😢", userName)
}
