package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/internal/service/chat"
	"github.com/sandevgo/changli/internal/service/locale"
	"github.com/sandevgo/changli/internal/service/memory"
	"github.com/sandevgo/changli/internal/service/prompt"
	"github.com/sandevgo/changli/internal/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct {
	reply  string
	genErr error
	models []core.Model
	modErr error
}

func (s *stubEngine) Generate(ctx context.Context, prompt, model string) (string, error) {
	if s.genErr != nil {
		return "", s.genErr
	}
	return s.reply, nil
}

func (s *stubEngine) Models(ctx context.Context) ([]core.Model, error) {
	if s.modErr != nil {
		return nil, s.modErr
	}
	return s.models, nil
}

func newTestHandler(t *testing.T, engine *stubEngine) http.Handler {
	t.Helper()
	dir := t.TempDir()

	cfg := &config.AppConfig{
		RuntimePath:        dir,
		DefaultModel:       "gemma3:4b",
		EngineTimeout:      time.Minute,
		ContextWindowTurns: 32,
		MemoryCadenceTurns: 10,
		OldDialogueBudget:  6000,
		DefaultLocale:      "id",
	}

	svc := chat.NewService(
		cfg,
		engine,
		jsonfile.NewSessionStore(filepath.Join(dir, "chat_sessions.json")),
		jsonfile.NewProfileStore(filepath.Join(dir, "profile.json")),
		prompt.New(cfg.ContextWindowTurns),
		memory.NewController(engine, cfg.ContextWindowTurns, cfg.MemoryCadenceTurns, cfg.OldDialogueBudget),
		"Bahasa Indonesia",
	)

	return NewHandler(cfg, svc, locale.NewCatalog(), engine).Routes()
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestCreateChat(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "Halo Sam!"})

	rec := doJSON(t, h, http.MethodPost, "/chat", map[string]string{
		"message":   "hi",
		"user_name": "Sam",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Response string      `json:"response"`
		History  []core.Turn `json:"history"`
		ChatID   string      `json:"chat_id"`
		Model    string      `json:"model"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "Halo Sam!", body.Response)
	assert.NotEmpty(t, body.ChatID)
	assert.Equal(t, "gemma3:4b", body.Model)
	require.Len(t, body.History, 1)
	assert.Equal(t, "hi", body.History[0].User)
}

func TestCreateChat_EmptyMessage(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodPost, "/chat", map[string]string{"message": "  "})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "message is empty", body["error"])
}

func TestCreateChat_MalformedBody(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContinueChat_UnknownID(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodPost, "/chat/nope", map[string]string{"message": "hi"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Chat not found", body["error"])
}

func TestChatLifecycle(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodPost, "/chat", map[string]string{"message": "first"})
	require.Equal(t, http.StatusOK, rec.Code)
	var created struct {
		ChatID string `json:"chat_id"`
	}
	decodeBody(t, rec, &created)

	rec = doJSON(t, h, http.MethodPost, "/chat/"+created.ChatID, map[string]string{"message": "second"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/chat/"+created.ChatID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess core.Session
	decodeBody(t, rec, &sess)
	assert.Len(t, sess.History, 2)

	rec = doJSON(t, h, http.MethodGet, "/chats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []core.SessionSummary
	decodeBody(t, rec, &summaries)
	require.Len(t, summaries, 1)
	assert.Equal(t, created.ChatID, summaries[0].ID)

	rec = doJSON(t, h, http.MethodDelete, "/chat/"+created.ChatID+"/memory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestClearMemory_UnknownID(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodDelete, "/chat/nope/memory", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfileEndpoints(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodPut, "/profile", map[string]any{
		"about": "loves hiking",
		"facts": []string{"vegetarian"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile core.Profile
	decodeBody(t, rec, &profile)
	assert.Equal(t, "loves hiking", profile.About)
	assert.Equal(t, []string{"vegetarian"}, profile.Facts)
}

func TestGetConfig(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodGet, "/config", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, core.DefaultUserName, body["user_name"])
	assert.Equal(t, core.DefaultAIName, body["ai_name"])
	assert.Equal(t, "gemma3:4b", body["model"])
	assert.NotEmpty(t, body["custom_prompt"])
}

func TestListLocales(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodGet, "/locales", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var locales []locale.Detail
	decodeBody(t, rec, &locales)
	require.NotEmpty(t, locales)
	assert.Equal(t, "en_us", locales[0].Code)
}

func TestGetLocale(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok"})

	rec := doJSON(t, h, http.MethodGet, "/locales/id", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var table map[string]string
	decodeBody(t, rec, &table)
	assert.Equal(t, "Kirim", table["chat.send"])

	// Unknown codes still resolve through the base layers.
	rec = doJSON(t, h, http.MethodGet, "/locales/xx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &table)
	assert.NotEmpty(t, table["chat.send"])
}

func TestListModels(t *testing.T) {
	h := newTestHandler(t, &stubEngine{
		reply:  "ok",
		models: []core.Model{{ID: "gemma3:4b", Name: "gemma3:4b"}},
	})

	rec := doJSON(t, h, http.MethodGet, "/models", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var models []core.Model
	decodeBody(t, rec, &models)
	require.Len(t, models, 1)
	assert.Equal(t, "gemma3:4b", models[0].ID)
}

func TestListModels_EngineDown(t *testing.T) {
	h := newTestHandler(t, &stubEngine{reply: "ok", modErr: errors.New("refused")})

	rec := doJSON(t, h, http.MethodGet, "/models", nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
