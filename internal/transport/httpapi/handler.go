// Package httpapi is the thin HTTP presentation adapter over the chat
// service. It only translates JSON requests to service calls and domain
// errors to status codes.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/internal/service/chat"
	"github.com/sandevgo/changli/internal/service/locale"
	"github.com/sandevgo/changli/pkg/log"
)

type Handler struct {
	cfg     *config.AppConfig
	svc     *chat.Service
	locales *locale.Catalog
	models  core.ModelLister
}

func NewHandler(cfg *config.AppConfig, svc *chat.Service, locales *locale.Catalog, models core.ModelLister) *Handler {
	return &Handler{
		cfg:     cfg,
		svc:     svc,
		locales: locales,
		models:  models,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Post("/chat", h.createChat)
	r.Post("/chat/{id}", h.continueChat)
	r.Get("/chats", h.listChats)
	r.Get("/chat/{id}", h.getChat)
	r.Delete("/chat/{id}/memory", h.clearMemory)
	r.Get("/profile", h.getProfile)
	r.Put("/profile", h.setProfile)
	r.Get("/locales", h.listLocales)
	r.Get("/locales/{code}", h.getLocale)
	r.Get("/models", h.listModels)
	r.Get("/config", h.getConfig)

	return r
}

type turnPayload struct {
	Message      string  `json:"message"`
	UserName     *string `json:"user_name"`
	AIName       *string `json:"ai_name"`
	Model        *string `json:"model"`
	CustomPrompt *string `json:"custom_prompt"`
}

func (p turnPayload) toRequest() chat.TurnRequest {
	return chat.TurnRequest{
		Message:      p.Message,
		UserName:     p.UserName,
		AIName:       p.AIName,
		Model:        p.Model,
		CustomPrompt: p.CustomPrompt,
	}
}

type turnResponse struct {
	Response string      `json:"response,omitempty"`
	History  []core.Turn `json:"history"`
	ChatID   string      `json:"chat_id"`
	Model    string      `json:"model,omitempty"`
}

func (h *Handler) createChat(w http.ResponseWriter, r *http.Request) {
	var payload turnPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.CreateTurn(r.Context(), payload.toRequest())
	if err != nil {
		h.writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Response: result.Reply,
		History:  result.History,
		ChatID:   result.SessionID,
		Model:    result.Model,
	})
}

func (h *Handler) continueChat(w http.ResponseWriter, r *http.Request) {
	var payload turnPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.ContinueTurn(r.Context(), chi.URLParam(r, "id"), payload.toRequest())
	if err != nil {
		h.writeDomainError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Response: result.Reply,
		History:  result.History,
		ChatID:   result.SessionID,
		Model:    result.Model,
	})
}

func (h *Handler) listChats(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListSessions(r.Context())
	if err != nil {
		h.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) getChat(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) clearMemory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearMemory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetProfile(r.Context())
	if err != nil {
		h.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type profilePayload struct {
	About *string   `json:"about"`
	Job   *string   `json:"job"`
	Facts *[]string `json:"facts"`
}

func (h *Handler) setProfile(w http.ResponseWriter, r *http.Request) {
	var payload profilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.svc.SetProfile(r.Context(), chat.ProfileUpdate{
		About: payload.About,
		Job:   payload.Job,
		Facts: payload.Facts,
	})
	if err != nil {
		h.writeDomainError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) listLocales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.locales.ListDetail())
}

// getLocale serves the merged string table for a locale; unknown codes
// fall back to the base layers, so the UI always gets a usable table.
func (h *Handler) getLocale(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.locales.Load(chi.URLParam(r, "code")))
}

func (h *Handler) listModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.models.Models(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "engine unavailable")
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"user_name":     core.DefaultUserName,
		"ai_name":       core.DefaultAIName,
		"model":         h.cfg.DefaultModel,
		"custom_prompt": core.DefaultPersona,
	})
}

func (h *Handler) writeDomainError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "message is empty")
	case errors.Is(err, core.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "Chat not found")
	default:
		log.FromCtx(r.Context()).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
