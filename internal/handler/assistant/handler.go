// Package assistant exposes the conversational core over HTTP. The
// handlers stay thin: validation and status mapping here, all semantics in
// the dispatcher and session manager.
package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avendano/fixhub/backend/internal/locale"
	"github.com/avendano/fixhub/backend/internal/model/chat"
	"github.com/avendano/fixhub/backend/internal/service/analytics"
	"github.com/avendano/fixhub/backend/internal/service/dispatch"
	"github.com/avendano/fixhub/backend/internal/service/session"
	"github.com/avendano/fixhub/backend/pkg/utils"
)

// Handler wires assistant routes to the core services.
type Handler struct {
	sessions        *session.Manager
	dispatcher      *dispatch.Dispatcher
	analytics       *analytics.Aggregator
	defaultLanguage string
}

// New creates the assistant handler. defaultLanguage is applied to sessions
// created without an explicit language.
func New(sessions *session.Manager, dispatcher *dispatch.Dispatcher, agg *analytics.Aggregator, defaultLanguage string) *Handler {
	if defaultLanguage == "" {
		defaultLanguage = locale.DefaultLanguage
	}
	return &Handler{
		sessions:        sessions,
		dispatcher:      dispatcher,
		analytics:       agg,
		defaultLanguage: defaultLanguage,
	}
}

// RegisterRoutes mounts the assistant API under the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assistant", func(r chi.Router) {
		r.Post("/session", h.handleCreateSession)
		r.Get("/analytics", h.handleAnalytics)

		r.Route("/session/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGetSession)
			r.Delete("/", h.handleClearSession)
			r.Get("/messages", h.handleTranscript)
			r.Post("/message", h.handleDispatchText)
			r.Post("/voice", h.handleDispatchVoice)
			r.Post("/attachment", h.handleDispatchAttachment)
			r.Get("/suggestions", h.handleSuggestions)
			r.Get("/export", h.handleExport)
			r.Get("/status", h.handleStatus)
			r.Post("/restore", h.handleRestore)
		})
	})
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language string `json:"language"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if payload.Language == "" {
		payload.Language = h.defaultLanguage
	}

	created := h.sessions.Create(payload.Language)
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	snapshot, err := h.sessions.Get(sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.dispatcher.Clear(sessionID); err != nil {
		respondSessionError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	transcript, err := h.sessions.Transcript(sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcript)
}

func (h *Handler) handleDispatchText(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.Text == "" {
		utils.RespondError(w, http.StatusBadRequest, "text is required")
		return
	}

	accepted, err := h.dispatcher.Dispatch(sessionID, payload.Text)
	h.respondDispatch(w, accepted, err)
}

func (h *Handler) handleDispatchVoice(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var voice chat.VoiceMessage
	if err := json.NewDecoder(r.Body).Decode(&voice); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if voice.Transcript == "" {
		utils.RespondError(w, http.StatusBadRequest, "transcript is required")
		return
	}

	accepted, err := h.dispatcher.DispatchVoice(sessionID, voice)
	h.respondDispatch(w, accepted, err)
}

func (h *Handler) handleDispatchAttachment(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var attachment chat.Attachment
	if err := json.NewDecoder(r.Body).Decode(&attachment); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if attachment.Name == "" {
		utils.RespondError(w, http.StatusBadRequest, "attachment name is required")
		return
	}

	accepted, err := h.dispatcher.DispatchAttachment(sessionID, attachment)
	h.respondDispatch(w, accepted, err)
}

// respondDispatch maps the dispatcher's accepted/no-op contract onto HTTP:
// 202 when the turn was queued, 409 when one is already pending.
func (h *Handler) respondDispatch(w http.ResponseWriter, accepted bool, err error) {
	if err != nil {
		respondSessionError(w, err)
		return
	}
	if !accepted {
		utils.RespondError(w, http.StatusConflict, "a response is already pending for this session")
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.sessions.Get(sessionID); err != nil {
		respondSessionError(w, err)
		return
	}

	if partial := r.URL.Query().Get("input"); partial != "" {
		utils.RespondJSON(w, http.StatusOK, h.dispatcher.SuggestForInput(partial))
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.dispatcher.Suggestions(sessionID))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	blob, err := h.sessions.Export(sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "session-"+sessionID+".json"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	status, err := h.sessions.StatusOf(sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"persistStatus": status,
		"typing":        h.dispatcher.Typing(sessionID),
	})
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	restored, err := h.sessions.Load(r.Context(), sessionID)
	if err != nil {
		respondSessionError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, restored)
}

func (h *Handler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.analytics.Snapshot())
}

func respondSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrSessionNotFound) {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	utils.RespondError(w, http.StatusInternalServerError, err.Error())
}
