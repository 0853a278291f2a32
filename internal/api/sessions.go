package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/oovl/internal/hermes"
	"github.com/MikeSquared-Agency/oovl/internal/metrics"
	"github.com/MikeSquared-Agency/oovl/internal/scoring"
	"github.com/MikeSquared-Agency/oovl/internal/session"
	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

type ctxKey int

const sessionKey ctxKey = iota

type SessionsHandler struct {
	manager *session.Manager
	scorer  *scoring.Scorer
	hermes  hermes.Client
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSessionsHandler(m *session.Manager, sc *scoring.Scorer, h hermes.Client, mt *metrics.Metrics, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{manager: m, scorer: sc, hermes: h, metrics: mt, logger: logger}
}

type CreateSessionRequest struct {
	Name   string `json:"name,omitempty"`
	Region string `json:"region"`
	Age    *int   `json:"age"`
}

type SessionResponse struct {
	SessionID uuid.UUID      `json:"session_id"`
	CreatedAt time.Time      `json:"created_at"`
	Worksheet worksheet.View `json:"worksheet"`
}

// Create handles POST /api/v1/sessions. It is the profile gate: no other
// action is reachable until it has produced a session.
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Age == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "age required"})
		return
	}

	profile, err := worksheet.NewProfile(req.Name, req.Region, *req.Age)
	if err != nil {
		writeError(w, err)
		return
	}

	s, err := h.manager.Create(profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.snapshot(s))
}

// SessionCtx resolves {session_id} and stores the session on the request context.
func (h *SessionsHandler) SessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "session_id"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
			return
		}
		s, err := h.manager.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, s)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(sessionKey).(*session.Session)
}

// Get handles GET /api/v1/sessions/{session_id}
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.snapshot(sessionFrom(r)))
}

// End handles DELETE /api/v1/sessions/{session_id}
func (h *SessionsHandler) End(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	if err := h.manager.End(s.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended", "session_id": s.ID.String()})
}

func (h *SessionsHandler) snapshot(s *session.Session) SessionResponse {
	resp := SessionResponse{SessionID: s.ID, CreatedAt: s.CreatedAt}
	_ = s.Do(func(ws *worksheet.Worksheet) error {
		resp.Worksheet = ws.View()
		return nil
	})
	return resp
}

type nameRequest struct {
	Name string `json:"name"`
}

type registryOps struct {
	action string
	add    func(ws *worksheet.Worksheet, name string) bool
	remove func(ws *worksheet.Worksheet, index int) (string, error)
	list   func(ws *worksheet.Worksheet) []string
}

var (
	optionOps = registryOps{
		action: "option",
		add:    (*worksheet.Worksheet).AddOption,
		remove: (*worksheet.Worksheet).RemoveOption,
		list:   (*worksheet.Worksheet).Options,
	}
	outcomeOps = registryOps{
		action: "outcome",
		add:    (*worksheet.Worksheet).AddOutcome,
		remove: (*worksheet.Worksheet).RemoveOutcome,
		list:   (*worksheet.Worksheet).Outcomes,
	}
)

// AddOption handles POST /api/v1/sessions/{session_id}/options
func (h *SessionsHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	h.addEntry(w, r, optionOps, "options")
}

// RemoveOption handles DELETE /api/v1/sessions/{session_id}/options/{index}
func (h *SessionsHandler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	h.removeEntry(w, r, optionOps, "options")
}

// AddOutcome handles POST /api/v1/sessions/{session_id}/outcomes
func (h *SessionsHandler) AddOutcome(w http.ResponseWriter, r *http.Request) {
	h.addEntry(w, r, outcomeOps, "outcomes")
}

// RemoveOutcome handles DELETE /api/v1/sessions/{session_id}/outcomes/{index}
func (h *SessionsHandler) RemoveOutcome(w http.ResponseWriter, r *http.Request) {
	h.removeEntry(w, r, outcomeOps, "outcomes")
}

func (h *SessionsHandler) addEntry(w http.ResponseWriter, r *http.Request, ops registryOps, key string) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var added bool
	var items []string
	_ = sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		added = ops.add(ws, req.Name)
		items = ops.list(ws)
		return nil
	})
	h.metrics.Applied("add_"+ops.action, added)

	writeJSON(w, http.StatusOK, map[string]interface{}{"added": added, key: items})
}

func (h *SessionsHandler) removeEntry(w http.ResponseWriter, r *http.Request, ops registryOps, key string) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var removed string
	var items []string
	err := sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		var err error
		removed, err = ops.remove(ws, index)
		items = ops.list(ws)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.Applied("remove_"+ops.action, true)

	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed, key: items})
}

// Ratings handles GET /api/v1/sessions/{session_id}/ratings
func (h *SessionsHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	var grid []worksheet.RatingEntry
	_ = sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		grid = ws.Grid()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{"ratings": grid})
}

type SetRatingRequest struct {
	Option  string `json:"option"`
	Outcome string `json:"outcome"`
	Field   string `json:"field"`
	Value   *int   `json:"value"`
}

// SetRating handles PUT /api/v1/sessions/{session_id}/ratings. Values
// outside 0-100 are clamped.
func (h *SessionsHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	var req SetRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Value == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "value required"})
		return
	}
	field, err := worksheet.ParseField(req.Field)
	if err != nil {
		writeError(w, err)
		return
	}

	var rating worksheet.Rating
	err = sessionFrom(r).Do(func(ws *worksheet.Worksheet) error {
		var err error
		rating, err = ws.SetRating(req.Option, req.Outcome, field, *req.Value)
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	h.metrics.Applied("set_rating", true)

	writeJSON(w, http.StatusOK, worksheet.RatingEntry{
		Option:     req.Option,
		Outcome:    req.Outcome,
		Value:      rating.Value,
		Likelihood: rating.Likelihood,
	})
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid index"})
		return 0, false
	}
	return index, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, worksheet.ErrIndexOutOfRange),
		errors.Is(err, worksheet.ErrInvalidField),
		errors.Is(err, worksheet.ErrInvalidProfile):
		status = http.StatusBadRequest
	case errors.Is(err, worksheet.ErrRatingNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrSessionLimit):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
