package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/store"
)

const maxBodyBytes = 1 << 20

// Dashboards hands out the per-user store.
type Dashboards interface {
	For(userID string) *store.Dashboard
}

// EntityResponse carries the call's result and the container state it left.
type EntityResponse struct {
	Data  any `json:"data,omitempty"`
	State any `json:"state"`
}

type EntityHandler struct {
	sessions   *Sessions
	dashboards Dashboards
}

func NewEntityHandler(sessions *Sessions, dashboards Dashboards) *EntityHandler {
	return &EntityHandler{sessions: sessions, dashboards: dashboards}
}

// slice resolves the caller's session and the slice named in the path.
func (h *EntityHandler) slice(r *http.Request) (domain.Session, store.Slice, error) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		return domain.Session{}, nil, err
	}
	s, err := h.dashboards.For(session.UserID).Slice(r.PathValue("entity"))
	if err != nil {
		return domain.Session{}, nil, err
	}
	return session, s, nil
}

func (h *EntityHandler) Entities(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entities": h.dashboards.For(session.UserID).Entities(),
	})
}

func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q, err := parseQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := s.List(r.Context(), session, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: page, State: s.State()})
}

func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := s.Get(r.Context(), session, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: item, State: s.State()})
}

func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid request payload")
		return
	}

	item, err := s.Create(r.Context(), session, json.RawMessage(body))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, EntityResponse{Data: item, State: s.State()})
}

func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&fields); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid request payload")
		return
	}

	item, err := s.Update(r.Context(), session, r.PathValue("id"), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: item, State: s.State()})
}

// Delete is soft unless ?hard=true is given.
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	hard, err := boolParam(r.URL.Query().Get("hard"))
	if err != nil {
		writeError(w, &domain.ValidationError{Err: fmt.Errorf("hard: %w", err)})
		return
	}
	if err := s.Delete(r.Context(), session, r.PathValue("id"), hard); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{State: s.State()})
}

func (h *EntityHandler) State(w http.ResponseWriter, r *http.Request) {
	_, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{State: s.State()})
}

// parseQuery reads page, limit, q, status and buildingId; any other
// parameter is passed through to the upstream list call.
func parseQuery(r *http.Request) (store.Query, error) {
	values := r.URL.Query()
	q := store.Query{
		Q:          strings.TrimSpace(values.Get("q")),
		Status:     values.Get("status"),
		BuildingID: values.Get("buildingId"),
		Extra:      make(map[string]string),
	}

	var err error
	if q.Page, err = intParam(values.Get("page")); err != nil {
		return store.Query{}, &domain.ValidationError{Err: err}
	}
	if q.Limit, err = intParam(values.Get("limit")); err != nil {
		return store.Query{}, &domain.ValidationError{Err: err}
	}

	for key := range values {
		switch key {
		case "page", "limit", "q", "status", "buildingId":
			continue
		}
		q.Extra[key] = values.Get(key)
	}
	return q, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
