package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
)

// SocietyLookup confirms a society exists before it is selected.
type SocietyLookup interface {
	GetByID(ctx context.Context, id string) (domain.Society, error)
}

// DashboardRegistry clears or forgets a user's cached dashboard state.
type DashboardRegistry interface {
	Reset(userID string)
	Drop(userID string)
}

// Sessions resolves the full session for an authenticated request.
type Sessions struct {
	store ports.SessionStore
}

func NewSessions(store ports.SessionStore) *Sessions {
	return &Sessions{store: store}
}

// Resolve combines the caller from the auth middleware with the society the
// caller selected earlier.
func (s *Sessions) Resolve(r *http.Request) (domain.Session, error) {
	session, ok := domain.SessionFrom(r.Context())
	if !ok || session.UserID == "" {
		return domain.Session{}, domain.ErrUnauthenticated
	}
	societyID, err := s.store.SelectedSociety(r.Context(), session.UserID)
	if err != nil {
		return domain.Session{}, err
	}
	session.SocietyID = societyID
	return session, nil
}

type SessionHandler struct {
	sessions   *Sessions
	store      ports.SessionStore
	societies  SocietyLookup
	dashboards DashboardRegistry
}

func NewSessionHandler(store ports.SessionStore, societies SocietyLookup, dashboards DashboardRegistry) *SessionHandler {
	return &SessionHandler{
		sessions:   NewSessions(store),
		store:      store,
		societies:  societies,
		dashboards: dashboards,
	}
}

type SelectSocietyRequest struct {
	SocietyID string `json:"societyId"`
}

type SessionResponse struct {
	domain.Session
	Society *domain.Society `json:"society,omitempty"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{Session: session})
}

// Select switches the caller to another society. Dashboard state built for
// the previous society is discarded.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req SelectSocietyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid request payload")
		return
	}
	if req.SocietyID == "" {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeValidation, "societyId is required")
		return
	}

	society, err := h.societies.GetByID(r.Context(), req.SocietyID)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.store.SelectSociety(r.Context(), session.UserID, req.SocietyID); err != nil {
		writeError(w, err)
		return
	}
	if session.SocietyID != req.SocietyID {
		h.dashboards.Reset(session.UserID)
	}

	session.SocietyID = req.SocietyID
	writeJSON(w, http.StatusOK, SessionResponse{Session: session, Society: &society})
}

func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.SessionFrom(r.Context())
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.store.ClearSociety(r.Context(), session.UserID); err != nil {
		writeError(w, err)
		return
	}
	h.dashboards.Drop(session.UserID)
	w.WriteHeader(http.StatusNoContent)
}
