package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/ports"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/store"
)

const (
	maxUploadBytes = 32 << 20
	documentsField = "documents"

	actionApprove store.ActionKind = "approve"
	actionReject  store.ActionKind = "reject"
)

// Registrar is the registration module as the handler needs it.
type Registrar interface {
	Register(ctx context.Context, input domain.RegistrationInput, documents []ports.FormFile) (domain.Registration, error)
	Approve(ctx context.Context, id string) (domain.Registration, error)
	Reject(ctx context.Context, id, reason string) (domain.Registration, error)
}

type RegistrationHandler struct {
	sessions   *Sessions
	dashboards Dashboards
	registrar  Registrar
}

func NewRegistrationHandler(sessions *Sessions, dashboards Dashboards, registrar Registrar) *RegistrationHandler {
	return &RegistrationHandler{
		sessions:   sessions,
		dashboards: dashboards,
		registrar:  registrar,
	}
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (h *RegistrationHandler) slice(r *http.Request) (domain.Session, *store.EntitySlice[domain.Registration], error) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		return domain.Session{}, nil, err
	}
	s, err := store.SliceOf[domain.Registration](h.dashboards.For(session.UserID), "registrations")
	if err != nil {
		return domain.Session{}, nil, err
	}
	return session, s, nil
}

// Register accepts a multipart sign-up with optional document uploads.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	input := domain.RegistrationInput{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Email:     r.FormValue("email"),
		Phone:     r.FormValue("phone"),
		Password:  r.FormValue("password"),
		Society:   r.FormValue("society"),
		Building:  r.FormValue("building"),
		Block:     r.FormValue("block"),
		Unit:      r.FormValue("unit"),
	}
	if input.Society == "" {
		input.Society = session.SocietyID
	}

	docs, closeAll, err := openDocuments(r.MultipartForm.File[documentsField])
	defer closeAll()
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "unreadable document upload")
		return
	}

	reg, err := s.Mutate(r.Context(), session, store.ActionCreate, "", func(ctx context.Context) (domain.Registration, error) {
		return h.registrar.Register(ctx, input, docs)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, EntityResponse{Data: reg, State: s.Snapshot()})
}

func (h *RegistrationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	reg, err := s.Mutate(r.Context(), session, actionApprove, id, func(ctx context.Context) (domain.Registration, error) {
		return h.registrar.Approve(ctx, id)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: reg, State: s.Snapshot()})
}

// Reject takes an optional {"reason": "..."} body.
func (h *RegistrationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	session, s, err := h.slice(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req RejectRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid request payload")
			return
		}
	}

	id := r.PathValue("id")
	reg, err := s.Mutate(r.Context(), session, actionReject, id, func(ctx context.Context) (domain.Registration, error) {
		return h.registrar.Reject(ctx, id, req.Reason)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: reg, State: s.Snapshot()})
}

// openDocuments opens every uploaded file. The returned func closes whatever
// was opened, also on error.
func openDocuments(headers []*multipart.FileHeader) ([]ports.FormFile, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	docs := make([]ports.FormFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, err
		}
		opened = append(opened, f)
		docs = append(docs, ports.FormFile{
			Field:    documentsField,
			Filename: fh.Filename,
			Content:  f,
		})
	}
	return docs, closeAll, nil
}
