package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/domain"
	"github.com/AchilleasB/society-admin/dashboard-gateway/internal/core/store"
)

const (
	actionPay          store.ActionKind = "pay"
	actionChangeStatus store.ActionKind = "status"
)

type BillPayer interface {
	MarkPaid(ctx context.Context, id string) (domain.Bill, error)
}

type ComplaintTracker interface {
	UpdateStatus(ctx context.Context, id, status, resolution string) (domain.Complaint, error)
}

// OperationsHandler serves the bill and complaint transitions that do not
// fit plain CRUD.
type OperationsHandler struct {
	sessions   *Sessions
	dashboards Dashboards
	bills      BillPayer
	complaints ComplaintTracker
}

func NewOperationsHandler(sessions *Sessions, dashboards Dashboards, bills BillPayer, complaints ComplaintTracker) *OperationsHandler {
	return &OperationsHandler{
		sessions:   sessions,
		dashboards: dashboards,
		bills:      bills,
		complaints: complaints,
	}
}

type ComplaintStatusRequest struct {
	Status     string `json:"status"`
	Resolution string `json:"resolution,omitempty"`
}

func (h *OperationsHandler) PayBill(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s, err := store.SliceOf[domain.Bill](h.dashboards.For(session.UserID), "bills")
	if err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	bill, err := s.Mutate(r.Context(), session, actionPay, id, func(ctx context.Context) (domain.Bill, error) {
		return h.bills.MarkPaid(ctx, id)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: bill, State: s.Snapshot()})
}

func (h *OperationsHandler) ComplaintStatus(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Resolve(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s, err := store.SliceOf[domain.Complaint](h.dashboards.For(session.UserID), "complaints")
	if err != nil {
		writeError(w, err)
		return
	}

	var req ComplaintStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, ErrCodeInvalidPayload, "invalid request payload")
		return
	}

	id := r.PathValue("id")
	complaint, err := s.Mutate(r.Context(), session, actionChangeStatus, id, func(ctx context.Context) (domain.Complaint, error) {
		return h.complaints.UpdateStatus(ctx, id, req.Status, req.Resolution)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EntityResponse{Data: complaint, State: s.Snapshot()})
}
