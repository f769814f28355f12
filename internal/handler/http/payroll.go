package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	"github.com/formacentre/payroll-backend-go/internal/handler/http/middleware"
	"github.com/formacentre/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	ListSessionSummaries(w http.ResponseWriter, r *http.Request)
	GetSessionPayload(w http.ResponseWriter, r *http.Request)
	UpsertTrainerSheet(w http.ResponseWriter, r *http.Request)
	UpsertCoordinationSheet(w http.ResponseWriter, r *http.Request)
	SettleSession(w http.ResponseWriter, r *http.Request)
	ExportSheet(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// ListSessionSummaries implements PayrollHandler.
func (h *PayrollHandlerImpl) ListSessionSummaries(w http.ResponseWriter, r *http.Request) {
	rows, err := h.payrollService.ListSessionSummaries(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, rows)
}

// GetSessionPayload implements PayrollHandler.
func (h *PayrollHandlerImpl) GetSessionPayload(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	payload, err := h.payrollService.GetSessionPayload(r.Context(), sessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, payload)
}

// UpsertTrainerSheet implements PayrollHandler.
func (h *PayrollHandlerImpl) UpsertTrainerSheet(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpsertTrainerSheetRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Trainer sheet decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.SessionID = chi.URLParam(r, "sessionID")

	view, err := h.payrollService.UpsertTrainerSheet(r.Context(), middleware.UserID(r), &req)
	if err != nil {
		slog.Error("Trainer sheet service error", "session_id", req.SessionID, "error", err)
		response.HandleError(w, err)
		return
	}
	slog.Info("Trainer sheet upserted", "session_id", req.SessionID, "trainer_id", req.TrainerID, "memo", view.MemoNumber)

	payload, err := h.payrollService.GetSessionPayload(r.Context(), req.SessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Trainer sheet saved", payload)
}

// UpsertCoordinationSheet implements PayrollHandler.
func (h *PayrollHandlerImpl) UpsertCoordinationSheet(w http.ResponseWriter, r *http.Request) {
	req := payroll.UpsertCoordinationSheetRequest{
		SessionID: chi.URLParam(r, "sessionID"),
	}

	view, err := h.payrollService.UpsertCoordinationSheet(r.Context(), middleware.UserID(r), &req)
	if err != nil {
		slog.Error("Coordination sheet service error", "session_id", req.SessionID, "error", err)
		response.HandleError(w, err)
		return
	}
	slog.Info("Coordination sheet upserted", "session_id", req.SessionID, "memo", view.MemoNumber)

	payload, err := h.payrollService.GetSessionPayload(r.Context(), req.SessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Coordination sheet saved", payload)
}

// SettleSession implements PayrollHandler.
func (h *PayrollHandlerImpl) SettleSession(w http.ResponseWriter, r *http.Request) {
	req := payroll.SettleSessionRequest{
		SessionID: chi.URLParam(r, "sessionID"),
	}

	payload, err := h.payrollService.SettleSession(r.Context(), middleware.UserID(r), &req)
	if err != nil {
		slog.Error("Settle service error", "session_id", req.SessionID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Session settled", "session_id", req.SessionID)
	response.SuccessWithMessage(w, "Session settled", payload)
}

// ExportSheet implements PayrollHandler. Streams the PDF of one sheet,
// selected with ?type= and, for FORMATION, ?trainer_id=.
func (h *PayrollHandlerImpl) ExportSheet(w http.ResponseWriter, r *http.Request) {
	req := payroll.ExportSheetRequest{
		SessionID: chi.URLParam(r, "sessionID"),
		Type:      strings.ToUpper(r.URL.Query().Get("type")),
	}
	if trainerID := r.URL.Query().Get("trainer_id"); trainerID != "" {
		req.TrainerID = &trainerID
	}

	doc, err := h.payrollService.ExportSheet(r.Context(), &req)
	if err != nil {
		slog.Error("Export service error", "session_id", req.SessionID, "type", req.Type, "error", err)
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	if _, err := w.Write(doc.Content); err != nil {
		slog.Error("Export stream error", "session_id", req.SessionID, "error", err)
	}
}
