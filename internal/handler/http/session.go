package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/handler/http/response"
	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
)

type SessionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type SessionHandlerImpl struct {
	sessionService session.SessionService
}

func NewSessionHandler(sessionService session.SessionService) SessionHandler {
	return &SessionHandlerImpl{sessionService: sessionService}
}

// Create implements SessionHandler.
func (h *SessionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req session.CreateSessionRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Session create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.sessionService.Create(r.Context(), req)
	if err != nil {
		slog.Error("Session create service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Session created", "session_id", created.ID)
	response.Created(w, "Session created", created)
}

// List implements SessionHandler.
func (h *SessionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, sessions)
}

// GetByID implements SessionHandler.
func (h *SessionHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid session id", nil)
		return
	}

	resp, err := h.sessionService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Update implements SessionHandler.
func (h *SessionHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid session id", nil)
		return
	}

	var req session.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	resp, err := h.sessionService.Update(r.Context(), req)
	if err != nil {
		slog.Error("Session update service error", "session_id", id, "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Session updated", resp)
}

// Delete implements SessionHandler.
func (h *SessionHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid session id", nil)
		return
	}

	if err := h.sessionService.Delete(r.Context(), id); err != nil {
		slog.Error("Session delete service error", "session_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Session deleted", "session_id", id)
	response.SuccessWithMessage(w, "Session deleted", nil)
}
