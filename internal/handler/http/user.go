package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/handler/http/middleware"
	"github.com/formacentre/payroll-backend-go/internal/handler/http/response"
	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
	"github.com/formacentre/payroll-backend-go/internal/service/file"
)

const maxCVUploadSize = 10 << 20 // 10 MB

type UserHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	UpdateMyProfile(w http.ResponseWriter, r *http.Request)
	UploadMyCV(w http.ResponseWriter, r *http.Request)
	DownloadCV(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService user.UserService
	fileService file.FileService
}

func NewUserHandler(userService user.UserService, fileService file.FileService) UserHandler {
	return &UserHandlerImpl{
		userService: userService,
		fileService: fileService,
	}
}

// Register implements UserHandler. Open endpoint, accounts land in PENDING.
func (h *UserHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.userService.Register(r.Context(), req)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User registered", "user_id", created.ID, "role", created.Role)
	response.Created(w, "Account created, awaiting manager approval", created)
}

// Me implements UserHandler.
func (h *UserHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing authenticated user")
		return
	}

	resp, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateMyProfile implements UserHandler.
func (h *UserHandlerImpl) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing authenticated user")
		return
	}

	var req user.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = userID

	resp, err := h.userService.UpdateProfile(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Profile updated", resp)
}

// UploadMyCV implements UserHandler.
func (h *UserHandlerImpl) UploadMyCV(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Unauthorized(w, "Missing authenticated user")
		return
	}

	if err := r.ParseMultipartForm(maxCVUploadSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}
	f, header, err := r.FormFile("cv")
	if err != nil {
		response.BadRequest(w, "Missing cv file field", nil)
		return
	}
	defer f.Close()

	path, err := h.fileService.UploadCV(r.Context(), userID, f, header.Filename)
	if err != nil {
		slog.Error("CV upload error", "user_id", userID, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "CV uploaded", map[string]string{"cv_path": path})
}

// DownloadCV implements UserHandler. Managers can pull the CV of any payee.
func (h *UserHandlerImpl) DownloadCV(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !validator.IsValidUUID(userID) {
		response.BadRequest(w, "Invalid user id", nil)
		return
	}

	reader, filename, err := h.fileService.DownloadCV(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("CV download stream error", "user_id", userID, "error", err)
	}
}

// List implements UserHandler. Supports ?role= and ?status= filters.
func (h *UserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter user.ListFilter
	if roleStr := strings.ToUpper(r.URL.Query().Get("role")); roleStr != "" {
		if !user.ValidRole(roleStr) {
			response.BadRequest(w, "Unknown role filter", nil)
			return
		}
		role := user.Role(roleStr)
		filter.Role = &role
	}
	if statusStr := strings.ToUpper(r.URL.Query().Get("status")); statusStr != "" {
		if !user.ValidStatus(statusStr) {
			response.BadRequest(w, "Unknown status filter", nil)
			return
		}
		status := user.Status(statusStr)
		filter.Status = &status
	}

	users, err := h.userService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// GetByID implements UserHandler.
func (h *UserHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid user id", nil)
		return
	}

	resp, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateStatus implements UserHandler. Manager approval/deactivation.
func (h *UserHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid user id", nil)
		return
	}

	var req user.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = id

	resp, err := h.userService.UpdateStatus(r.Context(), req)
	if err != nil {
		slog.Error("UpdateStatus service error", "user_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User status updated", "user_id", id, "status", resp.Status)
	response.SuccessWithMessage(w, "Status updated", resp)
}

// Delete implements UserHandler.
func (h *UserHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Invalid user id", nil)
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User deleted", nil)
}
