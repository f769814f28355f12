package user

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/email"
)

type UserServiceImpl struct {
	user.UserRepository
	email.EmailService
	frontendURL string
}

func NewUserService(userRepository user.UserRepository, emailService email.EmailService, frontendURL string) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		EmailService:   emailService,
		frontendURL:    frontendURL,
	}
}

// Register implements user.UserService. Self-registered accounts always land
// in PENDING, a manager has to approve them before they can log in.
func (s *UserServiceImpl) Register(ctx context.Context, req user.RegisterRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.Role(req.Role)
	if !user.CanSelfRegister(role) {
		return user.UserResponse{}, user.ErrManagerSelfRegister
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       user.StatusPending,
	})
	if err != nil {
		return user.UserResponse{}, err
	}

	return user.ToResponse(created), nil
}

// GetByID implements user.UserService.
func (s *UserServiceImpl) GetByID(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(u), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.ListFilter) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	if err := s.UserRepository.UpdateProfile(ctx, req); err != nil {
		return user.UserResponse{}, err
	}

	return s.GetByID(ctx, req.ID)
}

// UpdateStatus implements user.UserService. Activations and deactivations
// notify the payee by email; a failed notification does not roll back the
// status change.
func (s *UserServiceImpl) UpdateStatus(ctx context.Context, req user.UpdateStatusRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	newStatus := user.Status(req.Status)
	if err := s.UserRepository.UpdateStatus(ctx, req.ID, newStatus); err != nil {
		return user.UserResponse{}, err
	}

	if current.Status != newStatus {
		s.notifyStatusChange(current, newStatus)
	}

	return s.GetByID(ctx, req.ID)
}

// Delete implements user.UserService.
func (s *UserServiceImpl) Delete(ctx context.Context, id string) error {
	return s.UserRepository.Delete(ctx, id)
}

func (s *UserServiceImpl) notifyStatusChange(u user.User, newStatus user.Status) {
	var err error
	switch newStatus {
	case user.StatusActive:
		err = s.EmailService.SendAccountActivated(u.Email, u.Name, s.frontendURL)
	case user.StatusInactive:
		err = s.EmailService.SendAccountDeactivated(u.Email, u.Name)
	default:
		return
	}
	if err != nil {
		slog.Error("Failed to send status notification", "user_id", u.ID, "status", newStatus, "error", err)
	}
}
