package user

import "context"

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	List(ctx context.Context, filter ListFilter) ([]User, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateCVPath(ctx context.Context, id string, cvPath string) error
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	List(ctx context.Context, filter ListFilter) ([]UserResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (UserResponse, error)
	Delete(ctx context.Context, id string) error
}
