package session

import "context"

type SessionRepository interface {
	Create(ctx context.Context, s Session, trainerIDs []string) (Session, error)
	// GetByID loads a session with its coordinator and trainers.
	GetByID(ctx context.Context, id string) (Session, error)
	List(ctx context.Context) ([]Session, error)
	Update(ctx context.Context, req UpdateSessionRequest) error
	// ReplaceTrainers deletes all trainer links for the session and
	// recreates them from trainerIDs. Callers run it inside a transaction.
	ReplaceTrainers(ctx context.Context, sessionID string, trainerIDs []string) error
	SetSettlementSheet(ctx context.Context, sessionID string, sheetID string) error
	Delete(ctx context.Context, id string) error
}

type SessionService interface {
	Create(ctx context.Context, req CreateSessionRequest) (SessionResponse, error)
	GetByID(ctx context.Context, id string) (SessionResponse, error)
	List(ctx context.Context) ([]SessionResponse, error)
	Update(ctx context.Context, req UpdateSessionRequest) (SessionResponse, error)
	Delete(ctx context.Context, id string) error
}
