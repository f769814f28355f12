package session

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
	"github.com/formacentre/payroll-backend-go/internal/repository/postgresql"
)

type SessionServiceImpl struct {
	db *database.DB
	session.SessionRepository
	user.UserRepository
}

func NewSessionService(db *database.DB, sessionRepository session.SessionRepository, userRepository user.UserRepository) session.SessionService {
	return &SessionServiceImpl{
		db:                db,
		SessionRepository: sessionRepository,
		UserRepository:    userRepository,
	}
}

// Create implements session.SessionService.
func (s *SessionServiceImpl) Create(ctx context.Context, req session.CreateSessionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	if err := s.checkAssignedRoles(ctx, req.CoordinatorID, req.TrainerIDs); err != nil {
		return session.SessionResponse{}, err
	}

	entity := session.Session{
		Title:         req.Title,
		StartDate:     startDate,
		EndDate:       endDate,
		Class:         req.Class,
		Specialty:     req.Specialty,
		Promotion:     req.Promotion,
		Level:         req.Level,
		Semester:      req.Semester,
		CoordinatorID: req.CoordinatorID,
	}

	var created session.Session
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		var err error
		created, err = s.SessionRepository.Create(txCtx, entity, req.TrainerIDs)
		return err
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	return session.ToResponse(created), nil
}

// GetByID implements session.SessionService.
func (s *SessionServiceImpl) GetByID(ctx context.Context, id string) (session.SessionResponse, error) {
	loaded, err := s.SessionRepository.GetByID(ctx, id)
	if err != nil {
		return session.SessionResponse{}, err
	}
	return session.ToResponse(loaded), nil
}

// List implements session.SessionService.
func (s *SessionServiceImpl) List(ctx context.Context) ([]session.SessionResponse, error) {
	sessions, err := s.SessionRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]session.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		responses = append(responses, session.ToResponse(sess))
	}
	return responses, nil
}

// Update implements session.SessionService. Trainer links are replaced
// atomically with the field updates when trainer_ids is present.
func (s *SessionServiceImpl) Update(ctx context.Context, req session.UpdateSessionRequest) (session.SessionResponse, error) {
	if err := req.Validate(); err != nil {
		return session.SessionResponse{}, err
	}

	current, err := s.SessionRepository.GetByID(ctx, req.ID)
	if err != nil {
		return session.SessionResponse{}, err
	}

	// Date coherence across partial updates
	start, end := current.StartDate, current.EndDate
	if req.StartDate != nil {
		start, _ = time.Parse("2006-01-02", *req.StartDate)
	}
	if req.EndDate != nil {
		end, _ = time.Parse("2006-01-02", *req.EndDate)
	}
	if end.Before(start) {
		return session.SessionResponse{}, validator.ValidationErrors{
			{Field: "end_date", Message: "must not be before start_date"},
		}
	}

	var trainerIDs []string
	if req.TrainerIDs != nil {
		trainerIDs = *req.TrainerIDs
	}

	var coordinatorID *string
	if req.CoordinatorID != nil && *req.CoordinatorID != "" {
		coordinatorID = req.CoordinatorID
	}
	if err := s.checkAssignedRoles(ctx, coordinatorID, trainerIDs); err != nil {
		return session.SessionResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := s.SessionRepository.Update(txCtx, req); err != nil {
			return err
		}
		if req.TrainerIDs != nil {
			return s.SessionRepository.ReplaceTrainers(txCtx, req.ID, trainerIDs)
		}
		return nil
	})
	if err != nil {
		return session.SessionResponse{}, err
	}

	return s.GetByID(ctx, req.ID)
}

// Delete implements session.SessionService. A settled session keeps its
// payment history and cannot be removed.
func (s *SessionServiceImpl) Delete(ctx context.Context, id string) error {
	current, err := s.SessionRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.IsSettled() {
		return session.ErrSessionHasSettlement
	}

	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		return s.SessionRepository.Delete(txCtx, id)
	})
}

// checkAssignedRoles verifies that an assigned coordinator really has the
// COORDINATOR role and every assigned trainer the TRAINER role.
func (s *SessionServiceImpl) checkAssignedRoles(ctx context.Context, coordinatorID *string, trainerIDs []string) error {
	if coordinatorID != nil {
		coordinator, err := s.UserRepository.GetByID(ctx, *coordinatorID)
		if err != nil {
			return err
		}
		if coordinator.Role != user.RoleCoordinator {
			return session.ErrCoordinatorRole
		}
	}
	for _, trainerID := range trainerIDs {
		trainer, err := s.UserRepository.GetByID(ctx, trainerID)
		if err != nil {
			return err
		}
		if trainer.Role != user.RoleTrainer {
			return session.ErrTrainerRole
		}
	}
	return nil
}
