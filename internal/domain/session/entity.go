package session

import (
	"time"

	"github.com/formacentre/payroll-backend-go/internal/domain/user"
)

// Session is one training course offering: a date range, an optional
// coordinator and a set of assigned trainers.
type Session struct {
	ID                string
	Title             string
	StartDate         time.Time
	EndDate           time.Time
	Class             *string
	Specialty         *string
	Promotion         *string
	Level             *string
	Semester          *string
	CoordinatorID     *string
	SettlementSheetID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Eagerly loaded relations
	Coordinator *user.User
	Trainers    []user.User
}

// HasTrainer reports whether the given user is currently assigned as a
// trainer on this session.
func (s *Session) HasTrainer(trainerID string) bool {
	for _, t := range s.Trainers {
		if t.ID == trainerID {
			return true
		}
	}
	return false
}

// IsSettled reports whether a settlement sheet has been linked.
func (s *Session) IsSettled() bool {
	return s.SettlementSheetID != nil
}
