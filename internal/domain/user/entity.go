package user

import "time"

type Role string

const (
	RoleManager     Role = "MANAGER"     // Runs the center, approves accounts, manages payroll
	RoleCoordinator Role = "COORDINATOR" // Coordinates a session, paid a fixed fee
	RoleTrainer     Role = "TRAINER"     // Teaches, paid by reported hours
)

type Status string

const (
	StatusPending  Status = "PENDING" // Self-registered, waiting for manager approval
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Status       Status

	// Payee identity fields, printed on payroll sheets
	Function    *string
	NationalID  *string
	BankAccount *string
	BankName    *string
	Phone       *string
	CVPath      *string
	Specialty   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsManager checks if the user runs the center
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsActive checks if the account has been approved and not deactivated
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// CanSelfRegister reports whether the role may be chosen at registration.
// Manager accounts are provisioned out-of-band, never self-registered.
func CanSelfRegister(role Role) bool {
	return role == RoleTrainer || role == RoleCoordinator
}

func ValidRole(role string) bool {
	switch Role(role) {
	case RoleManager, RoleCoordinator, RoleTrainer:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch Status(status) {
	case StatusPending, StatusActive, StatusInactive:
		return true
	}
	return false
}
