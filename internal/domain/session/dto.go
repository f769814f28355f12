package session

import (
	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
)

type CreateSessionRequest struct {
	Title         string   `json:"title"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Class         *string  `json:"class,omitempty"`
	Specialty     *string  `json:"specialty,omitempty"`
	Promotion     *string  `json:"promotion,omitempty"`
	Level         *string  `json:"level,omitempty"`
	Semester      *string  `json:"semester,omitempty"`
	CoordinatorID *string  `json:"coordinator_id,omitempty"`
	TrainerIDs    []string `json:"trainer_ids,omitempty"`
}

func (r *CreateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "is required"})
	}
	if len(r.Title) > 255 {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "must not exceed 255 characters"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if r.CoordinatorID != nil && !validator.IsValidUUID(*r.CoordinatorID) {
		errs = append(errs, validator.ValidationError{Field: "coordinator_id", Message: "is not a valid id"})
	}
	for _, id := range r.TrainerIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "trainer_ids", Message: "contains an invalid id"})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSessionRequest struct {
	ID            string    `json:"-"`
	Title         *string   `json:"title,omitempty"`
	StartDate     *string   `json:"start_date,omitempty"`
	EndDate       *string   `json:"end_date,omitempty"`
	Class         *string   `json:"class,omitempty"`
	Specialty     *string   `json:"specialty,omitempty"`
	Promotion     *string   `json:"promotion,omitempty"`
	Level         *string   `json:"level,omitempty"`
	Semester      *string   `json:"semester,omitempty"`
	CoordinatorID *string   `json:"coordinator_id,omitempty"`
	TrainerIDs    *[]string `json:"trainer_ids,omitempty"`
}

func (r *UpdateSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "cannot be empty"})
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TrainerSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type CoordinatorSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

type SessionResponse struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	StartDate         string              `json:"start_date"`
	EndDate           string              `json:"end_date"`
	DurationDays      int                 `json:"duration_days"`
	Class             *string             `json:"class,omitempty"`
	Specialty         *string             `json:"specialty,omitempty"`
	Promotion         *string             `json:"promotion,omitempty"`
	Level             *string             `json:"level,omitempty"`
	Semester          *string             `json:"semester,omitempty"`
	Trainers          []TrainerSummary    `json:"trainers"`
	Coordinator       *CoordinatorSummary `json:"coordinator,omitempty"`
	SettlementSheetID *string             `json:"settlement_sheet_id,omitempty"`
	CreatedAt         string              `json:"created_at"`
	UpdatedAt         string              `json:"updated_at"`
}

func ToResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:                s.ID,
		Title:             s.Title,
		StartDate:         s.StartDate.Format("2006-01-02"),
		EndDate:           s.EndDate.Format("2006-01-02"),
		DurationDays:      int(s.EndDate.Sub(s.StartDate).Hours()/24) + 1,
		Class:             s.Class,
		Specialty:         s.Specialty,
		Promotion:         s.Promotion,
		Level:             s.Level,
		Semester:          s.Semester,
		Trainers:          make([]TrainerSummary, 0, len(s.Trainers)),
		SettlementSheetID: s.SettlementSheetID,
		CreatedAt:         s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:         s.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, t := range s.Trainers {
		resp.Trainers = append(resp.Trainers, TrainerSummary{
			ID:    t.ID,
			Name:  t.Name,
			Email: t.Email,
			Phone: t.Phone,
		})
	}
	if s.Coordinator != nil {
		resp.Coordinator = &CoordinatorSummary{
			ID:    s.Coordinator.ID,
			Name:  s.Coordinator.Name,
			Email: s.Coordinator.Email,
			Phone: s.Coordinator.Phone,
		}
	}
	return resp
}
