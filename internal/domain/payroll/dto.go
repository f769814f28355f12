package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
)

// UpsertTrainerSheetRequest creates or refreshes the trainer sheet for one
// trainer on one session. Hours may be omitted, absent hours count as zero.
type UpsertTrainerSheetRequest struct {
	SessionID          string   `json:"-"`
	TrainerID          string   `json:"trainer_id"`
	TotalTutoringHours *float64 `json:"total_tutoring_hours,omitempty"`
	TotalGroupHours    *float64 `json:"total_group_hours,omitempty"`
}

func (r *UpsertTrainerSheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "is not a valid id"})
	}
	if validator.IsEmpty(r.TrainerID) {
		errs = append(errs, validator.ValidationError{Field: "trainer_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.TrainerID) {
		errs = append(errs, validator.ValidationError{Field: "trainer_id", Message: "is not a valid id"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertCoordinationSheetRequest creates or refreshes the coordination sheet
// for a session. The payee is the session's assigned coordinator.
type UpsertCoordinationSheetRequest struct {
	SessionID string `json:"-"`
}

func (r *UpsertCoordinationSheetRequest) Validate() error {
	if !validator.IsValidUUID(r.SessionID) {
		return validator.ValidationErrors{
			{Field: "session_id", Message: "is not a valid id"},
		}
	}
	return nil
}

// SettleSessionRequest builds or rebuilds the settlement sheet of a session
// from its live trainer and coordination sheets.
type SettleSessionRequest struct {
	SessionID string `json:"-"`
}

func (r *SettleSessionRequest) Validate() error {
	if !validator.IsValidUUID(r.SessionID) {
		return validator.ValidationErrors{
			{Field: "session_id", Message: "is not a valid id"},
		}
	}
	return nil
}

// ExportSheetRequest asks for the PDF rendering of one sheet of a session.
type ExportSheetRequest struct {
	SessionID string  `json:"-"`
	Type      string  `json:"-"`
	TrainerID *string `json:"-"`
}

func (r *ExportSheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "is not a valid id"})
	}
	if !ValidSheetType(r.Type) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be FORMATION, COORDINATION or REGLEMENT"})
	}
	if r.TrainerID != nil && !validator.IsValidUUID(*r.TrainerID) {
		errs = append(errs, validator.ValidationError{Field: "trainer_id", Message: "is not a valid id"})
	}
	if SheetType(r.Type) == SheetTypeTrainer && r.TrainerID == nil {
		errs = append(errs, validator.ValidationError{Field: "trainer_id", Message: "is required for FORMATION exports"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SessionSummaryRow is one line of the cross-session payroll overview.
type SessionSummaryRow struct {
	SessionID          string          `json:"sessionId"`
	Title              string          `json:"title"`
	Period             string          `json:"period"`
	Status             SessionStatus   `json:"status"`
	TotalTrainers      int             `json:"totalTrainers"`
	TrainersWithSheets int             `json:"trainersWithSheets"`
	HasCoordination    bool            `json:"hasCoordination"`
	HasSettlement      bool            `json:"hasSettlement"`
	TotalNetAmount     decimal.Decimal `json:"totalNetAmount"`
}

// ExportedDocument is a rendered PDF ready to stream back to the client.
type ExportedDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}
