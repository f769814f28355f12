package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SheetType discriminates the three roles a payroll sheet can play for a
// session. The wire values keep the French terms used on the printed
// documents.
type SheetType string

const (
	SheetTypeTrainer      SheetType = "FORMATION"
	SheetTypeCoordination SheetType = "COORDINATION"
	SheetTypeSettlement   SheetType = "REGLEMENT"
)

func ValidSheetType(t string) bool {
	switch SheetType(t) {
	case SheetTypeTrainer, SheetTypeCoordination, SheetTypeSettlement:
		return true
	}
	return false
}

// Sheet is one payroll record ("fiche de paie") for one payee-role on one
// session. TRAINER sheets carry the trainer and their reported hours;
// COORDINATION sheets carry the coordinator and no hours; REGLEMENT sheets
// aggregate every other sheet of the session.
type Sheet struct {
	ID            string
	MemoNumber    string
	SessionID     string
	Type          SheetType
	TrainerID     *string
	CoordinatorID *string
	ManagerID     string
	ManagerName   string
	Period        string

	TotalTutoringHours *float64
	TotalGroupHours    *float64
	GrossAmount        decimal.Decimal
	NetAmount          decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}
