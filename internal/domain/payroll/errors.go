package payroll

import "errors"

var (
	ErrSheetNotFound         = errors.New("payroll sheet not found")
	ErrInvalidSheetType      = errors.New("invalid payroll sheet type")
	ErrTrainerNotAssigned    = errors.New("trainer is not assigned to this session")
	ErrNoCoordinatorAssigned = errors.New("session has no coordinator assigned")
	ErrNothingToSettle       = errors.New("session has no payroll sheets to settle")
	ErrSettlementMissing     = errors.New("session has no settlement sheet")
	ErrSheetConflict         = errors.New("payroll sheet already exists for this slot")
	ErrSheetPayeeMismatch    = errors.New("payroll sheet payee does not match request")
	ErrExportTargetRequired  = errors.New("trainer id is required to export a trainer sheet")
)
