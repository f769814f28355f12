package payroll

import "context"

// SheetRepository is the persistence contract for payroll sheets. A session
// holds at most one sheet per slot, a slot being the (session, type, trainer)
// triple with a nil trainer for coordination and settlement sheets.
type SheetRepository interface {
	Create(ctx context.Context, sheet *Sheet) error
	Update(ctx context.Context, sheet *Sheet) error
	GetByID(ctx context.Context, id string) (*Sheet, error)
	GetBySlot(ctx context.Context, sessionID string, sheetType SheetType, trainerID *string) (*Sheet, error)
	ListBySession(ctx context.Context, sessionID string) ([]Sheet, error)
	ListBySessions(ctx context.Context, sessionIDs []string) (map[string][]Sheet, error)
}

type PayrollService interface {
	UpsertTrainerSheet(ctx context.Context, managerID string, req *UpsertTrainerSheetRequest) (*SheetView, error)
	UpsertCoordinationSheet(ctx context.Context, managerID string, req *UpsertCoordinationSheetRequest) (*SheetView, error)
	SettleSession(ctx context.Context, managerID string, req *SettleSessionRequest) (*SessionPayload, error)
	GetSessionPayload(ctx context.Context, sessionID string) (*SessionPayload, error)
	ListSessionSummaries(ctx context.Context) ([]SessionSummaryRow, error)
	ExportSheet(ctx context.Context, req *ExportSheetRequest) (*ExportedDocument, error)
}
