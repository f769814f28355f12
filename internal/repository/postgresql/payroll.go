package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
)

type sheetRepository struct {
	db *database.DB
}

func NewSheetRepository(db *database.DB) payroll.SheetRepository {
	return &sheetRepository{db: db}
}

const sheetColumns = `id, memo_number, session_id, sheet_type, trainer_id,
	coordinator_id, manager_id, manager_name, period,
	total_tutoring_hours, total_group_hours, gross_amount, net_amount,
	created_at, updated_at`

func scanSheet(row pgx.Row) (payroll.Sheet, error) {
	var s payroll.Sheet
	err := row.Scan(
		&s.ID, &s.MemoNumber, &s.SessionID, &s.Type, &s.TrainerID,
		&s.CoordinatorID, &s.ManagerID, &s.ManagerName, &s.Period,
		&s.TotalTutoringHours, &s.TotalGroupHours, &s.GrossAmount, &s.NetAmount,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *sheetRepository) Create(ctx context.Context, sheet *payroll.Sheet) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO payroll_sheets (memo_number, session_id, sheet_type,
			trainer_id, coordinator_id, manager_id, manager_name, period,
			total_tutoring_hours, total_group_hours, gross_amount, net_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s
	`, sheetColumns)

	created, err := scanSheet(q.QueryRow(ctx, query,
		sheet.MemoNumber, sheet.SessionID, sheet.Type,
		sheet.TrainerID, sheet.CoordinatorID, sheet.ManagerID, sheet.ManagerName, sheet.Period,
		sheet.TotalTutoringHours, sheet.TotalGroupHours, sheet.GrossAmount, sheet.NetAmount,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.ErrSheetConflict
		}
		return fmt.Errorf("failed to create payroll sheet: %w", err)
	}
	*sheet = created
	return nil
}

// Update refreshes the mutable figures of an existing sheet. The memo number
// is deliberately left untouched so a re-upserted sheet keeps its original
// document reference.
func (r *sheetRepository) Update(ctx context.Context, sheet *payroll.Sheet) error {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE payroll_sheets SET
			manager_id = $1, manager_name = $2, period = $3,
			total_tutoring_hours = $4, total_group_hours = $5,
			gross_amount = $6, net_amount = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING %s
	`, sheetColumns)

	updated, err := scanSheet(q.QueryRow(ctx, query,
		sheet.ManagerID, sheet.ManagerName, sheet.Period,
		sheet.TotalTutoringHours, sheet.TotalGroupHours,
		sheet.GrossAmount, sheet.NetAmount, sheet.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrSheetNotFound
		}
		return fmt.Errorf("failed to update payroll sheet: %w", err)
	}
	*sheet = updated
	return nil
}

func (r *sheetRepository) GetByID(ctx context.Context, id string) (*payroll.Sheet, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`SELECT %s FROM payroll_sheets WHERE id = $1`, sheetColumns)

	s, err := scanSheet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payroll.ErrSheetNotFound
		}
		return nil, fmt.Errorf("failed to get payroll sheet: %w", err)
	}
	return &s, nil
}

func (r *sheetRepository) GetBySlot(ctx context.Context, sessionID string, sheetType payroll.SheetType, trainerID *string) (*payroll.Sheet, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_sheets
		WHERE session_id = $1 AND sheet_type = $2
		  AND COALESCE(trainer_id, '00000000-0000-0000-0000-000000000000'::uuid) =
		      COALESCE($3, '00000000-0000-0000-0000-000000000000'::uuid)
	`, sheetColumns)

	s, err := scanSheet(q.QueryRow(ctx, query, sessionID, sheetType, trainerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payroll.ErrSheetNotFound
		}
		return nil, fmt.Errorf("failed to get payroll sheet slot: %w", err)
	}
	return &s, nil
}

func (r *sheetRepository) ListBySession(ctx context.Context, sessionID string) ([]payroll.Sheet, error) {
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_sheets
		WHERE session_id = $1
		ORDER BY created_at
	`, sheetColumns)

	rows, err := q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll sheets: %w", err)
	}
	defer rows.Close()

	return collectSheets(rows)
}

func (r *sheetRepository) ListBySessions(ctx context.Context, sessionIDs []string) (map[string][]payroll.Sheet, error) {
	if len(sessionIDs) == 0 {
		return map[string][]payroll.Sheet{}, nil
	}

	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_sheets
		WHERE session_id = ANY($1)
		ORDER BY created_at
	`, sheetColumns)

	rows, err := q.Query(ctx, query, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll sheets: %w", err)
	}
	defer rows.Close()

	sheets, err := collectSheets(rows)
	if err != nil {
		return nil, err
	}

	bySession := make(map[string][]payroll.Sheet, len(sessionIDs))
	for _, s := range sheets {
		bySession[s.SessionID] = append(bySession[s.SessionID], s)
	}
	return bySession, nil
}

func collectSheets(rows pgx.Rows) ([]payroll.Sheet, error) {
	var sheets []payroll.Sheet
	for rows.Next() {
		s, err := scanSheet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll sheet: %w", err)
		}
		sheets = append(sheets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll sheets: %w", err)
	}
	return sheets, nil
}
