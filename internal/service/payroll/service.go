package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
	"github.com/formacentre/payroll-backend-go/internal/pkg/pdf"
	"github.com/formacentre/payroll-backend-go/internal/repository/postgresql"
)

type PayrollServiceImpl struct {
	db *database.DB
	payroll.SheetRepository
	session.SessionRepository
	user.UserRepository
	params   payroll.ParameterSource
	renderer *pdf.Renderer
	// runTx wraps a unit of work in a transaction; it is a field so tests
	// backed by in-memory repositories can run the same paths without a pool.
	runTx func(ctx context.Context, fn func(tx pgx.Tx) error) error
}

func NewPayrollService(
	db *database.DB,
	sheetRepository payroll.SheetRepository,
	sessionRepository session.SessionRepository,
	userRepository user.UserRepository,
	params payroll.ParameterSource,
	renderer *pdf.Renderer,
) payroll.PayrollService {
	svc := &PayrollServiceImpl{
		db:                db,
		SheetRepository:   sheetRepository,
		SessionRepository: sessionRepository,
		UserRepository:    userRepository,
		params:            params,
		renderer:          renderer,
	}
	svc.runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return postgresql.WithTransaction(ctx, svc.db, fn)
	}
	return svc
}

// UpsertTrainerSheet implements payroll.PayrollService. The first call for a
// (session, trainer) pair creates the sheet and assigns its memo number,
// later calls recompute the figures but keep the memo.
func (s *PayrollServiceImpl) UpsertTrainerSheet(ctx context.Context, managerID string, req *payroll.UpsertTrainerSheetRequest) (*payroll.SheetView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.HasTrainer(req.TrainerID) {
		return nil, payroll.ErrTrainerNotAssigned
	}

	manager, err := s.UserRepository.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}

	params := s.params.Resolve()
	amounts := payroll.ComputeTrainerAmounts(req.TotalTutoringHours, req.TotalGroupHours, params)

	trainerID := req.TrainerID
	sheet := &payroll.Sheet{
		SessionID:          sess.ID,
		Type:               payroll.SheetTypeTrainer,
		TrainerID:          &trainerID,
		ManagerID:          manager.ID,
		ManagerName:        manager.Name,
		Period:             payroll.FormatPeriod(sess.StartDate, sess.EndDate),
		TotalTutoringHours: req.TotalTutoringHours,
		TotalGroupHours:    req.TotalGroupHours,
		GrossAmount:        amounts.GrossAmount,
		NetAmount:          amounts.NetAmount,
	}

	if err := s.upsertSheet(ctx, sheet); err != nil {
		return nil, err
	}
	return payroll.NewSheetView(sheet), nil
}

// UpsertCoordinationSheet implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpsertCoordinationSheet(ctx context.Context, managerID string, req *payroll.UpsertCoordinationSheetRequest) (*payroll.SheetView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.CoordinatorID == nil {
		return nil, payroll.ErrNoCoordinatorAssigned
	}

	manager, err := s.UserRepository.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}

	params := s.params.Resolve()
	amounts := payroll.ComputeCoordinatorAmounts(params)

	sheet := &payroll.Sheet{
		SessionID:     sess.ID,
		Type:          payroll.SheetTypeCoordination,
		CoordinatorID: sess.CoordinatorID,
		ManagerID:     manager.ID,
		ManagerName:   manager.Name,
		Period:        payroll.FormatPeriod(sess.StartDate, sess.EndDate),
		GrossAmount:   amounts.GrossAmount,
		NetAmount:     amounts.NetAmount,
	}

	if err := s.upsertSheet(ctx, sheet); err != nil {
		return nil, err
	}
	return payroll.NewSheetView(sheet), nil
}

// SettleSession implements payroll.PayrollService. The settlement sheet sums
// the amounts of all live trainer and coordination sheets and the trainer
// hours; re-settling refreshes the totals while keeping the memo number.
func (s *PayrollServiceImpl) SettleSession(ctx context.Context, managerID string, req *payroll.SettleSessionRequest) (*payroll.SessionPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	manager, err := s.UserRepository.GetByID(ctx, managerID)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		txCtx := txContext(ctx, tx)

		sheets, err := s.SheetRepository.ListBySession(txCtx, sess.ID)
		if err != nil {
			return err
		}

		grossTotal := decimal.Zero
		netTotal := decimal.Zero
		tutoringTotal := decimal.Zero
		groupTotal := decimal.Zero
		payable := 0
		for _, sh := range sheets {
			if sh.Type == payroll.SheetTypeSettlement {
				continue
			}
			grossTotal = grossTotal.Add(sh.GrossAmount)
			netTotal = netTotal.Add(sh.NetAmount)
			if sh.Type == payroll.SheetTypeTrainer {
				// Coordination contributes money, not hours
				tutoringTotal = tutoringTotal.Add(payroll.ClampHours(sh.TotalTutoringHours))
				groupTotal = groupTotal.Add(payroll.ClampHours(sh.TotalGroupHours))
			}
			payable++
		}
		if payable == 0 {
			return payroll.ErrNothingToSettle
		}

		tutoringHours, _ := tutoringTotal.Float64()
		groupHours, _ := groupTotal.Float64()
		settlement := &payroll.Sheet{
			SessionID:          sess.ID,
			Type:               payroll.SheetTypeSettlement,
			ManagerID:          manager.ID,
			ManagerName:        manager.Name,
			Period:             payroll.FormatPeriod(sess.StartDate, sess.EndDate),
			TotalTutoringHours: &tutoringHours,
			TotalGroupHours:    &groupHours,
			GrossAmount:        grossTotal,
			NetAmount:          netTotal,
		}
		if err := s.upsertSheetTx(txCtx, settlement); err != nil {
			return err
		}

		return s.SessionRepository.SetSettlementSheet(txCtx, sess.ID, settlement.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetSessionPayload(ctx, sess.ID)
}

// GetSessionPayload implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSessionPayload(ctx context.Context, sessionID string) (*payroll.SessionPayload, error) {
	sess, err := s.SessionRepository.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sheets, err := s.SheetRepository.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	payload := payroll.BuildSessionPayload(&sess, sheets)
	return &payload, nil
}

// ListSessionSummaries implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListSessionSummaries(ctx context.Context) ([]payroll.SessionSummaryRow, error) {
	sessions, err := s.SessionRepository.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		ids = append(ids, sess.ID)
	}
	bySession, err := s.SheetRepository.ListBySessions(ctx, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]payroll.SessionSummaryRow, 0, len(sessions))
	for i := range sessions {
		payload := payroll.BuildSessionPayload(&sessions[i], bySession[sessions[i].ID])
		rows = append(rows, payroll.SessionSummaryRow{
			SessionID:          payload.SessionID,
			Title:              payload.Title,
			Period:             payload.Period,
			Status:             payload.Status,
			TotalTrainers:      payload.Summary.TotalTrainers,
			TrainersWithSheets: payload.Summary.TrainersWithSheets,
			HasCoordination:    payload.Summary.HasCoordination,
			HasSettlement:      payload.Summary.HasSettlement,
			TotalNetAmount:     payload.Summary.TotalNetAmount,
		})
	}
	return rows, nil
}

// ExportSheet implements payroll.PayrollService.
func (s *PayrollServiceImpl) ExportSheet(ctx context.Context, req *payroll.ExportSheetRequest) (*payroll.ExportedDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.SessionRepository.GetByID(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	sheetType := payroll.SheetType(req.Type)
	sheet, err := s.SheetRepository.GetBySlot(ctx, sess.ID, sheetType, req.TrainerID)
	if err != nil {
		if errors.Is(err, payroll.ErrSheetNotFound) && sheetType == payroll.SheetTypeSettlement {
			return nil, payroll.ErrSettlementMissing
		}
		return nil, err
	}

	doc := pdf.SheetDocument{
		MemoNumber:   sheet.MemoNumber,
		SessionTitle: sess.Title,
		Period:       sheet.Period,
		ManagerName:  sheet.ManagerName,
		GrossAmount:  formatAmount(sheet.GrossAmount),
		NetAmount:    formatAmount(sheet.NetAmount),
		GeneratedAt:  sheet.UpdatedAt,
	}

	var content []byte
	var fileName string
	switch sheetType {
	case payroll.SheetTypeTrainer:
		tutoring := payroll.ClampHours(sheet.TotalTutoringHours)
		group := payroll.ClampHours(sheet.TotalGroupHours)
		doc.TutoringHours = tutoring.String()
		doc.GroupHours = group.String()
		doc.TotalHours = tutoring.Add(group).String()

		payee, err := s.payeeInfo(ctx, sheet.TrainerID)
		if err != nil {
			return nil, err
		}
		content, err = s.renderer.TrainerSheet(doc, payee)
		if err != nil {
			return nil, err
		}
		fileName = fmt.Sprintf("memoire-formation-%s-%s.pdf", sess.ID, *sheet.TrainerID)

	case payroll.SheetTypeCoordination:
		payee, err := s.payeeInfo(ctx, sheet.CoordinatorID)
		if err != nil {
			return nil, err
		}
		content, err = s.renderer.CoordinationSheet(doc, payee)
		if err != nil {
			return nil, err
		}
		fileName = fmt.Sprintf("memoire-coordination-%s.pdf", sess.ID)

	case payroll.SheetTypeSettlement:
		lines, err := s.settlementLines(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		content, err = s.renderer.SettlementSheet(doc, lines)
		if err != nil {
			return nil, err
		}
		fileName = fmt.Sprintf("memoire-reglement-%s.pdf", sess.ID)
	}

	return &payroll.ExportedDocument{
		FileName:    fileName,
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// upsertSheet runs the find-or-create inside a transaction so a concurrent
// double submit degrades into one create and one update.
func (s *PayrollServiceImpl) upsertSheet(ctx context.Context, sheet *payroll.Sheet) error {
	return s.runTx(ctx, func(tx pgx.Tx) error {
		return s.upsertSheetTx(txContext(ctx, tx), sheet)
	})
}

// txContext attaches the transaction for the repositories to pick up. A nil
// tx leaves the context untouched.
func txContext(ctx context.Context, tx pgx.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, "tx", tx)
}

func (s *PayrollServiceImpl) upsertSheetTx(ctx context.Context, sheet *payroll.Sheet) error {
	existing, err := s.SheetRepository.GetBySlot(ctx, sheet.SessionID, sheet.Type, sheet.TrainerID)
	if err != nil && !errors.Is(err, payroll.ErrSheetNotFound) {
		return err
	}

	if existing != nil {
		// Keep the original memo number and identity, refresh the figures
		sheet.ID = existing.ID
		sheet.MemoNumber = existing.MemoNumber
		sheet.CreatedAt = existing.CreatedAt
		return s.SheetRepository.Update(ctx, sheet)
	}

	target := sheet.TrainerID
	if target == nil {
		target = sheet.CoordinatorID
	}
	sheet.MemoNumber = payroll.GenerateMemoNumber(sheet.Type, sheet.SessionID, target)

	err = s.SheetRepository.Create(ctx, sheet)
	if errors.Is(err, payroll.ErrSheetConflict) {
		// Lost the race against a concurrent create, retry as an update
		existing, getErr := s.SheetRepository.GetBySlot(ctx, sheet.SessionID, sheet.Type, sheet.TrainerID)
		if getErr != nil {
			return err
		}
		sheet.ID = existing.ID
		sheet.MemoNumber = existing.MemoNumber
		sheet.CreatedAt = existing.CreatedAt
		return s.SheetRepository.Update(ctx, sheet)
	}
	return err
}

func (s *PayrollServiceImpl) payeeInfo(ctx context.Context, userID *string) (pdf.PayeeInfo, error) {
	if userID == nil {
		return pdf.PayeeInfo{}, payroll.ErrSheetPayeeMismatch
	}
	u, err := s.UserRepository.GetByID(ctx, *userID)
	if err != nil {
		return pdf.PayeeInfo{}, err
	}
	return pdf.PayeeInfo{
		Name:        u.Name,
		Function:    deref(u.Function),
		NationalID:  deref(u.NationalID),
		BankAccount: deref(u.BankAccount),
		BankName:    deref(u.BankName),
		Phone:       deref(u.Phone),
	}, nil
}

func (s *PayrollServiceImpl) settlementLines(ctx context.Context, sessionID string) ([]pdf.SettlementLine, error) {
	sheets, err := s.SheetRepository.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var lines []pdf.SettlementLine
	for _, sh := range sheets {
		if sh.Type == payroll.SheetTypeSettlement {
			continue
		}
		label := "Coordination"
		payeeID := sh.CoordinatorID
		if sh.Type == payroll.SheetTypeTrainer {
			payeeID = sh.TrainerID
			label = "Formation"
		}
		if payeeID != nil {
			if u, err := s.UserRepository.GetByID(ctx, *payeeID); err == nil {
				label = fmt.Sprintf("%s (%s)", u.Name, label)
			}
		}
		lines = append(lines, pdf.SettlementLine{
			Label:      label,
			MemoNumber: sh.MemoNumber,
			NetAmount:  formatAmount(sh.NetAmount),
		})
	}
	return lines, nil
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
