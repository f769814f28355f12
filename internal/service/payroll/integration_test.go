package payroll

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
	"github.com/formacentre/payroll-backend-go/internal/pkg/pdf"
	"github.com/formacentre/payroll-backend-go/internal/repository/postgresql"
)

// These tests run against a throwaway database. Set TEST_DATABASE_URL to
// enable them.

func setupPayrollDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewPostgreSQLDB(dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	require.NoError(t, database.NewMigrator(db).Run(ctx))

	// Detach settlement links first, the FK restricts sheet deletion.
	_, err = db.Exec(ctx, "UPDATE sessions SET settlement_sheet_id = NULL")
	require.NoError(t, err)
	for _, table := range []string{"payroll_sheets", "session_trainers", "sessions", "refresh_tokens", "users"} {
		_, err := db.Exec(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	return db
}

func createTestUser(t *testing.T, db *database.DB, name, email string, role user.Role) user.User {
	t.Helper()
	repo := postgresql.NewUserRepository(db)
	u, err := repo.Create(context.Background(), user.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Status:       user.StatusActive,
	})
	require.NoError(t, err)
	return u
}

func createTestSession(t *testing.T, db *database.DB, coordinatorID *string, trainerIDs []string) session.Session {
	t.Helper()
	repo := postgresql.NewSessionRepository(db)
	s, err := repo.Create(context.Background(), session.Session{
		Title:         "Formation Go",
		StartDate:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		CoordinatorID: coordinatorID,
	}, trainerIDs)
	require.NoError(t, err)
	return s
}

func newDBService(db *database.DB) payroll.PayrollService {
	return NewPayrollService(
		db,
		postgresql.NewSheetRepository(db),
		postgresql.NewSessionRepository(db),
		postgresql.NewUserRepository(db),
		payroll.NewStaticSource(payroll.DefaultParameters()),
		pdf.NewRenderer("Centre de Formation"),
	)
}

func TestUpsertTrainerSheet_CreateThenUpdateKeepsMemo(t *testing.T) {
	db := setupPayrollDB(t)
	ctx := context.Background()

	manager := createTestUser(t, db, "Marie Leroy", "marie@example.com", user.RoleManager)
	trainer := createTestUser(t, db, "Alice Martin", "alice@example.com", user.RoleTrainer)
	sess := createTestSession(t, db, nil, []string{trainer.ID})

	svc := newDBService(db)

	first, err := svc.UpsertTrainerSheet(ctx, manager.ID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          sess.ID,
		TrainerID:          trainer.ID,
		TotalTutoringHours: floatPtr(10),
		TotalGroupHours:    floatPtr(5),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.MemoNumber)
	assert.True(t, first.GrossAmount.Equal(decimal.NewFromInt(450)))
	assert.True(t, first.NetAmount.Equal(decimal.NewFromFloat(517.5)))

	second, err := svc.UpsertTrainerSheet(ctx, manager.ID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          sess.ID,
		TrainerID:          trainer.ID,
		TotalTutoringHours: floatPtr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, first.MemoNumber, second.MemoNumber)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.GrossAmount.Equal(decimal.NewFromInt(600)))
}

func TestUpsertCoordinationSheet_FlatFee(t *testing.T) {
	db := setupPayrollDB(t)
	ctx := context.Background()

	manager := createTestUser(t, db, "Marie Leroy", "marie2@example.com", user.RoleManager)
	coordinator := createTestUser(t, db, "Claire Dubois", "claire2@example.com", user.RoleCoordinator)
	sess := createTestSession(t, db, &coordinator.ID, nil)

	svc := newDBService(db)

	view, err := svc.UpsertCoordinationSheet(ctx, manager.ID, &payroll.UpsertCoordinationSheetRequest{
		SessionID: sess.ID,
	})
	require.NoError(t, err)
	assert.True(t, view.GrossAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, view.NetAmount.Equal(decimal.NewFromInt(345)))
}

func TestSettleSession_SumsLiveSheetsAndLinks(t *testing.T) {
	db := setupPayrollDB(t)
	ctx := context.Background()

	manager := createTestUser(t, db, "Marie Leroy", "marie3@example.com", user.RoleManager)
	trainer := createTestUser(t, db, "Alice Martin", "alice3@example.com", user.RoleTrainer)
	coordinator := createTestUser(t, db, "Claire Dubois", "claire3@example.com", user.RoleCoordinator)
	sess := createTestSession(t, db, &coordinator.ID, []string{trainer.ID})

	svc := newDBService(db)

	_, err := svc.UpsertTrainerSheet(ctx, manager.ID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          sess.ID,
		TrainerID:          trainer.ID,
		TotalTutoringHours: floatPtr(10),
		TotalGroupHours:    floatPtr(5),
	})
	require.NoError(t, err)
	_, err = svc.UpsertCoordinationSheet(ctx, manager.ID, &payroll.UpsertCoordinationSheetRequest{
		SessionID: sess.ID,
	})
	require.NoError(t, err)

	payload, err := svc.SettleSession(ctx, manager.ID, &payroll.SettleSessionRequest{SessionID: sess.ID})
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusSettled, payload.Status)
	require.NotNil(t, payload.Settlement)
	// 517.50 + 345 = 862.50 net, 450 + 300 = 750 gross
	assert.True(t, payload.Settlement.NetAmount.Equal(decimal.NewFromFloat(862.5)))
	assert.True(t, payload.Settlement.GrossAmount.Equal(decimal.NewFromInt(750)))
	// Hours come from the trainer sheet only
	require.NotNil(t, payload.Settlement.TotalTutoringHours)
	assert.Equal(t, 10.0, *payload.Settlement.TotalTutoringHours)
	require.NotNil(t, payload.Settlement.TotalGroupHours)
	assert.Equal(t, 5.0, *payload.Settlement.TotalGroupHours)
	assert.False(t, payload.SettlementStale)

	// The session row now points at the settlement sheet
	reloaded, err := postgresql.NewSessionRepository(db).GetByID(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.SettlementSheetID)
	assert.Equal(t, payload.Settlement.ID, *reloaded.SettlementSheetID)
}

func TestSettleSession_NothingToSettle(t *testing.T) {
	db := setupPayrollDB(t)
	ctx := context.Background()

	manager := createTestUser(t, db, "Marie Leroy", "marie4@example.com", user.RoleManager)
	sess := createTestSession(t, db, nil, nil)

	svc := newDBService(db)

	_, err := svc.SettleSession(ctx, manager.ID, &payroll.SettleSessionRequest{SessionID: sess.ID})
	assert.ErrorIs(t, err, payroll.ErrNothingToSettle)
}

func TestSettleSession_ResettleRefreshesTotalsKeepsMemo(t *testing.T) {
	db := setupPayrollDB(t)
	ctx := context.Background()

	manager := createTestUser(t, db, "Marie Leroy", "marie5@example.com", user.RoleManager)
	trainer := createTestUser(t, db, "Alice Martin", "alice5@example.com", user.RoleTrainer)
	sess := createTestSession(t, db, nil, []string{trainer.ID})

	svc := newDBService(db)

	_, err := svc.UpsertTrainerSheet(ctx, manager.ID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          sess.ID,
		TrainerID:          trainer.ID,
		TotalTutoringHours: floatPtr(10),
	})
	require.NoError(t, err)

	first, err := svc.SettleSession(ctx, manager.ID, &payroll.SettleSessionRequest{SessionID: sess.ID})
	require.NoError(t, err)

	// Sheet changes after settling, the payload flags the settlement stale
	_, err = svc.UpsertTrainerSheet(ctx, manager.ID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          sess.ID,
		TrainerID:          trainer.ID,
		TotalTutoringHours: floatPtr(20),
	})
	require.NoError(t, err)

	stale, err := svc.GetSessionPayload(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, stale.SettlementStale)

	second, err := svc.SettleSession(ctx, manager.ID, &payroll.SettleSessionRequest{SessionID: sess.ID})
	require.NoError(t, err)
	assert.Equal(t, first.Settlement.MemoNumber, second.Settlement.MemoNumber)
	assert.False(t, second.SettlementStale)
	// 20h * 30 +15% = 690
	assert.True(t, second.Settlement.NetAmount.Equal(decimal.NewFromInt(690)))
}

func floatPtr(v float64) *float64 {
	return &v
}
