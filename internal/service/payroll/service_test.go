package payroll

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formacentre/payroll-backend-go/internal/domain/payroll"
	"github.com/formacentre/payroll-backend-go/internal/domain/session"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/pdf"
)

const (
	testSessionID     = "50000000-0000-4000-8000-000000000001"
	testTrainerID     = "70000000-0000-4000-8000-000000000001"
	testCoordinatorID = "60000000-0000-4000-8000-000000000001"
	testManagerID     = "40000000-0000-4000-8000-000000000001"
)

// ===== FAKES =====

type fakeSessionRepo struct {
	sessions map[string]session.Session
}

func (f *fakeSessionRepo) Create(ctx context.Context, s session.Session, trainerIDs []string) (session.Session, error) {
	return s, nil
}

func (f *fakeSessionRepo) GetByID(ctx context.Context, id string) (session.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return session.Session{}, session.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessionRepo) List(ctx context.Context) ([]session.Session, error) {
	var out []session.Session
	for _, s := range f.sessions {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, req session.UpdateSessionRequest) error {
	return nil
}

func (f *fakeSessionRepo) ReplaceTrainers(ctx context.Context, sessionID string, trainerIDs []string) error {
	return nil
}

func (f *fakeSessionRepo) SetSettlementSheet(ctx context.Context, sessionID string, sheetID string) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return session.ErrSessionNotFound
	}
	s.SettlementSheetID = &sheetID
	f.sessions[sessionID] = s
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, newUser user.User) (user.User, error) {
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) error {
	return nil
}

func (f *fakeUserRepo) UpdateStatus(ctx context.Context, id string, status user.Status) error {
	return nil
}

func (f *fakeUserRepo) UpdateCVPath(ctx context.Context, id string, cvPath string) error {
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	return nil
}

type slotKey struct {
	sessionID string
	sheetType payroll.SheetType
	trainerID string
}

type fakeSheetRepo struct {
	sheets map[slotKey]payroll.Sheet
}

func slotOf(sessionID string, sheetType payroll.SheetType, trainerID *string) slotKey {
	key := slotKey{sessionID: sessionID, sheetType: sheetType}
	if trainerID != nil {
		key.trainerID = *trainerID
	}
	return key
}

func (f *fakeSheetRepo) Create(ctx context.Context, sheet *payroll.Sheet) error {
	key := slotOf(sheet.SessionID, sheet.Type, sheet.TrainerID)
	if _, exists := f.sheets[key]; exists {
		return payroll.ErrSheetConflict
	}
	sheet.ID = "sheet-" + sheet.MemoNumber
	sheet.CreatedAt = time.Now()
	sheet.UpdatedAt = sheet.CreatedAt
	f.sheets[key] = *sheet
	return nil
}

func (f *fakeSheetRepo) Update(ctx context.Context, sheet *payroll.Sheet) error {
	key := slotOf(sheet.SessionID, sheet.Type, sheet.TrainerID)
	if _, exists := f.sheets[key]; !exists {
		return payroll.ErrSheetNotFound
	}
	sheet.UpdatedAt = time.Now()
	f.sheets[key] = *sheet
	return nil
}

func (f *fakeSheetRepo) GetByID(ctx context.Context, id string) (*payroll.Sheet, error) {
	for _, s := range f.sheets {
		if s.ID == id {
			sheet := s
			return &sheet, nil
		}
	}
	return nil, payroll.ErrSheetNotFound
}

func (f *fakeSheetRepo) GetBySlot(ctx context.Context, sessionID string, sheetType payroll.SheetType, trainerID *string) (*payroll.Sheet, error) {
	s, ok := f.sheets[slotOf(sessionID, sheetType, trainerID)]
	if !ok {
		return nil, payroll.ErrSheetNotFound
	}
	sheet := s
	return &sheet, nil
}

func (f *fakeSheetRepo) ListBySession(ctx context.Context, sessionID string) ([]payroll.Sheet, error) {
	var out []payroll.Sheet
	for _, s := range f.sheets {
		if s.SessionID == sessionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSheetRepo) ListBySessions(ctx context.Context, sessionIDs []string) (map[string][]payroll.Sheet, error) {
	out := make(map[string][]payroll.Sheet)
	for _, id := range sessionIDs {
		sheets, _ := f.ListBySession(ctx, id)
		if sheets != nil {
			out[id] = sheets
		}
	}
	return out, nil
}

// ===== FIXTURES =====

func newFixture() (*fakeSessionRepo, *fakeUserRepo, *fakeSheetRepo, payroll.PayrollService) {
	trainerID := testTrainerID
	coordinatorID := testCoordinatorID

	users := &fakeUserRepo{users: map[string]user.User{
		testManagerID:     {ID: testManagerID, Name: "Marie Leroy", Email: "marie@example.com", Role: user.RoleManager, Status: user.StatusActive},
		testTrainerID:     {ID: trainerID, Name: "Alice Martin", Email: "alice@example.com", Role: user.RoleTrainer, Status: user.StatusActive},
		testCoordinatorID: {ID: coordinatorID, Name: "Claire Dubois", Email: "claire@example.com", Role: user.RoleCoordinator, Status: user.StatusActive},
	}}

	sessions := &fakeSessionRepo{sessions: map[string]session.Session{
		testSessionID: {
			ID:            testSessionID,
			Title:         "Formation Go",
			StartDate:     time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
			CoordinatorID: &coordinatorID,
			Coordinator:   ptrUser(users.users[testCoordinatorID]),
			Trainers:      []user.User{users.users[testTrainerID]},
		},
	}}

	sheets := &fakeSheetRepo{sheets: map[slotKey]payroll.Sheet{}}

	svc := NewPayrollService(
		nil,
		sheets,
		sessions,
		users,
		payrollDomainSource(),
		pdf.NewRenderer("Centre de Formation"),
	)
	// The in-memory repositories need no transaction, run the unit of work
	// directly so the upsert and settlement paths are exercised here too.
	svc.(*PayrollServiceImpl).runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}
	return sessions, users, sheets, svc
}

func ptrUser(u user.User) *user.User {
	return &u
}

func payrollDomainSource() payroll.ParameterSource {
	return payroll.NewStaticSource(payroll.DefaultParameters())
}

func float(v float64) *float64 {
	return &v
}

// ===== TESTS =====

func TestUpsertTrainerSheet_RejectsUnassignedTrainer(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newFixture()

	otherTrainer := "99999999-0000-4000-8000-000000000009"
	_, err := svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID: testSessionID,
		TrainerID: otherTrainer,
	})

	assert.ErrorIs(t, err, payroll.ErrTrainerNotAssigned)
}

func TestUpsertTrainerSheet_RejectsInvalidIDs(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newFixture()

	_, err := svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID: "not-a-uuid",
		TrainerID: testTrainerID,
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, payroll.ErrTrainerNotAssigned)
}

func TestUpsertTrainerSheet_UnknownSession(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newFixture()

	_, err := svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID: "99999999-9999-4999-8999-999999999999",
		TrainerID: testTrainerID,
	})

	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestUpsertCoordinationSheet_RequiresCoordinator(t *testing.T) {
	t.Parallel()
	sessions, _, _, svc := newFixture()

	s := sessions.sessions[testSessionID]
	s.CoordinatorID = nil
	s.Coordinator = nil
	sessions.sessions[testSessionID] = s

	_, err := svc.UpsertCoordinationSheet(context.Background(), testManagerID, &payroll.UpsertCoordinationSheetRequest{
		SessionID: testSessionID,
	})

	assert.ErrorIs(t, err, payroll.ErrNoCoordinatorAssigned)
}

func TestUpsertTrainerSheet_SecondUpsertKeepsMemoAndID(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newFixture()

	first, err := svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          testSessionID,
		TrainerID:          testTrainerID,
		TotalTutoringHours: float(10),
		TotalGroupHours:    float(5),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.MemoNumber, "MEM-FORM-"))
	assert.True(t, first.GrossAmount.Equal(decimal.NewFromInt(450)))
	assert.True(t, first.NetAmount.Equal(decimal.NewFromFloat(517.5)))

	second, err := svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          testSessionID,
		TrainerID:          testTrainerID,
		TotalTutoringHours: float(12),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.MemoNumber, second.MemoNumber)
	assert.True(t, second.GrossAmount.Equal(decimal.NewFromInt(360)))
	assert.True(t, second.NetAmount.Equal(decimal.NewFromInt(414)))
}

func TestSettleSession_SumsSheetsAndStaysConsistent(t *testing.T) {
	t.Parallel()
	sessions, _, _, svc := newFixture()

	_, err := svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          testSessionID,
		TrainerID:          testTrainerID,
		TotalTutoringHours: float(10),
		TotalGroupHours:    float(5),
	})
	require.NoError(t, err)
	_, err = svc.UpsertCoordinationSheet(context.Background(), testManagerID, &payroll.UpsertCoordinationSheetRequest{
		SessionID: testSessionID,
	})
	require.NoError(t, err)

	payload, err := svc.SettleSession(context.Background(), testManagerID, &payroll.SettleSessionRequest{SessionID: testSessionID})
	require.NoError(t, err)

	require.NotNil(t, payload.Settlement)
	assert.True(t, strings.HasPrefix(payload.Settlement.MemoNumber, "MEM-REG-"))
	assert.True(t, payload.Settlement.GrossAmount.Equal(decimal.NewFromInt(750)))
	assert.True(t, payload.Settlement.NetAmount.Equal(decimal.NewFromFloat(862.5)))
	assert.True(t, payload.Settlement.NetAmount.Equal(payload.Summary.TotalNetAmount))
	assert.Equal(t, payroll.StatusSettled, payload.Status)
	assert.False(t, payload.SettlementStale)
	require.NotNil(t, sessions.sessions[testSessionID].SettlementSheetID)

	// Re-upserting a sheet leaves the settlement behind until re-settled
	_, err = svc.UpsertTrainerSheet(context.Background(), testManagerID, &payroll.UpsertTrainerSheetRequest{
		SessionID:          testSessionID,
		TrainerID:          testTrainerID,
		TotalTutoringHours: float(12),
	})
	require.NoError(t, err)

	behind, err := svc.GetSessionPayload(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.True(t, behind.SettlementStale)

	resettled, err := svc.SettleSession(context.Background(), testManagerID, &payroll.SettleSessionRequest{SessionID: testSessionID})
	require.NoError(t, err)
	assert.Equal(t, payload.Settlement.MemoNumber, resettled.Settlement.MemoNumber)
	assert.True(t, resettled.Settlement.NetAmount.Equal(decimal.NewFromInt(759)))
	assert.False(t, resettled.SettlementStale)
}

func TestGetSessionPayload_AggregatesSheets(t *testing.T) {
	t.Parallel()
	_, _, sheets, svc := newFixture()

	trainerID := testTrainerID
	sheets.sheets[slotOf(testSessionID, payroll.SheetTypeTrainer, &trainerID)] = payroll.Sheet{
		ID:         "sheet-1",
		MemoNumber: "MEM-FORM-50000000-70000000-AB12",
		SessionID:  testSessionID,
		Type:       payroll.SheetTypeTrainer,
		TrainerID:  &trainerID,
		NetAmount:  decimal.NewFromInt(345),
	}

	payload, err := svc.GetSessionPayload(context.Background(), testSessionID)

	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPartial, payload.Status)
	require.Len(t, payload.Trainers, 1)
	assert.True(t, payload.Trainers[0].HasSheet)
	assert.Equal(t, "MEM-FORM-50000000-70000000-AB12", payload.Trainers[0].Sheet.MemoNumber)
	require.NotNil(t, payload.Coordinator)
	assert.False(t, payload.Coordinator.HasSheet)
}

func TestListSessionSummaries(t *testing.T) {
	t.Parallel()
	_, _, sheets, svc := newFixture()

	trainerID := testTrainerID
	sheets.sheets[slotOf(testSessionID, payroll.SheetTypeTrainer, &trainerID)] = payroll.Sheet{
		ID:        "sheet-1",
		SessionID: testSessionID,
		Type:      payroll.SheetTypeTrainer,
		TrainerID: &trainerID,
		NetAmount: decimal.NewFromInt(345),
	}

	rows, err := svc.ListSessionSummaries(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, testSessionID, rows[0].SessionID)
	assert.Equal(t, 1, rows[0].TrainersWithSheets)
	assert.True(t, rows[0].TotalNetAmount.Equal(decimal.NewFromInt(345)))
}

func TestExportSheet_SettlementMissing(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newFixture()

	_, err := svc.ExportSheet(context.Background(), &payroll.ExportSheetRequest{
		SessionID: testSessionID,
		Type:      string(payroll.SheetTypeSettlement),
	})

	assert.ErrorIs(t, err, payroll.ErrSettlementMissing)
}

func TestExportSheet_TrainerRequiresTrainerID(t *testing.T) {
	t.Parallel()
	_, _, _, svc := newFixture()

	_, err := svc.ExportSheet(context.Background(), &payroll.ExportSheetRequest{
		SessionID: testSessionID,
		Type:      string(payroll.SheetTypeTrainer),
	})

	require.Error(t, err)
}

func TestExportSheet_RendersTrainerPDF(t *testing.T) {
	t.Parallel()
	_, _, sheets, svc := newFixture()

	trainerID := testTrainerID
	sheets.sheets[slotOf(testSessionID, payroll.SheetTypeTrainer, &trainerID)] = payroll.Sheet{
		ID:                 "sheet-1",
		MemoNumber:         "MEM-FORM-50000000-70000000-AB12",
		SessionID:          testSessionID,
		Type:               payroll.SheetTypeTrainer,
		TrainerID:          &trainerID,
		Period:             "Du 02 janv. 2026 au 15 févr. 2026",
		ManagerName:        "Marie Leroy",
		TotalTutoringHours: float(10),
		TotalGroupHours:    float(5),
		GrossAmount:        decimal.NewFromInt(450),
		NetAmount:          decimal.NewFromFloat(517.5),
		UpdatedAt:          time.Now(),
	}

	doc, err := svc.ExportSheet(context.Background(), &payroll.ExportSheetRequest{
		SessionID: testSessionID,
		Type:      string(payroll.SheetTypeTrainer),
		TrainerID: &trainerID,
	})

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "memoire-formation-"+testSessionID+"-"+trainerID+".pdf", doc.FileName)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
}
