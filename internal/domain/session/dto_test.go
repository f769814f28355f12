package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/validator"
)

func TestCreateSessionRequest_Validate(t *testing.T) {
	t.Parallel()

	coordID := "60000000-0000-4000-8000-000000000001"
	valid := CreateSessionRequest{
		Title:         "Initiation Go",
		StartDate:     "2026-01-02",
		EndDate:       "2026-02-15",
		CoordinatorID: &coordID,
		TrainerIDs:    []string{"70000000-0000-4000-8000-000000000001"},
	}
	assert.NoError(t, valid.Validate())

	badID := "not-a-uuid"
	bad := CreateSessionRequest{
		Title:         "",
		StartDate:     "02/01/2026",
		EndDate:       "2026-02-30",
		CoordinatorID: &badID,
		TrainerIDs:    []string{"also-bad"},
	}
	err := bad.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "end_date")
	assert.Contains(t, fields, "coordinator_id")
	assert.Contains(t, fields, "trainer_ids")
}

func TestCreateSessionRequest_Validate_EndBeforeStart(t *testing.T) {
	t.Parallel()

	req := CreateSessionRequest{
		Title:     "Initiation Go",
		StartDate: "2026-02-15",
		EndDate:   "2026-01-02",
	}
	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "must not be before start_date", errs.ToMap()["end_date"])
}

func TestUpdateSessionRequest_Validate(t *testing.T) {
	t.Parallel()

	// Partial updates with no fields set are valid
	assert.NoError(t, (&UpdateSessionRequest{ID: "x"}).Validate())

	empty := ""
	badDate := "15/02/2026"
	bad := UpdateSessionRequest{Title: &empty, StartDate: &badDate}
	err := bad.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	fields := errs.ToMap()
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "start_date")
}

func TestToResponse(t *testing.T) {
	t.Parallel()

	phone := "+33612345678"
	sess := Session{
		ID:        "50000000-0000-4000-8000-000000000001",
		Title:     "Initiation Go",
		StartDate: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Coordinator: &user.User{
			ID:    "60000000-0000-4000-8000-000000000001",
			Name:  "Claire Martin",
			Email: "claire@example.com",
		},
		Trainers: []user.User{
			{ID: "70000000-0000-4000-8000-000000000001", Name: "Jean Dupont", Email: "jean@example.com", Phone: &phone},
		},
	}

	resp := ToResponse(sess)
	assert.Equal(t, "2026-01-02", resp.StartDate)
	assert.Equal(t, "2026-01-15", resp.EndDate)
	assert.Equal(t, 14, resp.DurationDays)
	require.Len(t, resp.Trainers, 1)
	assert.Equal(t, "Jean Dupont", resp.Trainers[0].Name)
	assert.Equal(t, &phone, resp.Trainers[0].Phone)
	require.NotNil(t, resp.Coordinator)
	assert.Equal(t, "Claire Martin", resp.Coordinator.Name)
}

func TestSessionHelpers(t *testing.T) {
	t.Parallel()

	sheetID := "90000000-0000-4000-8000-000000000001"
	sess := Session{
		Trainers: []user.User{{ID: "70000000-0000-4000-8000-000000000001"}},
	}
	assert.True(t, sess.HasTrainer("70000000-0000-4000-8000-000000000001"))
	assert.False(t, sess.HasTrainer("70000000-0000-4000-8000-000000000002"))
	assert.False(t, sess.IsSettled())

	sess.SettlementSheetID = &sheetID
	assert.True(t, sess.IsSettled())
}
