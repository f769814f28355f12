package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formacentre/payroll-backend-go/internal/domain/auth"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
	"github.com/formacentre/payroll-backend-go/internal/repository/postgresql"
)

func createTestUser(t *testing.T, db *database.DB, name, email string, role user.Role, status user.Status) user.User {
	t.Helper()
	repo := postgresql.NewUserRepository(db)
	u, err := repo.Create(context.Background(), user.User{
		Name:         name,
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
		Status:       status,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created := createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusPending)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, user.StatusPending, created.Status)

	byEmail, err := repo.GetByEmail(ctx, "jean@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", byID.Name)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db := setupTestDatabase(t)

	_, err := postgresql.NewUserRepository(db).GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db := setupTestDatabase(t)
	repo := postgresql.NewUserRepository(db)

	createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusActive)

	_, err := repo.Create(context.Background(), user.User{
		Name:         "Autre Jean",
		Email:        "jean@example.com",
		PasswordHash: "x",
		Role:         user.RoleCoordinator,
		Status:       user.StatusPending,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_List_Filtered(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusActive)
	createTestUser(t, db, "Claire Martin", "claire@example.com", user.RoleCoordinator, user.StatusActive)
	createTestUser(t, db, "Paul Bernard", "paul@example.com", user.RoleTrainer, user.StatusPending)

	all, err := repo.List(ctx, user.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	trainerRole := user.RoleTrainer
	trainers, err := repo.List(ctx, user.ListFilter{Role: &trainerRole})
	require.NoError(t, err)
	assert.Len(t, trainers, 2)

	pending := user.StatusPending
	pendingTrainers, err := repo.List(ctx, user.ListFilter{Role: &trainerRole, Status: &pending})
	require.NoError(t, err)
	require.Len(t, pendingTrainers, 1)
	assert.Equal(t, "Paul Bernard", pendingTrainers[0].Name)
}

func TestUserRepository_UpdateProfileAndStatus(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created := createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusPending)

	name := "Jean-Pierre Dupont"
	phone := "+33612345678"
	err := repo.UpdateProfile(ctx, user.UpdateProfileRequest{ID: created.ID, Name: &name, Phone: &phone})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, created.ID, user.StatusActive))

	updated, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jean-Pierre Dupont", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+33612345678", *updated.Phone)
	assert.Equal(t, user.StatusActive, updated.Status)
}

func TestUserRepository_Delete(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	created := createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusActive)

	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err := repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), user.ErrUserNotFound)
}

func TestRefreshTokenRepository_Lifecycle(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	tokenRepo := postgresql.NewRefreshTokenRepository(db)

	owner := createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusActive)

	created, err := tokenRepo.Create(ctx, auth.RefreshToken{
		UserID:    owner.ID,
		TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	fetched, err := tokenRepo.GetByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, fetched.UserID)
	assert.False(t, fetched.IsRevoked())

	require.NoError(t, tokenRepo.Revoke(ctx, created.ID))

	revoked, err := tokenRepo.GetByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.True(t, revoked.IsRevoked())

	// Revoking twice reports the token as already gone
	assert.ErrorIs(t, tokenRepo.Revoke(ctx, created.ID), auth.ErrRefreshTokenRevoked)

	_, err = tokenRepo.GetByHash(ctx, "unknown-hash")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()
	tokenRepo := postgresql.NewRefreshTokenRepository(db)

	owner := createTestUser(t, db, "Jean Dupont", "jean@example.com", user.RoleTrainer, user.StatusActive)

	_, err := tokenRepo.Create(ctx, auth.RefreshToken{
		UserID:    owner.ID,
		TokenHash: "expired",
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = tokenRepo.Create(ctx, auth.RefreshToken{
		UserID:    owner.ID,
		TokenHash: "live",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	deleted, err := tokenRepo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = tokenRepo.GetByHash(ctx, "live")
	assert.NoError(t, err)
}
