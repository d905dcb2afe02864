package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftdrop/courier-api/internal/domain"
	"github.com/swiftdrop/courier-api/internal/repository"
	"github.com/swiftdrop/courier-api/internal/testutil"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	seeded := testutil.SeedUser(t, db, "ada@example.com", domain.RoleMember)

	byID, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Email, byID.Email)
	assert.Equal(t, domain.RoleMember, byID.Role)
	assert.Equal(t, domain.UserStatusActive, byID.Status)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, byEmail.ID)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	testutil.SeedUser(t, db, "ada@example.com", domain.RoleMember)

	now := time.Now().UTC()
	err := repo.Create(ctx, &domain.User{
		ID:           uuid.New(),
		Name:         "Other Ada",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		Contact:      "+2348000000000",
		Role:         domain.RoleAdmin,
		Status:       domain.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestUserRepository_ListNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	first := testutil.SeedUser(t, db, "first@example.com", domain.RoleMember)
	time.Sleep(10 * time.Millisecond)
	second := testutil.SeedUser(t, db, "second@example.com", domain.RoleAdmin)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, second.ID, users[0].ID)
	assert.Equal(t, first.ID, users[1].ID)
}

func TestUserRepository_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "ada@example.com", domain.RoleMember)

	user.Role = domain.RoleAdmin
	user.Status = domain.UserStatusInactive
	user.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, domain.UserStatusInactive, got.Status)

	t.Run("unknown id", func(t *testing.T) {
		ghost := *user
		ghost.ID = uuid.New()
		require.ErrorIs(t, repo.Update(ctx, &ghost), domain.ErrNotFound)
	})

	t.Run("email collision", func(t *testing.T) {
		other := testutil.SeedUser(t, db, "ben@example.com", domain.RoleMember)
		other.Email = "ada@example.com"
		require.ErrorIs(t, repo.Update(ctx, other), domain.ErrDuplicateEmail)
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "ada@example.com", domain.RoleMember)

	require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)

	require.ErrorIs(t, repo.UpdatePassword(ctx, uuid.New(), "hash"), domain.ErrNotFound)
}

func TestUserRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	user := testutil.SeedUser(t, db, "ada@example.com", domain.RoleMember)

	require.NoError(t, repo.Delete(ctx, user.ID))
	require.ErrorIs(t, repo.Delete(ctx, user.ID), domain.ErrNotFound)

	_, err := repo.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_DeleteAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	testutil.SeedUser(t, db, "ada@example.com", domain.RoleMember)
	testutil.SeedUser(t, db, "ben@example.com", domain.RoleAdmin)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
