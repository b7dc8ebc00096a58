package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpos/till/internal/common"
	"github.com/tillpos/till/internal/model"
)

func createTestUser(t *testing.T, store *Store, username, password, role string) *model.User {
	t.Helper()

	u := &model.User{
		Username: username,
		FullName: "Test Operator",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, u.SetPassword(password))

	created, err := store.CreateUser(context.Background(), u)
	require.NoError(t, err)
	return created
}

func TestCreateUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := createTestUser(t, store, "alice", "hunter2hunter2", "cashier")
	assert.NotZero(t, u.ID)

	got, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "cashier", got.Role)
	assert.True(t, got.IsActive)
	assert.True(t, got.VerifyPassword("hunter2hunter2"))
	assert.False(t, got.VerifyPassword("wrong"))
}

func TestCreateUserDuplicate(t *testing.T) {
	store := newTestStore(t)

	createTestUser(t, store, "alice", "hunter2hunter2", "cashier")

	dup := &model.User{Username: "alice", Role: "manager", IsActive: true}
	require.NoError(t, dup.SetPassword("another-password"))
	_, err := store.CreateUser(context.Background(), dup)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestGetUserByUsernameNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUserByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "alice", "hunter2hunter2", "cashier")
	createTestUser(t, store, "bob", "correct-horse", "manager")

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAuthenticate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "alice", "hunter2hunter2", "cashier")

	u, err := store.Authenticate(ctx, "alice", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.NotNil(t, u.LastLoginAt)

	_, err = store.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = store.Authenticate(ctx, "nobody", "hunter2hunter2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAuthenticateDisabledUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "alice", "hunter2hunter2", "cashier")
	require.NoError(t, store.SetUserActive(ctx, "alice", false))

	_, err := store.Authenticate(ctx, "alice", "hunter2hunter2")
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, store.SetUserActive(ctx, "alice", true))
	_, err = store.Authenticate(ctx, "alice", "hunter2hunter2")
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "alice", "old-password-1", "cashier")

	var u model.User
	require.NoError(t, u.SetPassword("new-password-2"))
	require.NoError(t, store.ChangePassword(ctx, "alice", u.PasswordHash))

	_, err := store.Authenticate(ctx, "alice", "old-password-1")
	assert.Error(t, err)

	_, err = store.Authenticate(ctx, "alice", "new-password-2")
	assert.NoError(t, err)
}
