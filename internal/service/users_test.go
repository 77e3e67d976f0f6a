package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3rciful/artliftbot/internal/domain"
)

func TestUserRegister_AssignsAdminRole(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewUserService(store, []int64{1})

	require.NoError(t, svc.Register(context.Background(), 1, "boss", "The Boss"))
	require.NoError(t, svc.Register(context.Background(), 100, "alice", "Alice A"))

	admin, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)

	user, err := svc.Get(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, user.Role)
}

func TestUserIsAdmin(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewUserService(store, []int64{1})

	require.NoError(t, svc.Register(context.Background(), 100, "alice", "Alice A"))

	require.True(t, svc.IsAdmin(context.Background(), 1))
	require.False(t, svc.IsAdmin(context.Background(), 100))
	require.False(t, svc.IsAdmin(context.Background(), 999))
}

func TestUserIsAdmin_StoredRole(t *testing.T) {
	store := &fakeUserStore{users: map[int64]domain.User{
		50: {TelegramID: 50, Role: domain.RoleAdmin},
	}}
	svc := NewUserService(store, nil)

	require.True(t, svc.IsAdmin(context.Background(), 50))
}
