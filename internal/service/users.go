// Package service implements the admission lifecycle: user registry,
// application state machine, reminder scheduling, templated content, and the
// question channel. Services own the business rules; repositories own SQL.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/m3rciful/artliftbot/core/logger"
	"github.com/m3rciful/artliftbot/internal/domain"
)

// UserStore is the persistence surface used by UserService.
type UserStore interface {
	Upsert(ctx context.Context, user domain.User) error
	Get(ctx context.Context, telegramID int64) (domain.User, error)
}

// UserService maintains the user registry.
type UserService struct {
	store    UserStore
	adminIDs []int64
}

func NewUserService(store UserStore, adminIDs []int64) *UserService {
	return &UserService{
		store:    store,
		adminIDs: adminIDs,
	}
}

func (s *UserService) configuredAdmin(id int64) bool {
	for _, admin := range s.adminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

// Register upserts the user profile. Re-registration refreshes username and
// full name; identity and created_at never change. Users on the configured
// admin list are stored with the admin role.
func (s *UserService) Register(ctx context.Context, telegramID int64, username, fullName string) error {
	role := domain.RoleUser
	if s.configuredAdmin(telegramID) {
		role = domain.RoleAdmin
	}

	user := domain.User{
		TelegramID: telegramID,
		Username:   username,
		FullName:   fullName,
		Role:       role,
	}
	if err := s.store.Upsert(ctx, user); err != nil {
		return err
	}

	logger.Info(ctx, "service.users", "user.registered",
		slog.String("status", "ok"),
		slog.Int64("user_id", telegramID),
		slog.String("role", role),
	)
	return nil
}

// Get returns a user by Telegram id.
func (s *UserService) Get(ctx context.Context, telegramID int64) (domain.User, error) {
	return s.store.Get(ctx, telegramID)
}

// IsAdmin reports whether the id is in the configured admin list or the
// stored role is admin.
func (s *UserService) IsAdmin(ctx context.Context, telegramID int64) bool {
	if s.configuredAdmin(telegramID) {
		return true
	}
	user, err := s.store.Get(ctx, telegramID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn(ctx, "service.users", "user.admin_check.fail",
				slog.Int64("user_id", telegramID),
				slog.String("err", err.Error()),
			)
		}
		return false
	}
	return user.Role == domain.RoleAdmin
}
