package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/urban-services/api/internal/database"
	"github.com/urban-services/api/internal/pagination"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrMissingTitle         = errors.New("title is required")
	ErrMissingMessage       = errors.New("message is required")
)

// NotificationStore defines the DB methods needed by NotificationService.
type NotificationStore interface {
	CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error)
	ListNotificationsByUser(ctx context.Context, arg database.ListNotificationsByUserParams) ([]database.Notification, error)
	MarkNotificationRead(ctx context.Context, arg database.MarkNotificationReadParams) (database.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
}

// NotificationService manages per-user notification records.
type NotificationService struct {
	store NotificationStore
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// Notify stores a new unread notification for userID.
func (s *NotificationService) Notify(ctx context.Context, userID int64, title, message string) (database.Notification, error) {
	if userID <= 0 {
		return database.Notification{}, ErrMissingIdentity
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return database.Notification{}, ErrMissingTitle
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return database.Notification{}, ErrMissingMessage
	}

	n, err := s.store.CreateNotification(ctx, database.CreateNotificationParams{
		UserID:  userID,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return database.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// List returns one page of the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, scope Scope, cursor *int64) (pagination.Page[database.Notification], error) {
	if err := scope.check(); err != nil {
		return pagination.Page[database.Notification]{}, err
	}

	fetch := func(ctx context.Context, c pgtype.Int8, limit int32) ([]database.Notification, error) {
		return s.store.ListNotificationsByUser(ctx, database.ListNotificationsByUserParams{
			UserID: scope.UserID,
			Cursor: c,
			Limit:  limit,
		})
	}
	page, err := pagination.Seek(ctx, pagination.NotificationPageSize, cursor, fetch,
		func(n database.Notification) int64 { return n.ID })
	if err != nil {
		return page, fmt.Errorf("list notifications: %w", err)
	}
	return page, nil
}

// MarkRead flags one notification as read. Marking an already-read
// notification succeeds and returns it unchanged.
func (s *NotificationService) MarkRead(ctx context.Context, scope Scope, notificationID int64) (database.Notification, error) {
	if err := scope.check(); err != nil {
		return database.Notification{}, err
	}

	n, err := s.store.MarkNotificationRead(ctx, database.MarkNotificationReadParams{
		ID:     notificationID,
		UserID: scope.UserID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Notification{}, ErrNotificationNotFound
		}
		return database.Notification{}, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}

// MarkAllRead flags every unread notification of the caller and returns how
// many rows changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, scope Scope) (int64, error) {
	if err := scope.check(); err != nil {
		return 0, err
	}

	count, err := s.store.MarkAllNotificationsRead(ctx, scope.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return count, nil
}
