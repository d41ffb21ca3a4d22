package service

import (
	"context"
	"strings"

	"github.com/Dan9191/finpyme/internal/models"
)

// NotificationList is a user's inbox with its unread count
type NotificationList struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}

// ListNotifications returns the inbox of userID
func (s *Service) ListNotifications(ctx context.Context, userID int64) (*NotificationList, error) {
	list, err := s.repo.ListNotifications(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &NotificationList{Notifications: list}
	for _, n := range list {
		if !n.Read {
			out.Unread++
		}
	}
	return out, nil
}

// NotificationInput is the payload for a manual notification
type NotificationInput struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// CreateNotification stores a notification for userID
func (s *Service) CreateNotification(ctx context.Context, userID int64, in NotificationInput) (*models.Notification, error) {
	var v ValidationError
	if strings.TrimSpace(in.Title) == "" {
		v.Add("title", "is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		v.Add("message", "is required")
	}
	if v.HasErrors() {
		return nil, &v
	}
	if in.Kind == "" {
		in.Kind = "info"
	}

	n := &models.Notification{UserID: userID, Title: strings.TrimSpace(in.Title), Message: strings.TrimSpace(in.Message), Kind: in.Kind}
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkNotificationRead flags a notification as read
func (s *Service) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	return s.repo.MarkNotificationRead(ctx, userID, id)
}

// DeleteNotification removes a notification
func (s *Service) DeleteNotification(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteNotification(ctx, userID, id)
}
