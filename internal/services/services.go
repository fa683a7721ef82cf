package services

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrUserExists     = errors.New("user already exists")
	ErrRecordNotFound = errors.New("record not found")
	ErrCadetNotFound  = errors.New("cadet not found")
	ErrInvalidStatus  = errors.New("invalid status")
)

// Notifier is the fire-and-forget chat notification sender.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// EventPublisher emits moderation events for downstream audit.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, recordTimestamp string, payload interface{}) error
}

// NormalizeUsername is the single identity rule for every component: the
// roster lookup, the role cache and the activity tracker all key on this
// form. The upstream system was inconsistent about case here; one rule
// everywhere removes that class of bug.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
