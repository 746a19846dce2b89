// Package reminders manages scheduled reminder-email records. Sending is
// handled elsewhere; this package only creates, lists, cancels and updates
// the status of records.
package reminders

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrInvalidRecipient is returned for unparsable email addresses.
	ErrInvalidRecipient = errors.New("invalid recipient address")

	// ErrEmptyContent is returned for empty or whitespace-only content.
	ErrEmptyContent = errors.New("reminder content is required")

	// ErrInPast is returned when the send time has already passed.
	ErrInPast = errors.New("send time is in the past")

	// ErrNotFound is returned when a reminder does not exist.
	ErrNotFound = errors.New("reminder not found")

	// ErrNotScheduled is returned when changing a reminder that was already
	// sent or failed.
	ErrNotScheduled = errors.New("reminder is not scheduled")
)

// Status is the delivery state of a reminder.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusFailed    Status = "failed"
)

// Reminder is a scheduled reminder email.
type Reminder struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	SendAt    time.Time `json:"send_at"`
	Status    Status    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the record store holding reminders.
type Store interface {
	CreateReminder(ctx context.Context, r Reminder) error
	GetReminder(ctx context.Context, id string) (Reminder, error)
	ListReminders(ctx context.Context) ([]Reminder, error)
	DueReminders(ctx context.Context, now time.Time) ([]Reminder, error)
	UpdateReminder(ctx context.Context, r Reminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// Service validates and manages reminders.
type Service struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the service logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService creates a reminders service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: log.Default(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule creates a reminder to send content to recipient at sendAt.
func (s *Service) Schedule(ctx context.Context, recipient, content string, sendAt time.Time) (Reminder, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(recipient))
	if err != nil {
		return Reminder{}, fmt.Errorf("%w: %v", ErrInvalidRecipient, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return Reminder{}, ErrEmptyContent
	}
	now := s.now().UTC()
	if !sendAt.After(now) {
		return Reminder{}, ErrInPast
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Reminder{}, fmt.Errorf("failed to generate id: %w", err)
	}
	r := Reminder{
		ID:        id.String(),
		Recipient: addr.Address,
		Content:   content,
		SendAt:    sendAt.UTC(),
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateReminder(ctx, r); err != nil {
		return Reminder{}, fmt.Errorf("failed to save reminder: %w", err)
	}
	s.logger.Debug("Scheduled reminder", "id", r.ID, "send_at", r.SendAt)
	return r, nil
}

// List returns every reminder ordered by send time.
func (s *Service) List(ctx context.Context) ([]Reminder, error) {
	rs, err := s.store.ListReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	sortBySendAt(rs)
	return rs, nil
}

// Cancel deletes a reminder.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if _, err := s.store.GetReminder(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteReminder(ctx, id)
}

// Due returns scheduled reminders whose send time is at or before now.
func (s *Service) Due(ctx context.Context, now time.Time) ([]Reminder, error) {
	rs, err := s.store.DueReminders(ctx, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	sortBySendAt(rs)
	return rs, nil
}

// MarkSent records a successful delivery.
func (s *Service) MarkSent(ctx context.Context, id string) (Reminder, error) {
	return s.transition(ctx, id, StatusSent, "")
}

// MarkFailed records a failed delivery with its reason.
func (s *Service) MarkFailed(ctx context.Context, id, reason string) (Reminder, error) {
	return s.transition(ctx, id, StatusFailed, reason)
}

func (s *Service) transition(ctx context.Context, id string, to Status, reason string) (Reminder, error) {
	r, err := s.store.GetReminder(ctx, id)
	if err != nil {
		return Reminder{}, err
	}
	if r.Status != StatusScheduled {
		return Reminder{}, fmt.Errorf("%w: %s is %s", ErrNotScheduled, id, r.Status)
	}
	r.Status = to
	r.Error = reason
	r.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateReminder(ctx, r); err != nil {
		return Reminder{}, fmt.Errorf("failed to update reminder: %w", err)
	}
	s.logger.Debug("Reminder status changed", "id", id, "status", to)
	return r, nil
}

func sortBySendAt(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].SendAt.Before(rs[j].SendAt)
	})
}
