package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AhemdNada/alx-company/internal/domain"
	apperrors "github.com/AhemdNada/alx-company/internal/errors"
	"github.com/AhemdNada/alx-company/internal/mail"
	"github.com/AhemdNada/alx-company/internal/metrics"
)

const mailTimeout = 15 * time.Second

// ContactService handles the public contact form and the admin inbox.
type ContactService struct {
	contacts domain.ContactRepository
	notifier mail.Notifier
}

// NewContactService wires the contact service. notifier may be nil when
// outbound mail is not configured.
func NewContactService(contacts domain.ContactRepository, notifier mail.Notifier) *ContactService {
	return &ContactService{contacts: contacts, notifier: notifier}
}

// Create persists a contact message and notifies the company inbox in the
// background. The visitor's request never waits on, or fails because of, the
// mail delivery.
func (s *ContactService) Create(ctx context.Context, name, email, subject, message string) (*domain.ContactMessage, error) {
	contact, err := s.contacts.Create(ctx, name, email, subject, message)
	if err != nil {
		return nil, apperrors.InternalError("failed to save contact message", err)
	}

	if s.notifier != nil {
		go s.notify(contact)
	}
	return contact, nil
}

func (s *ContactService) notify(contact *domain.ContactMessage) {
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	if err := s.notifier.NotifyContact(ctx, contact); err != nil {
		metrics.ContactMailFailuresTotal.Inc()
		slog.Error("Failed to send contact notification", "contact_id", contact.ID, "error", err)
	}
}

func (s *ContactService) List(ctx context.Context, filter domain.ContactFilter) ([]domain.ContactMessage, error) {
	contacts, err := s.contacts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.InternalError("failed to load contact messages", err)
	}
	return contacts, nil
}

func (s *ContactService) Get(ctx context.Context, id int64) (*domain.ContactMessage, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if errors.Is(err, domain.ErrContactNotFound) {
		return nil, apperrors.NotFoundError("Contact message not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to load contact message", err)
	}
	return contact, nil
}

// MarkReplied flips the replied flag and returns the updated message.
func (s *ContactService) MarkReplied(ctx context.Context, id int64, replied bool) (*domain.ContactMessage, error) {
	err := s.contacts.SetReplied(ctx, id, replied)
	if errors.Is(err, domain.ErrContactNotFound) {
		return nil, apperrors.NotFoundError("Contact message not found")
	}
	if err != nil {
		return nil, apperrors.InternalError("failed to update contact message", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a contact message. Unlike content deletions this one
// reports a missing row, so the admin UI can tell a double delete apart.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	err := s.contacts.Delete(ctx, id)
	if errors.Is(err, domain.ErrContactNotFound) {
		return apperrors.NotFoundError("Contact message not found")
	}
	if err != nil {
		return apperrors.InternalError("failed to delete contact message", err)
	}
	return nil
}

func (s *ContactService) Stats(ctx context.Context) (*domain.ContactStats, error) {
	stats, err := s.contacts.Stats(ctx)
	if err != nil {
		return nil, apperrors.InternalError("failed to load contact stats", err)
	}
	return stats, nil
}
