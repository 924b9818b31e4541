// Package contact validates and records submissions of the public contact
// form.
package contact

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rust-in/site/internal/platform/id"
	"github.com/rust-in/site/internal/services/site/storage"
	"go.uber.org/zap"
)

// Field names of the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldBike    = "bike"
	FieldMessage = "message"
)

// Message keys, resolved through the site catalog.
const (
	KeyRequired = "site.contact.error.required"
	KeyEmail    = "site.contact.error.email"
	KeyTooLong  = "site.contact.error.too_long"
	// KeySuccess is flashed after a stored submission.
	KeySuccess = "site.contact.success"
)

// MaxMessageLength caps the message body in runes.
const MaxMessageLength = 5000

const maxLineLength = 200

// Form is one contact form submission.
type Form struct {
	Name    string
	Email   string
	Phone   string
	Bike    string
	Message string
}

// FieldError reports one invalid input.
type FieldError struct {
	Field string
	Key   string
}

// ValidationError lists every invalid input of a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Field)
	}
	return "invalid contact form: " + strings.Join(parts, ", ")
}

// Key returns the message key reported for field, or "".
func (e *ValidationError) Key(field string) string {
	if e == nil {
		return ""
	}
	for _, candidate := range e.Fields {
		if candidate.Field == field {
			return candidate.Key
		}
	}
	return ""
}

// FromValues reads a form from posted values.
func FromValues(values url.Values) Form {
	return Form{
		Name:    values.Get(FieldName),
		Email:   values.Get(FieldEmail),
		Phone:   values.Get(FieldPhone),
		Bike:    values.Get(FieldBike),
		Message: values.Get(FieldMessage),
	}
}

// Normalize trims every input and unifies line endings.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Phone:   strings.TrimSpace(f.Phone),
		Bike:    strings.TrimSpace(f.Bike),
		Message: strings.TrimSpace(strings.ReplaceAll(f.Message, "\r\n", "\n")),
	}
}

// Validate checks a normalized form. Name, email and message are required.
func (f Form) Validate() error {
	var errs []FieldError
	add := func(field, key string) {
		errs = append(errs, FieldError{Field: field, Key: key})
	}
	switch {
	case f.Name == "":
		add(FieldName, KeyRequired)
	case utf8.RuneCountInString(f.Name) > maxLineLength:
		add(FieldName, KeyTooLong)
	}
	if f.Email == "" {
		add(FieldEmail, KeyRequired)
	} else if address, err := mail.ParseAddress(f.Email); err != nil || address.Address != f.Email {
		add(FieldEmail, KeyEmail)
	}
	if utf8.RuneCountInString(f.Phone) > maxLineLength {
		add(FieldPhone, KeyTooLong)
	}
	if utf8.RuneCountInString(f.Bike) > maxLineLength {
		add(FieldBike, KeyTooLong)
	}
	switch {
	case f.Message == "":
		add(FieldMessage, KeyRequired)
	case utf8.RuneCountInString(f.Message) > MaxMessageLength:
		add(FieldMessage, KeyTooLong)
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Service stores contact submissions.
type Service struct {
	store  storage.MessageStore
	logger *zap.Logger
	now    func() time.Time
	newID  func() (string, error)
}

// NewService builds a contact service over store.
func NewService(store storage.MessageStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now, newID: id.NewID}
}

// Submit validates form and stores it. Invalid input returns a
// *ValidationError and stores nothing.
func (s *Service) Submit(ctx context.Context, form Form) (storage.ContactMessage, error) {
	if s == nil || s.store == nil {
		return storage.ContactMessage{}, errors.New("contact service is not configured")
	}
	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return storage.ContactMessage{}, err
	}
	messageID, err := s.newID()
	if err != nil {
		return storage.ContactMessage{}, err
	}
	msg := storage.ContactMessage{
		ID:        messageID,
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Bike:      form.Bike,
		Message:   form.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return storage.ContactMessage{}, fmt.Errorf("store contact message: %w", err)
	}
	s.logger.Info("contact message received",
		zap.String("message_id", msg.ID),
		zap.Int("length", utf8.RuneCountInString(msg.Message)),
	)
	return msg, nil
}
