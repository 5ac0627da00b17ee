package domain

import (
	"strings"
	"time"
)

// FormKind names a storefront form.
type FormKind string

const (
	FormContact    FormKind = "contact"
	FormCatering   FormKind = "catering"
	FormBulkOrder  FormKind = "bulk-order"
	FormNewsletter FormKind = "newsletter"
)

// ParseFormKind reports whether raw names a known form.
func ParseFormKind(raw string) (FormKind, bool) {
	switch k := FormKind(strings.ToLower(raw)); k {
	case FormContact, FormCatering, FormBulkOrder, FormNewsletter:
		return k, true
	default:
		return "", false
	}
}

// FormSubmission is a submitted storefront form. Which fields are required
// depends on Kind.
type FormSubmission struct {
	Kind      FormKind `json:"-" validate:"required,oneof=contact catering bulk-order newsletter"`
	Name      string   `json:"name" validate:"required_unless=Kind newsletter,max=120"`
	Email     string   `json:"email" validate:"required,email,max=254"`
	Phone     string   `json:"phone" validate:"required_if=Kind catering,omitempty,phone"`
	Company   string   `json:"company" validate:"max=120"`
	Subject   string   `json:"subject" validate:"max=200"`
	Message   string   `json:"message" validate:"required_if=Kind contact,max=4000"`
	EventDate string   `json:"event_date" validate:"required_if=Kind catering,omitempty,datetime=2006-01-02"`
	Guests    int      `json:"guests" validate:"required_if=Kind catering,omitempty,gte=1,lte=5000"`
	Items     string   `json:"items" validate:"required_if=Kind bulk-order,max=4000"`
}

// Normalize trims every text field and lower-cases the email address.
func (s *FormSubmission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.ToLower(strings.TrimSpace(s.Email))
	s.Phone = strings.TrimSpace(s.Phone)
	s.Company = strings.TrimSpace(s.Company)
	s.Subject = strings.TrimSpace(s.Subject)
	s.Message = strings.TrimSpace(s.Message)
	s.EventDate = strings.TrimSpace(s.EventDate)
	s.Items = strings.TrimSpace(s.Items)
}

// SubmittedForm is a validated submission ready for delivery.
type SubmittedForm struct {
	ID          string         `json:"id"`
	Kind        FormKind       `json:"kind"`
	SessionID   string         `json:"session_id,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Form        FormSubmission `json:"form"`
}
