package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/validator"
)

// ContactPublisher delivers validated submissions downstream.
type ContactPublisher interface {
	PublishContactSubmitted(ctx context.Context, form *domain.SubmittedForm) error
}

// ContactService validates storefront forms and hands them off for delivery.
type ContactService struct {
	publisher ContactPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewContactService creates a new contact service.
func NewContactService(publisher ContactPublisher, logger *slog.Logger) *ContactService {
	return &ContactService{
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates form as a kind form and publishes it. Invalid forms are
// rejected with a *validator.ValidationError before anything is sent.
func (s *ContactService) Submit(ctx context.Context, kind, sessionID string, form domain.FormSubmission) (*domain.SubmittedForm, error) {
	k, ok := domain.ParseFormKind(kind)
	if !ok {
		return nil, apperrors.NotFound("form", kind)
	}

	form.Kind = k
	form.Normalize()
	if err := validator.Validate(&form); err != nil {
		formSubmissions.WithLabelValues(string(k), "invalid").Inc()
		return nil, err
	}

	submitted := &domain.SubmittedForm{
		ID:          uuid.NewString(),
		Kind:        k,
		SessionID:   sessionID,
		SubmittedAt: s.now().UTC(),
		Form:        form,
	}

	if err := s.publisher.PublishContactSubmitted(ctx, submitted); err != nil {
		formSubmissions.WithLabelValues(string(k), "failed").Inc()
		s.logger.ErrorContext(ctx, "failed to publish form submission",
			slog.String("kind", string(k)),
			slog.String("submission_id", submitted.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("submit %s form: %w",
			k, apperrors.ServiceUnavailable("we could not send your message, please try again"))
	}

	formSubmissions.WithLabelValues(string(k), "ok").Inc()
	s.logger.InfoContext(ctx, "form submitted",
		slog.String("kind", string(k)),
		slog.String("submission_id", submitted.ID),
	)
	return submitted, nil
}
