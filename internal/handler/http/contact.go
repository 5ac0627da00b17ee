package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/service"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httputil"
)

const maxFormBytes = 32 << 10

// ContactHandler handles HTTP requests for storefront forms.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact form HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// SubmissionResponse acknowledges an accepted form.
type SubmissionResponse struct {
	ID          string          `json:"id"`
	Kind        domain.FormKind `json:"kind"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// Submit handles POST /api/v1/forms/{kind}
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var form domain.FormSubmission
	dec := json.NewDecoder(io.LimitReader(r.Body, maxFormBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&form); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body"), h.logger)
		return
	}

	submitted, err := h.service.Submit(r.Context(), chi.URLParam(r, "kind"), sessionID(r), form)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusAccepted, SubmissionResponse{
		ID:          submitted.ID,
		Kind:        submitted.Kind,
		SubmittedAt: submitted.SubmittedAt,
	})
}
