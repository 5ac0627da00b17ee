package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/cart"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/service"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httputil"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/validator"
)

const (
	eventBuffer      = 16
	defaultKeepAlive = 25 * time.Second
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service   *service.CartService
	logger    *slog.Logger
	keepAlive time.Duration
	done      <-chan struct{}
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service:   svc,
		logger:    logger,
		keepAlive: defaultKeepAlive,
	}
}

// --- Request DTOs ---

// AddLinesRequest is the JSON request body for adding lines to the cart.
type AddLinesRequest struct {
	Lines []domain.LineInput `json:"lines" validate:"required,min=1,max=20,dive"`
}

// UpdateQuantityRequest is the JSON request body for changing a line's
// quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=99"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// AddLines handles POST /api/v1/cart/lines
func (h *CartHandler) AddLines(w http.ResponseWriter, r *http.Request) {
	var req AddLinesRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, asInputError(err), h.logger)
		return
	}

	state, err := h.service.Add(r.Context(), sessionID(r), req.Lines)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// UpdateLine handles PATCH /api/v1/cart/lines/{lineId}
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := lineIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, r, asInputError(err), h.logger)
		return
	}

	state, err := h.service.UpdateQuantity(r.Context(), sessionID(r), lineID, *req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// RemoveLine handles DELETE /api/v1/cart/lines/{lineId}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := lineIDParam(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	state, err := h.service.Remove(r.Context(), sessionID(r), lineID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Clear(r.Context(), sessionID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// OpenCart handles POST /api/v1/cart/open
func (h *CartHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.setOpen(w, r, true)
}

// CloseCart handles POST /api/v1/cart/close
func (h *CartHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.setOpen(w, r, false)
}

func (h *CartHandler) setOpen(w http.ResponseWriter, r *http.Request, open bool) {
	state, err := h.service.SetOpen(r.Context(), sessionID(r), open)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, state)
}

// Events handles GET /api/v1/cart/events
//
// The stream opens with the current projection as a hydrated event and then
// relays every hydration, notice and UI state change for the session.
func (h *CartHandler) Events(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)
	if sid == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("session id is required"), h.logger)
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	state, events, cancel := h.service.Subscribe(ctx, sid, eventBuffer)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(ev cart.Event) error {
		if err := writeEvent(w, ev); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := send(cart.Event{Type: cart.EventHydrated, State: state, At: time.Now().UTC()}); err != nil {
		h.logger.WarnContext(ctx, "cart stream unavailable", slog.String("error", err.Error()))
		return
	}

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := send(ev); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// writeEvent writes ev as one server-sent event named after its type.
func writeEvent(w http.ResponseWriter, ev cart.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode cart event: %w", err)
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", ev.State.AppliedSeq, ev.Type, payload)
	return err
}

// lineIDParam returns the unescaped line ID. Remote line IDs contain slashes
// and query characters, so clients send them path-escaped.
func lineIDParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "lineId")
	id, err := url.PathUnescape(raw)
	if err != nil || id == "" {
		return "", apperrors.InvalidInput("invalid line id")
	}
	return id, nil
}

// asInputError turns body decoding failures into 400s; validation errors pass through.
func asInputError(err error) error {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return err
	}
	return apperrors.InvalidInput(err.Error())
}
