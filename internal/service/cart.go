package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/cart"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/repository"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/validator"
)

// MaxLinesPerAdd caps how many lines one add request may carry.
const MaxLinesPerAdd = 20

// CartGateway is the remote cart. Every call returns the full authoritative
// snapshot; an unknown or expired cart is reported as not found.
type CartGateway interface {
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CreateCart(ctx context.Context, lines []domain.LineInput) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, updates []domain.LineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
	ClearCart(ctx context.Context, cartID string) (*domain.Cart, error)
}

// CartEventPublisher announces authoritative hydrations.
type CartEventPublisher interface {
	PublishCartHydrated(ctx context.Context, sessionID string, cart *domain.Cart) error
}

// MutationError is returned when a remote cart mutation fails. The shopper's
// cart is left as it was; Notice is the message to show them.
type MutationError struct {
	Op     string
	notice string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("cart %s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// Notice returns the shopper-facing message.
func (e *MutationError) Notice() string {
	return e.notice
}

// CartService reconciles each session's cart projection with the remote cart.
// No mutation is applied optimistically: the projection only changes when an
// authoritative snapshot comes back.
type CartService struct {
	gateway    CartGateway
	identities repository.IdentityRepository
	hub        *cart.Hub
	events     CartEventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewCartService creates a new cart service.
func NewCartService(gateway CartGateway, identities repository.IdentityRepository, hub *cart.Hub, events CartEventPublisher, logger *slog.Logger) *CartService {
	return &CartService{
		gateway:    gateway,
		identities: identities,
		hub:        hub,
		events:     events,
		logger:     logger,
		now:        time.Now,
	}
}

// State returns the session's projection, restoring a remembered cart on first use.
func (s *CartService) State(ctx context.Context, sessionID string) (cart.State, error) {
	if sessionID == "" {
		return cart.State{}, apperrors.InvalidInput("session id is required")
	}
	return s.bootstrap(ctx, sessionID), nil
}

// bootstrap restores the remembered remote cart once per store. Every
// failure leaves the projection empty; none of them reach the shopper.
func (s *CartService) bootstrap(ctx context.Context, sessionID string) cart.State {
	st := s.hub.Get(sessionID)
	if !st.MarkBootstrapped() {
		return st.State()
	}

	identity, err := s.identities.Get(ctx, sessionID)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			s.logger.WarnContext(ctx, "failed to read cart identity",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
		return st.State()
	}

	seq := st.NextSeq()
	remote, err := s.gateway.GetCart(ctx, identity.CartID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.logger.InfoContext(ctx, "remembered cart no longer exists",
				slog.String("session_id", sessionID),
				slog.String("cart_id", identity.CartID),
			)
			s.forget(ctx, sessionID)
		} else {
			s.logger.WarnContext(ctx, "failed to restore cart",
				slog.String("session_id", sessionID),
				slog.String("cart_id", identity.CartID),
				slog.String("error", err.Error()),
			)
		}
		return st.State()
	}

	state, effect := st.Dispatch(cart.Bootstrapped{Seq: seq, Cart: remote})
	switch {
	case effect == cart.EffectStale:
		staleHydrations.Inc()
	case !remote.Usable():
		s.forget(ctx, sessionID)
	default:
		s.afterHydration(ctx, sessionID, remote)
	}
	return state
}

// Add adds lines to the session's cart, creating the remote cart when the
// session has none. A remembered cart that the remote no longer knows is
// replaced by a new one holding the same lines.
func (s *CartService) Add(ctx context.Context, sessionID string, lines []domain.LineInput) (cart.State, error) {
	if len(lines) == 0 {
		return cart.State{}, apperrors.InvalidInput("at least one line is required")
	}
	if len(lines) > MaxLinesPerAdd {
		return cart.State{}, apperrors.InvalidInput(fmt.Sprintf("at most %d lines can be added at once", MaxLinesPerAdd))
	}
	for i := range lines {
		if err := validator.Validate(&lines[i]); err != nil {
			return cart.State{}, err
		}
	}

	current := s.bootstrap(ctx, sessionID)
	cartID := current.CartID
	if cartID == "" {
		cartID = s.rememberedCartID(ctx, sessionID)
	}

	return s.mutate(ctx, sessionID, "add", func(ctx context.Context) (*domain.Cart, error) {
		if cartID == "" {
			return s.gateway.CreateCart(ctx, lines)
		}
		c, err := s.gateway.AddLines(ctx, cartID, lines)
		if err != nil && apperrors.IsNotFound(err) {
			s.logger.InfoContext(ctx, "cart expired, creating a new one",
				slog.String("session_id", sessionID),
				slog.String("cart_id", cartID),
			)
			return s.gateway.CreateCart(ctx, lines)
		}
		return c, err
	})
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (cart.State, error) {
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, lineID)
	}
	if lineID == "" {
		return cart.State{}, apperrors.InvalidInput("line id is required")
	}
	if quantity > domain.MaxLineQuantity {
		return cart.State{}, apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", domain.MaxLineQuantity))
	}

	cartID, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return cart.State{}, err
	}
	return s.mutate(ctx, sessionID, "update", func(ctx context.Context) (*domain.Cart, error) {
		return s.gateway.UpdateLines(ctx, cartID, []domain.LineUpdate{{LineID: lineID, Quantity: quantity}})
	})
}

// Remove removes a line.
func (s *CartService) Remove(ctx context.Context, sessionID, lineID string) (cart.State, error) {
	if lineID == "" {
		return cart.State{}, apperrors.InvalidInput("line id is required")
	}

	cartID, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return cart.State{}, err
	}
	return s.mutate(ctx, sessionID, "remove", func(ctx context.Context) (*domain.Cart, error) {
		return s.gateway.RemoveLines(ctx, cartID, []string{lineID})
	})
}

// Clear removes every line. Clearing a session without a cart is a no-op.
func (s *CartService) Clear(ctx context.Context, sessionID string) (cart.State, error) {
	current := s.bootstrap(ctx, sessionID)
	if current.CartID == "" {
		return current, nil
	}
	return s.mutate(ctx, sessionID, "clear", func(ctx context.Context) (*domain.Cart, error) {
		return s.gateway.ClearCart(ctx, current.CartID)
	})
}

// SetOpen opens or closes the cart drawer.
func (s *CartService) SetOpen(ctx context.Context, sessionID string, open bool) (cart.State, error) {
	if sessionID == "" {
		return cart.State{}, apperrors.InvalidInput("session id is required")
	}
	s.bootstrap(ctx, sessionID)
	state, _ := s.hub.Get(sessionID).Dispatch(cart.SetOpen{Open: open})
	return state, nil
}

// Subscribe streams the session's cart events. The returned state is the
// projection at subscription time; every later change arrives as an event.
func (s *CartService) Subscribe(ctx context.Context, sessionID string, buffer int) (cart.State, <-chan cart.Event, func()) {
	s.bootstrap(ctx, sessionID)
	st := s.hub.Get(sessionID)
	events, cancel := st.Subscribe(buffer)
	return st.State(), events, cancel
}

// mutate runs one remote mutation through the reducer. The store's sequence
// number is taken before the call, so a slow response cannot overwrite a
// snapshot from a later request.
func (s *CartService) mutate(ctx context.Context, sessionID, op string, call func(context.Context) (*domain.Cart, error)) (cart.State, error) {
	st := s.hub.Get(sessionID)
	seq := st.NextSeq()
	st.Dispatch(cart.MutationStarted{Seq: seq})

	remote, err := call(ctx)
	if err == nil && !remote.Usable() {
		err = apperrors.Internal(errors.New("remote cart returned no identifier"))
	}
	if err != nil && op != "add" && apperrors.IsNotFound(err) {
		return s.cartGone(ctx, st, sessionID, op, seq, err)
	}
	if err != nil {
		notice := noticeFor(op, err)
		state, _ := st.Dispatch(cart.MutationFailed{Seq: seq, Notice: notice})
		cartMutations.WithLabelValues(op, "failed").Inc()
		s.logger.WarnContext(ctx, "cart mutation failed",
			slog.String("op", op),
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return state, &MutationError{Op: op, notice: notice, Err: err}
	}

	state, effect := st.Dispatch(cart.MutationSucceeded{Seq: seq, Cart: remote})
	cartMutations.WithLabelValues(op, "ok").Inc()
	if effect == cart.EffectStale {
		staleHydrations.Inc()
		s.logger.DebugContext(ctx, "stale cart snapshot dropped",
			slog.String("op", op),
			slog.String("session_id", sessionID),
			slog.Uint64("seq", seq),
			slog.Uint64("applied_seq", state.AppliedSeq),
		)
		return state, nil
	}

	s.afterHydration(ctx, sessionID, remote)
	s.logger.InfoContext(ctx, "cart mutated",
		slog.String("op", op),
		slog.String("session_id", sessionID),
		slog.String("cart_id", remote.ID),
		slog.Int("line_count", state.LineCount),
		slog.Int("item_count", state.ItemCount),
	)
	return state, nil
}

// cartGone forgets a remote cart that no longer exists. Clearing a cart that
// is already gone counts as done; other operations still report the failure.
func (s *CartService) cartGone(ctx context.Context, st *cart.Store, sessionID, op string, seq uint64, err error) (cart.State, error) {
	state, effect := st.Dispatch(cart.Reset{Seq: seq})
	if effect == cart.EffectStale {
		staleHydrations.Inc()
	} else {
		s.forget(ctx, sessionID)
	}
	s.logger.InfoContext(ctx, "cart no longer exists",
		slog.String("op", op),
		slog.String("session_id", sessionID),
		slog.String("error", err.Error()),
	)

	if op == "clear" {
		cartMutations.WithLabelValues(op, "ok").Inc()
		return state, nil
	}
	cartMutations.WithLabelValues(op, "failed").Inc()
	return state, &MutationError{Op: op, notice: noticeFor(op, err), Err: err}
}

// afterHydration remembers the cart and announces the snapshot. Both are
// best effort.
func (s *CartService) afterHydration(ctx context.Context, sessionID string, remote *domain.Cart) {
	identity := domain.CartIdentity{CartID: remote.ID, CheckoutURL: remote.CheckoutURL, UpdatedAt: s.now().UTC()}
	if err := s.identities.Save(ctx, sessionID, identity); err != nil {
		s.logger.WarnContext(ctx, "failed to save cart identity",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.events.PublishCartHydrated(ctx, sessionID, remote); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.hydrated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) forget(ctx context.Context, sessionID string) {
	if err := s.identities.Delete(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to delete cart identity",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) rememberedCartID(ctx context.Context, sessionID string) string {
	identity, err := s.identities.Get(ctx, sessionID)
	if err != nil {
		return ""
	}
	return identity.CartID
}

func (s *CartService) requireCart(ctx context.Context, sessionID string) (string, error) {
	current := s.bootstrap(ctx, sessionID)
	if current.CartID != "" {
		return current.CartID, nil
	}
	if id := s.rememberedCartID(ctx, sessionID); id != "" {
		return id, nil
	}
	return "", apperrors.NotFound("cart", sessionID)
}

func noticeFor(op string, err error) string {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput) && errors.As(err, &appErr):
		return appErr.Message
	case errors.Is(err, apperrors.ErrRateLimited):
		return "The shop is busy right now. Please try again in a moment."
	case apperrors.IsNotFound(err) && op != "add":
		return "That item is no longer in your cart."
	}

	switch op {
	case "add":
		return "We couldn't add that to your cart. Please try again."
	case "update":
		return "We couldn't update the quantity. Please try again."
	case "remove":
		return "We couldn't remove that item. Please try again."
	case "clear":
		return "We couldn't empty your cart. Please try again."
	default:
		return "Something went wrong with your cart. Please try again."
	}
}
