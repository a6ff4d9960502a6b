package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sergen67/4CodeApps/internal/cart"
	"github.com/sergen67/4CodeApps/internal/client"
)

// SaleSubmitter is the slice of the backend client the sequencer needs.
type SaleSubmitter interface {
	CreateSale(ctx context.Context, req client.SaleRequest) (*client.Sale, error)
}

// DefaultTimeout bounds a submission when the caller's context carries no
// deadline. The outcome of an expired attempt is ambiguous (see TransportError).
const DefaultTimeout = 20 * time.Second

// Sequencer turns the current cart into a submitted sale. One attempt runs at
// a time: Idle -> Submitting -> committed (cart cleared) or failed (cart kept
// for retry) -> Idle.
type Sequencer struct {
	cart    *cart.Cart
	api     SaleSubmitter
	session *client.Session
	timeout time.Duration

	mu       sync.Mutex
	inFlight bool
}

func NewSequencer(c *cart.Cart, api SaleSubmitter, session *client.Session) *Sequencer {
	return &Sequencer{
		cart:    c,
		api:     api,
		session: session,
		timeout: DefaultTimeout,
	}
}

// CompleteSale submits the cart's current total with the given payment type.
// The total is read from the cart at call time, never cached. On success the
// cart is cleared and the created sale returned; on any failure the cart is
// left exactly as it was so the user can retry.
//
// Submission is not idempotent: the backend has no idempotency key, so
// retrying after an ambiguous transport failure can record the sale twice.
func (s *Sequencer) CompleteSale(ctx context.Context, paymentType string) (*client.Sale, error) {
	user := s.session.User()
	if user == nil {
		return nil, ErrNotLoggedIn
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrCheckoutInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var created *client.Sale
	err := s.cart.Checkout(func(total float64) error {
		sale, err := s.api.CreateSale(ctx, client.SaleRequest{
			UserID:      user.ID,
			TotalPrice:  total,
			PaymentType: paymentType,
		})
		if err != nil {
			return classify(err)
		}
		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func classify(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return &RejectedError{Status: apiErr.StatusCode, Message: apiErr.Message}
	}

	var malformed *client.MalformedResponseError
	if errors.As(err, &malformed) {
		// The server answered something; the sale may well have been recorded.
		return &TransportError{Err: err, OutcomeUnknown: true}
	}

	// A timeout or cancellation can fire after the request reached the server.
	unknown := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	return &TransportError{Err: err, OutcomeUnknown: unknown}
}
