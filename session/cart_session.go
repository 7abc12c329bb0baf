// Package session presents cart state and mutations to a single client,
// the way the mobile app's cart context does: it enforces the
// authentication precondition, mirrors the live cart pushed by the store
// subscription, and answers derived reads from that mirror without touching
// the network.
package session

import (
	"context"
	"sync"

	"github.com/voicecart/cart-service/models"
	"github.com/voicecart/cart-service/services"
	"go.uber.org/zap"
)

type CartSession struct {
	userID string
	carts  services.CartService
	orders services.OrderService
	logger *zap.Logger

	mu          sync.RWMutex
	cart        *models.Cart
	loaded      bool
	unsubscribe func()
}

// New creates a session for the given identity. An empty userID is a valid
// unauthenticated session: derived reads answer zero and every mutation
// fails with ErrAuthenticationRequired before any store access.
//
// Authenticated sessions immediately subscribe to the user's cart; the
// local mirror fills in asynchronously once the first snapshot arrives.
func New(ctx context.Context, userID string, carts services.CartService, orders services.OrderService, logger *zap.Logger) (*CartSession, error) {
	s := &CartSession{
		userID: userID,
		carts:  carts,
		orders: orders,
		logger: logger,
	}

	if userID != "" {
		stop, err := carts.Subscribe(ctx, userID, s.onCartChange)
		if err != nil {
			return nil, err
		}
		s.unsubscribe = stop
	}
	return s, nil
}

func (s *CartSession) onCartChange(cart *models.Cart) {
	s.mu.Lock()
	s.cart = cart
	s.loaded = true
	s.mu.Unlock()
}

// Close stops the cart subscription. Safe to call on an unauthenticated
// session.
func (s *CartSession) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *CartSession) requireAuth() error {
	if s.userID == "" {
		return services.ErrAuthenticationRequired
	}
	return nil
}

func (s *CartSession) AddToCart(ctx context.Context, product models.Product, quantity int, selectedVariant string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	// the aggregate does not validate quantity; clamping is this layer's job
	if quantity < 1 {
		quantity = 1
	}
	return s.carts.AddItem(ctx, s.userID, product, quantity, selectedVariant)
}

func (s *CartSession) UpdateCartItemQuantity(ctx context.Context, itemID string, quantity int) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.carts.UpdateItemQuantity(ctx, s.userID, itemID, quantity)
}

func (s *CartSession) RemoveFromCart(ctx context.Context, itemID string) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.carts.RemoveItem(ctx, s.userID, itemID)
}

func (s *CartSession) ClearCart(ctx context.Context) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return s.carts.ClearCart(ctx, s.userID)
}

// Checkout materializes the current cart into an order.
func (s *CartSession) Checkout(ctx context.Context, req services.CheckoutRequest) (*models.Order, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	return s.orders.CreateOrder(ctx, s.userID, req)
}

// Loaded reports whether the initial cart snapshot has arrived. The mobile
// UI keeps a spinner up until then.
func (s *CartSession) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Cart returns the last cart pushed by the subscription, nil before the
// first snapshot or when the user has no cart.
func (s *CartSession) Cart() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart
}

// ItemCount is a pure read of the mirrored cart's total item count. It never
// triggers a store call and answers 0 when no cart exists yet.
func (s *CartSession) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.TotalItems
}

// CartTotal is a pure read of the mirrored cart's total price, 0 when no
// cart exists yet.
func (s *CartSession) CartTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.TotalPrice
}
