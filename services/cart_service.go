package services

import (
	"context"
	"fmt"
	"time"

	"github.com/voicecart/cart-service/models"
	"github.com/voicecart/cart-service/repository"
	"go.uber.org/zap"
)

// CartService is the sole authority over a user's cart: it reads, mutates
// and persists the aggregate as a whole, and keeps the derived totals
// consistent with the item list on every write.
type CartService interface {
	// GetCart returns (nil, nil) when the user has no cart yet.
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	// CreateCart creates an empty cart for the user. Callers normally rely
	// on AddItem's lazy creation instead.
	CreateCart(ctx context.Context, userID string) (*models.Cart, error)
	// AddItem merges on (product id, selected variant): an existing line has
	// its quantity incremented and keeps its original product snapshot; a
	// new line embeds the given product verbatim. The caller is responsible
	// for quantity >= 1.
	AddItem(ctx context.Context, userID string, product models.Product, quantity int, selectedVariant string) error
	// UpdateItemQuantity sets an item's quantity absolutely. quantity <= 0
	// removes the item. A missing cart or item is a silent no-op.
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	ClearCart(ctx context.Context, userID string) error
	// Subscribe invokes onChange with the user's full cart (nil when absent)
	// on the initial snapshot and on every subsequent change. The returned
	// function stops the subscription; after it returns no further
	// callbacks fire.
	Subscribe(ctx context.Context, userID string, onChange func(*models.Cart)) (func(), error)
}

type cartServiceImpl struct {
	carts  repository.CartRepository
	logger *zap.Logger
}

func NewCartService(carts repository.CartRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, logger: logger}
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("get cart", err)
	}
	return cart, nil
}

func (s *cartServiceImpl) CreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	cart := &models.Cart{
		UserID:     userID,
		Items:      []models.CartItem{},
		TotalItems: 0,
		TotalPrice: 0,
	}
	if err := s.carts.Create(ctx, cart); err != nil {
		return nil, storeError("create cart", err)
	}
	s.logger.Info("cart created", zap.String("user_id", userID))
	return cart, nil
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, product models.Product, quantity int, selectedVariant string) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		cart, err = s.CreateCart(ctx, userID)
		if err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == product.ID && cart.Items[i].SelectedVariant == selectedVariant {
			// keep the original snapshot: price and stock data stay as they
			// were at first add
			cart.Items[i].Quantity += quantity
			cart.Items[i].UpdatedAt = now
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ID:              newCartItemID(product.ID, selectedVariant, now),
			ProductID:       product.ID,
			Product:         product,
			Quantity:        quantity,
			SelectedVariant: selectedVariant,
			AddedAt:         now,
			UpdatedAt:       now,
		})
	}

	return s.persist(ctx, "add item", cart)
}

func (s *cartServiceImpl) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
		cart.Items[idx].UpdatedAt = time.Now().UTC()
	}

	return s.persist(ctx, "update item quantity", cart)
}

func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID string) error {
	return s.UpdateItemQuantity(ctx, userID, itemID, 0)
}

func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) error {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}

	cart.Items = []models.CartItem{}
	return s.persist(ctx, "clear cart", cart)
}

func (s *cartServiceImpl) Subscribe(ctx context.Context, userID string, onChange func(*models.Cart)) (func(), error) {
	stop, err := s.carts.Watch(ctx, userID, onChange)
	if err != nil {
		return nil, storeError("subscribe", err)
	}
	return stop, nil
}

// persist recomputes both totals from the full item list and writes the list
// and totals in one update. Totals are never patched incrementally, so they
// cannot drift from the items.
func (s *cartServiceImpl) persist(ctx context.Context, op string, cart *models.Cart) error {
	totalItems, totalPrice := recomputeTotals(cart.Items)
	cart.TotalItems = totalItems
	cart.TotalPrice = totalPrice

	if err := s.carts.UpdateContents(ctx, cart.ID, cart.Items, totalItems, totalPrice); err != nil {
		s.logger.Error("cart write failed", zap.String("op", op), zap.String("user_id", cart.UserID), zap.Error(err))
		return storeError(op, err)
	}
	return nil
}

func recomputeTotals(items []models.CartItem) (int, float64) {
	totalItems := 0
	totalPrice := 0.0
	for _, item := range items {
		totalItems += item.Quantity
		totalPrice += item.Product.Price * float64(item.Quantity)
	}
	return totalItems, totalPrice
}

// newCartItemID builds an id unique within the cart from the product id, the
// variant and the add time.
func newCartItemID(productID, selectedVariant string, now time.Time) string {
	variant := selectedVariant
	if variant == "" {
		variant = "default"
	}
	return fmt.Sprintf("%s_%s_%d", productID, variant, now.UnixMilli())
}
