package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/voicecart/cart-service/models"
	"github.com/voicecart/cart-service/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ---- mock cart repository ----

// mockCartRepo holds at most one cart in memory and applies UpdateContents
// the way the store would, so totals assertions run against "persisted"
// state.
type mockCartRepo struct {
	cart *models.Cart

	findErr   error
	createErr error
	updateErr error
	watchErr  error

	findCalls   int
	createCalls int
	updateCalls int

	watchOnChange func(*models.Cart)
	watchStopped  bool
}

func (m *mockCartRepo) FindByUserID(_ context.Context, userID string) (*models.Cart, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.cart == nil || m.cart.UserID != userID {
		return nil, nil
	}
	return m.cart, nil
}

func (m *mockCartRepo) Create(_ context.Context, cart *models.Cart) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	cart.ID = primitive.NewObjectID()
	cart.CreatedAt = time.Now().UTC()
	cart.UpdatedAt = cart.CreatedAt
	m.cart = cart
	return nil
}

func (m *mockCartRepo) UpdateContents(_ context.Context, cartID primitive.ObjectID, items []models.CartItem, totalItems int, totalPrice float64) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.cart.Items = items
	m.cart.TotalItems = totalItems
	m.cart.TotalPrice = totalPrice
	m.cart.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockCartRepo) Watch(_ context.Context, _ string, onChange func(*models.Cart)) (func(), error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	m.watchOnChange = onChange
	return func() { m.watchStopped = true }, nil
}

func product(id string, price float64) models.Product {
	return models.Product{
		ID:      id,
		Title:   "Product " + id,
		Price:   price,
		Brand:   "Acme",
		InStock: true,
		Tags:    []string{"test"},
	}
}

func newCartService(repo *mockCartRepo) services.CartService {
	return services.NewCartService(repo, zap.NewNop())
}

// ---- tests ----

func TestAddItemCreatesCartLazily(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)

	err := svc.AddItem(context.Background(), "user-1", product("p1", 19.99), 1, "")

	assert.NoError(t, err)
	assert.Equal(t, 1, repo.createCalls)
	assert.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 1, repo.cart.TotalItems)
	assert.InDelta(t, 19.99, repo.cart.TotalPrice, 1e-9)
}

func TestAddItemMergesSameProductAndVariant(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 1, "red"))
	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 2, "red"))

	assert.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 3, repo.cart.Items[0].Quantity)
	assert.Equal(t, 3, repo.cart.TotalItems)
	assert.InDelta(t, 30, repo.cart.TotalPrice, 1e-9)
}

func TestAddItemKeepsOriginalSnapshotOnMerge(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 1, ""))

	// price changed in the catalog between adds; the line keeps the old
	// snapshot and totals use the old price
	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 15), 1, ""))

	assert.Len(t, repo.cart.Items, 1)
	assert.InDelta(t, 10, repo.cart.Items[0].Product.Price, 1e-9)
	assert.InDelta(t, 20, repo.cart.TotalPrice, 1e-9)
}

func TestAddItemDistinctVariantsAreSeparateLines(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 1, "red"))
	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 1, "blue"))
	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 1, ""))

	assert.Len(t, repo.cart.Items, 3)
	assert.Equal(t, 3, repo.cart.TotalItems)
	assert.NotEqual(t, repo.cart.Items[0].ID, repo.cart.Items[1].ID)
}

func TestTotalsAlwaysMatchItemList(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 5.50), 2, ""))
	assert.Equal(t, 2, repo.cart.TotalItems)
	assert.InDelta(t, 11.0, repo.cart.TotalPrice, 1e-9)

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p2", 3.25), 4, ""))
	assert.Equal(t, 6, repo.cart.TotalItems)
	assert.InDelta(t, 24.0, repo.cart.TotalPrice, 1e-9)

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p3", 100), 1, ""))
	assert.Equal(t, 7, repo.cart.TotalItems)
	assert.InDelta(t, 124.0, repo.cart.TotalPrice, 1e-9)
}

func TestUpdateItemQuantityZeroRemovesItem(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 2, ""))
	itemID := repo.cart.Items[0].ID

	assert.NoError(t, svc.UpdateItemQuantity(ctx, "user-1", itemID, 0))

	assert.Empty(t, repo.cart.Items)
	assert.Equal(t, 0, repo.cart.TotalItems)
	assert.Zero(t, repo.cart.TotalPrice)
}

func TestRemoveItemEqualsQuantityZero(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 2, ""))
	itemID := repo.cart.Items[0].ID

	assert.NoError(t, svc.RemoveItem(ctx, "user-1", itemID))

	assert.Empty(t, repo.cart.Items)
	assert.Equal(t, 0, repo.cart.TotalItems)
}

func TestUpdateItemQuantitySetsAbsoluteValue(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 3, ""))
	itemID := repo.cart.Items[0].ID

	assert.NoError(t, svc.UpdateItemQuantity(ctx, "user-1", itemID, 1))

	assert.Equal(t, 1, repo.cart.Items[0].Quantity)
	assert.Equal(t, 1, repo.cart.TotalItems)
	assert.InDelta(t, 10, repo.cart.TotalPrice, 1e-9)
}

func TestUpdateItemQuantityUnknownItemIsNoOp(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 2, ""))
	writesBefore := repo.updateCalls
	itemsBefore := len(repo.cart.Items)

	assert.NoError(t, svc.UpdateItemQuantity(ctx, "user-1", "no-such-item", 5))

	assert.Equal(t, writesBefore, repo.updateCalls)
	assert.Len(t, repo.cart.Items, itemsBefore)
	assert.Equal(t, 2, repo.cart.TotalItems)
}

func TestUpdateItemQuantityMissingCartIsNoOp(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)

	err := svc.UpdateItemQuantity(context.Background(), "user-1", "item-1", 2)

	assert.NoError(t, err)
	assert.Equal(t, 0, repo.createCalls)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestClearCart(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	assert.NoError(t, svc.AddItem(ctx, "user-1", product("p1", 10), 2, ""))
	assert.NoError(t, svc.ClearCart(ctx, "user-1"))

	assert.Empty(t, repo.cart.Items)
	assert.Equal(t, 0, repo.cart.TotalItems)
	assert.Zero(t, repo.cart.TotalPrice)
}

func TestClearCartMissingCartIsNoOp(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)

	assert.NoError(t, svc.ClearCart(context.Background(), "user-1"))
	assert.Equal(t, 0, repo.updateCalls)
}

// Full lifecycle: add, merge, set, remove.
func TestCartLifecycle(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)
	ctx := context.Background()

	p1 := product("p1", 25)

	assert.NoError(t, svc.AddItem(ctx, "user-1", p1, 1, ""))
	assert.Equal(t, 1, repo.cart.TotalItems)
	assert.InDelta(t, 25, repo.cart.TotalPrice, 1e-9)

	assert.NoError(t, svc.AddItem(ctx, "user-1", p1, 2, ""))
	assert.Len(t, repo.cart.Items, 1)
	assert.Equal(t, 3, repo.cart.Items[0].Quantity)
	assert.Equal(t, 3, repo.cart.TotalItems)
	assert.InDelta(t, 75, repo.cart.TotalPrice, 1e-9)

	itemID := repo.cart.Items[0].ID
	assert.NoError(t, svc.UpdateItemQuantity(ctx, "user-1", itemID, 1))
	assert.Equal(t, 1, repo.cart.Items[0].Quantity)
	assert.Equal(t, 1, repo.cart.TotalItems)

	assert.NoError(t, svc.RemoveItem(ctx, "user-1", itemID))
	assert.Empty(t, repo.cart.Items)
	assert.Equal(t, 0, repo.cart.TotalItems)
	assert.Zero(t, repo.cart.TotalPrice)
}

func TestGetCartStoreUnavailable(t *testing.T) {
	repo := &mockCartRepo{findErr: errors.New("connection refused")}
	svc := newCartService(repo)

	_, err := svc.GetCart(context.Background(), "user-1")

	assert.Error(t, err)
	assert.ErrorIs(t, err, services.ErrStoreUnavailable)
}

func TestAddItemWriteFailurePropagates(t *testing.T) {
	repo := &mockCartRepo{updateErr: errors.New("network timeout")}
	svc := newCartService(repo)

	err := svc.AddItem(context.Background(), "user-1", product("p1", 10), 1, "")

	assert.ErrorIs(t, err, services.ErrStoreUnavailable)
}

func TestSubscribeDelegatesToWatch(t *testing.T) {
	repo := &mockCartRepo{}
	svc := newCartService(repo)

	var got *models.Cart
	stop, err := svc.Subscribe(context.Background(), "user-1", func(c *models.Cart) { got = c })

	assert.NoError(t, err)
	assert.NotNil(t, stop)

	repo.watchOnChange(&models.Cart{UserID: "user-1", TotalItems: 2})
	assert.Equal(t, 2, got.TotalItems)

	stop()
	assert.True(t, repo.watchStopped)
}
