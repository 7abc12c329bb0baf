package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/voicecart/cart-service/aws"
	"github.com/voicecart/cart-service/kafka"
	"github.com/voicecart/cart-service/models"
	"github.com/voicecart/cart-service/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const checkoutEventName = "checkout.requested"

// CheckoutRequest carries everything needed to materialize an order from the
// user's cart.
type CheckoutRequest struct {
	ShippingAddress models.Address
	BillingAddress  *models.Address
	PaymentMethod   string
	// IdempotencyKey is optional. A repeated key within the TTL returns the
	// order it originally produced instead of creating another one.
	IdempotencyKey string
}

// OrderService materializes orders out of carts.
type OrderService interface {
	// CreateOrder snapshots the user's non-empty cart into a pending order,
	// persists it, then clears the cart. The snapshot is a deep copy; later
	// cart mutations never touch the order.
	//
	// The order insert and the cart clear are two sequential writes, not a
	// transaction. A crash in between leaves the order in place with a
	// non-empty cart; the idempotency key bounds duplicates on retry.
	CreateOrder(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error)
	// GetUserOrders returns the user's orders newest first, an empty slice
	// when there are none.
	GetUserOrders(ctx context.Context, userID string) ([]models.Order, error)
}

type orderServiceImpl struct {
	orders         repository.OrderRepository
	carts          CartService
	idempotency    repository.IdempotencyStore
	idempotencyTTL time.Duration
	producer       kafka.ProducerAPI
	snsClient      aws.SNSPublisher
	snsTopicArn    string
	logger         *zap.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	carts CartService,
	idempotency repository.IdempotencyStore,
	idempotencyTTL time.Duration,
	producer kafka.ProducerAPI,
	snsClient aws.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orders:         orders,
		carts:          carts,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		producer:       producer,
		snsClient:      snsClient,
		snsTopicArn:    snsTopicArn,
		logger:         logger,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID string, req CheckoutRequest) (*models.Order, error) {
	if existing, err := s.replayedOrder(ctx, req.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, item.Clone())
	}

	order := &models.Order{
		OrderNumber:     uuid.NewString(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     cart.TotalPrice,
		Status:          models.OrderStatusPending,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, storeError("create order", err)
	}

	// second write: a failure here leaves the materialized order in place
	// and the cart uncleared
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return nil, err
	}

	if s.idempotency != nil && req.IdempotencyKey != "" {
		if err := s.idempotency.Set(ctx, req.IdempotencyKey, order.ID.Hex(), s.idempotencyTTL); err != nil {
			s.logger.Warn("idempotency key write failed", zap.String("order_id", order.ID.Hex()), zap.Error(err))
		}
	}

	s.publishCheckoutEvent(ctx, order)

	s.logger.Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Float64("total_amount", order.TotalAmount),
	)
	return order, nil
}

func (s *orderServiceImpl) GetUserOrders(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeError("get user orders", err)
	}
	return orders, nil
}

// replayedOrder returns the order a previously seen idempotency key created.
func (s *orderServiceImpl) replayedOrder(ctx context.Context, key string) (*models.Order, error) {
	if s.idempotency == nil || key == "" {
		return nil, nil
	}

	orderID, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, storeError("idempotency lookup", err)
	}
	if orderID == "" {
		return nil, nil
	}

	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, nil
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("idempotent order lookup", err)
	}
	s.logger.Info("checkout replayed from idempotency key", zap.String("order_id", orderID))
	return order, nil
}

// publishCheckoutEvent emits the event to Kafka and, when configured, to
// SNS. Both are best-effort: the order is already durable, so a broker
// outage must not fail the checkout.
func (s *orderServiceImpl) publishCheckoutEvent(ctx context.Context, order *models.Order) {
	event := models.CheckoutEvent{
		Event:       checkoutEventName,
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Items:       order.Items,
		TotalAmount: order.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("checkout event marshal failed", zap.Error(err))
		return
	}

	if s.producer != nil {
		if err := s.producer.Publish(ctx, []byte(order.UserID), payload); err != nil {
			s.logger.Warn("kafka checkout publish failed", zap.String("order_id", event.OrderID), zap.Error(err))
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Warn("sns checkout publish failed", zap.String("order_id", event.OrderID), zap.Error(err))
		}
	}
}
