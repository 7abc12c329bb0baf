package repository

import (
	"context"
	"sync"
	"time"

	"github.com/voicecart/cart-service/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository is the persistence boundary for cart documents. A user has
// at most one cart; every lookup goes through the user id.
//
// UpdateContents rewrites the whole item list and both totals in a single
// write with no version check. Concurrent writers race last-writer-wins;
// a lost update loses the whole earlier item list, it is not merged. That is
// the accepted model for a single-user mobile cart.
type CartRepository interface {
	// FindByUserID returns (nil, nil) when the user has no cart.
	FindByUserID(ctx context.Context, userID string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	UpdateContents(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem, totalItems int, totalPrice float64) error
	// Watch pushes the user's full current cart (nil when absent) on every
	// change, starting with an immediate initial snapshot. The returned stop
	// function is deterministic: once it returns, onChange never fires again.
	Watch(ctx context.Context, userID string, onChange func(*models.Cart)) (func(), error)
}

type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

func (r *MongoCartRepository) FindByUserID(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *MongoCartRepository) Create(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.CreatedAt = now
	cart.UpdatedAt = now

	res, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		return err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoCartRepository) UpdateContents(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem, totalItems int, totalPrice float64) error {
	update := bson.M{
		"$set": bson.M{
			"items":       items,
			"total_items": totalItems,
			"total_price": totalPrice,
		},
		// server-assigned timestamp, matching created_at/updated_at handling
		// everywhere else in the store
		"$currentDate": bson.M{"updated_at": true},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": cartID}, update)
	return err
}

// Watch opens a change stream filtered to the user's cart document. Each
// event triggers a fresh read of the full cart, so subscribers always see a
// complete snapshot rather than a delta. Carts are never deleted, only
// emptied, so update events are sufficient.
func (r *MongoCartRepository) Watch(ctx context.Context, userID string, onChange func(*models.Cart)) (func(), error) {
	streamCtx, cancel := context.WithCancel(ctx)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "fullDocument.user_id", Value: userID},
		}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	stream, err := r.collection.Watch(streamCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	var mu sync.Mutex
	stopped := false

	notify := func() {
		cart, err := r.FindByUserID(streamCtx, userID)
		if err != nil {
			// transient read failure drops this notification; the next
			// change re-reads the full document
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		onChange(cart)
	}

	go func() {
		defer stream.Close(context.Background())
		notify()
		for stream.Next(streamCtx) {
			notify()
		}
	}()

	stop := func() {
		mu.Lock()
		stopped = true
		mu.Unlock()
		cancel()
	}
	return stop, nil
}
