package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart. Product is a snapshot taken when the item
// was first added; later catalog changes do not flow into it.
type CartItem struct {
	ID              string    `json:"id" bson:"id"`
	ProductID       string    `json:"product_id" bson:"product_id"`
	Product         Product   `json:"product" bson:"product"`
	Quantity        int       `json:"quantity" bson:"quantity"`
	SelectedVariant string    `json:"selected_variant,omitempty" bson:"selected_variant,omitempty"`
	AddedAt         time.Time `json:"added_at" bson:"added_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// Clone returns a deep copy of the item.
func (i CartItem) Clone() CartItem {
	out := i
	out.Product = i.Product.Clone()
	return out
}

// Cart is the per-user aggregate. There is at most one cart document per
// user; lookups go through user_id, not _id. TotalItems and TotalPrice are
// derived from Items and rewritten on every mutation, never patched.
type Cart struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Items      []CartItem         `json:"items" bson:"items"`
	TotalItems int                `json:"total_items" bson:"total_items"`
	TotalPrice float64            `json:"total_price" bson:"total_price"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
