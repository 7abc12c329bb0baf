package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type AddressType string

const (
	AddressTypeHome  AddressType = "home"
	AddressTypeWork  AddressType = "work"
	AddressTypeOther AddressType = "other"
)

type Address struct {
	ID        string      `json:"id" bson:"id"`
	Type      AddressType `json:"type" bson:"type"`
	Street    string      `json:"street" bson:"street" binding:"required"`
	City      string      `json:"city" bson:"city" binding:"required"`
	State     string      `json:"state" bson:"state"`
	ZipCode   string      `json:"zip_code" bson:"zip_code" binding:"required"`
	Country   string      `json:"country" bson:"country" binding:"required"`
	IsDefault bool        `json:"is_default" bson:"is_default"`
}

// Order is an immutable snapshot of a cart taken at checkout. Items are deep
// copies; mutating the (now empty) cart afterwards never touches them.
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber     string             `json:"order_number" bson:"order_number"`
	UserID          string             `json:"user_id" bson:"user_id"`
	Items           []CartItem         `json:"items" bson:"items"`
	TotalAmount     float64            `json:"total_amount" bson:"total_amount"`
	Status          OrderStatus        `json:"status" bson:"status"`
	ShippingAddress Address            `json:"shipping_address" bson:"shipping_address"`
	BillingAddress  *Address           `json:"billing_address,omitempty" bson:"billing_address,omitempty"`
	PaymentMethod   string             `json:"payment_method" bson:"payment_method"`
	TrackingNumber  string             `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
