package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is one line of an order. Price is captured at purchase time
// so later catalog edits never change a placed order.
type OrderItem struct {
	Name    string             `bson:"name" json:"name"`
	Qty     int                `bson:"qty" json:"qty"`
	Image   string             `bson:"image" json:"image"`
	Price   float64            `bson:"price" json:"price"`
	Product primitive.ObjectID `bson:"product" json:"product"`
}

// ShippingInfo is the delivery address captured at checkout.
type ShippingInfo struct {
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult stores the payment provider's confirmation fields.
type PaymentResult struct {
	ID           string `bson:"id,omitempty" json:"id,omitempty"`
	Status       string `bson:"status,omitempty" json:"status,omitempty"`
	UpdateTime   string `bson:"update_time,omitempty" json:"update_time,omitempty"`
	EmailAddress string `bson:"email_address,omitempty" json:"email_address,omitempty"`
}

// OrderUser is the owner summary joined onto order reads.
type OrderUser struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
}

// Order is a cart turned purchase, owned by exactly one user. The three
// milestones (paid, processed, success) each flip false→true once with a
// timestamp and are never reverted; orders are never deleted.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID        primitive.ObjectID `bson:"user" json:"user"`
	OrderItems    []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingInfo  ShippingInfo       `bson:"shippingProcess" json:"shippingProcess"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult PaymentResult      `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemPrice     float64            `bson:"itemPrice" json:"itemPrice"`
	TaxPrice      float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	IsPaid        bool               `bson:"isPaid" json:"isPaid"`
	PaidAt        *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsProcess     bool               `bson:"isProcess" json:"isProcess"`
	ProcessAt     *time.Time         `bson:"processAt,omitempty" json:"processAt,omitempty"`
	StatusProcess bool               `bson:"statusProcess" json:"statusProcess"`
	SuccessAt     *time.Time         `bson:"successAt,omitempty" json:"successAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`

	// Owner is populated on joined reads only, never persisted.
	Owner *OrderUser `bson:"-" json:"owner,omitempty"`
}
