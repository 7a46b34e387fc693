package model

import (
	"fmt"
	"strings"
	"time"

	"freshcart-backend/internal/domain"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "Card"
	PaymentMethodCash PaymentMethod = "Cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCard || m == PaymentMethodCash
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

type ShippingStatus string

const (
	ShippingStatusPending        ShippingStatus = "Pending"
	ShippingStatusProcessing     ShippingStatus = "Processing"
	ShippingStatusOutForDelivery ShippingStatus = "Out-for-Delivery"
	ShippingStatusDelivered      ShippingStatus = "Delivered"
	ShippingStatusCancelled      ShippingStatus = "Cancelled"
)

func (s ShippingStatus) Valid() bool {
	switch s {
	case ShippingStatusPending, ShippingStatusProcessing, ShippingStatusOutForDelivery,
		ShippingStatusDelivered, ShippingStatusCancelled:
		return true
	}
	return false
}

// Terminal shipping states admit no further transitions.
func (s ShippingStatus) Terminal() bool {
	return s == ShippingStatusDelivered || s == ShippingStatusCancelled
}

// OrderItem is one line of an order. UnitPrice is in major currency units.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// Order is the persisted order record. Subtotal and total payable are never
// stored; they are recomputed from Items, DeliveryFee and Discount.
type Order struct {
	ID              string
	Code            string // e.g. #ORD-2026000042
	UserID          string
	Items           []OrderItem
	DeliveryFee     int64
	Discount        int // percent, 0..100
	Email           string
	NameOnCard      string
	ShippingAddress string
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	ShippingStatus  ShippingStatus
	// PaymentReference is the provider session reference for Card orders,
	// recorded when the session is opened. Empty for Cash.
	PaymentReference string
	CreatedAt        time.Time
}

// NewOrder validates input and constructs an order. Cash orders are paid at
// creation; Card orders start Pending and only the webhook path completes them.
func NewOrder(id, code, userID, email string, items []OrderItem, method PaymentMethod, deliveryFee int64, discount int, shippingAddress, nameOnCard string) (*Order, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if userID == "" || strings.TrimSpace(email) == "" || code == "" {
		return nil, domain.ErrInvalidArgument
	}
	if len(items) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	for _, it := range items {
		if it.ProductID == "" || it.Quantity < 1 || it.UnitPrice < 0 {
			return nil, domain.ErrInvalidArgument
		}
	}
	if !method.Valid() {
		return nil, domain.ErrInvalidArgument
	}
	if deliveryFee < 0 || discount < 0 || discount > 100 {
		return nil, domain.ErrInvalidArgument
	}

	payStatus := PaymentStatusPending
	if method == PaymentMethodCash {
		payStatus = PaymentStatusCompleted
	}
	return &Order{
		ID:              id,
		Code:            code,
		UserID:          userID,
		Items:           items,
		DeliveryFee:     deliveryFee,
		Discount:        discount,
		Email:           strings.TrimSpace(email),
		NameOnCard:      nameOnCard,
		ShippingAddress: shippingAddress,
		PaymentMethod:   method,
		PaymentStatus:   payStatus,
		ShippingStatus:  ShippingStatusPending,
		CreatedAt:       time.Now(),
	}, nil
}

// Subtotal is the sum of price x quantity over all items.
func (o *Order) Subtotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	return sum
}

// TotalPayable = subtotal + deliveryFee - subtotal*discount/100.
func (o *Order) TotalPayable() int64 {
	sub := o.Subtotal()
	return sub + o.DeliveryFee - sub*int64(o.Discount)/100
}

// FormatOrderCode renders the human-readable sequential code for an order.
func FormatOrderCode(year int, seq int64) string {
	return fmt.Sprintf("#ORD-%d%06d", year, seq)
}
