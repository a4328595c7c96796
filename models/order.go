package models

import (
	"time"
)

// OrderStatus is the closed set of order lifecycle states. Transitions
// happen only through the table below; anything else is rejected.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusPacked         OrderStatus = "packed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Payment methods
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// Payment statuses. Payment is an independent axis from order status and
// is only ever moved by admin.
const (
	PaymentStatusPending             = "pending"
	PaymentStatusPendingVerification = "pending_verification"
	PaymentStatusPaid                = "paid"
	PaymentStatusFailed              = "failed"
	PaymentStatusRefunded            = "refunded"
)

// Actor roles recorded in the status history.
const (
	ActorCustomer      = "customer"
	ActorAdmin         = "admin"
	ActorDeliveryAgent = "delivery_agent"
)

// orderTransitions is the authoritative transition table. Terminal states
// have no outgoing edges.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing:     {OrderStatusPacked, OrderStatusCancelled},
	OrderStatusPacked:         {OrderStatusOutForDelivery, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered:      {},
	OrderStatusCancelled:      {},
}

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CustomerCanCancelFrom reports whether a customer may still cancel an
// order in the given status. Admin may cancel from any non-terminal state.
func CustomerCanCancelFrom(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing:
		return true
	}
	return false
}

type Order struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	OrderNumber     string  `gorm:"uniqueIndex" json:"order_number"`
	UserID          uint    `json:"user_id" gorm:"index"`
	User            User    `json:"user" gorm:"foreignKey:UserID"`
	AddressID       uint    `json:"address_id"`
	Address         Address `json:"address" gorm:"foreignKey:AddressID"`
	Subtotal        float64 `json:"subtotal"`
	DeliveryCharge  float64 `json:"delivery_charge"`
	CouponID        *uint   `json:"coupon_id"`
	CouponCode      string  `json:"coupon_code"`
	CouponDiscount  float64 `json:"coupon_discount"`
	PointsUsed      int     `json:"points_used"`
	PointsDiscount  float64 `json:"points_discount"`
	WalletApplied   float64 `json:"wallet_applied"`
	FinalTotal      float64 `json:"final_total"`
	PaymentMethod   string  `json:"payment_method"`
	PaymentStatus   string  `json:"payment_status"`
	Status          OrderStatus `json:"status" gorm:"index"`
	Note            string      `json:"note,omitempty"`
	CancelReason    string      `json:"cancel_reason,omitempty"`
	DeliveryAgentID *uint       `json:"delivery_agent_id" gorm:"index"`

	DeliveryAcceptedAt *time.Time `json:"delivery_accepted_at"`
	DeliveryStartedAt  *time.Time `json:"delivery_started_at"`
	DeliveredAt        *time.Time `json:"delivered_at"`

	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	OrderItems []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots a cart line at order time. Catalog price changes
// never alter historical orders.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `json:"order_id" gorm:"index"`
	ProductID   uint    `json:"product_id"`
	Product     Product `json:"product" gorm:"foreignKey:ProductID"`
	VariantID   *uint   `json:"variant_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Total       float64 `json:"total"`
}

// OrderStatusHistory is the system of record for the customer-visible
// timeline: one append-only row per applied transition. The order row's
// own status is a cache of the latest entry.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `json:"order_id" gorm:"index;not null"`
	Status    OrderStatus `json:"status"`
	ActorRole string      `json:"actor_role"`
	ActorID   uint        `json:"actor_id"`
	Note      string      `json:"note,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
