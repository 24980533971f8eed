package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus is tracked independently of OrderStatus.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentBkash          PaymentMethod = "bkash"
	PaymentNagad          PaymentMethod = "nagad"
	PaymentRocket         PaymentMethod = "rocket"
)

// Valid reports whether m is one of the accepted payment rails.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentBkash, PaymentNagad, PaymentRocket:
		return true
	}
	return false
}

// Order is the model for the 'orders' table
type Order struct {
	ID            int64         `json:"id" db:"id"`
	OrderNumber   string        `json:"orderNumber" db:"order_number"`
	UserID        *int64        `json:"userId,omitempty" db:"user_id"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentMethod PaymentMethod `json:"paymentMethod" db:"payment_method"`

	// --- Money (stored, never recomputed on read) ---
	Subtotal     decimal.Decimal `json:"subtotal" db:"subtotal"`
	Discount     decimal.Decimal `json:"discount" db:"discount"`
	Tax          decimal.Decimal `json:"tax" db:"tax"`
	ShippingCost decimal.Decimal `json:"shippingCost" db:"shipping_cost"`
	Total        decimal.Decimal `json:"total" db:"total"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	PaidAt    *time.Time `json:"paidAt,omitempty" db:"paid_at"`

	// --- Shipping snapshot ---
	ShippingFullName string  `json:"shippingFullName" db:"shipping_full_name"`
	ShippingEmail    string  `json:"shippingEmail" db:"shipping_email"`
	ShippingPhone    string  `json:"shippingPhone" db:"shipping_phone"`
	ShippingAddress  string  `json:"shippingAddress" db:"shipping_address"`
	ShippingCity     string  `json:"shippingCity" db:"shipping_city"`
	ShippingState    *string `json:"shippingState,omitempty" db:"shipping_state"`
	ShippingZipCode  *string `json:"shippingZipCode,omitempty" db:"shipping_zip_code"`

	// --- Manual payment references ---
	TransactionID      *string `json:"transactionId,omitempty" db:"transaction_id"`
	SenderMobileNumber *string `json:"senderMobileNumber,omitempty" db:"sender_mobile_number"`

	Notes           *string `json:"notes,omitempty" db:"notes"`
	AdminNotes      *string `json:"adminNotes,omitempty" db:"admin_notes"`
	TrackingNumber  *string `json:"trackingNumber,omitempty" db:"tracking_number"`
	ShippingCarrier *string `json:"shippingCarrier,omitempty" db:"shipping_carrier"`

	Items []OrderItem `json:"items,omitempty" db:"-"`
}

// CanBeCancelled is true only before the order ships.
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

// IsOwnedBy reports whether the order belongs to the given user.
func (o *Order) IsOwnedBy(userID int64) bool {
	return o.UserID != nil && *o.UserID == userID
}

// OrderItem is the model for the 'order_items' table.
// Name, size and price are copied from the cart at checkout.
type OrderItem struct {
	ID          int64           `json:"id" db:"id"`
	OrderID     int64           `json:"orderId" db:"order_id"`
	ProductID   int64           `json:"productId" db:"product_id"`
	ProductName string          `json:"productName" db:"product_name"`
	Size        *string         `json:"size,omitempty" db:"size"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"` // Price at the time of purchase
}

func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
