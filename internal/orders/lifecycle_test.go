package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/01moynul/mayaj-store/internal/models"
)

func newOrder() *models.Order {
	return &models.Order{
		OrderNumber:   "ORD202501011200123",
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
	}
}

func TestSetStatus(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		ok       bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderConfirmed, models.OrderShipped, true},
		{models.OrderConfirmed, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderShipped, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderPending, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			o := newOrder()
			o.Status = tt.from
			err := SetStatus(o, tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, o.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, o.Status)
			}
		})
	}
}

func TestCancel(t *testing.T) {
	o := newOrder()
	require.True(t, o.CanBeCancelled())
	require.NoError(t, Cancel(o))
	assert.Equal(t, models.OrderCancelled, o.Status)
	assert.False(t, o.CanBeCancelled())

	o = newOrder()
	o.Status = models.OrderShipped
	assert.ErrorIs(t, Cancel(o), ErrInvalidTransition)
}

func TestMarkAsPaid_Idempotent(t *testing.T) {
	o := newOrder()
	first := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, MarkAsPaid(o, first, "TX1", "01700000000"))
	assert.Equal(t, models.PaymentPaid, o.PaymentStatus)
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, first, *o.PaidAt)
	assert.Equal(t, "TX1", *o.TransactionID)
	assert.Equal(t, "01700000000", *o.SenderMobileNumber)

	require.NoError(t, MarkAsPaid(o, first.Add(time.Hour), "", ""))
	assert.Equal(t, first, *o.PaidAt)
	assert.Equal(t, "TX1", *o.TransactionID)
}

func TestMarkAsPaid_Refunded(t *testing.T) {
	o := newOrder()
	o.PaymentStatus = models.PaymentRefunded
	assert.ErrorIs(t, MarkAsPaid(o, time.Now(), "", ""), ErrInvalidTransition)
	assert.Nil(t, o.PaidAt)
}

func TestSetPaymentStatus(t *testing.T) {
	now := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)
	o := newOrder()

	require.NoError(t, SetPaymentStatus(o, models.PaymentFailed, now))
	assert.Nil(t, o.PaidAt)

	require.NoError(t, SetPaymentStatus(o, models.PaymentPaid, now))
	require.NotNil(t, o.PaidAt)
	assert.Equal(t, now, *o.PaidAt)

	require.NoError(t, SetPaymentStatus(o, models.PaymentRefunded, now.Add(time.Hour)))
	assert.Equal(t, now, *o.PaidAt)

	assert.ErrorIs(t, SetPaymentStatus(o, models.PaymentPending, now), ErrInvalidTransition)
}
