package orders

import (
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/mayaj-store/internal/models"
)

// ErrInvalidTransition is returned when a status change is not allowed from the current state.
var ErrInvalidTransition = errors.New("invalid status transition")

var fulfilmentTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:   {models.OrderDelivered},
}

var paymentTransitions = map[models.PaymentStatus][]models.PaymentStatus{
	models.PaymentPending: {models.PaymentPaid, models.PaymentFailed},
	models.PaymentFailed:  {models.PaymentPaid, models.PaymentPending},
	models.PaymentPaid:    {models.PaymentRefunded},
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// SetStatus moves the order along its fulfilment path.
func SetStatus(o *models.Order, to models.OrderStatus) error {
	if o.Status == to {
		return nil
	}
	if !allowed(fulfilmentTransitions, o.Status, to) {
		return fmt.Errorf("%w: status %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	return nil
}

// Cancel is SetStatus(cancelled) with the friendlier check.
func Cancel(o *models.Order) error {
	if !o.CanBeCancelled() {
		return fmt.Errorf("%w: order %s is %s", ErrInvalidTransition, o.OrderNumber, o.Status)
	}
	o.Status = models.OrderCancelled
	return nil
}

// SetPaymentStatus changes the payment sub-state. Entering paid stamps PaidAt once.
func SetPaymentStatus(o *models.Order, to models.PaymentStatus, now time.Time) error {
	if o.PaymentStatus == to {
		return nil
	}
	if !allowed(paymentTransitions, o.PaymentStatus, to) {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, o.PaymentStatus, to)
	}
	o.PaymentStatus = to
	if to == models.PaymentPaid && o.PaidAt == nil {
		t := now
		o.PaidAt = &t
	}
	return nil
}

// MarkAsPaid records a confirmed payment. Calling it on an already paid order only
// updates the references; PaidAt keeps its first value.
func MarkAsPaid(o *models.Order, now time.Time, transactionID, senderMobile string) error {
	if err := SetPaymentStatus(o, models.PaymentPaid, now); err != nil {
		return err
	}
	if transactionID != "" {
		o.TransactionID = &transactionID
	}
	if senderMobile != "" {
		o.SenderMobileNumber = &senderMobile
	}
	return nil
}
