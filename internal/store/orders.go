package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/01moynul/mayaj-store/internal/config"
	"github.com/01moynul/mayaj-store/internal/database"
	"github.com/01moynul/mayaj-store/internal/logger"
	"github.com/01moynul/mayaj-store/internal/models"
	"github.com/01moynul/mayaj-store/internal/orders"
)

// maxNumberAttempts bounds order number allocation retries on a unique index collision.
const maxNumberAttempts = 5

// OrderStore persists orders and their items.
type OrderStore struct {
	db          *sqlx.DB
	numbers     *orders.NumberGenerator
	stockPolicy string
	log         *logger.Logger
	now         func() time.Time
}

func NewOrderStore(db *sqlx.DB, stockPolicy string, log *logger.Logger) *OrderStore {
	return &OrderStore{
		db:          db,
		numbers:     orders.NewNumberGenerator(),
		stockPolicy: stockPolicy,
		log:         log.With("component", "order_store"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

const orderColumns = `id, order_number, user_id, status, payment_status, payment_method,
	subtotal, discount, tax, shipping_cost, total, created_at, updated_at, paid_at,
	shipping_full_name, shipping_email, shipping_phone, shipping_address, shipping_city,
	shipping_state, shipping_zip_code, transaction_id, sender_mobile_number, notes, admin_notes,
	tracking_number, shipping_carrier`

// CreateOrder writes the order and all of its items in one transaction, allocating a
// unique order number. With the "order" stock policy stock is decremented in the same
// transaction and any shortfall aborts the whole order.
func (s *OrderStore) CreateOrder(ctx context.Context, o *models.Order) error {
	now := s.now()
	o.CreatedAt, o.UpdatedAt = now, now
	if o.PaymentStatus == models.PaymentPaid && o.PaidAt == nil {
		o.PaidAt = &now
	}

	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		// 1. --- Insert the order row, retrying on number collisions ---
		var orderID int64
		for attempt := 1; ; attempt++ {
			o.OrderNumber = s.numbers.Next()
			res, err := tx.ExecContext(ctx, `
				INSERT INTO orders (order_number, user_id, status, payment_status, payment_method,
					subtotal, discount, tax, shipping_cost, total, created_at, updated_at, paid_at,
					shipping_full_name, shipping_email, shipping_phone, shipping_address, shipping_city,
					shipping_state, shipping_zip_code, transaction_id, sender_mobile_number, notes)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				o.OrderNumber, o.UserID, o.Status, o.PaymentStatus, o.PaymentMethod,
				o.Subtotal, o.Discount, o.Tax, o.ShippingCost, o.Total, now, now, o.PaidAt,
				o.ShippingFullName, o.ShippingEmail, o.ShippingPhone, o.ShippingAddress, o.ShippingCity,
				o.ShippingState, o.ShippingZipCode, o.TransactionID, o.SenderMobileNumber, o.Notes)
			if isDuplicate(err) && attempt < maxNumberAttempts {
				s.log.Warn("order number collision, retrying", "order_number", o.OrderNumber, "attempt", attempt)
				continue
			}
			if err != nil {
				return errors.Wrap(err, "insert order")
			}
			if orderID, err = res.LastInsertId(); err != nil {
				return errors.Wrap(err, "order id")
			}
			break
		}

		// 2. --- Snapshot the items ---
		for i := range o.Items {
			item := &o.Items[i]
			item.OrderID = orderID
			res, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, product_id, product_name, size, quantity, price)
				VALUES (?, ?, ?, ?, ?, ?)`,
				orderID, item.ProductID, item.ProductName, item.Size, item.Quantity, item.Price)
			if err != nil {
				return errors.Wrapf(err, "insert order item for product %d", item.ProductID)
			}
			if item.ID, err = res.LastInsertId(); err != nil {
				return errors.Wrap(err, "order item id")
			}
		}

		// 3. --- Stock ---
		if s.stockPolicy == config.StockPolicyOrder {
			if err := decrementStock(ctx, tx, o.Items); err != nil {
				return err
			}
		}

		o.ID = orderID
		return nil
	})
}

// decrementStock takes each item's quantity off its size row when it has a size and
// off the product otherwise. The update only matches when enough stock is left.
func decrementStock(ctx context.Context, tx *sqlx.Tx, items []models.OrderItem) error {
	for _, item := range items {
		var (
			res sql.Result
			err error
		)
		if item.Size != nil {
			res, err = tx.ExecContext(ctx, `
				UPDATE product_sizes SET stock_quantity = stock_quantity - ?
				WHERE product_id = ? AND size = ? AND stock_quantity >= ?`,
				item.Quantity, item.ProductID, *item.Size, item.Quantity)
		} else {
			res, err = tx.ExecContext(ctx, `
				UPDATE products SET stock_quantity = stock_quantity - ?
				WHERE id = ? AND stock_quantity >= ?`,
				item.Quantity, item.ProductID, item.Quantity)
		}
		if err != nil {
			return errors.Wrap(err, "decrement stock")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "decrement stock rows")
		}
		if n == 0 {
			return errors.Wrapf(ErrInsufficientStock, "%s", item.ProductName)
		}
	}
	return nil
}

// OrderByID loads an order with its items.
func (s *OrderStore) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.orderByID(ctx, s.db, id, false)
}

func (s *OrderStore) orderByID(ctx context.Context, q Querier, id int64, forUpdate bool) (*models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = ?"
	if forUpdate {
		query += " FOR UPDATE"
	}
	var o models.Order
	if err := q.GetContext(ctx, &o, query, id); err != nil {
		return nil, notFound(err, "order by id")
	}
	o.Items = []models.OrderItem{}
	err := q.SelectContext(ctx, &o.Items, `
		SELECT id, order_id, product_id, product_name, size, quantity, price
		FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, errors.Wrap(err, "order items")
	}
	return &o, nil
}

// OrderFilter narrows ListOrders. Zero values mean "any".
type OrderFilter struct {
	Status models.OrderStatus
	UserID *int64
	Limit  int
	Offset int
}

// ListOrders returns orders newest first, without items.
func (s *OrderStore) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE 1 = 1"
	var args []interface{}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if f.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *f.UserID)
	}
	query += " ORDER BY created_at DESC, id DESC"
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, f.Offset)

	list := []models.Order{}
	if err := s.db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return list, nil
}

// UpdateOrder locks the order row, lets fn mutate it and writes the mutable columns
// back. With the "payment" stock policy, entering paid decrements stock in the same
// transaction.
func (s *OrderStore) UpdateOrder(ctx context.Context, id int64, fn func(o *models.Order) error) (*models.Order, error) {
	var updated *models.Order
	err := database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		// 1. --- Lock ---
		o, err := s.orderByID(ctx, tx, id, true)
		if err != nil {
			return err
		}
		wasPaid := o.PaymentStatus == models.PaymentPaid

		// 2. --- Mutate ---
		if err := fn(o); err != nil {
			return err
		}

		// 3. --- Stock on payment ---
		if s.stockPolicy == config.StockPolicyPayment && !wasPaid && o.PaymentStatus == models.PaymentPaid {
			if err := decrementStock(ctx, tx, o.Items); err != nil {
				return err
			}
		}

		// 4. --- Write back ---
		o.UpdatedAt = s.now()
		_, err = tx.ExecContext(ctx, `
			UPDATE orders SET status = ?, payment_status = ?, paid_at = ?, transaction_id = ?,
				sender_mobile_number = ?, admin_notes = ?, tracking_number = ?, shipping_carrier = ?,
				updated_at = ?
			WHERE id = ?`,
			o.Status, o.PaymentStatus, o.PaidAt, o.TransactionID, o.SenderMobileNumber, o.AdminNotes,
			o.TrackingNumber, o.ShippingCarrier, o.UpdatedAt, o.ID)
		if err != nil {
			return errors.Wrap(err, "update order")
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("order updated",
		"order_id", updated.ID,
		"order_number", updated.OrderNumber,
		"status", updated.Status,
		"payment_status", updated.PaymentStatus,
	)
	return updated, nil
}
