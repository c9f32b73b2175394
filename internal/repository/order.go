package repository

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/entity"

	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db}
}

// CreateOrder inserts a new accepted order together with its item
// snapshots in one transaction and returns the order id.
func (r *OrderRepository) CreateOrder(ctx context.Context, profileID int, totalCost decimal.Decimal, items []entity.OrderItem) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	profile := sql.NullInt64{Int64: int64(profileID), Valid: profileID != 0}
	orderQuery := `INSERT INTO orders (profile_id, total_cost, status) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, profile, totalCost, entity.OrderStatusAccepted.String())
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if len(items) > 0 {
		// Insert order items with batch
		itemQuery := `INSERT INTO order_items (order_id, product_id, title, price, quantity) VALUES `

		var values []interface{}
		for _, item := range items {
			itemQuery += "(?, ?, ?, ?, ?),"
			values = append(values, orderID, item.ProductID, item.Title, item.Price, item.Quantity)
		}
		itemQuery = itemQuery[:len(itemQuery)-1]

		_, err = tx.ExecContext(ctx, itemQuery, values...)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return int(orderID), nil
}

// GetOrderByID loads an order with its item snapshots and, when the
// order belongs to a profile, the owner's contact fields.
func (r *OrderRepository) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	orderQuery := `
		SELECT o.id, COALESCE(o.profile_id, 0), o.created_at, o.delivery_type,
		       o.payment_type, o.total_cost, o.status, o.city, o.address,
		       COALESCE(u.full_name, ''), COALESCE(u.email, ''), COALESCE(u.phone, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.profile_id
		WHERE o.id = ?`
	itemQuery := `SELECT product_id, title, price, quantity FROM order_items WHERE order_id = ? ORDER BY id`

	order := &entity.Order{}
	var status string
	err := r.db.QueryRowContext(ctx, orderQuery, id).Scan(
		&order.ID, &order.ProfileID, &order.CreatedAt, &order.DeliveryType,
		&order.PaymentType, &order.TotalCost, &status, &order.City, &order.Address,
		&order.FullName, &order.Email, &order.Phone,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	order.Status = entity.OrderStatus(status)

	rows, err := r.db.QueryContext(ctx, itemQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item := entity.OrderItem{}
		if err := rows.Scan(&item.ProductID, &item.Title, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return order, rows.Err()
}

// GetOrdersByProfile returns all orders of one profile, newest first.
func (r *OrderRepository) GetOrdersByProfile(ctx context.Context, profileID int) ([]entity.Order, error) {
	query := `SELECT id FROM orders WHERE profile_id = ? ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]entity.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.GetOrderByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

// ConfirmOrder writes the delivery metadata and advances the status to
// confirmed. The status guard runs inside the UPDATE itself so a
// concurrent payment cannot interleave between check and write; false
// means the order was paid meanwhile.
func (r *OrderRepository) ConfirmOrder(ctx context.Context, order *entity.Order) (bool, error) {
	query := `
		UPDATE orders
		SET delivery_type = ?, payment_type = ?, total_cost = ?, city = ?, address = ?, status = ?
		WHERE id = ? AND status <> ?`
	res, err := r.db.ExecContext(ctx, query,
		order.DeliveryType, order.PaymentType, order.TotalCost, order.City, order.Address,
		entity.OrderStatusConfirmed.String(), order.ID, entity.OrderStatusPaid.String(),
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected > 0 {
		return true, nil
	}

	// The mysql driver reports rows changed, not rows matched, so a
	// re-submitted confirmation identical to the stored row also comes
	// back as zero. Re-read the status to tell it apart from a paid
	// order.
	var status string
	err = r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, order.ID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	return status != entity.OrderStatusPaid.String(), nil
}

// CreatePayment records the payment and advances the order to paid in
// one transaction. The compare-and-swap on status guarantees at most
// one payment ever wins; false means the order was already paid.
func (r *OrderRepository) CreatePayment(ctx context.Context, payment *entity.Payment) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	statusQuery := `UPDATE orders SET status = ? WHERE id = ? AND status <> ?`
	res, err := tx.ExecContext(ctx, statusQuery,
		entity.OrderStatusPaid.String(), payment.OrderID, entity.OrderStatusPaid.String())
	if err != nil {
		tx.Rollback()
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, err
	}
	if affected == 0 {
		tx.Rollback()
		return false, nil
	}

	paymentQuery := `INSERT INTO payments (order_id, number, name, year, month, code) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, paymentQuery,
		payment.OrderID, payment.Number, payment.Name, payment.Year, payment.Month, payment.Code)
	if err != nil {
		tx.Rollback()
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
