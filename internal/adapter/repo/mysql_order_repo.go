package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type MySQLOrderRepo struct{ db dbtx }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id, order_number, user_id, shipping_address_id, billing_address_id,
                    status, subtotal, discount, tax, total, notes, ordered_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		o.ID, o.OrderNumber, o.UserID, nullInt64(o.ShippingAddressID), nullInt64(o.BillingAddressID),
		string(o.Status), o.Subtotal, o.Discount, o.Tax, o.Total, o.Notes, o.OrderedAt)
	if err != nil {
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		res, err := r.db.ExecContext(ctx, `
INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity, subtotal)
VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, it.ProductID, it.ProductName, it.ProductPrice, it.Quantity, it.Subtotal)
		if err != nil {
			return err
		}
		if id, err := res.LastInsertId(); err == nil {
			it.ID = id
		}
	}
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, order_number, user_id, shipping_address_id, billing_address_id,
       status, subtotal, discount, tax, total, notes, ordered_at,
       confirmed_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at
FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) GetByIDAndUser(ctx context.Context, id string, userID int64) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, order_number, user_id, shipping_address_id, billing_address_id,
       status, subtotal, discount, tax, total, notes, ordered_at,
       confirmed_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at
FROM orders WHERE id = ? AND user_id = ?`, id, userID)

	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID int64, page, limit int) ([]domain.Order, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, `
SELECT id, order_number, user_id, shipping_address_id, billing_address_id,
       status, subtotal, discount, tax, total, notes, ordered_at,
       confirmed_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at
FROM orders WHERE user_id = ?
ORDER BY ordered_at DESC, id
LIMIT ? OFFSET ?`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// TransitionStatus is the one write path for status: the WHERE clause guards
// the legal source states and COALESCE keeps an already-set entry timestamp
// from being clobbered by a repeated transition.
func (r *MySQLOrderRepo) TransitionStatus(ctx context.Context, id string, from []domain.Status, to domain.Status) (bool, error) {
	set := "status = ?, updated_at = NOW()"
	if col := timestampColumn(to); col != "" {
		set += fmt.Sprintf(", %s = COALESCE(%s, NOW())", col, col)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := make([]any, 0, len(from)+2)
	args = append(args, string(to), id)
	for _, s := range from {
		args = append(args, string(s))
	}

	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`
UPDATE orders SET %s WHERE id = ? AND status IN (%s)`, set, placeholders), args...)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// timestampColumn maps a status to the column stamped on entry. Statuses
// without a column (pending, processing) stamp nothing.
func timestampColumn(s domain.Status) string {
	switch s {
	case domain.StatusConfirmed:
		return "confirmed_at"
	case domain.StatusShipped:
		return "shipped_at"
	case domain.StatusDelivered:
		return "delivered_at"
	case domain.StatusCancelled:
		return "cancelled_at"
	default:
		return ""
	}
}

func (r *MySQLOrderRepo) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, order_id, product_id, product_name, product_price, quantity, subtotal
FROM order_items WHERE order_id = ? ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var status string
	var shipAddr, billAddr sql.NullInt64
	var notes sql.NullString
	var confirmedAt, shippedAt, deliveredAt, cancelledAt sql.NullTime

	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &shipAddr, &billAddr,
		&status, &o.Subtotal, &o.Discount, &o.Tax, &o.Total, &notes, &o.OrderedAt,
		&confirmedAt, &shippedAt, &deliveredAt, &cancelledAt, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o.Status = domain.Status(status)
	o.Notes = notes.String
	if shipAddr.Valid {
		o.ShippingAddressID = &shipAddr.Int64
	}
	if billAddr.Valid {
		o.BillingAddressID = &billAddr.Int64
	}
	o.ConfirmedAt = nullTimePtr(confirmedAt)
	o.ShippedAt = nullTimePtr(shippedAt)
	o.DeliveredAt = nullTimePtr(deliveredAt)
	o.CancelledAt = nullTimePtr(cancelledAt)
	return &o, nil
}

func nullInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
