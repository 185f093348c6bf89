package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type MySQLCartRepo struct{ db dbtx }

func NewMySQLCartRepo(db *sql.DB) *MySQLCartRepo { return &MySQLCartRepo{db: db} }

// GetOrCreateByUser is idempotent: the LAST_INSERT_ID(id) trick makes the
// insert return the existing row's id when (user_id) already exists, so a
// race between two first requests still yields one cart.
func (r *MySQLCartRepo) GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO carts (user_id, created_at, updated_at)
VALUES (?, NOW(), NOW())
ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`, userID)
	if err != nil {
		return nil, err
	}
	cartID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.load(ctx, cartID)
}

func (r *MySQLCartRepo) GetByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	var cartID int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM carts WHERE user_id = ?`, userID).Scan(&cartID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.load(ctx, cartID)
}

func (r *MySQLCartRepo) load(ctx context.Context, cartID int64) (*domain.Cart, error) {
	var cart domain.Cart
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, created_at, updated_at FROM carts WHERE id = ?`, cartID)
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.added_at,
       p.id, p.name, p.price, p.stock, p.track_stock, p.low_stock_threshold, p.updated_at
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = ?
ORDER BY ci.added_at, ci.id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.CartItem
		var p domain.Product
		if err := rows.Scan(
			&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt,
			&p.ID, &p.Name, &p.Price, &p.Stock, &p.TrackStock, &p.LowStockThreshold, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		it.Product = &p
		cart.Items = append(cart.Items, it)
	}
	return &cart, rows.Err()
}

// SetItemQuantity upserts the line: (cart_id, product_id) is unique, so
// re-adding a product merges into one row at the absolute quantity.
func (r *MySQLCartRepo) SetItemQuantity(ctx context.Context, cartID, productID int64, qty int) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cart_items (cart_id, product_id, quantity, added_at)
VALUES (?, ?, ?, NOW())
ON DUPLICATE KEY UPDATE quantity = VALUES(quantity)`,
		cartID, productID, qty)
	if err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

func (r *MySQLCartRepo) GetItem(ctx context.Context, cartID, itemID int64) (*domain.CartItem, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, cart_id, product_id, quantity, added_at
FROM cart_items WHERE id = ? AND cart_id = ?`, itemID, cartID)

	var it domain.CartItem
	err := row.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *MySQLCartRepo) UpdateItemQuantity(ctx context.Context, itemID int64, qty int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_items SET quantity = ? WHERE id = ?`, qty, itemID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MySQLCartRepo) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MySQLCartRepo) ClearItems(ctx context.Context, cartID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

func (r *MySQLCartRepo) touch(ctx context.Context, cartID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE carts SET updated_at = NOW() WHERE id = ?`, cartID)
	return err
}

var _ usecase.CartRepo = (*MySQLCartRepo)(nil)
