package repo

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/minhle2104/shopcore-api/internal/entity"
	"github.com/minhle2104/shopcore-api/internal/usecase"
)

type MySQLProductRepo struct{ db dbtx }

func NewMySQLProductRepo(db *sql.DB) *MySQLProductRepo { return &MySQLProductRepo{db: db} }

func (r *MySQLProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, price, stock, track_stock, low_stock_threshold, updated_at
FROM products WHERE id = ?`, id)

	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.TrackStock, &p.LowStockThreshold, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Reserve takes stock with a single conditional decrement. Two concurrent
// checkouts racing for the last unit cannot both match `stock >= ?`, so
// exactly one wins; the loser sees zero rows affected.
func (r *MySQLProductRepo) Reserve(ctx context.Context, productID int64, qty int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE products
SET stock = stock - ?, updated_at = NOW()
WHERE id = ? AND track_stock = 1 AND stock >= ?`,
		qty, productID, qty)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows > 0 {
		return true, nil
	}

	// Zero rows: missing, untracked, or insufficient. Untracked products
	// have unlimited availability and succeed without a write.
	var tracked bool
	err = r.db.QueryRowContext(ctx, `SELECT track_stock FROM products WHERE id = ?`, productID).Scan(&tracked)
	if errors.Is(err, sql.ErrNoRows) {
		return false, domain.ErrNotFound
	}
	if err != nil {
		return false, err
	}
	return !tracked, nil
}

// Release credits stock back for tracked products. Untracked rows are left
// alone: nothing was taken from them in the first place.
func (r *MySQLProductRepo) Release(ctx context.Context, productID int64, qty int) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE products
SET stock = stock + ?, updated_at = NOW()
WHERE id = ? AND track_stock = 1`,
		qty, productID)
	return err
}

var _ usecase.ProductRepo = (*MySQLProductRepo)(nil)
