package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// MySQLAddressRepo is a read-only window into the address book owned by the
// user service. This core never writes addresses.
type MySQLAddressRepo struct{ db dbtx }

func NewMySQLAddressRepo(db *sql.DB) *MySQLAddressRepo { return &MySQLAddressRepo{db: db} }

func (r *MySQLAddressRepo) Exists(ctx context.Context, id, userID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM addresses WHERE id = ? AND user_id = ?`, id, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *MySQLAddressRepo) DefaultID(ctx context.Context, userID int64, addrType string) (*int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
SELECT id FROM addresses
WHERE user_id = ? AND type = ? AND is_default = 1
ORDER BY id LIMIT 1`, userID, addrType).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

var _ usecase.AddressRepo = (*MySQLAddressRepo)(nil)
