package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// MySQLUnitOfWork runs a closure against transaction-bound repos. Whatever
// the closure does through them commits or rolls back as one.
type MySQLUnitOfWork struct {
	db *sql.DB
}

func NewMySQLUnitOfWork(db *sql.DB) *MySQLUnitOfWork {
	return &MySQLUnitOfWork{db: db}
}

func (u *MySQLUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, r usecase.Repos) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	r := usecase.Repos{
		Products: &MySQLProductRepo{db: tx},
		Carts:    &MySQLCartRepo{db: tx},
		Orders:   &MySQLOrderRepo{db: tx},
	}

	if err := fn(ctx, r); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ usecase.UnitOfWork = (*MySQLUnitOfWork)(nil)
