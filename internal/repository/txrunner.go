package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLTxRunner はdatabase/sqlのトランザクションでTxRunnerを実装する。
type SQLTxRunner struct {
	db TxBeginner
}

// NewSQLTxRunner はSQLTxRunnerを生成する。
func NewSQLTxRunner(db TxBeginner) *SQLTxRunner {
	return &SQLTxRunner{db: db}
}

// RunInTx はfnをトランザクション内で実行する。
// fnがエラーを返した場合、またはpanicした場合はロールバックする。
func (r *SQLTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TxRunner = (*SQLTxRunner)(nil)
