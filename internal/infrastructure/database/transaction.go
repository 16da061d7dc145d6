package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Hamzaidb/repo-saas/internal/domain/repository"
)

type txKey struct{}

// TxManager はコンテキストに保持したトランザクションを管理する
type TxManager struct {
	db DB
}

// NewTxManager は新しいTxManagerを作成する
func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction はトランザクション内で関数を実行する
// 既存のトランザクションがコンテキストにあればそれを再利用する
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v, original error: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetQuerier はトランザクション中であればTx、そうでなければDBを返す
func (m *TxManager) GetQuerier(ctx context.Context) Querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return m.db
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

var _ repository.TransactionManager = (*TxManager)(nil)
