package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
)

// PostgresVerseRepo はPostgreSQLを使用した聖句カタログリポジトリ。
type PostgresVerseRepo struct {
	db *sql.DB
}

// NewPostgresVerseRepo はPostgresVerseRepoを生成する。
func NewPostgresVerseRepo(db *sql.DB) *PostgresVerseRepo {
	return &PostgresVerseRepo{db: db}
}

// FindByDate は指定日の聖句を取得する。見つからない場合はnilを返す。
// 日付は時刻部分を無視して比較する。
func (r *PostgresVerseRepo) FindByDate(ctx context.Context, date time.Time) (*model.Verse, error) {
	verse := &model.Verse{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, date, content, reference, created_at, updated_at
		 FROM verses
		 WHERE date = $1`,
		date.Format("2006-01-02"),
	).Scan(&verse.ID, &verse.Date, &verse.Content, &verse.Reference, &verse.CreatedAt, &verse.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find verse by date: %w", err)
	}

	return verse, nil
}

// compile-time interface check
var _ VerseRepository = (*PostgresVerseRepo)(nil)
