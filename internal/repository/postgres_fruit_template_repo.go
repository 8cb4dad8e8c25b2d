package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haneul/grapechallenge/internal/model"
)

// PostgresFruitTemplateRepo はPostgreSQLを使用したフルーツカタログリポジトリ。
// カタログはマイグレーションで投入される読み取り専用データ。
type PostgresFruitTemplateRepo struct {
	db *sql.DB
}

// NewPostgresFruitTemplateRepo はPostgresFruitTemplateRepoを生成する。
func NewPostgresFruitTemplateRepo(db *sql.DB) *PostgresFruitTemplateRepo {
	return &PostgresFruitTemplateRepo{db: db}
}

const fruitTemplateColumns = `id, name, type,
	first_status, second_status, third_status, fourth_status,
	fifth_status, sixth_status, seventh_status,
	created_at, updated_at`

// scanFruitTemplate は1行をFruitTemplateに読み込む。
func scanFruitTemplate(scan func(dest ...any) error) (*model.FruitTemplate, error) {
	t := &model.FruitTemplate{}
	err := scan(
		&t.ID, &t.Name, &t.Type,
		&t.StageImages[0], &t.StageImages[1], &t.StageImages[2], &t.StageImages[3],
		&t.StageImages[4], &t.StageImages[5], &t.StageImages[6],
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListAll は全フルーツテンプレートを名前順で返す。
func (r *PostgresFruitTemplateRepo) ListAll(ctx context.Context) ([]*model.FruitTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fruitTemplateColumns+` FROM fruit_templates ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fruit templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.FruitTemplate
	for rows.Next() {
		t, err := scanFruitTemplate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fruit template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fruit templates: %w", err)
	}

	return templates, nil
}

// FindByID は指定IDのテンプレートを取得する。見つからない場合はnilを返す。
func (r *PostgresFruitTemplateRepo) FindByID(ctx context.Context, id string) (*model.FruitTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fruitTemplateColumns+` FROM fruit_templates WHERE id = $1`,
		id,
	)
	t, err := scanFruitTemplate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find fruit template by ID: %w", err)
	}
	return t, nil
}

// FindByName は名前でテンプレートを検索する。見つからない場合はnilを返す。
func (r *PostgresFruitTemplateRepo) FindByName(ctx context.Context, name string) (*model.FruitTemplate, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fruitTemplateColumns+` FROM fruit_templates WHERE name = $1`,
		name,
	)
	t, err := scanFruitTemplate(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find fruit template by name: %w", err)
	}
	return t, nil
}

// compile-time interface check
var _ FruitTemplateRepository = (*PostgresFruitTemplateRepo)(nil)
