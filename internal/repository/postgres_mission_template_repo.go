package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/haneul/grapechallenge/internal/model"
)

// PostgresMissionTemplateRepo はPostgreSQLを使用したミッションカタログリポジトリ。
type PostgresMissionTemplateRepo struct {
	db *sql.DB
}

// NewPostgresMissionTemplateRepo はPostgresMissionTemplateRepoを生成する。
func NewPostgresMissionTemplateRepo(db *sql.DB) *PostgresMissionTemplateRepo {
	return &PostgresMissionTemplateRepo{db: db}
}

// ListAll は全ミッションテンプレートを名前順で返す。
func (r *PostgresMissionTemplateRepo) ListAll(ctx context.Context) ([]*model.MissionTemplate, error) {
	return r.list(ctx,
		`SELECT id, name, content, type, created_at, updated_at
		 FROM mission_templates ORDER BY name`,
	)
}

// ListByType は指定種別のミッションテンプレートを名前順で返す。
func (r *PostgresMissionTemplateRepo) ListByType(ctx context.Context, t model.MissionTemplateType) ([]*model.MissionTemplate, error) {
	return r.list(ctx,
		`SELECT id, name, content, type, created_at, updated_at
		 FROM mission_templates WHERE type = $1 ORDER BY name`,
		string(t),
	)
}

func (r *PostgresMissionTemplateRepo) list(ctx context.Context, query string, args ...any) ([]*model.MissionTemplate, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission templates: %w", err)
	}
	defer rows.Close()

	var templates []*model.MissionTemplate
	for rows.Next() {
		t := &model.MissionTemplate{}
		var typ string
		if err := rows.Scan(&t.ID, &t.Name, &t.Content, &typ, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan mission template: %w", err)
		}
		t.Type = model.MissionTemplateType(typ)
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mission templates: %w", err)
	}

	return templates, nil
}

// FindByID は指定IDのテンプレートを取得する。見つからない場合はnilを返す。
func (r *PostgresMissionTemplateRepo) FindByID(ctx context.Context, id string) (*model.MissionTemplate, error) {
	return r.find(ctx,
		`SELECT id, name, content, type, created_at, updated_at
		 FROM mission_templates WHERE id = $1`,
		id,
	)
}

// FindByName は名前でテンプレートを検索する。見つからない場合はnilを返す。
func (r *PostgresMissionTemplateRepo) FindByName(ctx context.Context, name string) (*model.MissionTemplate, error) {
	return r.find(ctx,
		`SELECT id, name, content, type, created_at, updated_at
		 FROM mission_templates WHERE name = $1`,
		name,
	)
}

func (r *PostgresMissionTemplateRepo) find(ctx context.Context, query string, arg any) (*model.MissionTemplate, error) {
	t := &model.MissionTemplate{}
	var typ string
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&t.ID, &t.Name, &t.Content, &typ, &t.CreatedAt, &t.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mission template: %w", err)
	}

	t.Type = model.MissionTemplateType(typ)
	return t, nil
}

// compile-time interface check
var _ MissionTemplateRepository = (*PostgresMissionTemplateRepo)(nil)
