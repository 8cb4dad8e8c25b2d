package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
)

// PostgresFruitRepo はPostgreSQLを使用したフルーツリポジトリ。
type PostgresFruitRepo struct {
	db dbtx
}

// NewPostgresFruitRepo はPostgresFruitRepoを生成する。
func NewPostgresFruitRepo(db *sql.DB) *PostgresFruitRepo {
	return &PostgresFruitRepo{db: db}
}

// WithTx はトランザクションに束縛されたリポジトリを返す。
func (r *PostgresFruitRepo) WithTx(tx *sql.Tx) FruitRepository {
	return &PostgresFruitRepo{db: tx}
}

// Create はフルーツを作成する。
func (r *PostgresFruitRepo) Create(ctx context.Context, fruit *model.Fruit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fruits (id, user_id, template_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		fruit.ID, fruit.UserID, fruit.TemplateID, string(fruit.Status), fruit.CreatedAt, fruit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fruit: %w", err)
	}
	return nil
}

// FindByID は指定IDのフルーツを取得する。見つからない場合はnilを返す。
func (r *PostgresFruitRepo) FindByID(ctx context.Context, id string) (*model.Fruit, error) {
	fruit := &model.Fruit{}
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, template_id, status, created_at, updated_at
		 FROM fruits WHERE id = $1`,
		id,
	).Scan(&fruit.ID, &fruit.UserID, &fruit.TemplateID, &status, &fruit.CreatedAt, &fruit.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find fruit by ID: %w", err)
	}

	fruit.Status = model.FruitStatus(status)
	return fruit, nil
}

// UpdateStatus はフルーツの成長段階を更新する。
func (r *PostgresFruitRepo) UpdateStatus(ctx context.Context, id string, status model.FruitStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE fruits SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update fruit status: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("fruit not found: %s", id)
	}
	return nil
}

// ListByUserID はユーザーの全フルーツを作成日時降順で返す。
func (r *PostgresFruitRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Fruit, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, template_id, status, created_at, updated_at
		 FROM fruits
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fruits: %w", err)
	}
	defer rows.Close()

	var fruits []*model.Fruit
	for rows.Next() {
		fruit := &model.Fruit{}
		var status string
		if err := rows.Scan(&fruit.ID, &fruit.UserID, &fruit.TemplateID, &status, &fruit.CreatedAt, &fruit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fruit: %w", err)
		}
		fruit.Status = model.FruitStatus(status)
		fruits = append(fruits, fruit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fruits: %w", err)
	}

	return fruits, nil
}

// ListByCellWithTemplate は指定セルの全ユーザーのフルーツを
// テンプレートの段階画像付きで作成日時降順で返す。
func (r *PostgresFruitRepo) ListByCellWithTemplate(ctx context.Context, cell string) ([]FruitWithTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.id, f.user_id, f.template_id, f.status, f.created_at, f.updated_at,
		        t.name, t.type,
		        t.first_status, t.second_status, t.third_status, t.fourth_status,
		        t.fifth_status, t.sixth_status, t.seventh_status,
		        u.name
		 FROM fruits f
		 JOIN fruit_templates t ON t.id = f.template_id
		 JOIN users u ON u.id = f.user_id
		 WHERE u.cell = $1
		 ORDER BY f.created_at DESC`,
		cell,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fruits by cell: %w", err)
	}
	defer rows.Close()

	var results []FruitWithTemplate
	for rows.Next() {
		var fw FruitWithTemplate
		var status string
		if err := rows.Scan(
			&fw.ID, &fw.UserID, &fw.TemplateID, &status, &fw.CreatedAt, &fw.UpdatedAt,
			&fw.TemplateName, &fw.TemplateType,
			&fw.StageImages[0], &fw.StageImages[1], &fw.StageImages[2], &fw.StageImages[3],
			&fw.StageImages[4], &fw.StageImages[5], &fw.StageImages[6],
			&fw.OwnerName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fruit with template: %w", err)
		}
		fw.Status = model.FruitStatus(status)
		results = append(results, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fruits by cell: %w", err)
	}

	return results, nil
}

// CountCompletedByUserID はユーザーの収穫済みフルーツ数を返す。
func (r *PostgresFruitRepo) CountCompletedByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fruits WHERE user_id = $1 AND status = $2`,
		userID, string(model.StatusCompleted),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count completed fruits: %w", err)
	}
	return count, nil
}

// CountByStatusGroup は全体の(total, in_progress, completed)を返す。
func (r *PostgresFruitRepo) CountByStatusGroup(ctx context.Context) (total, inProgress, completed int, err error) {
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status <> $1),
		        COUNT(*) FILTER (WHERE status = $1)
		 FROM fruits`,
		string(model.StatusCompleted),
	).Scan(&total, &inProgress, &completed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count fruits by status: %w", err)
	}
	return total, inProgress, completed, nil
}

// CountByTemplate はテンプレートごとのフルーツ数を降順で返す。
func (r *PostgresFruitRepo) CountByTemplate(ctx context.Context) ([]TemplateFruitCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, COUNT(f.id)
		 FROM fruit_templates t
		 LEFT JOIN fruits f ON f.template_id = t.id
		 GROUP BY t.id, t.name
		 ORDER BY COUNT(f.id) DESC, t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count fruits by template: %w", err)
	}
	defer rows.Close()

	var counts []TemplateFruitCount
	for rows.Next() {
		var c TemplateFruitCount
		if err := rows.Scan(&c.TemplateID, &c.TemplateName, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan template count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template counts: %w", err)
	}

	return counts, nil
}

// DeleteByUserID はユーザーの全フルーツを削除する。
func (r *PostgresFruitRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM fruits WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user fruits: %w", err)
	}
	return nil
}

// compile-time interface check
var _ FruitRepository = (*PostgresFruitRepo)(nil)
