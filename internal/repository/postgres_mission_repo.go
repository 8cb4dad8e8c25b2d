package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
)

// PostgresMissionRepo はPostgreSQLを使用したミッションリポジトリ。
// リアクションはjsonbカラムに格納する。
type PostgresMissionRepo struct {
	db dbtx
}

// NewPostgresMissionRepo はPostgresMissionRepoを生成する。
func NewPostgresMissionRepo(db *sql.DB) *PostgresMissionRepo {
	return &PostgresMissionRepo{db: db}
}

// WithTx はトランザクションに束縛されたリポジトリを返す。
func (r *PostgresMissionRepo) WithTx(tx *sql.Tx) MissionRepository {
	return &PostgresMissionRepo{db: tx}
}

// marshalInteractions はリアクション一覧をjsonbに変換する。
// nilは空配列として格納する。
func marshalInteractions(interactions []model.Interaction) ([]byte, error) {
	if interactions == nil {
		interactions = []model.Interaction{}
	}
	data, err := json.Marshal(interactions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interactions: %w", err)
	}
	return data, nil
}

// Create はミッションを作成する。
func (r *PostgresMissionRepo) Create(ctx context.Context, mission *model.Mission) error {
	interactions, err := marshalInteractions(mission.Interactions)
	if err != nil {
		return err
	}

	var fruitID any
	if mission.FruitID != "" {
		fruitID = mission.FruitID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO missions (id, user_id, template_id, fruit_id, content, interactions, completed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		mission.ID, mission.UserID, mission.TemplateID, fruitID,
		mission.Content, interactions, mission.CompletedAt, mission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert mission: %w", err)
	}
	return nil
}

// scanMission は1行をMissionに読み込む。
func scanMission(scan func(dest ...any) error) (*model.Mission, error) {
	m := &model.Mission{}
	var fruitID sql.NullString
	var interactions []byte
	if err := scan(&m.ID, &m.UserID, &m.TemplateID, &fruitID, &m.Content, &interactions, &m.CompletedAt, &m.CreatedAt); err != nil {
		return nil, err
	}
	if fruitID.Valid {
		m.FruitID = fruitID.String
	}
	if len(interactions) > 0 {
		if err := json.Unmarshal(interactions, &m.Interactions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interactions: %w", err)
		}
	}
	return m, nil
}

// FindByID は指定IDのミッションを取得する。見つからない場合はnilを返す。
func (r *PostgresMissionRepo) FindByID(ctx context.Context, id string) (*model.Mission, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, template_id, fruit_id, content, interactions, completed_at, created_at
		 FROM missions WHERE id = $1`,
		id,
	)
	m, err := scanMission(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mission by ID: %w", err)
	}
	return m, nil
}

// ListByUserID はユーザーのミッションを完了日時降順で返す。
func (r *PostgresMissionRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Mission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, template_id, fruit_id, content, interactions, completed_at, created_at
		 FROM missions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list missions: %w", err)
	}
	defer rows.Close()

	var missions []*model.Mission
	for rows.Next() {
		m, err := scanMission(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate missions: %w", err)
	}

	return missions, nil
}

// CountNormalCompletedInRange はcompleted_atが[from, to)に入るユーザーの
// 通常（NORMAL）ミッション数を返す。日次上限ガードで使用する。
func (r *PostgresMissionRepo) CountNormalCompletedInRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM missions m
		 JOIN mission_templates t ON t.id = m.template_id
		 WHERE m.user_id = $1 AND t.type = 'NORMAL'
		   AND m.completed_at >= $2 AND m.completed_at < $3`,
		userID, from, to,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count missions in range: %w", err)
	}
	return count, nil
}

// TemplateCompletedInRange は指定テンプレートのミッションが[from, to)内に
// 存在するかを返す。イベントミッションのガードで使用する。
func (r *PostgresMissionRepo) TemplateCompletedInRange(ctx context.Context, userID, templateID string, from, to time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM missions
		   WHERE user_id = $1 AND template_id = $2
		     AND completed_at >= $3 AND completed_at < $4
		 )`,
		userID, templateID, from, to,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check template completion: %w", err)
	}
	return exists, nil
}

// AppendInteraction はミッションのリアクション一覧に1件追記する。
// jsonbの連結演算子で追記するため、並行する追記が互いを上書きしない。
func (r *PostgresMissionRepo) AppendInteraction(ctx context.Context, id string, interaction model.Interaction) error {
	data, err := json.Marshal([]model.Interaction{interaction})
	if err != nil {
		return fmt.Errorf("failed to marshal interaction: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE missions SET interactions = interactions || $1::jsonb WHERE id = $2`,
		data, id,
	)
	if err != nil {
		return fmt.Errorf("failed to append interaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("mission not found: %s", id)
	}
	return nil
}

// CountByUserID はユーザーの総ミッション数を返す。
func (r *PostgresMissionRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM missions WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count missions: %w", err)
	}
	return count, nil
}

// DeleteByUserID はユーザーの全ミッションを削除する。
func (r *PostgresMissionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM missions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user missions: %w", err)
	}
	return nil
}

// compile-time interface check
var _ MissionRepository = (*PostgresMissionRepo)(nil)
