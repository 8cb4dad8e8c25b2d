package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
	"github.com/lib/pq"
)

// PostgresGrowthSessionRepo はPostgreSQLを使用した成長セッションリポジトリ。
// ミッションIDの順序付きリストはuuid[]カラムに格納する。
type PostgresGrowthSessionRepo struct {
	db dbtx
}

// NewPostgresGrowthSessionRepo はPostgresGrowthSessionRepoを生成する。
func NewPostgresGrowthSessionRepo(db *sql.DB) *PostgresGrowthSessionRepo {
	return &PostgresGrowthSessionRepo{db: db}
}

// WithTx はトランザクションに束縛されたリポジトリを返す。
func (r *PostgresGrowthSessionRepo) WithTx(tx *sql.Tx) GrowthSessionRepository {
	return &PostgresGrowthSessionRepo{db: tx}
}

// Create は成長セッションを作成する。
func (r *PostgresGrowthSessionRepo) Create(ctx context.Context, session *model.GrowthSession) error {
	var fruitID any
	if session.FruitID != "" {
		fruitID = session.FruitID
	}

	missionIDs := session.MissionIDs
	if missionIDs == nil {
		missionIDs = []string{}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO growth_sessions (id, user_id, fruit_id, mission_ids, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		session.ID, session.UserID, fruitID, pq.Array(missionIDs),
		string(session.Status), session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert growth session: %w", err)
	}
	return nil
}

// scanGrowthSession は1行をGrowthSessionに読み込む。
func scanGrowthSession(scan func(dest ...any) error) (*model.GrowthSession, error) {
	s := &model.GrowthSession{}
	var fruitID sql.NullString
	var status string
	var missionIDs pq.StringArray
	if err := scan(&s.ID, &s.UserID, &fruitID, &missionIDs, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if fruitID.Valid {
		s.FruitID = fruitID.String
	}
	s.MissionIDs = []string(missionIDs)
	s.Status = model.GrowthSessionStatus(status)
	return s, nil
}

// FindInProgressByUserID はユーザーの「in progress」セッションを取得する。
// 見つからない場合はnilを返す。
func (r *PostgresGrowthSessionRepo) FindInProgressByUserID(ctx context.Context, userID string) (*model.GrowthSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, fruit_id, mission_ids, status, created_at, updated_at
		 FROM growth_sessions
		 WHERE user_id = $1 AND status = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID, string(model.GrowthSessionInProgress),
	)
	s, err := scanGrowthSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find in-progress session: %w", err)
	}
	return s, nil
}

// Update はmission_ids、fruit_id、statusを更新する。
func (r *PostgresGrowthSessionRepo) Update(ctx context.Context, session *model.GrowthSession) error {
	var fruitID any
	if session.FruitID != "" {
		fruitID = session.FruitID
	}

	missionIDs := session.MissionIDs
	if missionIDs == nil {
		missionIDs = []string{}
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE growth_sessions
		 SET fruit_id = $1, mission_ids = $2, status = $3, updated_at = $4
		 WHERE id = $5`,
		fruitID, pq.Array(missionIDs), string(session.Status), time.Now(), session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update growth session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("growth session not found: %s", session.ID)
	}
	return nil
}

// ListByUserID はユーザーの全セッションを作成日時降順で返す。
func (r *PostgresGrowthSessionRepo) ListByUserID(ctx context.Context, userID string) ([]*model.GrowthSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, fruit_id, mission_ids, status, created_at, updated_at
		 FROM growth_sessions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list growth sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.GrowthSession
	for rows.Next() {
		s, err := scanGrowthSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan growth session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate growth sessions: %w", err)
	}

	return sessions, nil
}

// DeleteByUserID はユーザーの全セッションを削除する。
func (r *PostgresGrowthSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM growth_sessions WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user growth sessions: %w", err)
	}
	return nil
}

// compile-time interface check
var _ GrowthSessionRepository = (*PostgresGrowthSessionRepo)(nil)
