// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/repository"
)

// Service はユーザー管理のサービス層。
// 登録処理と退会処理のビジネスロジックを提供する。
type Service struct {
	userRepo          repository.UserRepository
	sessionRepo       repository.SessionRepository
	missionRepo       repository.MissionRepository
	fruitRepo         repository.FruitRepository
	growthSessionRepo repository.GrowthSessionRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	missionRepo repository.MissionRepository,
	fruitRepo repository.FruitRepository,
	growthSessionRepo repository.GrowthSessionRepository,
) *Service {
	return &Service{
		userRepo:          userRepo,
		sessionRepo:       sessionRepo,
		missionRepo:       missionRepo,
		fruitRepo:         fruitRepo,
		growthSessionRepo: growthSessionRepo,
	}
}

// Register は新規ユーザーを登録する。
// 同一セル・同一名のユーザーがすでに存在する場合はDUPLICATE_USERエラーを返す。
func (s *Service) Register(ctx context.Context, cell, name string) (*model.User, error) {
	if cell == "" || name == "" {
		return nil, fmt.Errorf("cell and name are required")
	}

	existing, err := s.userRepo.FindByCellAndName(ctx, cell, name)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateUserError(cell, name)
	}

	now := time.Now()
	user := &model.User{
		ID:        uuid.New().String(),
		Cell:      cell,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("cell", cell),
	)

	return user, nil
}

// ListCellMembers は指定セルの全メンバーを返す。
func (s *Service) ListCellMembers(ctx context.Context, cell string) ([]*model.User, error) {
	users, err := s.userRepo.ListByCell(ctx, cell)
	if err != nil {
		return nil, fmt.Errorf("セルメンバーの取得に失敗しました: %w", err)
	}
	return users, nil
}

// MemberStats はセルメンバー1人分の活動集計を表す。
type MemberStats struct {
	User            *model.User
	MissionCount    int
	HarvestedFruits int
}

// CellStats は指定セルの全メンバーのミッション数・収穫数を集計して返す。
func (s *Service) CellStats(ctx context.Context, cell string) ([]MemberStats, error) {
	users, err := s.userRepo.ListByCell(ctx, cell)
	if err != nil {
		return nil, fmt.Errorf("セルメンバーの取得に失敗しました: %w", err)
	}

	stats := make([]MemberStats, 0, len(users))
	for _, u := range users {
		missionCount, err := s.missionRepo.CountByUserID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("ミッション数の取得に失敗しました: %w", err)
		}
		harvested, err := s.fruitRepo.CountCompletedByUserID(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("収穫数の取得に失敗しました: %w", err)
		}
		stats = append(stats, MemberStats{
			User:            u,
			MissionCount:    missionCount,
			HarvestedFruits: harvested,
		})
	}
	return stats, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: missions → growth_sessions → fruits → sessions → user
// カタログ（fruit_templates, mission_templates, verses）は共有データとして残す。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. ミッション記録を削除
	if err := s.missionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("ミッションの削除に失敗しました: %w", err)
	}

	// 2. 成長セッションを削除
	if err := s.growthSessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("成長セッションの削除に失敗しました: %w", err)
	}

	// 3. フルーツを削除
	if err := s.fruitRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("フルーツの削除に失敗しました: %w", err)
	}

	// 4. ログインセッションを削除
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	// 5. ユーザーを削除
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}
