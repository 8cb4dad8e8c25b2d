// Package fruit はフルーツの収穫と照会のドメインロジックを提供する。
package fruit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/haneul/grapechallenge/internal/metrics"
	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/repository"
)

// InProgressFruit は育成中のフルーツとその進捗を表す。
type InProgressFruit struct {
	Fruit        *model.Fruit
	Template     *model.FruitTemplate
	MissionCount int // 現在のセッションで完了したミッション数
}

// Stats はフルーツ全体の統計を表す。
type Stats struct {
	Total      int
	InProgress int
	Completed  int
	ByTemplate []repository.TemplateFruitCount
}

// Service はフルーツに関するビジネスロジックを提供する。
type Service struct {
	fruitRepo         repository.FruitRepository
	templateRepo      repository.FruitTemplateRepository
	growthSessionRepo repository.GrowthSessionRepository
	collector         metrics.MetricsCollector
}

// NewService はServiceを生成する。collectorはnil可。
func NewService(
	fruitRepo repository.FruitRepository,
	templateRepo repository.FruitTemplateRepository,
	growthSessionRepo repository.GrowthSessionRepository,
	collector metrics.MetricsCollector,
) *Service {
	return &Service{
		fruitRepo:         fruitRepo,
		templateRepo:      templateRepo,
		growthSessionRepo: growthSessionRepo,
		collector:         collector,
	}
}

// Harvest はフルーツを収穫しCOMPLETEDへ遷移させる。
// 7段階目（SEVENTH_STATUS）に達したフルーツのみ収穫できる。
// 他ユーザーのフルーツへの収穫リクエストはUNAUTHORIZEDで拒否する。
func (s *Service) Harvest(ctx context.Context, userID, fruitID string) (*model.Fruit, error) {
	fruit, err := s.fruitRepo.FindByID(ctx, fruitID)
	if err != nil {
		return nil, fmt.Errorf("フルーツの取得に失敗しました: %w", err)
	}
	if fruit == nil {
		return nil, model.NewFruitNotFoundError(fruitID)
	}
	if fruit.UserID != userID {
		return nil, model.NewUnauthorizedError()
	}
	if fruit.Status != model.StatusSeventh {
		return nil, model.NewFruitNotReadyError()
	}

	if err := s.fruitRepo.UpdateStatus(ctx, fruit.ID, model.StatusCompleted); err != nil {
		return nil, fmt.Errorf("フルーツの更新に失敗しました: %w", err)
	}
	fruit.Status = model.StatusCompleted

	if s.collector != nil {
		s.collector.RecordFruitHarvested()
	}

	slog.Info("fruit harvested",
		slog.String("user_id", userID),
		slog.String("fruit_id", fruit.ID),
	)

	return fruit, nil
}

// ListMyFruits はユーザーの全フルーツを作成日時降順で返す。
func (s *Service) ListMyFruits(ctx context.Context, userID string) ([]*model.Fruit, error) {
	fruits, err := s.fruitRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フルーツ一覧の取得に失敗しました: %w", err)
	}
	return fruits, nil
}

// GetInProgressFruit は育成中のフルーツと現在の進捗を返す。
// 育成中のフルーツが存在しない場合（セッション未開始、または
// セッション内でまだミッションを完了していない場合）はnilを返す。
func (s *Service) GetInProgressFruit(ctx context.Context, userID string) (*InProgressFruit, error) {
	session, err := s.growthSessionRepo.FindInProgressByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("成長セッションの取得に失敗しました: %w", err)
	}
	if session == nil || session.FruitID == "" {
		return nil, nil
	}

	fruit, err := s.fruitRepo.FindByID(ctx, session.FruitID)
	if err != nil {
		return nil, fmt.Errorf("フルーツの取得に失敗しました: %w", err)
	}
	if fruit == nil {
		return nil, nil
	}

	template, err := s.templateRepo.FindByID(ctx, fruit.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("フルーツテンプレートの取得に失敗しました: %w", err)
	}

	return &InProgressFruit{
		Fruit:        fruit,
		Template:     template,
		MissionCount: len(session.MissionIDs),
	}, nil
}

// ListCellFruits は指定セルの全ユーザーのフルーツを
// テンプレートの段階画像・所有者名付きで返す。
func (s *Service) ListCellFruits(ctx context.Context, cell string) ([]repository.FruitWithTemplate, error) {
	fruits, err := s.fruitRepo.ListByCellWithTemplate(ctx, cell)
	if err != nil {
		return nil, fmt.Errorf("セルのフルーツ一覧の取得に失敗しました: %w", err)
	}
	return fruits, nil
}

// ListTemplates はフルーツカタログを返す。
func (s *Service) ListTemplates(ctx context.Context) ([]*model.FruitTemplate, error) {
	templates, err := s.templateRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("フルーツテンプレートの取得に失敗しました: %w", err)
	}
	return templates, nil
}

// GetStats はフルーツ全体の統計を返す。
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	total, inProgress, completed, err := s.fruitRepo.CountByStatusGroup(ctx)
	if err != nil {
		return nil, fmt.Errorf("フルーツ統計の取得に失敗しました: %w", err)
	}

	byTemplate, err := s.fruitRepo.CountByTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("テンプレート別統計の取得に失敗しました: %w", err)
	}

	return &Stats{
		Total:      total,
		InProgress: inProgress,
		Completed:  completed,
		ByTemplate: byTemplate,
	}, nil
}
