// Package mission はミッション完了ワークフローのドメインロジックを提供する。
//
// ミッション完了は本システムの中核操作であり、日次上限ガード、
// 成長セッションの進行、フルーツの段階遷移を単一のトランザクションで行う。
// 同一ユーザーの同時リクエストはユーザー単位ロックで直列化される。
package mission

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/haneul/grapechallenge/internal/metrics"
	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/repository"
	"github.com/haneul/grapechallenge/internal/security"
)

// CompleteMissionResult はミッション完了の結果を表す。
// NewSessionはセッションが7件到達で完了した場合のみ非nil。
type CompleteMissionResult struct {
	Mission    *model.Mission
	Session    *model.GrowthSession
	Fruit      *model.Fruit // フルーツテンプレート未登録時はnil
	NewSession *model.GrowthSession
}

// Progress は現在の育成進捗スナップショットを表す。
type Progress struct {
	Session      *model.GrowthSession
	Fruit        *model.Fruit
	Template     *model.FruitTemplate
	MissionCount int
}

// Service はミッションに関するビジネスロジックを提供する。
type Service struct {
	missionRepo       repository.MissionRepository
	templateRepo      repository.MissionTemplateRepository
	fruitRepo         repository.FruitRepository
	fruitTemplateRepo repository.FruitTemplateRepository
	growthSessionRepo repository.GrowthSessionRepository
	txRunner          repository.TxRunner
	sanitizer         security.ContentSanitizerService
	collector         metrics.MetricsCollector
	clock             Clock
	dayLoc            *time.Location
	locks             *userLocks
}

// NewService はServiceを生成する。
// clockがnilの場合はシステム時刻を使用する。collectorはnil可。
func NewService(
	missionRepo repository.MissionRepository,
	templateRepo repository.MissionTemplateRepository,
	fruitRepo repository.FruitRepository,
	fruitTemplateRepo repository.FruitTemplateRepository,
	growthSessionRepo repository.GrowthSessionRepository,
	txRunner repository.TxRunner,
	sanitizer security.ContentSanitizerService,
	collector metrics.MetricsCollector,
	clock Clock,
	dayLoc *time.Location,
) *Service {
	if clock == nil {
		clock = NewRealClock()
	}
	if dayLoc == nil {
		dayLoc = time.UTC
	}
	return &Service{
		missionRepo:       missionRepo,
		templateRepo:      templateRepo,
		fruitRepo:         fruitRepo,
		fruitTemplateRepo: fruitTemplateRepo,
		growthSessionRepo: growthSessionRepo,
		txRunner:          txRunner,
		sanitizer:         sanitizer,
		collector:         collector,
		clock:             clock,
		dayLoc:            dayLoc,
		locks:             newUserLocks(),
	}
}

// CompleteMission は通常ミッションを完了し、成長セッションとフルーツを進行させる。
//
// ワークフロー（全体が1トランザクション、ユーザー単位ロックで直列化）:
//  1. 日次上限ガード: 当日[開始, 翌日開始)の完了数が1以上ならDAILY_LIMIT_EXCEEDED。
//  2. 「in progress」セッションを取得、なければ新規作成。
//  3. セッション最初のミッションならフルーツをランダムなテンプレートで作成し紐付ける。
//     カタログが空の場合はフルーツなしでセッションのみ進行する。
//  4. ミッション記録を作成し、セッションのmission_idsに追記する。
//  5. 完了数ルックアップでフルーツの段階を再計算する。
//  6. 完了数が7に達したらセッションを完了し、空の新セッションを作成する。
//     フルーツはSEVENTH_STATUSに留まり、収穫操作でのみCOMPLETEDになる。
//
// イベント型テンプレートが指定された場合はイベント完了フローに委譲する。
func (s *Service) CompleteMission(ctx context.Context, userID, templateID, content string) (*CompleteMissionResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	content, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("テンプレートの取得に失敗しました: %w", err)
	}
	if template == nil {
		return nil, model.NewTemplateNotFoundError(templateID)
	}
	if template.Type == model.MissionTypeEvent {
		return s.completeEvent(ctx, userID, template, content)
	}

	now := s.clock.Now()
	result := &CompleteMissionResult{}

	err = s.txRunner.RunInTx(ctx, func(tx *sql.Tx) error {
		missionRepo := s.missionRepo.WithTx(tx)
		fruitRepo := s.fruitRepo.WithTx(tx)
		gsRepo := s.growthSessionRepo.WithTx(tx)

		// 1. 日次上限ガード
		from, to := dayRange(now, s.dayLoc)
		count, err := missionRepo.CountNormalCompletedInRange(ctx, userID, from, to)
		if err != nil {
			return fmt.Errorf("完了数の取得に失敗しました: %w", err)
		}
		if count >= 1 {
			if s.collector != nil {
				s.collector.RecordDailyLimitRejection()
			}
			return model.NewDailyLimitExceededError()
		}

		// 2. セッションの取得または作成
		session, err := gsRepo.FindInProgressByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("成長セッションの取得に失敗しました: %w", err)
		}
		if session == nil {
			session = s.newGrowthSession(userID, now)
			if err := gsRepo.Create(ctx, session); err != nil {
				slog.Error("failed to create growth session", slog.String("error", err.Error()))
				return model.NewSessionCreationFailedError()
			}
		}

		// 3. セッション最初のミッションならフルーツを作成
		var fruit *model.Fruit
		if session.FruitID == "" {
			fruit, err = s.createRandomFruit(ctx, fruitRepo, userID, now)
			if err != nil {
				return err
			}
			if fruit != nil {
				session.FruitID = fruit.ID
			}
		} else {
			fruit, err = fruitRepo.FindByID(ctx, session.FruitID)
			if err != nil {
				return fmt.Errorf("フルーツの取得に失敗しました: %w", err)
			}
		}

		// 4. ミッション記録の作成
		mission := &model.Mission{
			ID:          uuid.New().String(),
			UserID:      userID,
			TemplateID:  template.ID,
			FruitID:     session.FruitID,
			Content:     content,
			CompletedAt: now,
			CreatedAt:   now,
		}
		if err := missionRepo.Create(ctx, mission); err != nil {
			return fmt.Errorf("ミッションの作成に失敗しました: %w", err)
		}
		session.MissionIDs = append(session.MissionIDs, mission.ID)

		// 5. フルーツの段階再計算
		missionCount := len(session.MissionIDs)
		if fruit != nil {
			newStatus := model.StatusForMissionCount(missionCount)
			if newStatus != fruit.Status {
				if err := fruitRepo.UpdateStatus(ctx, fruit.ID, newStatus); err != nil {
					return fmt.Errorf("フルーツの更新に失敗しました: %w", err)
				}
				fruit.Status = newStatus
			}
		}

		// 6. 7件到達でセッション完了・新サイクル開始
		if missionCount >= model.GrowthSessionMissionLimit {
			session.Status = model.GrowthSessionCompleted
			if err := gsRepo.Update(ctx, session); err != nil {
				return fmt.Errorf("成長セッションの更新に失敗しました: %w", err)
			}
			next := s.newGrowthSession(userID, now)
			if err := gsRepo.Create(ctx, next); err != nil {
				slog.Error("failed to create next growth session", slog.String("error", err.Error()))
				return model.NewSessionCreationFailedError()
			}
			result.NewSession = next
		} else {
			if err := gsRepo.Update(ctx, session); err != nil {
				return fmt.Errorf("成長セッションの更新に失敗しました: %w", err)
			}
		}

		result.Mission = mission
		result.Session = session
		result.Fruit = fruit
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.RecordMissionCompleted(string(model.MissionTypeNormal))
		if result.NewSession != nil {
			s.collector.RecordGrowthSessionCompleted()
		}
	}

	slog.Info("mission completed",
		slog.String("user_id", userID),
		slog.String("mission_id", result.Mission.ID),
		slog.Int("session_mission_count", len(result.Session.MissionIDs)),
	)

	return result, nil
}

// CompleteEventMission はイベントミッションを完了する。
// テンプレートはEVENT型でなければならない。フルーツ・セッションの進行は行わず、
// 同一テンプレートにつき1日1回のガードのみ適用する。
func (s *Service) CompleteEventMission(ctx context.Context, userID, templateID, content string) (*CompleteMissionResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	content, err := s.validateContent(content)
	if err != nil {
		return nil, err
	}

	template, err := s.templateRepo.FindByID(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("テンプレートの取得に失敗しました: %w", err)
	}
	if template == nil {
		return nil, model.NewTemplateNotFoundError(templateID)
	}
	if template.Type != model.MissionTypeEvent {
		return nil, model.NewNotEventTemplateError()
	}

	return s.completeEvent(ctx, userID, template, content)
}

// completeEvent はイベント完了の本体。呼び出し元でユーザーロックを獲得済みであること。
func (s *Service) completeEvent(ctx context.Context, userID string, template *model.MissionTemplate, content string) (*CompleteMissionResult, error) {
	now := s.clock.Now()
	from, to := dayRange(now, s.dayLoc)

	done, err := s.missionRepo.TemplateCompletedInRange(ctx, userID, template.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("完了状況の取得に失敗しました: %w", err)
	}
	if done {
		if s.collector != nil {
			s.collector.RecordDailyLimitRejection()
		}
		return nil, model.NewDailyLimitExceededError()
	}

	mission := &model.Mission{
		ID:          uuid.New().String(),
		UserID:      userID,
		TemplateID:  template.ID,
		Content:     content,
		CompletedAt: now,
		CreatedAt:   now,
	}
	if err := s.missionRepo.Create(ctx, mission); err != nil {
		return nil, fmt.Errorf("ミッションの作成に失敗しました: %w", err)
	}

	if s.collector != nil {
		s.collector.RecordMissionCompleted(string(model.MissionTypeEvent))
	}

	slog.Info("event mission completed",
		slog.String("user_id", userID),
		slog.String("template_id", template.ID),
	)

	return &CompleteMissionResult{Mission: mission}, nil
}

// AddInteraction はミッションに絵文字リアクションを追記する。
// 許可絵文字以外はINVALID_INTERACTIONで拒否する。
func (s *Service) AddInteraction(ctx context.Context, missionID, userID, icon string) (*model.Mission, error) {
	if !model.IsAllowedInteractionIcon(icon) {
		return nil, model.NewInvalidInteractionError(model.AllowedInteractionIcons)
	}

	mission, err := s.missionRepo.FindByID(ctx, missionID)
	if err != nil {
		return nil, fmt.Errorf("ミッションの取得に失敗しました: %w", err)
	}
	if mission == nil {
		return nil, model.NewMissionNotFoundError(missionID)
	}

	interaction := model.Interaction{
		Icon:   icon,
		UserID: userID,
	}
	// ストア側のアトミック追記に委ねることで、並行するリアクションの欠落を防ぐ
	if err := s.missionRepo.AppendInteraction(ctx, mission.ID, interaction); err != nil {
		return nil, fmt.Errorf("リアクションの保存に失敗しました: %w", err)
	}

	mission.Interactions = append(mission.Interactions, interaction)
	return mission, nil
}

// ListMissions は指定ユーザーのミッション記録を完了日時降順で返す。
func (s *Service) ListMissions(ctx context.Context, userID string) ([]*model.Mission, error) {
	missions, err := s.missionRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ミッション一覧の取得に失敗しました: %w", err)
	}
	return missions, nil
}

// ListTemplates はミッションカタログを返す。
func (s *Service) ListTemplates(ctx context.Context) ([]*model.MissionTemplate, error) {
	templates, err := s.templateRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ミッションテンプレートの取得に失敗しました: %w", err)
	}
	return templates, nil
}

// TodayTemplate は本日の推奨ミッションテンプレートを返す。
// 暦日（日次境界タイムゾーン基準）ごとに通常テンプレートから決定的に選択するため、
// 同じ日のリクエストは常に同じテンプレートを返す。
func (s *Service) TodayTemplate(ctx context.Context) (*model.MissionTemplate, error) {
	templates, err := s.templateRepo.ListByType(ctx, model.MissionTypeNormal)
	if err != nil {
		return nil, fmt.Errorf("ミッションテンプレートの取得に失敗しました: %w", err)
	}
	if len(templates) == 0 {
		return nil, model.NewTemplateNotFoundError("today")
	}

	day, _ := dayRange(s.clock.Now(), s.dayLoc)
	idx := int(day.Unix()/86400) % len(templates)
	if idx < 0 {
		idx += len(templates)
	}
	return templates[idx], nil
}

// GetProgress は現在の育成進捗スナップショットを返す。
// セッション未開始の場合は空のProgressを返す。
func (s *Service) GetProgress(ctx context.Context, userID string) (*Progress, error) {
	session, err := s.growthSessionRepo.FindInProgressByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("成長セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return &Progress{}, nil
	}

	progress := &Progress{
		Session:      session,
		MissionCount: len(session.MissionIDs),
	}

	if session.FruitID != "" {
		fruit, err := s.fruitRepo.FindByID(ctx, session.FruitID)
		if err != nil {
			return nil, fmt.Errorf("フルーツの取得に失敗しました: %w", err)
		}
		progress.Fruit = fruit
		if fruit != nil {
			template, err := s.fruitTemplateRepo.FindByID(ctx, fruit.TemplateID)
			if err != nil {
				return nil, fmt.Errorf("フルーツテンプレートの取得に失敗しました: %w", err)
			}
			progress.Template = template
		}
	}

	return progress, nil
}

// validateContent は所感テキストをサニタイズし、1〜40文字（rune単位）であることを検証する。
func (s *Service) validateContent(content string) (string, error) {
	if s.sanitizer != nil {
		content = s.sanitizer.Sanitize(content)
	}
	n := utf8.RuneCountInString(content)
	if n < 1 || n > model.MissionContentMaxLength {
		return "", model.NewInvalidContentError()
	}
	return content, nil
}

// newGrowthSession は空の「in progress」セッションを生成する。
func (s *Service) newGrowthSession(userID string, now time.Time) *model.GrowthSession {
	return &model.GrowthSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		Status:    model.GrowthSessionInProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// createRandomFruit はフルーツカタログからランダムに1種を選び、
// 1段階目のフルーツを作成する。カタログが空の場合はnilを返し、
// セッションはフルーツなしで進行する。
func (s *Service) createRandomFruit(ctx context.Context, fruitRepo repository.FruitRepository, userID string, now time.Time) (*model.Fruit, error) {
	templates, err := s.fruitTemplateRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("フルーツテンプレートの取得に失敗しました: %w", err)
	}
	if len(templates) == 0 {
		slog.Warn("no fruit templates available, session advances without fruit",
			slog.String("user_id", userID),
		)
		return nil, nil
	}

	template := templates[rand.Intn(len(templates))]
	fruit := &model.Fruit{
		ID:         uuid.New().String(),
		UserID:     userID,
		TemplateID: template.ID,
		Status:     model.StatusFirst,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := fruitRepo.Create(ctx, fruit); err != nil {
		return nil, fmt.Errorf("フルーツの作成に失敗しました: %w", err)
	}
	return fruit, nil
}
