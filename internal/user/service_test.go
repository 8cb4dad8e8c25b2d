package user

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/repository"
)

// mockUserRepo はUserRepositoryのモック実装。
// 未設定のフィールドはゼロ値を返す。
type mockUserRepo struct {
	createFunc            func(ctx context.Context, user *model.User) error
	findByIDFunc          func(ctx context.Context, id string) (*model.User, error)
	findByCellAndNameFunc func(ctx context.Context, cell, name string) (*model.User, error)
	listByCellFunc        func(ctx context.Context, cell string) ([]*model.User, error)
	deleteByIDFunc        func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByCellAndName(ctx context.Context, cell, name string) (*model.User, error) {
	if m.findByCellAndNameFunc != nil {
		return m.findByCellAndNameFunc(ctx, cell, name)
	}
	return nil, nil
}

func (m *mockUserRepo) ListByCell(ctx context.Context, cell string) ([]*model.User, error) {
	if m.listByCellFunc != nil {
		return m.listByCellFunc(ctx, cell)
	}
	return nil, nil
}

func (m *mockUserRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

// mockSessionRepo はSessionRepositoryのモック実装。
type mockSessionRepo struct {
	deleteByUserIDFunc func(ctx context.Context, userID string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error { return nil }

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error { return nil }

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}

// mockMissionRepo はMissionRepositoryのモック実装。
type mockMissionRepo struct {
	deleteByUserIDFunc func(ctx context.Context, userID string) error
	countByUserIDFunc  func(ctx context.Context, userID string) (int, error)
}

func (m *mockMissionRepo) Create(ctx context.Context, mission *model.Mission) error { return nil }

func (m *mockMissionRepo) FindByID(ctx context.Context, id string) (*model.Mission, error) {
	return nil, nil
}

func (m *mockMissionRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Mission, error) {
	return nil, nil
}

func (m *mockMissionRepo) CountNormalCompletedInRange(ctx context.Context, userID string, from, to time.Time) (int, error) {
	return 0, nil
}

func (m *mockMissionRepo) TemplateCompletedInRange(ctx context.Context, userID, templateID string, from, to time.Time) (bool, error) {
	return false, nil
}

func (m *mockMissionRepo) AppendInteraction(ctx context.Context, id string, interaction model.Interaction) error {
	return nil
}

func (m *mockMissionRepo) CountByUserID(ctx context.Context, userID string) (int, error) {
	if m.countByUserIDFunc != nil {
		return m.countByUserIDFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockMissionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *mockMissionRepo) WithTx(tx *sql.Tx) repository.MissionRepository { return m }

// mockFruitRepo はFruitRepositoryのモック実装。
type mockFruitRepo struct {
	deleteByUserIDFunc         func(ctx context.Context, userID string) error
	countCompletedByUserIDFunc func(ctx context.Context, userID string) (int, error)
}

func (m *mockFruitRepo) Create(ctx context.Context, fruit *model.Fruit) error { return nil }

func (m *mockFruitRepo) FindByID(ctx context.Context, id string) (*model.Fruit, error) {
	return nil, nil
}

func (m *mockFruitRepo) UpdateStatus(ctx context.Context, id string, status model.FruitStatus) error {
	return nil
}

func (m *mockFruitRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Fruit, error) {
	return nil, nil
}

func (m *mockFruitRepo) ListByCellWithTemplate(ctx context.Context, cell string) ([]repository.FruitWithTemplate, error) {
	return nil, nil
}

func (m *mockFruitRepo) CountCompletedByUserID(ctx context.Context, userID string) (int, error) {
	if m.countCompletedByUserIDFunc != nil {
		return m.countCompletedByUserIDFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockFruitRepo) CountByStatusGroup(ctx context.Context) (int, int, int, error) {
	return 0, 0, 0, nil
}

func (m *mockFruitRepo) CountByTemplate(ctx context.Context) ([]repository.TemplateFruitCount, error) {
	return nil, nil
}

func (m *mockFruitRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *mockFruitRepo) WithTx(tx *sql.Tx) repository.FruitRepository { return m }

// mockGrowthSessionRepo はGrowthSessionRepositoryのモック実装。
type mockGrowthSessionRepo struct {
	deleteByUserIDFunc func(ctx context.Context, userID string) error
}

func (m *mockGrowthSessionRepo) Create(ctx context.Context, session *model.GrowthSession) error {
	return nil
}

func (m *mockGrowthSessionRepo) FindInProgressByUserID(ctx context.Context, userID string) (*model.GrowthSession, error) {
	return nil, nil
}

func (m *mockGrowthSessionRepo) Update(ctx context.Context, session *model.GrowthSession) error {
	return nil
}

func (m *mockGrowthSessionRepo) ListByUserID(ctx context.Context, userID string) ([]*model.GrowthSession, error) {
	return nil, nil
}

func (m *mockGrowthSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	if m.deleteByUserIDFunc != nil {
		return m.deleteByUserIDFunc(ctx, userID)
	}
	return nil
}

func (m *mockGrowthSessionRepo) WithTx(tx *sql.Tx) repository.GrowthSessionRepository { return m }

func newTestService(
	userRepo *mockUserRepo,
	sessionRepo *mockSessionRepo,
	missionRepo *mockMissionRepo,
	fruitRepo *mockFruitRepo,
	gsRepo *mockGrowthSessionRepo,
) *Service {
	return NewService(userRepo, sessionRepo, missionRepo, fruitRepo, gsRepo)
}

// 新規ユーザーの登録が成功することを検証
func TestRegister_Success(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := newTestService(userRepo, &mockSessionRepo{}, &mockMissionRepo{}, &mockFruitRepo{}, &mockGrowthSessionRepo{})

	user, err := svc.Register(context.Background(), "3셀", "박은혜")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected user to be persisted")
	}
	if user.Cell != "3셀" || user.Name != "박은혜" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
}

// 同一セル・同一名の重複登録がDUPLICATE_USERで拒否されることを検証
func TestRegister_DuplicateUser(t *testing.T) {
	userRepo := &mockUserRepo{
		findByCellAndNameFunc: func(ctx context.Context, cell, name string) (*model.User, error) {
			return &model.User{ID: "existing", Cell: cell, Name: name}, nil
		},
		createFunc: func(ctx context.Context, user *model.User) error {
			t.Fatal("duplicate user must not be created")
			return nil
		},
	}

	svc := newTestService(userRepo, &mockSessionRepo{}, &mockMissionRepo{}, &mockFruitRepo{}, &mockGrowthSessionRepo{})

	_, err := svc.Register(context.Background(), "3셀", "박은혜")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeDuplicateUser {
		t.Errorf("expected DUPLICATE_USER, got %v", err)
	}
}

// 退会処理が関連データを順に削除することを検証
func TestWithdraw_DeletesAllUserData(t *testing.T) {
	var order []string

	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Cell: "1셀", Name: "김하늘"}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id string) error {
			order = append(order, "user")
			return nil
		},
	}
	sessionRepo := &mockSessionRepo{
		deleteByUserIDFunc: func(ctx context.Context, userID string) error {
			order = append(order, "sessions")
			return nil
		},
	}
	missionRepo := &mockMissionRepo{
		deleteByUserIDFunc: func(ctx context.Context, userID string) error {
			order = append(order, "missions")
			return nil
		},
	}
	fruitRepo := &mockFruitRepo{
		deleteByUserIDFunc: func(ctx context.Context, userID string) error {
			order = append(order, "fruits")
			return nil
		},
	}
	gsRepo := &mockGrowthSessionRepo{
		deleteByUserIDFunc: func(ctx context.Context, userID string) error {
			order = append(order, "growth_sessions")
			return nil
		},
	}

	svc := newTestService(userRepo, sessionRepo, missionRepo, fruitRepo, gsRepo)

	if err := svc.Withdraw(context.Background(), "user-1"); err != nil {
		t.Fatalf("Withdraw returned error: %v", err)
	}

	want := []string{"missions", "growth_sessions", "fruits", "sessions", "user"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deletions, got %v", len(want), order)
	}
	for i, step := range want {
		if order[i] != step {
			t.Errorf("deletion order[%d] = %s, want %s", i, order[i], step)
		}
	}
}

// セルメンバー統計の集計を検証
func TestCellStats(t *testing.T) {
	userRepo := &mockUserRepo{
		listByCellFunc: func(ctx context.Context, cell string) ([]*model.User, error) {
			return []*model.User{
				{ID: "user-1", Cell: cell, Name: "김하늘"},
				{ID: "user-2", Cell: cell, Name: "박은혜"},
			}, nil
		},
	}
	missionRepo := &mockMissionRepo{
		countByUserIDFunc: func(ctx context.Context, userID string) (int, error) {
			if userID == "user-1" {
				return 14, nil
			}
			return 3, nil
		},
	}
	fruitRepo := &mockFruitRepo{
		countCompletedByUserIDFunc: func(ctx context.Context, userID string) (int, error) {
			if userID == "user-1" {
				return 2, nil
			}
			return 0, nil
		},
	}

	svc := newTestService(userRepo, &mockSessionRepo{}, missionRepo, fruitRepo, &mockGrowthSessionRepo{})

	stats, err := svc.CellStats(context.Background(), "1셀")
	if err != nil {
		t.Fatalf("CellStats returned error: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 members, got %d", len(stats))
	}
	if stats[0].MissionCount != 14 || stats[0].HarvestedFruits != 2 {
		t.Errorf("unexpected stats for user-1: %+v", stats[0])
	}
	if stats[1].MissionCount != 3 || stats[1].HarvestedFruits != 0 {
		t.Errorf("unexpected stats for user-2: %+v", stats[1])
	}
}

// 存在しないユーザーの退会がUSER_NOT_FOUNDになることを検証
func TestWithdraw_UserNotFound(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{}, &mockMissionRepo{}, &mockFruitRepo{}, &mockGrowthSessionRepo{})

	err := svc.Withdraw(context.Background(), "missing-user")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("expected USER_NOT_FOUND, got %v", err)
	}
}
