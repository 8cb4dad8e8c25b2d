package repository

import (
	"encoding/json"
	"testing"

	"github.com/haneul/grapechallenge/internal/model"
)

// 各PostgresリポジトリがインターフェースをSatisfyすることを検証
func TestPostgresRepos_ImplementInterfaces(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
	var _ SessionRepository = (*PostgresSessionRepo)(nil)
	var _ FruitRepository = (*PostgresFruitRepo)(nil)
	var _ FruitTemplateRepository = (*PostgresFruitTemplateRepo)(nil)
	var _ MissionRepository = (*PostgresMissionRepo)(nil)
	var _ MissionTemplateRepository = (*PostgresMissionTemplateRepo)(nil)
	var _ GrowthSessionRepository = (*PostgresGrowthSessionRepo)(nil)
	var _ VerseRepository = (*PostgresVerseRepo)(nil)
	var _ TxRunner = (*SQLTxRunner)(nil)
}

// 各コンストラクタがnilでないリポジトリを返すことを検証
func TestNewPostgresRepos_Initialize(t *testing.T) {
	if NewPostgresUserRepo(nil) == nil {
		t.Error("expected non-nil user repo")
	}
	if NewPostgresSessionRepo(nil) == nil {
		t.Error("expected non-nil session repo")
	}
	if NewPostgresFruitRepo(nil) == nil {
		t.Error("expected non-nil fruit repo")
	}
	if NewPostgresFruitTemplateRepo(nil) == nil {
		t.Error("expected non-nil fruit template repo")
	}
	if NewPostgresMissionRepo(nil) == nil {
		t.Error("expected non-nil mission repo")
	}
	if NewPostgresMissionTemplateRepo(nil) == nil {
		t.Error("expected non-nil mission template repo")
	}
	if NewPostgresGrowthSessionRepo(nil) == nil {
		t.Error("expected non-nil growth session repo")
	}
	if NewPostgresVerseRepo(nil) == nil {
		t.Error("expected non-nil verse repo")
	}
}

// WithTxがトランザクション束縛の新しいインスタンスを返すことを検証
func TestWithTx_ReturnsBoundCopy(t *testing.T) {
	missionRepo := NewPostgresMissionRepo(nil)
	if bound := missionRepo.WithTx(nil); bound == missionRepo {
		t.Error("expected WithTx to return a new instance")
	}

	fruitRepo := NewPostgresFruitRepo(nil)
	if bound := fruitRepo.WithTx(nil); bound == fruitRepo {
		t.Error("expected WithTx to return a new instance")
	}

	sessionRepo := NewPostgresGrowthSessionRepo(nil)
	if bound := sessionRepo.WithTx(nil); bound == sessionRepo {
		t.Error("expected WithTx to return a new instance")
	}
}

// marshalInteractionsがnilを空配列として格納することを検証
// （jsonb列にnullを入れないための仕様）
func TestMarshalInteractions_NilBecomesEmptyArray(t *testing.T) {
	data, err := marshalInteractions(nil)
	if err != nil {
		t.Fatalf("marshalInteractions returned error: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected empty JSON array, got %s", data)
	}
}

// marshalInteractionsがリアクションをicon/user_idのペアで直列化することを検証
func TestMarshalInteractions_RoundTrip(t *testing.T) {
	in := []model.Interaction{
		{Icon: "👏", UserID: "user-1"},
		{Icon: "🙏", UserID: "user-2"},
	}
	data, err := marshalInteractions(in)
	if err != nil {
		t.Fatalf("marshalInteractions returned error: %v", err)
	}

	var out []model.Interaction
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(out) != 2 || out[0].Icon != "👏" || out[1].UserID != "user-2" {
		t.Errorf("unexpected round-trip result: %+v", out)
	}
}
