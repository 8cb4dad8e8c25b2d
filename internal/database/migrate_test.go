package database

import (
	"strings"
	"testing"
)

// 埋め込みマイグレーションにup/downのペアが揃っていることを検証
func TestMigrationsFS_UpDownPairs(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("failed to read migrations dir: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migration files embedded")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file name: %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("missing down migration for %s", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("missing up migration for %s", base)
		}
	}
}

// 初期スキーマに全テーブルが定義されていることを検証
func TestInitSchema_ContainsAllTables(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000001_init_schema.up.sql")
	if err != nil {
		t.Fatalf("failed to read init schema: %v", err)
	}
	content := string(data)

	tables := []string{
		"users",
		"sessions",
		"fruit_templates",
		"fruits",
		"mission_templates",
		"missions",
		"growth_sessions",
		"verses",
	}
	for _, table := range tables {
		if !strings.Contains(content, "CREATE TABLE "+table) {
			t.Errorf("init schema should create table %s", table)
		}
	}

	// ユーザーごとの「in progress」セッション一意性は部分インデックスで保証する
	if !strings.Contains(content, "uq_growth_sessions_in_progress") {
		t.Error("init schema should define the unique in-progress session index")
	}
}

// シードマイグレーションがカタログを投入することを検証
func TestSeedTemplates_InsertsCatalog(t *testing.T) {
	data, err := migrationsFS.ReadFile("migrations/000002_seed_templates.up.sql")
	if err != nil {
		t.Fatalf("failed to read seed migration: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "INSERT INTO fruit_templates") {
		t.Error("seed migration should insert fruit templates")
	}
	if !strings.Contains(content, "INSERT INTO mission_templates") {
		t.Error("seed migration should insert mission templates")
	}
}
