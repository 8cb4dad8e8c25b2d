// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。(cell, name)が重複する場合はエラーを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByCellAndName はセルと名前でユーザーを検索する。見つからない場合はnilを返す。
	FindByCellAndName(ctx context.Context, cell, name string) (*model.User, error)

	// ListByCell は指定セルの全ユーザーを返す。
	ListByCell(ctx context.Context, cell string) ([]*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はログインセッションの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// FruitTemplateRepository はフルーツカタログの読み取りインターフェース。
type FruitTemplateRepository interface {
	// ListAll は全フルーツテンプレートを返す。
	ListAll(ctx context.Context) ([]*model.FruitTemplate, error)

	// FindByID は指定IDのテンプレートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.FruitTemplate, error)

	// FindByName は名前でテンプレートを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.FruitTemplate, error)
}

// FruitWithTemplate はフルーツとテンプレートの段階画像を結合した構造体。
// セル単位の一覧画面で使用する。
type FruitWithTemplate struct {
	model.Fruit
	TemplateName string
	TemplateType string
	StageImages  [7]string
	OwnerName    string
}

// TemplateFruitCount はテンプレートごとのフルーツ数を表す。
type TemplateFruitCount struct {
	TemplateID   string
	TemplateName string
	Count        int
}

// FruitRepository はフルーツデータの永続化インターフェース。
type FruitRepository interface {
	// Create はフルーツを作成する。
	Create(ctx context.Context, fruit *model.Fruit) error

	// FindByID は指定IDのフルーツを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Fruit, error)

	// UpdateStatus はフルーツの成長段階を更新する。
	UpdateStatus(ctx context.Context, id string, status model.FruitStatus) error

	// ListByUserID はユーザーの全フルーツを作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Fruit, error)

	// ListByCellWithTemplate は指定セルの全ユーザーのフルーツを
	// テンプレートの段階画像付きで返す。
	ListByCellWithTemplate(ctx context.Context, cell string) ([]FruitWithTemplate, error)

	// CountCompletedByUserID はユーザーの収穫済みフルーツ数を返す。
	CountCompletedByUserID(ctx context.Context, userID string) (int, error)

	// CountByStatusGroup は全体の(total, in_progress, completed)を返す。
	CountByStatusGroup(ctx context.Context) (total, inProgress, completed int, err error)

	// CountByTemplate はテンプレートごとのフルーツ数を返す。
	CountByTemplate(ctx context.Context) ([]TemplateFruitCount, error)

	// DeleteByUserID はユーザーの全フルーツを削除する。
	DeleteByUserID(ctx context.Context, userID string) error

	// WithTx はトランザクションに束縛されたリポジトリを返す。
	WithTx(tx *sql.Tx) FruitRepository
}

// MissionTemplateRepository はミッションカタログの読み取りインターフェース。
type MissionTemplateRepository interface {
	// ListAll は全ミッションテンプレートを返す。
	ListAll(ctx context.Context) ([]*model.MissionTemplate, error)

	// ListByType は指定種別のミッションテンプレートを返す。
	ListByType(ctx context.Context, t model.MissionTemplateType) ([]*model.MissionTemplate, error)

	// FindByID は指定IDのテンプレートを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.MissionTemplate, error)

	// FindByName は名前でテンプレートを検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.MissionTemplate, error)
}

// MissionRepository はミッション完了記録の永続化インターフェース。
type MissionRepository interface {
	// Create はミッションを作成する。
	Create(ctx context.Context, mission *model.Mission) error

	// FindByID は指定IDのミッションを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Mission, error)

	// ListByUserID はユーザーのミッションを完了日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Mission, error)

	// CountNormalCompletedInRange はcompleted_atが[from, to)に入るユーザーの
	// 通常（NORMAL）ミッション数を返す。日次上限ガードで使用する。
	// イベントミッションは通常ミッションの上限に影響しないため除外する。
	CountNormalCompletedInRange(ctx context.Context, userID string, from, to time.Time) (int, error)

	// TemplateCompletedInRange は指定テンプレートのミッションが
	// [from, to)内に存在するかを返す。イベントミッションのガードで使用する。
	TemplateCompletedInRange(ctx context.Context, userID, templateID string, from, to time.Time) (bool, error)

	// AppendInteraction はミッションのリアクション一覧に1件追記する。
	// 追記はストア側でアトミックに行われ、並行する追記を失わない。
	AppendInteraction(ctx context.Context, id string, interaction model.Interaction) error

	// CountByUserID はユーザーの総ミッション数を返す。
	CountByUserID(ctx context.Context, userID string) (int, error)

	// DeleteByUserID はユーザーの全ミッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error

	// WithTx はトランザクションに束縛されたリポジトリを返す。
	WithTx(tx *sql.Tx) MissionRepository
}

// GrowthSessionRepository は成長セッションの永続化インターフェース。
type GrowthSessionRepository interface {
	// Create は成長セッションを作成する。
	Create(ctx context.Context, session *model.GrowthSession) error

	// FindInProgressByUserID はユーザーの「in progress」セッションを取得する。
	// 見つからない場合はnilを返す。
	FindInProgressByUserID(ctx context.Context, userID string) (*model.GrowthSession, error)

	// Update はmission_ids、fruit_id、statusを更新する。
	Update(ctx context.Context, session *model.GrowthSession) error

	// ListByUserID はユーザーの全セッションを作成日時降順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.GrowthSession, error)

	// DeleteByUserID はユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error

	// WithTx はトランザクションに束縛されたリポジトリを返す。
	WithTx(tx *sql.Tx) GrowthSessionRepository
}

// VerseRepository は聖句カタログの読み取りインターフェース。
type VerseRepository interface {
	// FindByDate は指定日の聖句を取得する。見つからない場合はnilを返す。
	FindByDate(ctx context.Context, date time.Time) (*model.Verse, error)
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TxRunner はトランザクション境界の実行インターフェース。
// ミッション完了ワークフローのmission+session+fruitをまたぐ更新を
// 単一トランザクションにまとめるために使用する。
type TxRunner interface {
	// RunInTx はfnをトランザクション内で実行する。
	// fnがエラーを返した場合はロールバックし、そのエラーを返す。
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// dbtx は*sql.DBと*sql.Txの共通部分集合。
// WithTxによるトランザクション束縛を可能にする。
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
