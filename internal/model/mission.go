package model

import "time"

// MissionTemplateType はミッションテンプレートの種別を表す。
type MissionTemplateType string

const (
	// MissionTypeNormal は1日1回のフルーツ成長フローで使用される。
	MissionTypeNormal MissionTemplateType = "NORMAL"
	// MissionTypeEvent はフルーツ成長を伴わず、日次完了のみ記録する。
	MissionTypeEvent MissionTemplateType = "EVENT"
)

// MissionTemplate はミッションの読み取り専用カタログエントリを表す。
type MissionTemplate struct {
	ID        string
	Name      string
	Content   string
	Type      MissionTemplateType
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MissionContentMaxLength はミッション自由記述の最大文字数（rune単位）。
const MissionContentMaxLength = 40

// Interaction はミッションへの絵文字リアクション1件を表す。
type Interaction struct {
	Icon   string `json:"icon"`
	UserID string `json:"user_id"`
}

// AllowedInteractionIcons はリアクションとして許可される絵文字の一覧。
var AllowedInteractionIcons = []string{"😆", "😮", "💪", "🙏", "👏"}

// IsAllowedInteractionIcon は許可された絵文字かどうかを返す。
func IsAllowedInteractionIcon(icon string) bool {
	for _, v := range AllowedInteractionIcons {
		if icon == v {
			return true
		}
	}
	return false
}

// Mission は1回のミッション完了記録を表す。
// 完了アクションごとに1件だけ作成され、以後はリアクションの追記のみ可能。
// FruitIDはイベントミッションの場合は空となる。
type Mission struct {
	ID           string
	UserID       string
	TemplateID   string
	FruitID      string // イベントミッションでは空
	Content      string
	Interactions []Interaction
	CompletedAt  time.Time
	CreatedAt    time.Time
}
