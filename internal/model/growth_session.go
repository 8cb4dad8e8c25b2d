package model

import "time"

// GrowthSessionStatus は成長セッションの状態を表す。
type GrowthSessionStatus string

const (
	// GrowthSessionInProgress はミッションを受付中のセッションを示す。
	GrowthSessionInProgress GrowthSessionStatus = "in progress"
	// GrowthSessionCompleted はミッション7件に到達し完了したセッションを示す。
	GrowthSessionCompleted GrowthSessionStatus = "completed"
)

// GrowthSessionMissionLimit は1セッションに属するミッション数の上限。
// 到達した瞬間にセッション完了・フルーツ確定・新サイクル作成が行われる。
const GrowthSessionMissionLimit = 7

// GrowthSession はフルーツ1個を育てるミッション7回分のサイクルを表す。
// ユーザーごとに「in progress」のセッションは常に1つだけ存在する。
type GrowthSession struct {
	ID         string
	UserID     string
	FruitID    string // 最初のミッション完了までは空
	MissionIDs []string
	Status     GrowthSessionStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
