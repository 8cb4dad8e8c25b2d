package model

import "time"

// Verse は日付ごとに表示する聖句カタログのエントリを表す。
type Verse struct {
	ID        string
	Date      time.Time // 表示対象日（日付のみ有効）
	Content   string
	Reference string
	CreatedAt time.Time
	UpdatedAt time.Time
}
