// Package model はドメインモデルを定義する。
package model

import "time"

// User はチャレンジ参加ユーザーを表す。
// セル（小グループ）名と表示名の組み合わせで識別される。
type User struct {
	ID        string
	Cell      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session はユーザーのログインセッションを表す。
// ミッション7回分をまとめる成長サイクル（GrowthSession）とは別物。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
