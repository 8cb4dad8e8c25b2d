// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, mission, fruit, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthenticated       = "UNAUTHENTICATED"
	ErrCodeUnauthorized          = "UNAUTHORIZED"
	ErrCodeDailyLimitExceeded    = "DAILY_LIMIT_EXCEEDED"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeDuplicateUser         = "DUPLICATE_USER"
	ErrCodeMissionNotFound       = "MISSION_NOT_FOUND"
	ErrCodeTemplateNotFound      = "TEMPLATE_NOT_FOUND"
	ErrCodeNotEventTemplate      = "NOT_EVENT_TEMPLATE"
	ErrCodeFruitNotFound         = "FRUIT_NOT_FOUND"
	ErrCodeFruitNotReady         = "FRUIT_NOT_READY"
	ErrCodeInvalidInteraction    = "INVALID_INTERACTION"
	ErrCodeInvalidContent        = "INVALID_CONTENT"
	ErrCodeSessionCreationFailed = "SESSION_CREATION_FAILED"
	ErrCodeVerseNotFound         = "VERSE_NOT_FOUND"
)

// NewUnauthenticatedError は未認証エラーを生成する。
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthenticated,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewUnauthorizedError は所有権不一致エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分が所有するリソースに対してのみ操作できます。",
	}
}

// NewDailyLimitExceededError は日次完了上限エラーを生成する。
// 上限に達した完了リクエストはレコードを一切作成しない。
func NewDailyLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeDailyLimitExceeded,
		Message:  "本日のミッションはすでに完了しています。",
		Category: "mission",
		Action:   "翌日になってから再度お試しください。",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "登録されていないユーザーです。",
		Category: "auth",
		Action:   "セルと名前を確認してください。",
	}
}

// NewDuplicateUserError は同一セル・同一名のユーザー重複エラーを生成する。
func NewDuplicateUserError(cell, name string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateUser,
		Message:  fmt.Sprintf("同じセルに同じ名前のユーザーがすでに存在します: %s / %s", cell, name),
		Category: "validation",
		Action:   "別の名前で登録するか、既存ユーザーでログインしてください。",
	}
}

// NewMissionNotFoundError はミッション未検出エラーを生成する。
func NewMissionNotFoundError(missionID string) *APIError {
	return &APIError{
		Code:     ErrCodeMissionNotFound,
		Message:  fmt.Sprintf("指定されたミッションが見つかりません: %s", missionID),
		Category: "mission",
		Action:   "ミッションIDを確認してください。",
	}
}

// NewTemplateNotFoundError はテンプレート未検出エラーを生成する。
func NewTemplateNotFoundError(templateID string) *APIError {
	return &APIError{
		Code:     ErrCodeTemplateNotFound,
		Message:  fmt.Sprintf("指定されたテンプレートが見つかりません: %s", templateID),
		Category: "mission",
		Action:   "テンプレートIDを確認してください。",
	}
}

// NewNotEventTemplateError はイベント型でないテンプレートへの
// イベント完了リクエストのエラーを生成する。
func NewNotEventTemplateError() *APIError {
	return &APIError{
		Code:     ErrCodeNotEventTemplate,
		Message:  "イベントミッションではありません。",
		Category: "mission",
		Action:   "イベント型のミッションテンプレートを指定してください。",
	}
}

// NewFruitNotFoundError はフルーツ未検出エラーを生成する。
func NewFruitNotFoundError(fruitID string) *APIError {
	return &APIError{
		Code:     ErrCodeFruitNotFound,
		Message:  fmt.Sprintf("指定されたフルーツが見つかりません: %s", fruitID),
		Category: "fruit",
		Action:   "フルーツIDを確認してください。",
	}
}

// NewFruitNotReadyError は収穫段階に達していないフルーツの収穫エラーを生成する。
func NewFruitNotReadyError() *APIError {
	return &APIError{
		Code:     ErrCodeFruitNotReady,
		Message:  "フルーツはまだ収穫できる段階ではありません。",
		Category: "fruit",
		Action:   "7段階目まで育ててから収穫してください。",
	}
}

// NewInvalidInteractionError は許可外の絵文字リアクションエラーを生成する。
func NewInvalidInteractionError(allowed []string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidInteraction,
		Message:  "使用できない絵文字です。",
		Category: "validation",
		Action:   fmt.Sprintf("次の絵文字のいずれかを使用してください: %v", allowed),
	}
}

// NewInvalidContentError はミッション自由記述の不正エラーを生成する。
func NewInvalidContentError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidContent,
		Message:  fmt.Sprintf("ミッションの記述は1〜%d文字で入力してください。", MissionContentMaxLength),
		Category: "validation",
		Action:   "文字数を確認して再度入力してください。",
	}
}

// NewSessionCreationFailedError は成長セッションの作成失敗エラーを生成する。
// 永続化層が結果を返さなかった致命的な状態を示す。
func NewSessionCreationFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSessionCreationFailed,
		Message:  "セッションの作成に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewVerseNotFoundError は本日分の聖句未登録エラーを生成する。
func NewVerseNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeVerseNotFound,
		Message:  "本日の聖句が登録されていません。",
		Category: "system",
		Action:   "管理者に聖句の登録を依頼してください。",
	}
}
