package model

import "time"

// FruitStatus はフルーツの成長段階を表す。
// FIRST_STATUSからSEVENTH_STATUSまでの7段階と、収穫後のCOMPLETEDの計8値。
type FruitStatus string

const (
	StatusFirst     FruitStatus = "FIRST_STATUS"
	StatusSecond    FruitStatus = "SECOND_STATUS"
	StatusThird     FruitStatus = "THIRD_STATUS"
	StatusFourth    FruitStatus = "FOURTH_STATUS"
	StatusFifth     FruitStatus = "FIFTH_STATUS"
	StatusSixth     FruitStatus = "SIXTH_STATUS"
	StatusSeventh   FruitStatus = "SEVENTH_STATUS"
	StatusCompleted FruitStatus = "COMPLETED"
)

// statusOrder は成長段階の順序を定義する。
var statusOrder = []FruitStatus{
	StatusFirst,
	StatusSecond,
	StatusThird,
	StatusFourth,
	StatusFifth,
	StatusSixth,
	StatusSeventh,
	StatusCompleted,
}

// IsValid は既知の成長段階かどうかを返す。
func (s FruitStatus) IsValid() bool {
	for _, v := range statusOrder {
		if s == v {
			return true
		}
	}
	return false
}

// Next は次の成長段階を返す（純粋関数）。
// SEVENTH_STATUSからCOMPLETEDへの遷移は収穫（Harvest）専用のため、
// NextはSEVENTH_STATUSに留まる。COMPLETEDは終端でありそのまま返す。
// 巻き戻りや段階スキップは発生しない。
func (s FruitStatus) Next() FruitStatus {
	switch s {
	case StatusFirst:
		return StatusSecond
	case StatusSecond:
		return StatusThird
	case StatusThird:
		return StatusFourth
	case StatusFourth:
		return StatusFifth
	case StatusFifth:
		return StatusSixth
	case StatusSixth:
		return StatusSeventh
	case StatusSeventh:
		return StatusSeventh
	case StatusCompleted:
		return StatusCompleted
	default:
		return s
	}
}

// Index は成長段階の序数（FIRST_STATUS=0 … COMPLETED=7）を返す。
// 未知の値は-1を返す。
func (s FruitStatus) Index() int {
	for i, v := range statusOrder {
		if s == v {
			return i
		}
	}
	return -1
}

// StatusForMissionCount はセッション内のミッション完了数から表示上の
// 成長段階を導出する（0,1→FIRST … 7→SEVENTH のルックアップテーブル）。
// 8以上はSEVENTH_STATUSに飽和する。
func StatusForMissionCount(count int) FruitStatus {
	switch {
	case count <= 1:
		return StatusFirst
	case count >= 7:
		return StatusSeventh
	default:
		return statusOrder[count-1]
	}
}

// FruitTemplate はフルーツの読み取り専用カタログエントリを表す。
// 成長段階ごとの画像参照を7つ保持する。
type FruitTemplate struct {
	ID          string
	Name        string
	Type        string // "normal" | "event"
	StageImages [7]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fruit はユーザーごとの成長オブジェクトを表す。
// ミッション完了によってのみ前方向に遷移する。
type Fruit struct {
	ID         string
	UserID     string
	TemplateID string
	Status     FruitStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
