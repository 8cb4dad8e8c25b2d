package mission

import "time"

// Clock は現在時刻の取得を抽象化する。
// テストで日次境界をまたぐシナリオを再現するために使用する。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// NewRealClock はシステム時刻を返すClockを生成する。
func NewRealClock() Clock { return realClock{} }

// dayRange はnowが属する暦日の[開始, 翌日開始)をlocのタイムゾーンで返す。
// 日次上限ガードのカウント範囲として使用する。
func dayRange(now time.Time, loc *time.Location) (from, to time.Time) {
	local := now.In(loc)
	from = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	to = from.AddDate(0, 0, 1)
	return from, to
}
