package mission

import "sync"

// userLocks はユーザーIDごとの排他ロックを提供する。
// 同一ユーザーからの同時完了リクエストを直列化し、
// 日次上限ガードの二重完了レースを閉じる。
// エントリは参照カウントで管理し、保持者も待機者もいなくなった時点で
// マップから削除するため、マップサイズは同時リクエスト中のユーザー数に留まる。
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLockEntry
}

type userLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLockEntry)}
}

// lock は指定ユーザーのロックを獲得し、解放関数を返す。
func (l *userLocks) lock(userID string) func() {
	l.mu.Lock()
	e, ok := l.locks[userID]
	if !ok {
		e = &userLockEntry{}
		l.locks[userID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

// size は現在マップに残っているエントリ数を返す（テスト用）。
func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
