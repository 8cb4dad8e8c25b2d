// Package verse は日替わり聖句のドメインロジックを提供する。
package verse

import (
	"context"
	"fmt"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/repository"
)

// Clock は現在時刻の取得を抽象化する。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Service は聖句に関するビジネスロジックを提供する。
type Service struct {
	verseRepo repository.VerseRepository
	clock     Clock
	dayLoc    *time.Location
}

// NewService はServiceを生成する。
// clockがnilの場合はシステム時刻を使用する。
func NewService(verseRepo repository.VerseRepository, clock Clock, dayLoc *time.Location) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if dayLoc == nil {
		dayLoc = time.UTC
	}
	return &Service{
		verseRepo: verseRepo,
		clock:     clock,
		dayLoc:    dayLoc,
	}
}

// TodaysVerse は本日（日次境界タイムゾーン基準）の聖句を返す。
// 未登録の場合はVERSE_NOT_FOUNDエラーを返す。
func (s *Service) TodaysVerse(ctx context.Context) (*model.Verse, error) {
	today := s.clock.Now().In(s.dayLoc)

	verse, err := s.verseRepo.FindByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("聖句の取得に失敗しました: %w", err)
	}
	if verse == nil {
		return nil, model.NewVerseNotFoundError()
	}
	return verse, nil
}
