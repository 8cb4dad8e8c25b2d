package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/haneul/grapechallenge/internal/model"
)

// VerseServiceInterface は聖句ハンドラーが必要とするサービスインターフェース。
type VerseServiceInterface interface {
	// TodaysVerse は本日の聖句を返す。未登録の場合はVERSE_NOT_FOUND。
	TodaysVerse(ctx context.Context) (*model.Verse, error)
}

// VerseHandler は聖句のHTTPハンドラー。
type VerseHandler struct {
	service VerseServiceInterface
}

// NewVerseHandler はVerseHandlerを生成する。
func NewVerseHandler(service VerseServiceInterface) *VerseHandler {
	return &VerseHandler{
		service: service,
	}
}

// verseResponse は聖句のAPIレスポンス。
type verseResponse struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Content   string `json:"content"`
	Reference string `json:"reference"`
}

// Today は本日の聖句を返す。
// GET /api/verses/today
func (h *VerseHandler) Today(w http.ResponseWriter, r *http.Request) {
	verse, err := h.service.TodaysVerse(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(verseResponse{
		ID:        verse.ID,
		Date:      verse.Date.Format("2006-01-02"),
		Content:   verse.Content,
		Reference: verse.Reference,
	})
}
