package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haneul/grapechallenge/internal/model"
)

func TestVerseHandler_Today_Success(t *testing.T) {
	mock := &mockVerseService{
		todaysVerseFn: func(ctx context.Context) (*model.Verse, error) {
			return &model.Verse{
				ID:        "verse-1",
				Date:      time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
				Content:   "わたしはぶどうの木、あなたがたは枝である。",
				Reference: "ヨハネ 15:5",
			}, nil
		},
	}
	h := NewVerseHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/verses/today", nil)
	w := httptest.NewRecorder()

	h.Today(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	var result verseResponse
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Date != "2025-07-01" {
		t.Errorf("date = %q, want %q", result.Date, "2025-07-01")
	}
	if result.Content != "わたしはぶどうの木、あなたがたは枝である。" {
		t.Errorf("content = %q", result.Content)
	}
	if result.Reference != "ヨハネ 15:5" {
		t.Errorf("reference = %q, want %q", result.Reference, "ヨハネ 15:5")
	}
}

func TestVerseHandler_Today_NotFound_Returns404(t *testing.T) {
	mock := &mockVerseService{
		todaysVerseFn: func(ctx context.Context) (*model.Verse, error) {
			return nil, model.NewVerseNotFoundError()
		},
	}
	h := NewVerseHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/verses/today", nil)
	w := httptest.NewRecorder()

	h.Today(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusNotFound)
	}

	apiErr := parseAPIErrorResponse(t, w)
	if apiErr["code"] != "VERSE_NOT_FOUND" {
		t.Errorf("code = %q, want %q", apiErr["code"], "VERSE_NOT_FOUND")
	}
}

func TestVerseHandler_Today_InternalError_Returns500(t *testing.T) {
	mock := &mockVerseService{
		todaysVerseFn: func(ctx context.Context) (*model.Verse, error) {
			return nil, context.DeadlineExceeded
		},
	}
	h := NewVerseHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/verses/today", nil)
	w := httptest.NewRecorder()

	h.Today(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
