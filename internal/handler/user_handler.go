package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/haneul/grapechallenge/internal/middleware"
	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register は新規ユーザーを登録する。同一セル・同一名は重複エラー。
	Register(ctx context.Context, cell, name string) (*model.User, error)
	// ListCellMembers は指定セルの全メンバーを返す。
	ListCellMembers(ctx context.Context, cell string) ([]*model.User, error)
	// CellStats は指定セルの全メンバーのミッション数・収穫数を集計する。
	CellStats(ctx context.Context, cell string) ([]user.MemberStats, error)
	// Withdraw はユーザーの退会処理を実行する。
	// missions、growth_sessions、fruits、sessionsを削除したうえでユーザーを削除する。
	// カタログ（mission_templates、fruit_templates、verses）は残す。
	Withdraw(ctx context.Context, userID string) error
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// registerUserRequest はユーザー登録リクエストのボディ。
type registerUserRequest struct {
	Cell string `json:"cell"`
	Name string `json:"name"`
}

// memberStatsResponse はセルメンバー1人分の活動集計のAPIレスポンス。
type memberStatsResponse struct {
	User            userResponse `json:"user"`
	MissionCount    int          `json:"mission_count"`
	HarvestedFruits int          `json:"harvested_fruits"`
}

// Register は新規ユーザー登録を処理する。
// POST /api/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	if req.Cell == "" || req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "セルと名前は必須です。",
			Category: "validation",
			Action:   "セルと名前を入力してください。",
		})
		return
	}

	created, err := h.service.Register(r.Context(), req.Cell, req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toUserResponse(created))
}

// CellStats はセルメンバーごとのミッション数・収穫数の集計を返す。
// GET /api/stats/users?cell=xxx
func (h *UserHandler) CellStats(w http.ResponseWriter, r *http.Request) {
	cell := r.URL.Query().Get("cell")
	if cell == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "セルの指定が必要です。",
			Category: "validation",
			Action:   "cellクエリパラメータを指定してください。",
		})
		return
	}

	stats, err := h.service.CellStats(r.Context(), cell)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]memberStatsResponse, 0, len(stats))
	for _, st := range stats {
		resp = append(resp, memberStatsResponse{
			User:            toUserResponse(st.User),
			MissionCount:    st.MissionCount,
			HarvestedFruits: st.HarvestedFruits,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Withdraw はユーザーの退会処理を実行する。
// DELETE /api/users/me
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	if err := h.service.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
