package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/haneul/grapechallenge/internal/middleware"
	"github.com/haneul/grapechallenge/internal/mission"
	"github.com/haneul/grapechallenge/internal/model"
)

// MissionServiceInterface はミッションハンドラーが必要とするサービスインターフェース。
type MissionServiceInterface interface {
	// CompleteMission は日次ミッションを完了しフルーツを成長させる。
	CompleteMission(ctx context.Context, userID, templateID, content string) (*mission.CompleteMissionResult, error)
	// CompleteEventMission はイベントミッションを完了する。フルーツ成長は伴わない。
	CompleteEventMission(ctx context.Context, userID, templateID, content string) (*mission.CompleteMissionResult, error)
	// AddInteraction はミッションに絵文字リアクションを追記する。
	AddInteraction(ctx context.Context, missionID, userID, icon string) (*model.Mission, error)
	// ListMissions はユーザーのミッション完了記録を返す。
	ListMissions(ctx context.Context, userID string) ([]*model.Mission, error)
	// ListTemplates はミッションテンプレートの一覧を返す。
	ListTemplates(ctx context.Context) ([]*model.MissionTemplate, error)
	// TodayTemplate は本日のミッションテンプレートを返す。
	TodayTemplate(ctx context.Context) (*model.MissionTemplate, error)
	// GetProgress は現在の育成進捗スナップショットを返す。
	GetProgress(ctx context.Context, userID string) (*mission.Progress, error)
}

// MissionHandler はミッション管理のHTTPハンドラー。
type MissionHandler struct {
	service MissionServiceInterface
}

// NewMissionHandler はMissionHandlerを生成する。
func NewMissionHandler(service MissionServiceInterface) *MissionHandler {
	return &MissionHandler{
		service: service,
	}
}

// completeMissionRequest はミッション完了リクエストのボディ。
type completeMissionRequest struct {
	TemplateID string `json:"template_id"`
	Content    string `json:"content"`
}

// addInteractionRequest はリアクション追加リクエストのボディ。
type addInteractionRequest struct {
	Icon string `json:"icon"`
}

// missionResponse はミッション完了記録のAPIレスポンス。
type missionResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"user_id"`
	TemplateID   string              `json:"template_id"`
	FruitID      string              `json:"fruit_id,omitempty"`
	Content      string              `json:"content"`
	Interactions []model.Interaction `json:"interactions"`
	CompletedAt  time.Time           `json:"completed_at"`
}

// growthSessionResponse は成長セッションのAPIレスポンス。
type growthSessionResponse struct {
	ID         string   `json:"id"`
	FruitID    string   `json:"fruit_id,omitempty"`
	MissionIDs []string `json:"mission_ids"`
	Status     string   `json:"status"`
}

// fruitResponse はフルーツのAPIレスポンス。
type fruitResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	TemplateID string `json:"template_id"`
	Status     string `json:"status"`
}

// completeMissionResponse はミッション完了結果のAPIレスポンス。
// new_sessionはセッションが7件到達で完了した場合のみ含まれる。
type completeMissionResponse struct {
	Mission    missionResponse        `json:"mission"`
	Session    *growthSessionResponse `json:"session,omitempty"`
	Fruit      *fruitResponse         `json:"fruit,omitempty"`
	NewSession *growthSessionResponse `json:"new_session,omitempty"`
}

// missionTemplateResponse はミッションテンプレートのAPIレスポンス。
type missionTemplateResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// progressResponse は育成進捗スナップショットのAPIレスポンス。
type progressResponse struct {
	Session      *growthSessionResponse `json:"session,omitempty"`
	Fruit        *fruitResponse         `json:"fruit,omitempty"`
	Template     *fruitTemplateResponse `json:"template,omitempty"`
	MissionCount int                    `json:"mission_count"`
}

// CompleteMission は日次ミッション完了を処理する。
// POST /api/missions/complete
func (h *MissionHandler) CompleteMission(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req completeMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	result, err := h.service.CompleteMission(r.Context(), userID, req.TemplateID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toCompleteMissionResponse(result))
}

// CompleteEventMission はイベントミッション完了を処理する。
// POST /api/missions/event
func (h *MissionHandler) CompleteEventMission(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	var req completeMissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	result, err := h.service.CompleteEventMission(r.Context(), userID, req.TemplateID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toCompleteMissionResponse(result))
}

// ListMissions はミッション完了記録の一覧を返す。
// GET /api/missions?user_id=xxx（省略時は呼び出しユーザー自身）
func (h *MissionHandler) ListMissions(w http.ResponseWriter, r *http.Request) {
	callerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	targetID := r.URL.Query().Get("user_id")
	if targetID == "" {
		targetID = callerID
	}

	missions, err := h.service.ListMissions(r.Context(), targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]missionResponse, 0, len(missions))
	for _, m := range missions {
		resp = append(resp, toMissionResponse(m))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// AddInteraction はミッションへの絵文字リアクション追加を処理する。
// POST /api/missions/:id/interactions
func (h *MissionHandler) AddInteraction(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	missionID := chi.URLParam(r, "id")

	var req addInteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, newInvalidRequestError())
		return
	}

	updated, err := h.service.AddInteraction(r.Context(), missionID, userID, req.Icon)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMissionResponse(updated))
}

// ListTemplates はミッションテンプレートの一覧を返す。
// GET /api/mission-templates
func (h *MissionHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]missionTemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		resp = append(resp, toMissionTemplateResponse(tpl))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// TodayTemplate は本日のミッションテンプレートを返す。
// GET /api/mission-templates/today
func (h *MissionHandler) TodayTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.service.TodayTemplate(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toMissionTemplateResponse(tpl))
}

// GetProgress は現在の育成進捗スナップショットを返す。
// GET /api/progress
func (h *MissionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	progress, err := h.service.GetProgress(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := progressResponse{MissionCount: progress.MissionCount}
	if progress.Session != nil {
		s := toGrowthSessionResponse(progress.Session)
		resp.Session = &s
	}
	if progress.Fruit != nil {
		f := toFruitResponse(progress.Fruit)
		resp.Fruit = &f
	}
	if progress.Template != nil {
		t := toFruitTemplateResponse(progress.Template)
		resp.Template = &t
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// --- ヘルパー関数 ---

// toMissionResponse はmodel.MissionからAPIレスポンスに変換する。
func toMissionResponse(m *model.Mission) missionResponse {
	interactions := m.Interactions
	if interactions == nil {
		interactions = []model.Interaction{}
	}
	return missionResponse{
		ID:           m.ID,
		UserID:       m.UserID,
		TemplateID:   m.TemplateID,
		FruitID:      m.FruitID,
		Content:      m.Content,
		Interactions: interactions,
		CompletedAt:  m.CompletedAt,
	}
}

// toGrowthSessionResponse はmodel.GrowthSessionからAPIレスポンスに変換する。
func toGrowthSessionResponse(s *model.GrowthSession) growthSessionResponse {
	missionIDs := s.MissionIDs
	if missionIDs == nil {
		missionIDs = []string{}
	}
	return growthSessionResponse{
		ID:         s.ID,
		FruitID:    s.FruitID,
		MissionIDs: missionIDs,
		Status:     string(s.Status),
	}
}

// toFruitResponse はmodel.FruitからAPIレスポンスに変換する。
func toFruitResponse(f *model.Fruit) fruitResponse {
	return fruitResponse{
		ID:         f.ID,
		UserID:     f.UserID,
		TemplateID: f.TemplateID,
		Status:     string(f.Status),
	}
}

// toMissionTemplateResponse はmodel.MissionTemplateからAPIレスポンスに変換する。
func toMissionTemplateResponse(tpl *model.MissionTemplate) missionTemplateResponse {
	return missionTemplateResponse{
		ID:      tpl.ID,
		Name:    tpl.Name,
		Content: tpl.Content,
		Type:    string(tpl.Type),
	}
}

// toCompleteMissionResponse はミッション完了結果をAPIレスポンスに変換する。
func toCompleteMissionResponse(result *mission.CompleteMissionResult) completeMissionResponse {
	resp := completeMissionResponse{
		Mission: toMissionResponse(result.Mission),
	}
	if result.Session != nil {
		s := toGrowthSessionResponse(result.Session)
		resp.Session = &s
	}
	if result.Fruit != nil {
		f := toFruitResponse(result.Fruit)
		resp.Fruit = &f
	}
	if result.NewSession != nil {
		ns := toGrowthSessionResponse(result.NewSession)
		resp.NewSession = &ns
	}
	return resp
}

// apiErrorResponse は統一エラーフォーマットのレスポンス。
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// newInvalidRequestError はリクエストボディ解析失敗のエラーを生成する。
func newInvalidRequestError() *model.APIError {
	return &model.APIError{
		Code:     "INVALID_REQUEST",
		Message:  "リクエストボディの解析に失敗しました。",
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeUnauthorized:
		return http.StatusForbidden
	case model.ErrCodeDailyLimitExceeded:
		return http.StatusTooManyRequests
	case model.ErrCodeUserNotFound, model.ErrCodeMissionNotFound,
		model.ErrCodeTemplateNotFound, model.ErrCodeFruitNotFound,
		model.ErrCodeVerseNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateUser:
		return http.StatusConflict
	case model.ErrCodeFruitNotReady:
		return http.StatusConflict
	case model.ErrCodeInvalidContent, model.ErrCodeInvalidInteraction,
		model.ErrCodeNotEventTemplate, "INVALID_REQUEST":
		return http.StatusBadRequest
	case model.ErrCodeSessionCreationFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
