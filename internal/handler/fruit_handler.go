package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/haneul/grapechallenge/internal/fruit"
	"github.com/haneul/grapechallenge/internal/middleware"
	"github.com/haneul/grapechallenge/internal/model"
	"github.com/haneul/grapechallenge/internal/repository"
)

// FruitServiceInterface はフルーツハンドラーが必要とするサービスインターフェース。
type FruitServiceInterface interface {
	// Harvest はフルーツを収穫しCOMPLETEDへ遷移させる。
	Harvest(ctx context.Context, userID, fruitID string) (*model.Fruit, error)
	// ListMyFruits はユーザーの全フルーツを返す。
	ListMyFruits(ctx context.Context, userID string) ([]*model.Fruit, error)
	// GetInProgressFruit は育成中のフルーツと進捗を返す。育成中がない場合はnil。
	GetInProgressFruit(ctx context.Context, userID string) (*fruit.InProgressFruit, error)
	// ListCellFruits は指定セルの全ユーザーのフルーツを段階画像付きで返す。
	ListCellFruits(ctx context.Context, cell string) ([]repository.FruitWithTemplate, error)
	// ListTemplates はフルーツテンプレートの一覧を返す。
	ListTemplates(ctx context.Context) ([]*model.FruitTemplate, error)
	// GetStats はフルーツ全体の統計を返す。
	GetStats(ctx context.Context) (*fruit.Stats, error)
}

// FruitHandler はフルーツ管理のHTTPハンドラー。
type FruitHandler struct {
	service FruitServiceInterface
}

// NewFruitHandler はFruitHandlerを生成する。
func NewFruitHandler(service FruitServiceInterface) *FruitHandler {
	return &FruitHandler{
		service: service,
	}
}

// fruitTemplateResponse はフルーツテンプレートのAPIレスポンス。
type fruitTemplateResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	StageImages [7]string `json:"stage_images"`
}

// inProgressFruitResponse は育成中フルーツのAPIレスポンス。
type inProgressFruitResponse struct {
	Fruit        *fruitResponse         `json:"fruit,omitempty"`
	Template     *fruitTemplateResponse `json:"template,omitempty"`
	MissionCount int                    `json:"mission_count"`
}

// cellFruitResponse はセル一覧画面用のフルーツAPIレスポンス。
type cellFruitResponse struct {
	ID           string    `json:"id"`
	OwnerName    string    `json:"owner_name"`
	TemplateName string    `json:"template_name"`
	TemplateType string    `json:"template_type"`
	Status       string    `json:"status"`
	StageImages  [7]string `json:"stage_images"`
}

// templateFruitCountResponse はテンプレートごとのフルーツ数のAPIレスポンス。
type templateFruitCountResponse struct {
	TemplateID   string `json:"template_id"`
	TemplateName string `json:"template_name"`
	Count        int    `json:"count"`
}

// fruitStatsResponse はフルーツ全体統計のAPIレスポンス。
type fruitStatsResponse struct {
	Total      int                          `json:"total"`
	InProgress int                          `json:"in_progress"`
	Completed  int                          `json:"completed"`
	ByTemplate []templateFruitCountResponse `json:"by_template"`
}

// Harvest はフルーツの収穫を処理する。
// POST /api/fruits/:id/harvest
func (h *FruitHandler) Harvest(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	fruitID := chi.URLParam(r, "id")

	harvested, err := h.service.Harvest(r.Context(), userID, fruitID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toFruitResponse(harvested))
}

// ListMine は自分の全フルーツを返す。
// GET /api/fruits/mine
func (h *FruitHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	fruits, err := h.service.ListMyFruits(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]fruitResponse, 0, len(fruits))
	for _, f := range fruits {
		resp = append(resp, toFruitResponse(f))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetInProgress は育成中のフルーツと進捗を返す。
// GET /api/fruits/mine/in-progress
func (h *FruitHandler) GetInProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthenticatedError())
		return
	}

	inProgress, err := h.service.GetInProgressFruit(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := inProgressFruitResponse{}
	if inProgress != nil {
		resp.MissionCount = inProgress.MissionCount
		if inProgress.Fruit != nil {
			f := toFruitResponse(inProgress.Fruit)
			resp.Fruit = &f
		}
		if inProgress.Template != nil {
			t := toFruitTemplateResponse(inProgress.Template)
			resp.Template = &t
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListByCell はセル単位のフルーツ一覧を返す。
// GET /api/fruits/cell/:cell
func (h *FruitHandler) ListByCell(w http.ResponseWriter, r *http.Request) {
	cell := chi.URLParam(r, "cell")

	fruits, err := h.service.ListCellFruits(r.Context(), cell)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]cellFruitResponse, 0, len(fruits))
	for _, f := range fruits {
		resp = append(resp, cellFruitResponse{
			ID:           f.ID,
			OwnerName:    f.OwnerName,
			TemplateName: f.TemplateName,
			TemplateType: f.TemplateType,
			Status:       string(f.Status),
			StageImages:  f.StageImages,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListTemplates はフルーツテンプレートの一覧を返す。
// GET /api/fruit-templates
func (h *FruitHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.service.ListTemplates(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]fruitTemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		resp = append(resp, toFruitTemplateResponse(tpl))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetStats はフルーツ全体の統計を返す。
// GET /api/stats/fruits
func (h *FruitHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	byTemplate := make([]templateFruitCountResponse, 0, len(stats.ByTemplate))
	for _, c := range stats.ByTemplate {
		byTemplate = append(byTemplate, templateFruitCountResponse{
			TemplateID:   c.TemplateID,
			TemplateName: c.TemplateName,
			Count:        c.Count,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(fruitStatsResponse{
		Total:      stats.Total,
		InProgress: stats.InProgress,
		Completed:  stats.Completed,
		ByTemplate: byTemplate,
	})
}

// toFruitTemplateResponse はmodel.FruitTemplateからAPIレスポンスに変換する。
func toFruitTemplateResponse(tpl *model.FruitTemplate) fruitTemplateResponse {
	return fruitTemplateResponse{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Type:        tpl.Type,
		StageImages: tpl.StageImages,
	}
}
