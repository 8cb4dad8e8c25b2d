package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/haneul/grapechallenge/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// リクエストログ出力先（nilの場合はslog.Default()を使用）
	Logger *slog.Logger

	// メトリクス（nilの場合は/metricsを公開しない）
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	UserService    UserServiceInterface
	MissionService MissionServiceInterface
	FruitService   FruitServiceInterface
	VerseService   VerseServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → CORS → CSRF
//	→ SessionMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// Session以降は認証が必要なルートグループにのみ適用する。
// 認証ルート（/auth/*）、ヘルスチェック、メトリクス、ユーザー登録は
// セッション検証の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	// Cookieセッション認証のため、状態変更メソッドは全ルートでCSRFトークンを要求する
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	userHandler := NewUserHandler(deps.UserService)
	missionHandler := NewMissionHandler(deps.MissionService)
	fruitHandler := NewFruitHandler(deps.FruitService)
	verseHandler := NewVerseHandler(deps.VerseService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	// 認証ルート（セルと名前によるログイン）
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Method(http.MethodGet, "/csrf", middleware.NewCSRFTokenHandler(deps.CSRFConfig))
	})

	// ユーザー登録（ログイン前に行うため認証不要）
	r.Post("/api/users", userHandler.Register)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ミッション管理
		r.Route("/api/missions", func(r chi.Router) {
			// POST /api/missions/complete - ミッション完了（完了専用レート制限を追加）
			r.With(deps.RateLimiter.CompletionMiddleware()).Post("/complete", missionHandler.CompleteMission)
			r.With(deps.RateLimiter.CompletionMiddleware()).Post("/event", missionHandler.CompleteEventMission)

			r.Get("/", missionHandler.ListMissions)
			r.Post("/{id}/interactions", missionHandler.AddInteraction)
		})

		// ミッションテンプレート
		r.Route("/api/mission-templates", func(r chi.Router) {
			r.Get("/", missionHandler.ListTemplates)
			r.Get("/today", missionHandler.TodayTemplate)
		})

		// フルーツ管理
		r.Route("/api/fruits", func(r chi.Router) {
			r.Get("/mine", fruitHandler.ListMine)
			r.Get("/mine/in-progress", fruitHandler.GetInProgress)
			r.Post("/{id}/harvest", fruitHandler.Harvest)
			r.Get("/cell/{cell}", fruitHandler.ListByCell)
		})

		// フルーツテンプレート
		r.Get("/api/fruit-templates", fruitHandler.ListTemplates)

		// 統計
		r.Route("/api/stats", func(r chi.Router) {
			r.Get("/fruits", fruitHandler.GetStats)
			r.Get("/users", userHandler.CellStats)
		})

		// 育成進捗
		r.Get("/api/progress", missionHandler.GetProgress)

		// 聖句
		r.Get("/api/verses/today", verseHandler.Today)

		// 退会。POST /api/users（認証不要の登録）と同一ノードにサブルーターを
		// マウントすると登録までセッション検証下に入るため、直接登録する。
		r.Delete("/api/users/me", userHandler.Withdraw)
	})

	return r
}
