package middleware

import "net/http"

// NewSecurityHeadersMiddleware はAPIレスポンス全体に共通のセキュリティヘッダーを付与する
// ミドルウェアを返す。JSON APIのみを提供するため、フレーム埋め込みとMIMEスニッフィングは
// 一律で拒否する。
func NewSecurityHeadersMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			// セッションCookie前提のAPIレスポンスは共有キャッシュに乗せない
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
