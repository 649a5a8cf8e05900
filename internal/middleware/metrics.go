package middleware

import "net/http"

// StatusRecorder はHTTPステータスコードをメトリクスとして記録するインターフェース。
type StatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// NewMetricsMiddleware はレスポンスのステータスコードをメトリクスに記録する
// ミドルウェアを返す。
func NewMetricsMiddleware(collector StatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
		})
	}
}
