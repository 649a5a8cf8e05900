// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層やワーカーから利用する。
type MetricsCollector interface {
	RecordRecipeCreated()
	RecordRecipeUpdated()
	RecordRecipeDeleted()
	RecordSearch(resultCount int)
	RecordSearchLatency(duration time.Duration)
	RecordImageSaved()
	RecordImageRemoved()
	RecordHTTPStatus(statusCode int)
	RecordSessionsCleaned(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	recipeCreated   prometheus.Counter
	recipeUpdated   prometheus.Counter
	recipeDeleted   prometheus.Counter
	searchTotal     prometheus.Counter
	searchResults   prometheus.Histogram
	searchLatency   prometheus.Histogram
	imageSaved      prometheus.Counter
	imageRemoved    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	sessionsCleaned prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		recipeCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_recipe_created_total",
			Help: "作成されたレシピの合計数",
		}),
		recipeUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_recipe_updated_total",
			Help: "更新されたレシピの合計数",
		}),
		recipeDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_recipe_deleted_total",
			Help: "削除されたレシピの合計数",
		}),
		searchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_search_total",
			Help: "レシピ検索の実行回数",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recettes_search_results",
			Help:    "検索1回あたりのヒット件数",
			Buckets: []float64{0, 1, 3, 9, 27, 81, 243},
		}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "recettes_search_latency_seconds",
			Help:    "レシピ検索のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		imageSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_image_saved_total",
			Help: "保存されたレシピ画像の合計数",
		}),
		imageRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_image_removed_total",
			Help: "削除されたレシピ画像の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recettes_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recettes_sessions_cleaned_total",
			Help: "クリーンアップされた期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.recipeCreated,
		c.recipeUpdated,
		c.recipeDeleted,
		c.searchTotal,
		c.searchResults,
		c.searchLatency,
		c.imageSaved,
		c.imageRemoved,
		c.httpStatus,
		c.sessionsCleaned,
	)

	return c
}

// RecordRecipeCreated はレシピ作成を記録する。
func (c *Collector) RecordRecipeCreated() {
	c.recipeCreated.Inc()
}

// RecordRecipeUpdated はレシピ更新を記録する。
func (c *Collector) RecordRecipeUpdated() {
	c.recipeUpdated.Inc()
}

// RecordRecipeDeleted はレシピ削除を記録する。
func (c *Collector) RecordRecipeDeleted() {
	c.recipeDeleted.Inc()
}

// RecordSearch は検索実行とヒット件数を記録する。
func (c *Collector) RecordSearch(resultCount int) {
	c.searchTotal.Inc()
	c.searchResults.Observe(float64(resultCount))
}

// RecordSearchLatency は検索のレイテンシを記録する。
func (c *Collector) RecordSearchLatency(duration time.Duration) {
	c.searchLatency.Observe(duration.Seconds())
}

// RecordImageSaved は画像保存を記録する。
func (c *Collector) RecordImageSaved() {
	c.imageSaved.Inc()
}

// RecordImageRemoved は画像削除を記録する。
func (c *Collector) RecordImageRemoved() {
	c.imageRemoved.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordSessionsCleaned はクリーンアップされたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int) {
	c.sessionsCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
