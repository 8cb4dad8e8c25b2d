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
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordMissionCompleted(templateType string)
	RecordDailyLimitRejection()
	RecordFruitHarvested()
	RecordGrowthSessionCompleted()
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	missionCompleted *prometheus.CounterVec
	dailyLimitReject prometheus.Counter
	fruitHarvested   prometheus.Counter
	sessionCompleted prometheus.Counter
	httpStatus       *prometheus.CounterVec
	requestLatency   prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		missionCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grape_missions_completed_total",
			Help: "完了したミッションの合計数（テンプレート種別ごと）",
		}, []string{"template_type"}),
		dailyLimitReject: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grape_daily_limit_rejections_total",
			Help: "日次上限により拒否された完了リクエストの合計数",
		}),
		fruitHarvested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grape_fruits_harvested_total",
			Help: "収穫されたフルーツの合計数",
		}),
		sessionCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "grape_growth_sessions_completed_total",
			Help: "完了した成長セッションの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grape_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grape_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.missionCompleted,
		c.dailyLimitReject,
		c.fruitHarvested,
		c.sessionCompleted,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordMissionCompleted はミッション完了を記録する。
func (c *Collector) RecordMissionCompleted(templateType string) {
	c.missionCompleted.WithLabelValues(templateType).Inc()
}

// RecordDailyLimitRejection は日次上限による拒否を記録する。
func (c *Collector) RecordDailyLimitRejection() {
	c.dailyLimitReject.Inc()
}

// RecordFruitHarvested はフルーツの収穫を記録する。
func (c *Collector) RecordFruitHarvested() {
	c.fruitHarvested.Inc()
}

// RecordGrowthSessionCompleted は成長セッションの完了を記録する。
func (c *Collector) RecordGrowthSessionCompleted() {
	c.sessionCompleted.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
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
