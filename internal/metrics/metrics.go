package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// 登录指标
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.Counter

	// 商品操作指标（create / delete）
	ProductOperationsCounter *prometheus.CounterVec

	// 图片上传失败
	UploadErrorsCounter prometheus.Counter
)

// InitMetrics 注册全部指标，prefix 来自配置
func InitMetrics(prefix string) {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of login attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful logins",
		},
	)

	AuthErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of rejected logins",
		},
	)

	ProductOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	UploadErrorsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_upload_errors_total",
			Help: "Total number of failed image uploads",
		},
	)
}

// ==================== 安全自增 ====================

// 指标未注册时（单测不跑 InitMetrics）自增静默跳过

func IncAuthAttempt() {
	if AuthAttemptsCounter != nil {
		AuthAttemptsCounter.Inc()
	}
}

func IncAuthSuccess() {
	if AuthSuccessCounter != nil {
		AuthSuccessCounter.Inc()
	}
}

func IncAuthError() {
	if AuthErrorsCounter != nil {
		AuthErrorsCounter.Inc()
	}
}

func IncProductOperation(op string) {
	if ProductOperationsCounter != nil {
		ProductOperationsCounter.WithLabelValues(op).Inc()
	}
}

func IncUploadError() {
	if UploadErrorsCounter != nil {
		UploadErrorsCounter.Inc()
	}
}
