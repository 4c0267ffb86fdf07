package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Govind-619/ZapShift/utils"
)

// Result label values
const (
	ResultOK          = "ok"
	ResultError       = "error"
	ResultRejected    = "rejected"
	ResultReplayed    = "replayed"
	ResultUnavailable = "unavailable"
	ResultNotFound    = "not_found"
	ResultInvalid     = "invalid"
)

var (
	DbParcelCreate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_parcel_create",
			Help: "Parcel Create",
		},
		[]string{"result"},
	)
	DbParcelDelete = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_parcel_delete",
			Help: "Parcel Delete",
		},
		[]string{"result"},
	)
	DbParcelList = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_parcel_list",
			Help: "Parcel List",
		},
		[]string{"result"},
	)

	GatewayCheckoutCreate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_checkout_create",
			Help: "Hosted checkout sessions created",
		},
		[]string{"provider", "result"},
	)
	GatewayCheckoutGet = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_checkout_get",
			Help: "Hosted checkout sessions retrieved",
		},
		[]string{"provider", "result"},
	)

	PaymentConfirm = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirm",
			Help: "Payment confirmations by outcome",
		},
		[]string{"result"},
	)
	MailSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_payment_confirmation_sent",
			Help: "Payment confirmation emails",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// Result maps an error to the result label. Errors that are not an
// AppError count as plain errors.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case utils.IsUpstreamError(err):
		return ResultUnavailable
	case utils.IsNotFoundError(err):
		return ResultNotFound
	case utils.IsValidationError(err):
		return ResultInvalid
	case utils.IsClientError(err):
		return ResultRejected
	default:
		return ResultError
	}
}

// Middleware records request latency keyed by the matched route pattern
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
