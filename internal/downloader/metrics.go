package downloader

import "github.com/prometheus/client_golang/prometheus"

const (
	resultSuccess        = "success"
	resultTransportError = "transport_error"
	resultSinkError      = "sink_error"
)

type metrics struct {
	bytesWritten    prometheus.Counter
	downloads       *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cloudflare_log_client",
			Name:      "written_bytes_total",
			Help:      "Number of response bytes written to the destination.",
		}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cloudflare_log_client",
			Name:      "downloads_total",
			Help:      "Number of downloads by result.",
		}, []string{"result"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cloudflare_log_client",
			Name:      "request_duration_seconds",
			Help:      "Time until the API response headers were received.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	if registry != nil {
		registry.MustRegister(m.bytesWritten, m.downloads, m.requestDuration)
	}
	return m
}
