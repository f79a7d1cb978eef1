package server

import (
	"time"

	"github.com/MetaBloxIO/otp_oracle/codec"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	replies  *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "oracle",
			Name:      "replies_total",
			Help:      "Replies produced, by reply type and payload code.",
		}, []string{"type", "code"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "oracle",
			Name:      "request_duration_seconds",
			Help:      "Time spent producing a reply.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.replies, m.duration)
	return m
}

func (m *metrics) observe(reply codec.Reply, elapsed time.Duration) {
	code := "0"
	if reply.Type == codec.TypeError && reply.Payload != nil {
		code = reply.Payload.String()
	}
	m.replies.WithLabelValues(reply.Type.String(), code).Inc()
	m.duration.Observe(elapsed.Seconds())
}

