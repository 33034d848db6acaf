package promclient

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Abhishekt2307/OrderBookManager/domain"
)

// Recorder aggregates the raw samples the store emits into prometheus
// metrics. It satisfies domain.Instrumentation, so it plugs straight into
// the store; all bucketing and counting happens here, never in the store.
type Recorder struct {
	opDuration *prometheus.HistogramVec
	opErrors   *prometheus.CounterVec

	instruments  prometheus.Gauge
	synchronized prometheus.Gauge
	bidLevels    prometheus.Gauge
	askLevels    prometheus.Gauge
}

func NewRecorder() *Recorder {
	return &Recorder{
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "orderbook_op_duration_seconds",
				Help: "latency of order book store operations",
				// applies sit in the low microseconds, queries a bit above
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"op"},
		),
		opErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "orderbook_op_errors_total",
				Help: "order book store operations that returned an error",
			},
			[]string{"op"},
		),
		instruments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_instruments",
			Help: "registered instruments",
		}),
		synchronized: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_synchronized_instruments",
			Help: "instruments that have seen a snapshot",
		}),
		bidLevels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_bid_levels",
			Help: "bid price levels held across all books",
		}),
		askLevels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orderbook_ask_levels",
			Help: "ask price levels held across all books",
		}),
	}
}

func (r *Recorder) ObserveOp(sample domain.OpSample) {
	r.opDuration.WithLabelValues(string(sample.Op)).Observe(sample.Duration.Seconds())
	if sample.Failed {
		r.opErrors.WithLabelValues(string(sample.Op)).Inc()
	}
}

func (r *Recorder) ObserveUsage(usage domain.Usage) {
	r.instruments.Set(float64(usage.Instruments))
	r.synchronized.Set(float64(usage.Synchronized))
	r.bidLevels.Set(float64(usage.BidLevels))
	r.askLevels.Set(float64(usage.AskLevels))
}

func (r *Recorder) register(reg *prometheus.Registry) {
	reg.MustRegister(
		r.opDuration,
		r.opErrors,
		r.instruments,
		r.synchronized,
		r.bidLevels,
		r.askLevels,
	)
}

func StartPromClientServer(addr string, recorder *Recorder) {
	reg := prometheus.NewRegistry()
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	recorder.register(reg)
	reg.MustRegister(collectors.NewGoCollector())

	http.Handle("/metrics", promHandler)
	log.Printf("prometheus server listening at %s", addr)

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
