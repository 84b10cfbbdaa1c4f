package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmockd/odatamock/pkg/catalog"
)

// Namespace prefixes every metric name.
const Namespace = "odatamock"

// OtherCollection labels operations on collections that were not declared
// with WithKnownCollections.
const OtherCollection = "other"

// Metrics is a Prometheus-backed catalog.Observer plus HTTP instrumentation.
type Metrics struct {
	registry *prometheus.Registry
	started  time.Time

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	operations      *prometheus.CounterVec
	opDuration      *prometheus.HistogramVec
	synthesized     *prometheus.CounterVec
	removed         *prometheus.CounterVec
	errors          *prometheus.CounterVec
	resets          prometheus.Counter

	known map[string]struct{}
}

var _ catalog.Observer = (*Metrics)(nil)

// Option configures Metrics.
type Option func(*options)

type options struct {
	runtime     bool
	collections func() int
	known       []string
}

// WithoutRuntime skips the Go runtime and process collectors.
func WithoutRuntime() Option {
	return func(o *options) { o.runtime = false }
}

// WithCollectionCount reports the catalog size as a gauge sampled at scrape time.
func WithCollectionCount(fn func() int) Option {
	return func(o *options) { o.collections = fn }
}

// WithKnownCollections names the collections that get their own label
// value. Every other collection is counted under OtherCollection, so
// clients addressing arbitrary entity sets cannot grow the series count.
func WithKnownCollections(names ...string) Option {
	return func(o *options) { o.known = append(o.known, names...) }
}

// New creates and registers all metrics on a fresh registry.
func New(opts ...Option) *Metrics {
	o := options{runtime: true}
	for _, opt := range opts {
		opt(&o)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
		known:    make(map[string]struct{}, len(o.known)),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of successful dispatcher operations",
		}, []string{"collection", "operation"}),
		opDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of dispatcher operations in seconds",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
		}, []string{"operation"}),
		synthesized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "synthesized_total",
			Help:      "Keyed reads answered with a synthesized record",
		}, []string{"collection"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "records_removed_total",
			Help:      "Records removed by delete operations",
		}, []string{"collection"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Failed dispatcher operations",
		}, []string{"collection", "operation"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "resets_total",
			Help:      "Number of catalog resets",
		}),
	}

	for _, name := range o.known {
		m.known[name] = struct{}{}
	}

	m.registry.MustRegister(
		m.requests,
		m.requestDuration,
		m.operations,
		m.opDuration,
		m.synthesized,
		m.removed,
		m.errors,
		m.resets,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "uptime_seconds",
			Help:      "Seconds since the server started",
		}, func() float64 { return time.Since(m.started).Seconds() }),
	)

	if o.collections != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "collections",
			Help:      "Number of collections held by the catalog",
		}, func() float64 { return float64(o.collections()) }))
	}

	if o.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// collectionLabel bounds the collection label to the known set.
func (m *Metrics) collectionLabel(collection string) string {
	if _, ok := m.known[collection]; ok {
		return collection
	}
	return OtherCollection
}

func (m *Metrics) op(collection, operation string, d time.Duration) {
	m.operations.WithLabelValues(m.collectionLabel(collection), operation).Inc()
	m.opDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) OnList(collection string, _ int, d time.Duration) {
	m.op(collection, "list", d)
}

func (m *Metrics) OnGet(collection string, synthesized bool, d time.Duration) {
	m.op(collection, "get", d)
	if synthesized {
		m.synthesized.WithLabelValues(m.collectionLabel(collection)).Inc()
	}
}

func (m *Metrics) OnCreate(collection string, d time.Duration) {
	m.op(collection, "create", d)
}

func (m *Metrics) OnUpdate(collection string, d time.Duration) {
	m.op(collection, "update", d)
}

func (m *Metrics) OnDelete(collection string, removed int, d time.Duration) {
	m.op(collection, "delete", d)
	m.removed.WithLabelValues(m.collectionLabel(collection)).Add(float64(removed))
}

func (m *Metrics) OnError(collection, operation string, _ error) {
	m.errors.WithLabelValues(m.collectionLabel(collection), operation).Inc()
}

func (m *Metrics) OnReset(_ []string, d time.Duration) {
	m.resets.Inc()
	m.opDuration.WithLabelValues("reset").Observe(d.Seconds())
}
