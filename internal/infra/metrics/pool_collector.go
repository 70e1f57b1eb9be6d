package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// PoolStater is satisfied by *pgxpool.Pool.
type PoolStater interface {
	Stat() *pgxpool.Stat
}

var _ prometheus.Collector = (*PoolCollector)(nil)

// PoolCollector exports pgxpool statistics as Prometheus metrics. Values are
// read from the pool on every scrape.
type PoolCollector struct {
	pool PoolStater

	acquiredConns    *prometheus.Desc
	idleConns        *prometheus.Desc
	totalConns       *prometheus.Desc
	maxConns         *prometheus.Desc
	acquireCount     *prometheus.Desc
	acquireDuration  *prometheus.Desc
	emptyAcquire     *prometheus.Desc
	canceledAcquire  *prometheus.Desc
	newConnsCount    *prometheus.Desc
	maxLifetimeClose *prometheus.Desc
}

// NewPoolCollector creates a collector for pool labelled with db.
func NewPoolCollector(pool PoolStater, db string) *PoolCollector {
	labels := prometheus.Labels{"db": db}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pgxpool", name), help, nil, labels)
	}

	return &PoolCollector{
		pool:             pool,
		acquiredConns:    desc("acquired_conns", "Number of currently acquired connections."),
		idleConns:        desc("idle_conns", "Number of currently idle connections."),
		totalConns:       desc("total_conns", "Total number of connections in the pool."),
		maxConns:         desc("max_conns", "Maximum size of the pool."),
		acquireCount:     desc("acquire_total", "Cumulative count of successful acquires."),
		acquireDuration:  desc("acquire_duration_seconds_total", "Total time spent waiting for connections."),
		emptyAcquire:     desc("empty_acquire_total", "Acquires that waited because the pool was empty."),
		canceledAcquire:  desc("canceled_acquire_total", "Acquires canceled by their context."),
		newConnsCount:    desc("new_conns_total", "Cumulative count of new connections opened."),
		maxLifetimeClose: desc("max_lifetime_destroy_total", "Connections closed for exceeding MaxConnLifetime."),
	}
}

// Describe implements prometheus.Collector.
func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquiredConns
	ch <- c.idleConns
	ch <- c.totalConns
	ch <- c.maxConns
	ch <- c.acquireCount
	ch <- c.acquireDuration
	ch <- c.emptyAcquire
	ch <- c.canceledAcquire
	ch <- c.newConnsCount
	ch <- c.maxLifetimeClose
}

// Collect implements prometheus.Collector.
func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.pool.Stat()

	ch <- prometheus.MustNewConstMetric(c.acquiredConns, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.maxConns, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquireCount, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireDuration, prometheus.CounterValue, s.AcquireDuration().Seconds())
	ch <- prometheus.MustNewConstMetric(c.emptyAcquire, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.canceledAcquire, prometheus.CounterValue, float64(s.CanceledAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.newConnsCount, prometheus.CounterValue, float64(s.NewConnsCount()))
	ch <- prometheus.MustNewConstMetric(c.maxLifetimeClose, prometheus.CounterValue, float64(s.MaxLifetimeDestroyCount()))
}
