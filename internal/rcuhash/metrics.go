package rcuhash

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kvic-z/urcu/internal/rcu"
)

// tableMetrics holds plain atomic counters sampled into Prometheus counter
// metrics on collect, rather than routing every Add/Steal/DeleteAll through a
// prometheus.Counter directly: the reference design's hot path carries no
// synchronization beyond a single CAS, and a prometheus.Counter's own
// internal locking would reintroduce exactly the contention this table
// exists to avoid.
type tableMetrics struct {
	lookups    atomic.Uint64
	adds       atomic.Uint64
	steals     atomic.Uint64
	deletes    atomic.Uint64
	lookupMiss atomic.Uint64
}

// collector adapts tableMetrics to prometheus.Collector. gracePeriods is
// read straight from internal/rcu's process-wide counter rather than
// tableMetrics, since grace periods are a property of the shared
// grace-period engine, not of any one table.
type collector struct {
	m            *tableMetrics
	lookupsDesc  *prometheus.Desc
	addsDesc     *prometheus.Desc
	stealsDesc   *prometheus.Desc
	deletesDesc  *prometheus.Desc
	missDesc     *prometheus.Desc
	gracePeriods *prometheus.Desc
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lookupsDesc
	ch <- c.addsDesc
	ch <- c.stealsDesc
	ch <- c.deletesDesc
	ch <- c.missDesc
	ch <- c.gracePeriods
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.lookupsDesc, prometheus.CounterValue, float64(c.m.lookups.Load()))
	ch <- prometheus.MustNewConstMetric(c.addsDesc, prometheus.CounterValue, float64(c.m.adds.Load()))
	ch <- prometheus.MustNewConstMetric(c.stealsDesc, prometheus.CounterValue, float64(c.m.steals.Load()))
	ch <- prometheus.MustNewConstMetric(c.deletesDesc, prometheus.CounterValue, float64(c.m.deletes.Load()))
	ch <- prometheus.MustNewConstMetric(c.missDesc, prometheus.CounterValue, float64(c.m.lookupMiss.Load()))
	ch <- prometheus.MustNewConstMetric(c.gracePeriods, prometheus.CounterValue, float64(rcu.GracePeriods()))
}

// WithMetrics enables counters for lookups, adds, steals, deletes,
// lookup-misses, and process-wide grace-periods-observed, and registers
// them with reg under the given name label.
func WithMetrics(reg prometheus.Registerer, name string) Option {
	return func(t *Table) {
		t.metrics = &tableMetrics{}
		c := &collector{
			m: t.metrics,
			lookupsDesc: prometheus.NewDesc(
				"rcuhash_lookups_total", "Total Lookup calls, hit or miss.", nil, prometheus.Labels{"table": name}),
			addsDesc: prometheus.NewDesc(
				"rcuhash_adds_total", "Total successful Add calls.", nil, prometheus.Labels{"table": name}),
			stealsDesc: prometheus.NewDesc(
				"rcuhash_steals_total", "Total successful Steal calls.", nil, prometheus.Labels{"table": name}),
			deletesDesc: prometheus.NewDesc(
				"rcuhash_deletes_total", "Total nodes removed by DeleteAll.", nil, prometheus.Labels{"table": name}),
			missDesc: prometheus.NewDesc(
				"rcuhash_lookup_misses_total", "Total Lookup calls that found nothing.", nil, prometheus.Labels{"table": name}),
			gracePeriods: prometheus.NewDesc(
				"rcuhash_grace_periods_observed_total", "Total grace periods completed by the process-wide RCU engine.", nil, prometheus.Labels{"table": name}),
		}
		reg.MustRegister(c)
	}
}
