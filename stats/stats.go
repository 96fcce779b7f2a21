// Package stats exposes the engine's runtime counters as Prometheus
// metrics, in the shape aistore's own stats runner registers cluster
// counters: a handful of monotonic counters (no gauges), never read
// back by the engine itself.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coralstore/diskctl/cmn/logx"
)

// Collector owns every metric the engine updates during a run.
type Collector struct {
	ticksProcessed prometheus.Counter
	headActions    prometheus.Counter
	headPlansEmpty prometheus.Counter
	gcPasses       prometheus.Counter
	gcSwaps        prometheus.Counter
}

// NewCollector registers and returns a fresh Collector against the
// default registry.
func NewCollector() *Collector {
	runLabel := prometheus.Labels{"run_id": logx.RunID}
	c := &Collector{
		ticksProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diskctl", Name: "ticks_processed_total",
			Help: "Number of ticks processed by the engine.", ConstLabels: runLabel,
		}),
		headActions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diskctl", Name: "head_actions_total",
			Help: "Number of individual PASS/READ/JUMP actions emitted across all heads.", ConstLabels: runLabel,
		}),
		headPlansEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diskctl", Name: "head_plans_empty_total",
			Help: "Number of head plans that emitted no action (soft budget underflow or force-jump miss).", ConstLabels: runLabel,
		}),
		gcPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diskctl", Name: "gc_passes_total",
			Help: "Number of GC passes executed.", ConstLabels: runLabel,
		}),
		gcSwaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "diskctl", Name: "gc_swaps_total",
			Help: "Number of cell swaps performed across all GC passes.", ConstLabels: runLabel,
		}),
	}
	prometheus.MustRegister(c.ticksProcessed, c.headActions, c.headPlansEmpty, c.gcPasses, c.gcSwaps)
	return c
}

// TickProcessed records one completed tick.
func (c *Collector) TickProcessed() { c.ticksProcessed.Inc() }

// HeadAction records one head's emitted action count for the tick.
func (c *Collector) HeadAction(n int) {
	if n == 0 {
		c.headPlansEmpty.Inc()
		return
	}
	c.headActions.Add(float64(n))
}

// GCPass records one GC pass and the total swaps it performed across
// all disks.
func (c *Collector) GCPass(totalSwaps int) {
	c.gcPasses.Inc()
	c.gcSwaps.Add(float64(totalSwaps))
}
