// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type phase int

const (
	phaseInsert phase = iota
	phaseFind
	phaseRemove
	numPhases
)

var phaseNames = [numPhases]string{"insert", "find", "remove"}

// Histogram bounds for per-phase durations.
const (
	minPhase = time.Microsecond
	maxPhase = 10 * time.Minute
)

func clampPhase(d time.Duration) time.Duration {
	if d < minPhase {
		return minPhase
	}
	if d > maxPhase {
		return maxPhase
	}
	return d
}

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(minPhase.Nanoseconds(), maxPhase.Nanoseconds(), 1)
}

// methodMetrics accumulates wall-clock duration and operation counts
// per phase for one backend, plus a duration histogram per phase.
type methodMetrics struct {
	name string
	dur  [numPhases]time.Duration
	ops  [numPhases]uint64
	hist [numPhases]*hdrhistogram.Histogram
}

func newMethodMetrics(name string) *methodMetrics {
	m := &methodMetrics{name: name}
	for p := range m.hist {
		m.hist[p] = newHistogram()
	}
	return m
}

func (m *methodMetrics) record(p phase, d time.Duration, n int) {
	m.dur[p] += d
	m.ops[p] += uint64(n)
	// Values are clamped into range, so recording cannot fail.
	_ = m.hist[p].RecordValue(clampPhase(d).Nanoseconds())
}

func (m *methodMetrics) total() uint64 {
	var n uint64
	for p := range m.ops {
		n += m.ops[p]
	}
	return n
}

// Rate returns operations per second pooled across phases. Summing the
// phase durations before dividing makes this the count-weighted
// harmonic mean of the per-phase rates.
func (m *methodMetrics) Rate() float64 {
	var d time.Duration
	for p := range m.dur {
		d += m.dur[p]
	}
	if d <= 0 {
		return 0
	}
	return float64(m.total()) / d.Seconds()
}

func (m *methodMetrics) merge(o *methodMetrics) {
	for p := phase(0); p < numPhases; p++ {
		m.dur[p] += o.dur[p]
		m.ops[p] += o.ops[p]
		m.hist[p].Merge(o.hist[p])
	}
}

// PromMetrics is the optional prometheus surface, shared by all
// instances of a run. A nil *PromMetrics is valid and records nothing.
type PromMetrics struct {
	rounds         prometheus.Counter
	ops            *prometheus.CounterVec
	verifyFailures *prometheus.CounterVec
}

// NewPromMetrics registers the benchmark's counters with reg. A nil
// Registerer returns a nil PromMetrics.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	if reg == nil {
		return nil
	}
	p := &PromMetrics{
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treebench_rounds_total",
			Help: "Completed insert/find/remove rounds.",
		}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treebench_ops_total",
			Help: "Tree operations performed.",
		}, []string{"method", "phase"}),
		verifyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "treebench_verify_failures_total",
			Help: "Lookups that failed to locate an inserted key.",
		}, []string{"method"}),
	}
	reg.MustRegister(p.rounds, p.ops, p.verifyFailures)
	return p
}

func (p *PromMetrics) roundDone() {
	if p == nil {
		return
	}
	p.rounds.Inc()
}

func (p *PromMetrics) opsDone(method string, ph phase, n int) {
	if p == nil {
		return
	}
	p.ops.WithLabelValues(method, phaseNames[ph]).Add(float64(n))
}

func (p *PromMetrics) verifyFailed(method string) {
	if p == nil {
		return
	}
	p.verifyFailures.WithLabelValues(method).Inc()
}

// A Collector owns one driver's accumulated metrics. It is not safe
// for concurrent use; each driver instance gets its own and the runner
// merges them after the run.
type Collector struct {
	prom  *PromMetrics
	slots []*methodMetrics
	index map[string]*methodMetrics
}

// NewCollector returns a Collector reporting optionally to prom.
func NewCollector(prom *PromMetrics) *Collector {
	return &Collector{prom: prom, index: make(map[string]*methodMetrics)}
}

func (c *Collector) slot(name string) *methodMetrics {
	if m, ok := c.index[name]; ok {
		return m
	}
	m := newMethodMetrics(name)
	c.index[name] = m
	c.slots = append(c.slots, m)
	return m
}

func (c *Collector) record(name string, p phase, d time.Duration, n int) {
	c.slot(name).record(p, d, n)
	c.prom.opsDone(name, p, n)
}

func (c *Collector) verifyFailure(name string) {
	c.prom.verifyFailed(name)
}

func (c *Collector) roundDone() {
	c.prom.roundDone()
}

// Merge folds other's accumulated metrics into c.
func (c *Collector) Merge(other *Collector) {
	for _, o := range other.slots {
		c.slot(o.name).merge(o)
	}
}

// Rate returns the pooled operations per second for the named method,
// or zero if it saw no activity.
func (c *Collector) Rate(name string) float64 {
	m, ok := c.index[name]
	if !ok {
		return 0
	}
	return m.Rate()
}

// Ops returns the total operation count recorded for the named method.
func (c *Collector) Ops(name string) uint64 {
	m, ok := c.index[name]
	if !ok {
		return 0
	}
	return m.total()
}

// Report logs one rate line per exercised method and returns the
// geometric mean rate across methods with nonzero activity. Per-phase
// latency quantiles go to the debug level.
func (c *Collector) Report(log *zap.Logger) float64 {
	var (
		logSum float64
		n      int
	)
	for _, m := range c.slots {
		if m.total() == 0 {
			continue
		}
		r := m.Rate()
		log.Info(fmt.Sprintf("%s tree operations per sec", m.name),
			zap.Float64("rate", r),
			zap.Uint64("ops", m.total()),
		)
		for p := phase(0); p < numPhases; p++ {
			h := m.hist[p]
			if h.TotalCount() == 0 {
				continue
			}
			log.Debug("phase latency",
				zap.String("method", m.name),
				zap.String("phase", phaseNames[p]),
				zap.Duration("p50", time.Duration(h.ValueAtQuantile(50))),
				zap.Duration("p95", time.Duration(h.ValueAtQuantile(95))),
				zap.Duration("p99", time.Duration(h.ValueAtQuantile(99))),
				zap.Duration("max", time.Duration(h.Max())),
			)
		}
		if r > 0 {
			logSum += math.Log(r)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	geo := math.Exp(logSum / float64(n))
	log.Debug("geometric mean of tree operations per sec", zap.Float64("rate", geo))
	return geo
}
