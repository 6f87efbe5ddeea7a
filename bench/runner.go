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
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biogo/treebench/tree"
)

// RunInstances runs cfg.Instances independent copies of the benchmark
// concurrently. The instances share nothing but a start barrier: each
// has its own node array, backends and Collector, so the model matches
// running one benchmark per process. The merged Collector is returned
// even when the run fails, so partial metrics can still be reported.
func RunInstances(ctx context.Context, cfg Config, log *zap.Logger, reg prometheus.Registerer) (*Collector, error) {
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	prom := NewPromMetrics(reg)

	drivers := make([]*Driver, cfg.Instances)
	for i := range drivers {
		d, err := NewDriver(cfg, log.With(zap.Int("instance", i)), NewCollector(prom))
		if err != nil {
			return nil, err
		}
		drivers[i] = d
	}

	// Start line: every instance checks in, then all are released
	// together.
	var ready sync.WaitGroup
	ready.Add(len(drivers))
	start := make(chan struct{})
	go func() {
		ready.Wait()
		close(start)
	}()

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range drivers {
		d := d
		d.SetBarrier(func(ctx context.Context) error {
			ready.Done()
			select {
			case <-start:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		g.Go(func() error {
			return d.Run(gctx)
		})
	}
	err := g.Wait()

	total := NewCollector(nil)
	failed := false
	for _, d := range drivers {
		total.Merge(d.Collector())
		failed = failed || d.Failed()
	}
	if err != nil {
		return total, err
	}
	if failed {
		return total, errors.Wrap(tree.ErrVerify, "bench")
	}
	return total, nil
}
