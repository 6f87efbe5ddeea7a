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

// Package bench drives the tree backends through repeated
// insert/find/remove rounds over a shared, shuffled node array and
// aggregates throughput metrics per method.
package bench

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/biogo/treebench/tree"
)

// A Driver runs the benchmark loop for one instance. It owns the node
// array outright; backends receive the nodes only for the duration of
// a round and must hand them back reset. A Driver is single-threaded
// and holds no global state, so independent Drivers may run
// concurrently.
type Driver struct {
	cfg      Config
	log      *zap.Logger
	col      *Collector
	backends []tree.Backend
	nodes    []tree.Node
	stream   *tree.Stream
	order    []uint32
	barrier  func(context.Context) error
	rounds   uint64
	failed   bool
}

// NewDriver allocates the node array at the configured size, assigns
// keys 0..n and performs the initial shuffle. This is the Init state;
// the run loop does not start until Run is called.
func NewDriver(cfg Config, log *zap.Logger, col *Collector) (*Driver, error) {
	if err := cfg.Sanitize(); err != nil {
		return nil, err
	}
	backends, err := backendsFor(cfg.Method)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if col == nil {
		col = NewCollector(nil)
	}

	d := &Driver{
		cfg:      cfg,
		log:      log,
		col:      col,
		backends: backends,
		nodes:    make([]tree.Node, cfg.Size),
		stream:   tree.NewStream(cfg.Seed),
	}
	for i := range d.nodes {
		d.nodes[i].Key = uint32(i)
	}
	tree.Shuffle(d.stream, d.nodes)
	return d, nil
}

// SetBarrier registers fn to be called once before the run loop
// starts. The runner uses this as the start line shared by sibling
// instances.
func (d *Driver) SetBarrier(fn func(context.Context) error) {
	d.barrier = fn
}

// Rounds returns the number of completed rounds.
func (d *Driver) Rounds() uint64 { return d.rounds }

// Failed reports whether any lookup failed to locate an inserted key.
// The flag is sticky; a failing round still runs to completion.
func (d *Driver) Failed() bool { return d.failed }

// Collector returns the driver's metrics.
func (d *Driver) Collector() *Collector { return d.col }

// Run executes rounds until the context is cancelled or the configured
// round count is reached. Cancellation is a normal termination path
// and returns nil; only resource exhaustion is an error. Verification
// failures are reported through Failed, not the return value, so a
// failing run still accumulates complete metrics.
func (d *Driver) Run(ctx context.Context) error {
	defer d.deinit()

	if d.barrier != nil {
		if err := d.barrier(ctx); err != nil {
			return nil
		}
	}

	for ctx.Err() == nil {
		if d.cfg.Ops > 0 && d.rounds >= d.cfg.Ops {
			break
		}
		for _, b := range d.backends {
			if !b.Available() {
				continue
			}
			if err := d.round(ctx, b); err != nil {
				return err
			}
		}
		d.rounds++
		d.col.roundDone()
		tree.Shuffle(d.stream, d.nodes)
	}
	return nil
}

// round runs one backend through its insert, find and remove phases,
// timing each. The context is checked at phase boundaries only; a
// cancelled round still removes what it inserted so the nodes come
// back clean.
func (d *Driver) round(ctx context.Context, b tree.Backend) error {
	name := b.Name()

	start := time.Now()
	for i := range d.nodes {
		if err := b.Insert(&d.nodes[i]); err != nil {
			b.RemoveAll()
			return errors.Wrapf(err, "bench: %s insert", name)
		}
	}
	d.col.record(name, phaseInsert, time.Since(start), len(d.nodes))

	if ctx.Err() == nil {
		start = time.Now()
		n := d.findPass(b, tree.Forward)
		if d.cfg.Verify {
			n += d.findPass(b, tree.Reverse)
			n += d.findPass(b, tree.Shuffled)
		}
		d.col.record(name, phaseFind, time.Since(start), n)
	}

	start = time.Now()
	b.RemoveAll()
	d.col.record(name, phaseRemove, time.Since(start), len(d.nodes))
	return nil
}

// findPass looks up every node's key in the given order, flagging any
// miss or wrong-key match. It returns the number of lookups performed.
func (d *Driver) findPass(b tree.Backend, order tree.Order) int {
	switch order {
	case tree.Forward:
		for i := range d.nodes {
			d.check(b, d.nodes[i].Key)
		}
	case tree.Reverse:
		for i := len(d.nodes) - 1; i >= 0; i-- {
			d.check(b, d.nodes[i].Key)
		}
	case tree.Shuffled:
		d.shuffleOrder()
		for _, i := range d.order {
			d.check(b, d.nodes[i].Key)
		}
	}
	return len(d.nodes)
}

func (d *Driver) check(b tree.Backend, key uint32) {
	got, ok := b.Find(key)
	if ok && got == key {
		return
	}
	d.failed = true
	d.col.verifyFailure(b.Name())
	d.log.Error("find failed to locate inserted key",
		zap.String("method", b.Name()),
		zap.Uint32("key", key),
	)
}

// shuffleOrder permutes the scratch index slice used by shuffled-order
// lookups, allocating it on first use.
func (d *Driver) shuffleOrder() {
	if d.order == nil {
		d.order = make([]uint32, len(d.nodes))
		for i := range d.order {
			d.order[i] = uint32(i)
		}
	}
	n := uint32(len(d.order))
	for i := range d.order {
		j := d.stream.Next() % n
		d.order[i], d.order[j] = d.order[j], d.order[i]
	}
}

// deinit releases the node array and scratch state. Backends were
// emptied by the last completed round; an interrupted round's backend
// keeps only links into the array being dropped, so teardown is safe
// at any point.
func (d *Driver) deinit() {
	for _, b := range d.backends {
		b.RemoveAll()
	}
	d.nodes = nil
	d.order = nil
}
