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
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Node count bounds and defaults.
const (
	MinSize     = 1_000
	MaxSize     = 25_000_000
	DefaultSize = 250_000
	DefaultSeed = 99
)

// A Config holds one benchmark run's settings. Zero values are filled
// in by Sanitize.
type Config struct {
	// Method selects the backend to run, or MethodAll for a
	// round-robin comparison of every available backend.
	Method string `yaml:"method"`

	// Size is the number of nodes in the benchmark array, clamped to
	// [MinSize, MaxSize].
	Size uint32 `yaml:"size"`

	// Ops stops the run after this many full insert/find/remove
	// rounds. Zero means unbounded; the run then ends only on
	// cancellation.
	Ops uint64 `yaml:"ops"`

	// Verify adds reverse-order and shuffled-order lookup passes to
	// the mandatory forward pass.
	Verify bool `yaml:"verify"`

	// Seed drives the key shuffle. Runs with equal seeds visit keys
	// in identical orders.
	Seed uint32 `yaml:"seed"`

	// Instances is the number of independent benchmark copies run
	// concurrently, sharing nothing but a start barrier.
	Instances int `yaml:"instances"`

	// Duration bounds the run's wall-clock time. Zero means no bound.
	Duration time.Duration `yaml:"duration"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		Method:    MethodAll,
		Size:      DefaultSize,
		Seed:      DefaultSeed,
		Instances: 1,
	}
}

// Load reads a yaml Config from path, with unset fields taking their
// defaults.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "bench: reading config")
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, errors.Wrap(err, "bench: parsing config")
	}
	return c, nil
}

// Sanitize fills defaults, clamps Size into its bounds and validates
// the method name.
func (c *Config) Sanitize() error {
	if c.Method == "" {
		c.Method = MethodAll
	}
	if _, err := backendsFor(c.Method); err != nil {
		return err
	}
	if c.Size < MinSize {
		c.Size = MinSize
	}
	if c.Size > MaxSize {
		c.Size = MaxSize
	}
	if c.Seed == 0 {
		c.Seed = DefaultSeed
	}
	if c.Instances < 1 {
		c.Instances = 1
	}
	return nil
}
