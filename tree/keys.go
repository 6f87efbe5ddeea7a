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

package tree

// Linear congruence constants for the key stream.
const (
	lcgMult = 16843009
	lcgInc  = 826366247
)

// A Stream is a deterministic pseudo-random sequence of 32 bit values
// driven by a linear congruential recurrence. The caller owns the state;
// two Streams seeded alike produce identical sequences.
type Stream struct {
	seed uint32
}

// NewStream returns a Stream seeded with seed.
func NewStream(seed uint32) *Stream {
	return &Stream{seed: seed}
}

// Next advances the stream and returns the new state.
func (s *Stream) Next() uint32 {
	s.seed = s.seed*lcgMult + lcgInc
	return s.seed
}

// Shuffle permutes the keys of nodes in place, swapping each position
// with a partner drawn from the stream. Only keys move; link state is
// untouched, so Shuffle must not be called while any backend holds the
// nodes.
func Shuffle(s *Stream, nodes []Node) {
	n := uint32(len(nodes))
	if n == 0 {
		return
	}
	for i := range nodes {
		j := s.Next() % n
		nodes[i].Key, nodes[j].Key = nodes[j].Key, nodes[i].Key
	}
}
