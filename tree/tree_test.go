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

import (
	"testing"

	check "gopkg.in/check.v1"
)

// Tests
func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestStreamDeterminism(c *check.C) {
	a, b := NewStream(99), NewStream(99)
	for i := 0; i < 1000; i++ {
		c.Assert(a.Next(), check.Equals, b.Next())
	}
	c.Check(a.Next(), check.Not(check.Equals), NewStream(1).Next())
}

func (s *S) TestStreamRecurrence(c *check.C) {
	st := NewStream(99)
	c.Check(st.Next(), check.Equals, uint32(99*16843009+826366247))
}

func (s *S) TestShufflePermutes(c *check.C) {
	for _, n := range []int{1, 2, 16, 1000} {
		nodes := make([]Node, n)
		for i := range nodes {
			nodes[i].Key = uint32(i)
		}
		Shuffle(NewStream(99), nodes)

		seen := make(map[uint32]bool, n)
		for i := range nodes {
			c.Assert(seen[nodes[i].Key], check.Equals, false)
			seen[nodes[i].Key] = true
			c.Assert(nodes[i].Key < uint32(n), check.Equals, true)
		}
	}
}

func (s *S) TestShuffleLeavesLinks(c *check.C) {
	nodes := make([]Node, 16)
	for i := range nodes {
		nodes[i].Key = uint32(i)
	}
	Shuffle(NewStream(99), nodes)
	for i := range nodes {
		c.Check(nodes[i].Left, check.IsNil)
		c.Check(nodes[i].Right, check.IsNil)
	}
}

func (s *S) TestShuffleDeterminism(c *check.C) {
	a := make([]Node, 100)
	b := make([]Node, 100)
	for i := range a {
		a[i].Key = uint32(i)
		b[i].Key = uint32(i)
	}
	Shuffle(NewStream(7), a)
	Shuffle(NewStream(7), b)
	for i := range a {
		c.Assert(a[i].Key, check.Equals, b[i].Key)
	}
}

func (s *S) TestReset(c *check.C) {
	var l, r Node
	n := Node{Key: 42, Left: &l, Right: &r, Balance: RightHeavy, Color: Black}
	n.Reset()
	c.Check(n.Key, check.Equals, uint32(42))
	c.Check(n.Left, check.IsNil)
	c.Check(n.Right, check.IsNil)
	c.Check(n.Balance, check.Equals, EqualHeight)
	c.Check(n.Color, check.Equals, Red)
}
