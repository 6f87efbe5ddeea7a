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

package llrb

import (
	"testing"

	check "gopkg.in/check.v1"

	"github.com/biogo/treebench/tree"
)

// Tests
func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func makeNodes(n int, seed uint32) []tree.Node {
	nodes := make([]tree.Node, n)
	for i := range nodes {
		nodes[i].Key = uint32(i)
	}
	tree.Shuffle(tree.NewStream(seed), nodes)
	return nodes
}

// Integrity checks - translated from http://www.cs.princeton.edu/~rs/talks/LLRB/Java/RedBlackBST.java

// Are all the keys in the tree rooted at n between min and max,
// and does the same property hold for both subtrees?
func isBST(n *tree.Node, min, max uint32) bool {
	if n == nil {
		return true
	}
	if n.Key < min || n.Key > max {
		return false
	}
	return isBST(n.Left, min, n.Key) && isBST(n.Right, n.Key, max)
}

// Does the tree obey the 2-3 constraints: no right-leaning red link
// and no node with two red children or a red chain to the left?
func is23(n *tree.Node) bool {
	if n == nil {
		return true
	}
	if n.Left != nil && n.Right != nil {
		if color(n.Left) == tree.Red && color(n.Right) == tree.Red {
			return false
		}
	}
	if color(n.Right) == tree.Red {
		return false
	}
	if color(n) == tree.Red && color(n.Left) == tree.Red {
		return false
	}
	return is23(n.Left) && is23(n.Right)
}

// Do all paths from root to leaf have the same number of black edges?
func (t *Tree) isBalanced() bool {
	if t.root == nil {
		return true
	}
	var black int // number of black links on path from root to min
	for x := t.root; x != nil; x = x.Left {
		if color(x) == tree.Black {
			black++
		}
	}
	return isBalanced(t.root, black)
}

func isBalanced(n *tree.Node, black int) bool {
	if n == nil {
		return black == 0
	}
	if color(n) == tree.Black {
		black--
	}
	return isBalanced(n.Left, black) && isBalanced(n.Right, black)
}

func (t *Tree) invariants(c *check.C) {
	if t.root == nil {
		return
	}
	c.Assert(color(t.root), check.Equals, tree.Black)
	c.Assert(isBST(t.root, 0, ^uint32(0)), check.Equals, true)
	c.Assert(is23(t.root), check.Equals, true)
	c.Assert(t.isBalanced(), check.Equals, true)
}

func (s *S) TestRoundTrip(c *check.C) {
	for _, n := range []int{1, 2, 16, 1000} {
		t := New()
		nodes := makeNodes(n, 99)
		for i := range nodes {
			c.Assert(t.Insert(&nodes[i]), check.IsNil)
		}
		c.Assert(t.Len(), check.Equals, n)
		t.invariants(c)
		for key := uint32(0); key < uint32(n); key++ {
			got, ok := t.Find(key)
			c.Assert(ok, check.Equals, true)
			c.Assert(got, check.Equals, key)
		}
	}
}

func (s *S) TestInvariantsDuringInsertion(c *check.C) {
	t := New()
	nodes := makeNodes(500, 1)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
		t.invariants(c)
	}
}

func (s *S) TestDuplicateInsert(c *check.C) {
	t := New()
	nodes := makeNodes(16, 99)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	dup := tree.Node{Key: nodes[7].Key}
	c.Assert(t.Insert(&dup), check.IsNil)
	c.Check(t.Len(), check.Equals, 16)
	t.invariants(c)
}

func (s *S) TestEmptyAfterRemove(c *check.C) {
	t := New()
	nodes := makeNodes(1000, 99)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	t.RemoveAll()
	c.Check(t.Len(), check.Equals, 0)
	c.Check(t.root, check.IsNil)
	for key := uint32(0); key < 1000; key++ {
		_, ok := t.Find(key)
		c.Assert(ok, check.Equals, false)
	}
	// Colors and links must not leak into the next use of the nodes.
	for i := range nodes {
		c.Assert(nodes[i].Left, check.IsNil)
		c.Assert(nodes[i].Right, check.IsNil)
		c.Assert(nodes[i].Color, check.Equals, tree.Red)
	}

	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	c.Assert(t.Len(), check.Equals, 1000)
	t.invariants(c)
}
