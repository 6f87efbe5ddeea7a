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

package avl

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

// Integrity checks

// height returns the true height of the subtree at n.
func height(n *tree.Node) int {
	if n == nil {
		return 0
	}
	l, r := height(n.Left), height(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// isBalanced checks the AVL invariant and that each balance factor
// reflects the true relative subtree heights.
func isBalanced(n *tree.Node) bool {
	if n == nil {
		return true
	}
	l, r := height(n.Left), height(n.Right)
	d := r - l
	if d < -1 || d > 1 {
		return false
	}
	if n.Balance != tree.Balance(d) {
		return false
	}
	return isBalanced(n.Left) && isBalanced(n.Right)
}

func inOrder(n *tree.Node, keys []uint32) []uint32 {
	if n == nil {
		return keys
	}
	keys = inOrder(n.Left, keys)
	keys = append(keys, n.Key)
	return inOrder(n.Right, keys)
}

func (s *S) TestRoundTrip(c *check.C) {
	for _, n := range []int{1, 2, 16, 1000} {
		t := New()
		nodes := makeNodes(n, 99)
		for i := range nodes {
			c.Assert(t.Insert(&nodes[i]), check.IsNil)
		}
		c.Assert(t.Len(), check.Equals, n)
		c.Assert(isBalanced(t.root), check.Equals, true)
		for key := uint32(0); key < uint32(n); key++ {
			got, ok := t.Find(key)
			c.Assert(ok, check.Equals, true)
			c.Assert(got, check.Equals, key)
		}
	}
}

// Inserting 1, 2, 3 in order is the right-right case; a single left
// rotation must leave 2 at the root with both children balanced.
func (s *S) TestSingleRotation(c *check.C) {
	t := New()
	nodes := make([]tree.Node, 3)
	for i, key := range []uint32{1, 2, 3} {
		nodes[i].Key = key
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	c.Assert(t.root, check.NotNil)
	c.Check(t.root.Key, check.Equals, uint32(2))
	c.Assert(t.root.Left, check.NotNil)
	c.Check(t.root.Left.Key, check.Equals, uint32(1))
	c.Assert(t.root.Right, check.NotNil)
	c.Check(t.root.Right.Key, check.Equals, uint32(3))
	c.Check(t.root.Balance, check.Equals, tree.EqualHeight)
	c.Check(t.root.Left.Balance, check.Equals, tree.EqualHeight)
	c.Check(t.root.Right.Balance, check.Equals, tree.EqualHeight)
}

// Inserting 3, 1, 2 is the left-right case needing a double rotation.
func (s *S) TestDoubleRotation(c *check.C) {
	t := New()
	nodes := make([]tree.Node, 3)
	for i, key := range []uint32{3, 1, 2} {
		nodes[i].Key = key
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	c.Check(t.root.Key, check.Equals, uint32(2))
	c.Check(t.root.Left.Key, check.Equals, uint32(1))
	c.Check(t.root.Right.Key, check.Equals, uint32(3))
	c.Check(isBalanced(t.root), check.Equals, true)
}

func (s *S) TestBalanceInvariant(c *check.C) {
	t := New()
	nodes := makeNodes(1000, 3)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
		c.Assert(isBalanced(t.root), check.Equals, true)
	}
}

func (s *S) TestDuplicateInsert(c *check.C) {
	t := New()
	nodes := makeNodes(16, 99)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	dup := tree.Node{Key: nodes[5].Key}
	c.Assert(t.Insert(&dup), check.IsNil)
	c.Check(t.Len(), check.Equals, 16)
	c.Check(isBalanced(t.root), check.Equals, true)
	c.Check(len(inOrder(t.root, nil)), check.Equals, 16)
}

func (s *S) TestOrdering(c *check.C) {
	t := New()
	nodes := makeNodes(1000, 99)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	keys := inOrder(t.root, nil)
	c.Assert(len(keys), check.Equals, 1000)
	for i := 1; i < len(keys); i++ {
		c.Assert(keys[i-1] < keys[i], check.Equals, true)
	}
}

func (s *S) TestEmptyAfterRemove(c *check.C) {
	t := New()
	nodes := makeNodes(1000, 99)
	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	t.RemoveAll()
	c.Check(t.Len(), check.Equals, 0)
	for key := uint32(0); key < 1000; key++ {
		_, ok := t.Find(key)
		c.Assert(ok, check.Equals, false)
	}
	for i := range nodes {
		c.Assert(nodes[i].Left, check.IsNil)
		c.Assert(nodes[i].Right, check.IsNil)
		c.Assert(nodes[i].Balance, check.Equals, tree.EqualHeight)
	}

	for i := range nodes {
		c.Assert(t.Insert(&nodes[i]), check.IsNil)
	}
	c.Assert(t.Len(), check.Equals, 1000)
	c.Assert(isBalanced(t.root), check.Equals, true)
}
