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

// Package bst implements the unbalanced binary search tree backend.
// Insertion performs no rebalancing, so tree depth depends entirely on
// arrival order; the benchmark driver's shuffle keeps the expected
// depth logarithmic.
package bst

import "github.com/biogo/treebench/tree"

// A Tree manages the root of an unbalanced binary search tree over
// caller-owned nodes.
type Tree struct {
	root  *tree.Node
	count int
}

// New returns an empty Tree.
func New() *Tree { return &Tree{} }

func (t *Tree) Name() string    { return "binary" }
func (t *Tree) Available() bool { return true }

// Len returns the number of keys held.
func (t *Tree) Len() int { return t.count }

// Insert places n at the first empty slot reached by iterative descent.
// A key that is already present is left untouched.
func (t *Tree) Insert(n *tree.Node) error {
	n.Left = nil
	n.Right = nil
	if t.root == nil {
		t.root = n
		t.count++
		return nil
	}
	for p := t.root; ; {
		switch {
		case n.Key == p.Key:
			return nil
		case n.Key < p.Key:
			if p.Left == nil {
				p.Left = n
				t.count++
				return nil
			}
			p = p.Left
		default:
			if p.Right == nil {
				p.Right = n
				t.count++
				return nil
			}
			p = p.Right
		}
	}
}

// Find returns the stored key matching key by iterative descent.
func (t *Tree) Find(key uint32) (uint32, bool) {
	for n := t.root; n != nil; {
		switch {
		case key == n.Key:
			return n.Key, true
		case key < n.Key:
			n = n.Left
		default:
			n = n.Right
		}
	}
	return 0, false
}

// RemoveAll empties the tree, nulling each node's links in post-order
// as the recursion unwinds. Node memory belongs to the caller and is
// not freed.
func (t *Tree) RemoveAll() {
	unlink(t.root)
	t.root = nil
	t.count = 0
}

func unlink(n *tree.Node) {
	if n == nil {
		return
	}
	unlink(n.Left)
	unlink(n.Right)
	n.Left = nil
	n.Right = nil
}
