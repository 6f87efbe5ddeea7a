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

// Package avl implements the height-balanced AVL tree backend. Each
// node carries a balance factor rather than a height, and insertion
// restores balance with at most one single or double rotation; the
// rotation absorbs the height increase, so rebalancing never propagates
// further up than the first unbalanced ancestor.
package avl

import "github.com/biogo/treebench/tree"

// A Tree manages the root of an AVL tree over caller-owned nodes.
type Tree struct {
	root  *tree.Node
	count int
}

// New returns an empty Tree.
func New() *Tree { return &Tree{} }

func (t *Tree) Name() string    { return "avl" }
func (t *Tree) Available() bool { return true }

// Len returns the number of keys held.
func (t *Tree) Len() int { return t.count }

// Insert places n in the tree, rebalancing on the way back up. A key
// that is already present is a no-op and does not alter the tree.
func (t *Tree) Insert(n *tree.Node) error {
	n.Left = nil
	n.Right = nil
	n.Balance = tree.EqualHeight
	var added bool
	t.root, _, added = insert(t.root, n)
	if added {
		t.count++
	}
	return nil
}

// insert returns the new subtree root, whether the subtree grew taller,
// and whether n was added.
func insert(root, n *tree.Node) (_ *tree.Node, taller, added bool) {
	if root == nil {
		return n, true, true
	}
	switch {
	case n.Key < root.Key:
		root.Left, taller, added = insert(root.Left, n)
		if !taller {
			return root, false, added
		}
		switch root.Balance {
		case tree.EqualHeight:
			root.Balance = tree.LeftHeavy
			return root, true, added
		case tree.RightHeavy:
			root.Balance = tree.EqualHeight
			return root, false, added
		default: // Second consecutive lean left.
			return rebalanceLeft(root), false, added
		}
	case n.Key > root.Key:
		root.Right, taller, added = insert(root.Right, n)
		if !taller {
			return root, false, added
		}
		switch root.Balance {
		case tree.EqualHeight:
			root.Balance = tree.RightHeavy
			return root, true, added
		case tree.LeftHeavy:
			root.Balance = tree.EqualHeight
			return root, false, added
		default:
			return rebalanceRight(root), false, added
		}
	}
	// Key already present: no structural change, not taller.
	return root, false, false
}

// (a,c)b -rotL-> ((a,)b,)c
func rotateLeft(n *tree.Node) (root *tree.Node) {
	root = n.Right
	n.Right = root.Left
	root.Left = n
	return
}

// (a,c)b -rotR-> (,(,c)b)a
func rotateRight(n *tree.Node) (root *tree.Node) {
	root = n.Left
	n.Left = root.Right
	root.Right = n
	return
}

// rebalanceLeft restores balance at a node that was already left-heavy
// and whose left subtree has just grown.
func rebalanceLeft(n *tree.Node) *tree.Node {
	l := n.Left
	if l.Balance == tree.LeftHeavy {
		// Single rotation.
		n.Balance = tree.EqualHeight
		l.Balance = tree.EqualHeight
		return rotateRight(n)
	}
	// Double rotation around the grandchild.
	lr := l.Right
	switch lr.Balance {
	case tree.LeftHeavy:
		l.Balance = tree.EqualHeight
		n.Balance = tree.RightHeavy
	case tree.RightHeavy:
		l.Balance = tree.LeftHeavy
		n.Balance = tree.EqualHeight
	default:
		l.Balance = tree.EqualHeight
		n.Balance = tree.EqualHeight
	}
	lr.Balance = tree.EqualHeight
	n.Left = rotateLeft(l)
	return rotateRight(n)
}

// rebalanceRight is the mirror of rebalanceLeft.
func rebalanceRight(n *tree.Node) *tree.Node {
	r := n.Right
	if r.Balance == tree.RightHeavy {
		n.Balance = tree.EqualHeight
		r.Balance = tree.EqualHeight
		return rotateLeft(n)
	}
	rl := r.Left
	switch rl.Balance {
	case tree.RightHeavy:
		r.Balance = tree.EqualHeight
		n.Balance = tree.LeftHeavy
	case tree.LeftHeavy:
		r.Balance = tree.RightHeavy
		n.Balance = tree.EqualHeight
	default:
		r.Balance = tree.EqualHeight
		n.Balance = tree.EqualHeight
	}
	rl.Balance = tree.EqualHeight
	n.Right = rotateRight(r)
	return rotateLeft(n)
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

// RemoveAll empties the tree, resetting each node's links and balance
// factor in post-order.
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
	n.Balance = tree.EqualHeight
}
