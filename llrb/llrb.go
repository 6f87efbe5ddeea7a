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

// Package llrb implements the red-black backend as a Left-Leaning Red
// Black tree, operating bottom-up in 2-3 mode as described in
//  http://www.cs.princeton.edu/~rs/talks/LLRB/LLRB.pdf
//  http://www.cs.princeton.edu/~rs/talks/LLRB/Java/RedBlackBST.java
// The linkage is intrusive: color and child links live in the shared
// benchmark node rather than in wrapper nodes.
package llrb

import "github.com/biogo/treebench/tree"

// A Tree manages the root node of an LLRB tree over caller-owned nodes.
type Tree struct {
	root  *tree.Node
	count int
}

// New returns an empty Tree.
func New() *Tree { return &Tree{} }

func (t *Tree) Name() string    { return "rb" }
func (t *Tree) Available() bool { return true }

// Len returns the number of keys held.
func (t *Tree) Len() int { return t.count }

// Helper functions. These mirror the node methods of the non-intrusive
// tree; they are free functions because the node type lives in another
// package.

// color returns the effective color of a node. A nil node is black.
func color(n *tree.Node) tree.Color {
	if n == nil {
		return tree.Black
	}
	return n.Color
}

// (a,c)b -rotL-> ((a,)b,)c
func rotateLeft(n *tree.Node) (root *tree.Node) {
	// Assumes: n has two children.
	root = n.Right
	n.Right = root.Left
	root.Left = n
	root.Color = n.Color
	n.Color = tree.Red
	return
}

// (a,c)b -rotR-> (,(,c)b)a
func rotateRight(n *tree.Node) (root *tree.Node) {
	// Assumes: n has two children.
	root = n.Left
	n.Left = root.Right
	root.Right = n
	root.Color = n.Color
	n.Color = tree.Red
	return
}

// (aR,cR)bB -flipC-> (aB,cB)bR | (aB,cB)bR -flipC-> (aR,cR)bB
func flipColors(n *tree.Node) {
	// Assumes: n has two children.
	n.Color = !n.Color
	n.Left.Color = !n.Left.Color
	n.Right.Color = !n.Right.Color
}

// fixUp ensures that black link balance is correct, that red nodes lean
// left and that 4-nodes are split.
func fixUp(n *tree.Node) *tree.Node {
	if color(n.Right) == tree.Red {
		n = rotateLeft(n)
	}
	if color(n.Left) == tree.Red && color(n.Left.Left) == tree.Red {
		n = rotateRight(n)
	}
	if color(n.Left) == tree.Red && color(n.Right) == tree.Red {
		flipColors(n)
	}
	return n
}

func moveRedLeft(n *tree.Node) *tree.Node {
	flipColors(n)
	if color(n.Right.Left) == tree.Red {
		n.Right = rotateRight(n.Right)
		n = rotateLeft(n)
		flipColors(n)
	}
	return n
}

// Insert places n in the tree if its key is absent. The lookup before
// descent makes the semantics insert-if-absent rather than
// insert-or-replace, at the cost of a second search during population.
func (t *Tree) Insert(n *tree.Node) error {
	if _, ok := t.Find(n.Key); ok {
		return nil
	}
	n.Left = nil
	n.Right = nil
	n.Color = tree.Red
	t.root = insert(t.root, n)
	t.root.Color = tree.Black
	t.count++
	return nil
}

func insert(root, n *tree.Node) *tree.Node {
	if root == nil {
		return n
	}

	if n.Key < root.Key {
		root.Left = insert(root.Left, n)
	} else {
		root.Right = insert(root.Right, n)
	}

	if color(root.Right) == tree.Red && color(root.Left) == tree.Black {
		root = rotateLeft(root)
	}
	if color(root.Left) == tree.Red && color(root.Left.Left) == tree.Red {
		root = rotateRight(root)
	}
	if color(root.Left) == tree.Red && color(root.Right) == tree.Red {
		flipColors(root)
	}

	return root
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

// RemoveAll drains the tree by repeated minimum deletion, resetting the
// link state and color of each node as it leaves the tree. Stale colors
// must not survive into the next backend's use of the same nodes.
func (t *Tree) RemoveAll() {
	for t.root != nil {
		var min *tree.Node
		t.root, min = deleteMin(t.root)
		if t.root != nil {
			t.root.Color = tree.Black
		}
		min.Reset()
	}
	t.count = 0
}

// deleteMin removes and returns the leftmost node below n, returning
// also the new subtree root.
func deleteMin(n *tree.Node) (root, min *tree.Node) {
	if n.Left == nil {
		return nil, n
	}
	if color(n.Left) == tree.Black && color(n.Left.Left) == tree.Black {
		n = moveRedLeft(n)
	}
	n.Left, min = deleteMin(n.Left)

	return fixUp(n), min
}
