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

// Package splay implements the splay tree backend using top-down
// splaying, which needs no parent links in the shared node. Every
// access reshapes the tree, so Find mutates the structure; that is the
// point of the method, not a defect.
package splay

import "github.com/biogo/treebench/tree"

// A Tree manages the root of a splay tree over caller-owned nodes. The
// header node is scratch state for the top-down splay reassembly and
// never enters the tree.
type Tree struct {
	root   *tree.Node
	header tree.Node
	count  int
}

// New returns an empty Tree.
func New() *Tree { return &Tree{} }

func (t *Tree) Name() string    { return "splay" }
func (t *Tree) Available() bool { return true }

// Len returns the number of keys held.
func (t *Tree) Len() int { return t.count }

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

// splay moves the node holding key, or the last node on its search
// path, to the root, splitting the path into left and right assembly
// lists hanging off the scratch header.
func (t *Tree) splay(key uint32) {
	t.header.Left = nil
	t.header.Right = nil
	l, r := &t.header, &t.header
	n := t.root
loop:
	for {
		switch {
		case key < n.Key:
			if n.Left == nil {
				break loop
			}
			if key < n.Left.Key {
				n = rotateRight(n)
				if n.Left == nil {
					break loop
				}
			}
			// Link right.
			r.Left = n
			r = n
			n = n.Left
		case key > n.Key:
			if n.Right == nil {
				break loop
			}
			if key > n.Right.Key {
				n = rotateLeft(n)
				if n.Right == nil {
					break loop
				}
			}
			// Link left.
			l.Right = n
			l = n
			n = n.Right
		default:
			break loop
		}
	}
	// Reassemble.
	l.Right = n.Left
	r.Left = n.Right
	n.Left = t.header.Right
	n.Right = t.header.Left
	t.root = n
}

// Insert splays the closest match to the root and, if the key is
// absent, splits the tree around it with n as the new root. A key that
// is already present is a no-op.
func (t *Tree) Insert(n *tree.Node) error {
	n.Left = nil
	n.Right = nil
	if t.root == nil {
		t.root = n
		t.count++
		return nil
	}
	t.splay(n.Key)
	switch {
	case n.Key == t.root.Key:
		return nil
	case n.Key < t.root.Key:
		n.Left = t.root.Left
		n.Right = t.root
		t.root.Left = nil
	default:
		n.Right = t.root.Right
		n.Left = t.root
		t.root.Right = nil
	}
	t.root = n
	t.count++
	return nil
}

// Find splays for key and inspects the resulting root.
func (t *Tree) Find(key uint32) (uint32, bool) {
	if t.root == nil {
		return 0, false
	}
	t.splay(key)
	if t.root.Key == key {
		return t.root.Key, true
	}
	return 0, false
}

// RemoveAll drains the tree from its minimum. Splaying for zero leaves
// the least key at the root with no left child, so each step unlinks
// the root and promotes its right subtree. Every removed node and the
// scratch header are reset so no splay-private pointers survive into a
// later backend's reuse of the node memory.
func (t *Tree) RemoveAll() {
	for t.root != nil {
		t.splay(0)
		min := t.root
		t.root = min.Right
		min.Reset()
	}
	t.header.Reset()
	t.count = 0
}
