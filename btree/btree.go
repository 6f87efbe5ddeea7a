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

// Package btree implements the in-memory B-tree backend. Unlike the
// binary backends it does not link the shared nodes; keys are copied
// into separately allocated internal nodes of fixed fanout.
package btree

import (
	"github.com/cockroachdb/errors"

	"github.com/biogo/treebench/tree"
)

// Structural constants. The order is fixed; Max and Min bound the key
// count of every non-root node.
const (
	Order = 31
	Max   = Order - 1
	Min   = (Order >> 1) - 1
)

// A node holds up to Max keys in ascending order and one more child
// than it has keys. child[i] leads to keys between keys[i-1] and
// keys[i].
type node struct {
	keys  [Max]uint32
	child [Max + 1]*node
	count int
}

// A Tree manages the root of a B-tree. A node budget of zero means
// unlimited; a positive budget makes allocation beyond it fail with
// tree.ErrResource, letting exhaustion unwind the insertion cleanly.
type Tree struct {
	root   *node
	limit  int
	nnodes int
	count  int
}

// New returns an empty Tree with no allocation limit.
func New() *Tree { return &Tree{} }

// NewLimited returns an empty Tree that will not allocate more than
// limit internal nodes.
func NewLimited(limit int) *Tree { return &Tree{limit: limit} }

func (t *Tree) Name() string    { return "btree" }
func (t *Tree) Available() bool { return true }

// Len returns the number of keys held.
func (t *Tree) Len() int { return t.count }

func (t *Tree) newNode() (*node, error) {
	if t.limit > 0 && t.nnodes >= t.limit {
		return nil, errors.Wrapf(tree.ErrResource, "btree: node budget %d exhausted", t.limit)
	}
	t.nnodes++
	return &node{}, nil
}

// Insert places n's key in the tree. A key that is already present is a
// no-op. Allocation failure during a split or new-root creation is
// propagated up the recursion and leaves the tree in its pre-insert
// state for all keys except possibly the one being inserted.
func (t *Tree) Insert(n *tree.Node) error {
	return t.insertKey(n.Key)
}

func (t *Tree) insertKey(key uint32) error {
	up, right, pushed, added, err := t.push(t.root, key)
	if err != nil {
		return err
	}
	if pushed {
		// The split reached above the root: wrap a new root around
		// the two halves.
		root, err := t.newNode()
		if err != nil {
			return err
		}
		root.count = 1
		root.keys[0] = up
		root.child[0] = t.root
		root.child[1] = right
		t.root = root
	}
	if added {
		t.count++
	}
	return nil
}

// push descends to the insertion point and resolves splits on the way
// back up. When a child was full and split, push returns the median key
// and the new right sibling for the caller to link in (pushed true).
func (t *Tree) push(nd *node, key uint32) (up uint32, right *node, pushed, added bool, err error) {
	if nd == nil {
		// Below a leaf: hand the key back for placement.
		return key, nil, true, true, nil
	}
	pos, found := nd.search(key)
	if found {
		return 0, nil, false, false, nil
	}
	up, right, pushed, added, err = t.push(nd.child[pos], key)
	if err != nil || !pushed {
		return up, right, pushed, added, err
	}
	if nd.count < Max {
		nd.insertAt(pos, up, right)
		return 0, nil, false, added, nil
	}
	up, right, err = t.split(nd, pos, up, right)
	return up, right, true, added, err
}

// search returns the index of the child to descend into for key, and
// whether key is present in the node. The scan is linear; with a
// fanout of 31 a binary search buys nothing.
func (nd *node) search(key uint32) (pos int, found bool) {
	for pos < nd.count && key > nd.keys[pos] {
		pos++
	}
	return pos, pos < nd.count && key == nd.keys[pos]
}

// insertAt shifts keys[pos:] and their right-hand children one place
// rightward and writes key and right into the gap.
func (nd *node) insertAt(pos int, key uint32, right *node) {
	copy(nd.keys[pos+1:nd.count+1], nd.keys[pos:nd.count])
	copy(nd.child[pos+2:nd.count+2], nd.child[pos+1:nd.count+1])
	nd.keys[pos] = key
	nd.child[pos+1] = right
	nd.count++
}

// split divides a full node receiving (key, right) at pos into itself,
// a promoted median, and a new right sibling. The median index is Min+1
// when the insertion lands above Min and Min otherwise, balancing the
// fill of the two halves against the side the new key joins.
func (t *Tree) split(nd *node, pos int, key uint32, right *node) (uint32, *node, error) {
	sib, err := t.newNode()
	if err != nil {
		return 0, nil, err
	}

	// Merged view of the overfull node.
	var keys [Max + 1]uint32
	var kids [Max + 2]*node
	copy(keys[:pos], nd.keys[:pos])
	keys[pos] = key
	copy(keys[pos+1:], nd.keys[pos:nd.count])
	copy(kids[:pos+1], nd.child[:pos+1])
	kids[pos+1] = right
	copy(kids[pos+2:], nd.child[pos+1:nd.count+1])

	med := Min
	if pos > Min {
		med = Min + 1
	}

	nd.count = med
	copy(nd.keys[:], keys[:med])
	copy(nd.child[:], kids[:med+1])
	for i := med + 1; i <= Max; i++ {
		nd.child[i] = nil
	}

	sib.count = Max - med
	copy(sib.keys[:], keys[med+1:])
	copy(sib.child[:], kids[med+1:])

	return keys[med], sib, nil
}

// Find reports whether key is present, descending with the same linear
// scan insertion uses.
func (t *Tree) Find(key uint32) (uint32, bool) {
	for nd := t.root; nd != nil; {
		pos, found := nd.search(key)
		if found {
			return nd.keys[pos], true
		}
		nd = nd.child[pos]
	}
	return 0, false
}

// RemoveAll releases every internal node in post-order and resets the
// root. The shared benchmark nodes carry no B-tree link state, so there
// is nothing to reset on them.
func (t *Tree) RemoveAll() {
	release(t.root)
	t.root = nil
	t.nnodes = 0
	t.count = 0
}

func release(nd *node) {
	if nd == nil {
		return
	}
	for i := 0; i <= nd.count; i++ {
		release(nd.child[i])
		nd.child[i] = nil
	}
	nd.count = 0
}
