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

// Package tree provides the shared node record and the method contract
// implemented by the benchmark's tree backends.
package tree

import "github.com/cockroachdb/errors"

var (
	// ErrVerify is returned after a run during which a lookup failed to
	// locate a key that had been inserted.
	ErrVerify = errors.New("tree: verification mismatch")

	// ErrResource is returned when an allocation limit is exhausted.
	ErrResource = errors.New("tree: out of resource")

	// ErrUnavailable is returned when a requested method is not provided
	// by this build.
	ErrUnavailable = errors.New("tree: method unavailable")
)

// A Color represents the color of a red-black node.
type Color bool

// String returns a string representation of a Color.
func (c Color) String() string {
	if c {
		return "Black"
	}
	return "Red"
}

const (
	// Red as false give us the defined behaviour that new nodes are red.
	Red   Color = false
	Black Color = true
)

// A Balance is the relative height state of an AVL node's subtrees.
type Balance int8

const (
	LeftHeavy   Balance = -1
	EqualHeight Balance = 0
	RightHeavy  Balance = 1
)

// A Node is the single storage record shared by all backends. The link
// fields behave as a union: only the interpretation of the backend that
// currently holds the node is meaningful, and a backend's RemoveAll must
// leave every field it used cleared so the node can be handed to the
// next backend raw.
type Node struct {
	Key         uint32
	Left, Right *Node
	Balance     Balance
	Color       Color
}

// Reset clears all backend link state, returning the node to the state
// it had before any insertion.
func (n *Node) Reset() {
	n.Left = nil
	n.Right = nil
	n.Balance = EqualHeight
	n.Color = Red
}

// An Order selects the iteration order of a lookup pass over the node
// array.
type Order int

const (
	Forward Order = iota
	Reverse
	Shuffled
)

// A Backend is one pluggable tree method. Backends operate on nodes
// owned by the caller; they never allocate or retain nodes beyond the
// links they establish, and after RemoveAll the structure is empty and
// every node it held has been Reset.
type Backend interface {
	// Name returns the method name used for option parsing and metrics.
	Name() string

	// Available reports whether the method is provided by this build.
	Available() bool

	// Insert places n into the structure. Inserting a key that is
	// already present is a no-op. The only failure is resource
	// exhaustion, reported as an error wrapping ErrResource.
	Insert(n *Node) error

	// Find returns the stored key matching key and whether a match was
	// found.
	Find(key uint32) (uint32, bool)

	// RemoveAll empties the structure, resetting the link state of
	// every node it held.
	RemoveAll()

	// Len returns the number of keys held.
	Len() int
}
