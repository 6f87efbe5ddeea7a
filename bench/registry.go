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

package bench

import (
	"github.com/cockroachdb/errors"

	"github.com/biogo/treebench/avl"
	"github.com/biogo/treebench/bst"
	"github.com/biogo/treebench/btree"
	"github.com/biogo/treebench/llrb"
	"github.com/biogo/treebench/splay"
	"github.com/biogo/treebench/tree"
)

// MethodAll selects every available method, cycled once per round in
// the registry's fixed order.
const MethodAll = "all"

type entry struct {
	name string
	mk   func() tree.Backend
}

// Round-robin order for MethodAll.
var methods = []entry{
	{"avl", func() tree.Backend { return avl.New() }},
	{"binary", func() tree.Backend { return bst.New() }},
	{"btree", func() tree.Backend { return btree.New() }},
	{"rb", func() tree.Backend { return llrb.New() }},
	{"splay", func() tree.Backend { return splay.New() }},
}

// Methods returns the accepted method names, MethodAll first.
func Methods() []string {
	names := make([]string, 0, len(methods)+1)
	names = append(names, MethodAll)
	for _, e := range methods {
		names = append(names, e.name)
	}
	return names
}

// backendsFor resolves a method name to the fresh backends a run will
// exercise. Requesting a method this build does not provide is a skip
// condition, reported as tree.ErrUnavailable; MethodAll silently omits
// unavailable entries instead.
func backendsFor(method string) ([]tree.Backend, error) {
	if method == MethodAll {
		var bs []tree.Backend
		for _, e := range methods {
			if b := e.mk(); b.Available() {
				bs = append(bs, b)
			}
		}
		return bs, nil
	}
	for _, e := range methods {
		if e.name != method {
			continue
		}
		b := e.mk()
		if !b.Available() {
			return nil, errors.Wrapf(tree.ErrUnavailable, "tree-method %q", method)
		}
		return []tree.Backend{b}, nil
	}
	return nil, errors.Newf("bench: unknown tree-method %q", method)
}
