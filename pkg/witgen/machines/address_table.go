// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package machines

import (
	"fmt"
	"slices"
	"sort"

	"github.com/r0qs/powdr/pkg/util/field"
)

// DuplicateKeyError signals that two rows of an address space share the same
// key, hence the space cannot be addressed unambiguously.
type DuplicateKeyError struct {
	Key  string
	Rows [2]uint64
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("key %s occurs on rows %d and %d", e.Key, e.Rows[0], e.Rows[1])
}

type addressEntry[F field.Element[F]] struct {
	key []F
	row uint64
}

// AddressTable maps key tuples onto the rows holding them.  This is an
// injective map, stored as an array of entries sorted by key.  Since fields
// have no natural order, keys are sorted lexicographically by the canonical
// representatives of their components.
type AddressTable[F field.Element[F]] struct {
	entries []addressEntry[F]
}

// NewAddressTable constructs the address table for rows 0..n, where the key
// of each row is determined by a given function.  An error is returned if two
// rows share the same key.
func NewAddressTable[F field.Element[F]](n uint64, keyOf func(row uint64) []F) (*AddressTable[F], error) {
	var entries = make([]addressEntry[F], n)
	//
	for row := range n {
		entries[row] = addressEntry[F]{keyOf(row), row}
	}
	// Sort by key, whilst retaining row order for matching keys.
	slices.SortStableFunc(entries, func(a, b addressEntry[F]) int {
		return field.CmpTuple(a.key, b.key)
	})
	// Duplicates are now adjacent
	for i := 1; i < len(entries); i++ {
		if field.CmpTuple(entries[i-1].key, entries[i].key) == 0 {
			return nil, &DuplicateKeyError{
				field.TupleString(entries[i].key),
				[2]uint64{entries[i-1].row, entries[i].row},
			}
		}
	}
	//
	return &AddressTable[F]{entries}, nil
}

// Lookup returns the row holding a given key, if it exists.
func (p *AddressTable[F]) Lookup(key []F) (uint64, bool) {
	// Find index where key either does occur, or should occur.
	i := sort.Search(len(p.entries), func(i int) bool {
		return field.CmpTuple(key, p.entries[i].key) <= 0
	})
	// Check whether key existed or not.
	if i < len(p.entries) && field.CmpTuple(p.entries[i].key, key) == 0 {
		return p.entries[i].row, true
	}
	//
	return 0, false
}

// Len returns the number of addresses in this table.
func (p *AddressTable[F]) Len() uint {
	return uint(len(p.entries))
}
