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

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
)

// MemoryStore holds the contents of a memory, where each row holds a fixed
// number of slots and each slot is either unset, or holds a value.  Rows which
// have never been written are considered to be entirely unset.  The store does
// not itself enforce that slots are written at most once; that is the
// responsibility of whoever writes to it.
type MemoryStore[F field.Element[F]] struct {
	width uint
	rows  map[uint64][]util.Option[F]
	// Rows written so far, for iterating in ascending order.
	touched *roaring64.Bitmap
	// Incremented whenever the contents of a slot change.
	revision uint64
}

// NewMemoryStore constructs an empty store whose rows have a given number of
// slots.
func NewMemoryStore[F field.Element[F]](width uint) *MemoryStore[F] {
	return &MemoryStore[F]{width, make(map[uint64][]util.Option[F]), roaring64.New(), 0}
}

// Width returns the number of slots per row.
func (p *MemoryStore[F]) Width() uint {
	return p.width
}

// Read the slots of a given row.  The returned slice is a copy, hence can be
// freely modified.
func (p *MemoryStore[F]) Read(row uint64) []util.Option[F] {
	var values = make([]util.Option[F], p.width)
	//
	if stored, ok := p.rows[row]; ok {
		copy(values, stored)
	}
	//
	return values
}

// Write the slots of a given row.
func (p *MemoryStore[F]) Write(row uint64, values []util.Option[F]) {
	if uint(len(values)) != p.width {
		panic(fmt.Sprintf("invalid memory row (expected %d slots, got %d)", p.width, len(values)))
	}
	//
	old := p.Read(row)
	//
	for i, val := range values {
		if !sameSlot(old[i], val) {
			p.revision++
			break
		}
	}
	//
	p.rows[row] = append([]util.Option[F](nil), values...)
	p.touched.Add(row)
}

// Revision returns a counter which increases whenever a write changes the
// contents of the store.
func (p *MemoryStore[F]) Revision() uint64 {
	return p.revision
}

// Len returns the number of rows which have been written.
func (p *MemoryStore[F]) Len() uint64 {
	return p.touched.GetCardinality()
}

// ForEach visits every written row in ascending order.
func (p *MemoryStore[F]) ForEach(fn func(row uint64, values []util.Option[F])) {
	it := p.touched.Iterator()
	//
	for it.HasNext() {
		row := it.Next()
		fn(row, p.rows[row])
	}
}

func sameSlot[F field.Element[F]](lhs util.Option[F], rhs util.Option[F]) bool {
	if lhs.HasValue() != rhs.HasValue() {
		return false
	} else if lhs.IsEmpty() {
		return true
	}
	//
	return lhs.Unwrap().Cmp(rhs.Unwrap()) == 0
}
