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

	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/r0qs/powdr/pkg/witgen/affine"
	log "github.com/sirupsen/logrus"
)

// WriteOnceMemory is a memory with a fixed address space, where each address
// can hold at most one value during the lifetime of the program.  The address
// space is given by one or more fixed (key) columns, whilst the contents are
// held in one or more witness (value) columns.  In the simplest case, it looks
// like this:
//
//	let ADDR = |i| i;
//	let v;
//	// Stores a value, fails if the cell already holds a different value.
//	instr mstore X, Y -> { {X, Y} in {ADDR, v} }
//	// Loads a value.  If the cell is empty, the prover can choose a value.
//	instr mload X -> Y { {X, Y} in {ADDR, v} }
//
// Observe that storing and loading is the same lookup, and differ only in
// whether Y is known when the lookup is made.
type WriteOnceMemory[F field.Element[F]] struct {
	fixed *witgen.FixedData[F]
	// The right-hand side of the connecting identities (which are all the same).
	rhs *witgen.SelectedExpressions[F]
	// Identifies which expressions of the right-hand side are keys.
	isKey []bool
	// The witness polynomials holding the contents.
	valuePolys []witgen.PolyID
	// Maps keys to rows.
	addresses *AddressTable[F]
	// The contents themselves.
	data *MemoryStore[F]
}

// NewWriteOnceMemory attempts to construct a write-once memory from a given set
// of connecting identities (i.e. lookups into the memory) and internal
// identities.  If the identities do not describe a write-once memory, false is
// returned.
func NewWriteOnceMemory[F field.Element[F]](fixed *witgen.FixedData[F], connecting []*witgen.Identity[F],
	identities []*witgen.Identity[F]) (*WriteOnceMemory[F], bool) {
	//
	if len(identities) != 0 {
		log.Debugf("not a write-once memory: %d internal identities", len(identities))
		return nil, false
	} else if len(connecting) == 0 {
		return nil, false
	}
	//
	rhs := connecting[0].Right
	//
	for _, id := range connecting {
		if id.Kind != witgen.Plookup {
			log.Debugf("not a write-once memory: identity #%d is a %s", id.ID, id.Kind.String())
			return nil, false
		} else if !id.Right.Equals(rhs) {
			log.Debugf("not a write-once memory: %s differs from %s", id.Right.String(), rhs.String())
			return nil, false
		}
	}
	//
	if rhs.HasSelector() {
		log.Debugf("not a write-once memory: %s has selector", rhs.String())
		return nil, false
	}
	//
	var (
		isKey      = make([]bool, rhs.Len())
		keyPolys   []witgen.PolyID
		valuePolys []witgen.PolyID
	)
	// Partition into key and value polynomials
	for i, e := range rhs.Expressions {
		ref, ok := witgen.AsSimpleRef(e)
		//
		switch {
		case !ok:
			log.Debugf("not a write-once memory: %s is not a simple reference", e.String())
			return nil, false
		case ref.Next:
			log.Debugf("not a write-once memory: %s references next row", e.String())
			return nil, false
		case ref.Poly.Type == witgen.Constant:
			isKey[i] = true
			keyPolys = append(keyPolys, ref.Poly)
		case ref.Poly.Type == witgen.Committed:
			valuePolys = append(valuePolys, ref.Poly)
		default:
			log.Debugf("not a write-once memory: %s is a %s polynomial", e.String(), ref.Poly.Type.String())
			return nil, false
		}
	}
	// Tables made up entirely of fixed columns are fixed lookups.
	if len(valuePolys) == 0 {
		log.Debugf("not a write-once memory: %s has no witness columns", rhs.String())
		return nil, false
	}
	// Construct address space
	addresses, err := NewAddressTable(fixed.Degree(), func(row uint64) []F {
		key := make([]F, len(keyPolys))
		//
		for i, k := range keyPolys {
			key[i] = fixed.Fixed(k).Values[row]
		}
		//
		return key
	})
	//
	if err != nil {
		log.Debugf("not a write-once memory: %s", err)
		return nil, false
	}
	//
	return &WriteOnceMemory[F]{
		fixed:      fixed,
		rhs:        rhs,
		isKey:      isKey,
		valuePolys: valuePolys,
		addresses:  addresses,
		data:       NewMemoryStore[F](uint(len(valuePolys))),
	}, true
}

// Name implementation for the Machine interface.
func (p *WriteOnceMemory[F]) Name() string {
	return fmt.Sprintf("write-once memory %s", p.rhs.String())
}

// Accepts implementation for the Machine interface.
func (p *WriteOnceMemory[F]) Accepts(kind witgen.IdentityKind, right *witgen.SelectedExpressions[F]) bool {
	return kind == witgen.Plookup && (right == p.rhs || right.Equals(p.rhs))
}

// Revision implementation for the Machine interface.
func (p *WriteOnceMemory[F]) Revision() uint64 {
	return p.data.Revision()
}

// ProcessLookup implementation for the Machine interface.  The key must be
// fully known, otherwise nothing can be done.  For each value, if the memory
// already holds something then that is used to solve for any unknowns in the
// request.  Otherwise, a known value in the request is written into the memory.
func (p *WriteOnceMemory[F]) ProcessLookup(left []witgen.AffineExpression[F],
	right *witgen.SelectedExpressions[F]) (witgen.EvalValue[F], error) {
	//
	if err := checkArity(p.Name(), left, right); err != nil {
		return witgen.EvalValue[F]{}, err
	}
	//
	var (
		key         []F
		keyKnown    = true
		valueExprs  []witgen.AffineExpression[F]
		updates     []witgen.Update[F]
		valuesKnown = true
	)
	// Split into keys and values
	for i, e := range left {
		if !p.isKey[i] {
			valueExprs = append(valueExprs, e)
		} else if k, ok := e.ConstantValue(); ok {
			key = append(key, k)
		} else {
			keyKnown = false
		}
	}
	//
	log.Tracef("%s key: %v values: %v", p.Name(), left, valueExprs)
	//
	if !keyKnown {
		return witgen.Incomplete[F](witgen.NonConstantRequiredArgument("key")), nil
	}
	//
	row, ok := p.addresses.Lookup(key)
	if !ok {
		return witgen.EvalValue[F]{}, &AddressNotFoundError{p.Name(), field.TupleString(key)}
	}
	// External values always take precedence
	values := p.data.Read(row)
	//
	for i, poly := range p.valuePolys {
		stored := p.fixed.ExternalWitness(row, poly).Or(values[i])
		//
		switch {
		case stored.HasValue():
			// Value known, so use it to solve for unknowns (or check equality).
			solved, err := valueExprs[i].Sub(affine.Constant[witgen.Cell](stored.Unwrap())).Solve()
			if err != nil {
				return witgen.EvalValue[F]{}, fmt.Errorf("%s at row %d, column %s: %w", p.Name(), row,
					p.fixed.ColumnName(poly), err)
			}
			//
			updates = append(updates, solved...)
		default:
			// Nothing stored, so write whatever is provided (if anything).
			if v, ok := valueExprs[i].ConstantValue(); ok {
				stored = util.Some(v)
			} else {
				valuesKnown = false
			}
		}
		//
		values[i] = stored
	}
	//
	p.data.Write(row, values)
	//
	if !valuesKnown {
		return witgen.IncompleteWithUpdates[F](updates, witgen.NonConstantRequiredArgument("value")), nil
	}
	//
	return witgen.Complete[F](updates), nil
}

// TakeWitnessColValues implementation for the Machine interface.  Externally
// supplied columns are used as is (padded with zeros), otherwise rows never
// written (and unset slots) default to zero.
func (p *WriteOnceMemory[F]) TakeWitnessColValues() map[string][]F {
	var (
		columns = make(map[string][]F, len(p.valuePolys))
		degree  = p.fixed.Degree()
	)
	//
	for i, poly := range p.valuePolys {
		var (
			col    = p.fixed.Witness(poly)
			values = make([]F, degree)
		)
		//
		if col.External.HasValue() {
			copy(values, col.External.Unwrap())
		} else {
			p.data.ForEach(func(row uint64, slots []util.Option[F]) {
				values[row] = slots[i].UnwrapOr(field.Zero[F]())
			})
		}
		//
		columns[col.Name] = values
	}
	//
	log.Debugf("%s finalised %d of %d rows", p.Name(), p.data.Len(), degree)
	//
	return columns
}
