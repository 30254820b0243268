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
	"strings"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/r0qs/powdr/pkg/witgen/affine"
	log "github.com/sirupsen/logrus"
)

// FixedLookup answers lookups into a table made up entirely of fixed columns
// (e.g. a byte range table, or the truth table of some operation).  Whichever
// columns of a request are known select the matching rows of the table; when
// exactly one row matches, the remaining columns are solved from it.
type FixedLookup[F field.Element[F]] struct {
	fixed   *witgen.FixedData[F]
	rhs     *witgen.SelectedExpressions[F]
	columns []witgen.PolyID
	// Indices from known values onto matching rows, for each combination of
	// known columns encountered so far.
	indices map[string]map[string][]uint64
}

// NewFixedLookup attempts to construct a fixed lookup from a given set of
// connecting lookup identities.  If the right-hand side is not made up entirely
// of references to fixed columns, false is returned.
func NewFixedLookup[F field.Element[F]](fixed *witgen.FixedData[F], connecting []*witgen.Identity[F],
	identities []*witgen.Identity[F]) (*FixedLookup[F], bool) {
	//
	if len(identities) != 0 || len(connecting) == 0 {
		return nil, false
	}
	//
	rhs := connecting[0].Right
	//
	for _, id := range connecting {
		if id.Kind != witgen.Plookup || !id.Right.Equals(rhs) || id.Right.HasSelector() {
			return nil, false
		}
	}
	//
	columns := make([]witgen.PolyID, rhs.Len())
	//
	for i, e := range rhs.Expressions {
		ref, ok := witgen.AsSimpleRef(e)
		if !ok || ref.Next || ref.Poly.Type != witgen.Constant {
			log.Debugf("not a fixed lookup: %s is not a fixed column", e.String())
			return nil, false
		}
		//
		columns[i] = ref.Poly
	}
	//
	return &FixedLookup[F]{fixed, rhs, columns, make(map[string]map[string][]uint64)}, true
}

// Name implementation for the Machine interface.
func (p *FixedLookup[F]) Name() string {
	return fmt.Sprintf("fixed lookup %s", p.rhs.String())
}

// Accepts implementation for the Machine interface.
func (p *FixedLookup[F]) Accepts(kind witgen.IdentityKind, right *witgen.SelectedExpressions[F]) bool {
	return kind == witgen.Plookup && (right == p.rhs || right.Equals(p.rhs))
}

// Revision implementation for the Machine interface.  Fixed lookups have no
// state which affects their answers.
func (p *FixedLookup[F]) Revision() uint64 {
	return 0
}

// ProcessLookup implementation for the Machine interface.
func (p *FixedLookup[F]) ProcessLookup(left []witgen.AffineExpression[F],
	right *witgen.SelectedExpressions[F]) (witgen.EvalValue[F], error) {
	//
	if err := checkArity(p.Name(), left, right); err != nil {
		return witgen.EvalValue[F]{}, err
	}
	//
	var (
		known   []int
		values  []F
		updates []witgen.Update[F]
	)
	//
	for i, e := range left {
		if v, ok := e.ConstantValue(); ok {
			known = append(known, i)
			values = append(values, v)
		}
	}
	//
	if len(known) == 0 {
		return witgen.Incomplete[F](witgen.NonConstantRequiredArgument("key")), nil
	}
	//
	rows := p.index(known)[encodeKey(values)]
	//
	switch {
	case len(rows) == 0:
		return witgen.EvalValue[F]{}, &NoMatchingRowError{p.Name(), field.TupleString(values)}
	case len(known) == len(left):
		return witgen.Complete[F](nil), nil
	case len(rows) > 1:
		return witgen.Incomplete[F](witgen.NonConstantRequiredArgument("key")), nil
	}
	//
	complete := true
	//
	for i, e := range left {
		if e.IsConstant() {
			continue
		}
		//
		val := p.fixed.Fixed(p.columns[i]).Values[rows[0]]
		solved, err := e.Sub(affine.Constant[witgen.Cell](val)).Solve()
		// Cannot fail, since e is not constant.
		if err != nil {
			return witgen.EvalValue[F]{}, err
		} else if len(solved) == 0 {
			complete = false
		}
		//
		updates = append(updates, solved...)
	}
	//
	if !complete {
		return witgen.IncompleteWithUpdates[F](updates, witgen.NonConstantRequiredArgument("value")), nil
	}
	//
	return witgen.Complete[F](updates), nil
}

// TakeWitnessColValues implementation for the Machine interface.  Fixed lookups
// own no witness columns.
func (p *FixedLookup[F]) TakeWitnessColValues() map[string][]F {
	return map[string][]F{}
}

// Get (or build) the index for a given combination of known columns.
func (p *FixedLookup[F]) index(known []int) map[string][]uint64 {
	var signature = fmt.Sprint(known)
	//
	if index, ok := p.indices[signature]; ok {
		return index
	}
	//
	var (
		index = make(map[string][]uint64)
		key   = make([]F, len(known))
	)
	//
	for row := range p.fixed.Degree() {
		for i, col := range known {
			key[i] = p.fixed.Fixed(p.columns[col]).Values[row]
		}
		//
		k := encodeKey(key)
		index[k] = append(index[k], row)
	}
	//
	log.Debugf("%s indexed %d rows on columns %v", p.Name(), p.fixed.Degree(), known)
	p.indices[signature] = index
	//
	return index
}

// Encode a tuple of field elements into a string suitable for use as a map key.
func encodeKey[F field.Element[F]](key []F) string {
	var builder strings.Builder
	//
	for _, k := range key {
		bytes := k.Bytes()
		// Length prefix keeps the encoding unambiguous
		builder.WriteByte(byte(len(bytes)))
		builder.Write(bytes)
	}
	//
	return builder.String()
}
