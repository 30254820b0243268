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
package witgen

import (
	"fmt"

	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
)

// FixedColumn is a column whose values are known before witness generation.
type FixedColumn[F field.Element[F]] struct {
	Name   string
	Values []F
}

// WitnessColumn is a column whose values are produced by witness generation.
// Values for some (or all) rows may be supplied externally, in which case they
// take precedence over anything computed.
type WitnessColumn[F field.Element[F]] struct {
	Name     string
	External util.Option[[]F]
}

// FixedData holds everything known about a trace before witness generation
// begins: its degree (i.e. number of rows), the fixed columns and the
// declaration of witness columns (along with any externally supplied values).
type FixedData[F field.Element[F]] struct {
	degree  uint64
	fixed   []FixedColumn[F]
	witness []WitnessColumn[F]
}

// NewFixedData constructs fixed data for a trace of a given degree.  Every
// fixed column must have exactly one value per row, whilst external witness
// values can cover any prefix of the trace.
func NewFixedData[F field.Element[F]](degree uint64, fixed []FixedColumn[F],
	witness []WitnessColumn[F]) (*FixedData[F], error) {
	//
	for _, col := range fixed {
		if uint64(len(col.Values)) != degree {
			return nil, fmt.Errorf("fixed column %s has %d rows (expected %d)", col.Name, len(col.Values), degree)
		}
	}
	//
	for _, col := range witness {
		if col.External.HasValue() && uint64(len(col.External.Unwrap())) > degree {
			return nil, fmt.Errorf("external values for column %s exceed %d rows", col.Name, degree)
		}
	}
	//
	return &FixedData[F]{degree, fixed, witness}, nil
}

// Degree returns the number of rows in the trace.
func (p *FixedData[F]) Degree() uint64 {
	return p.degree
}

// Fixed returns the fixed column identified by a given polynomial, which must
// be of constant type.
func (p *FixedData[F]) Fixed(poly PolyID) *FixedColumn[F] {
	if poly.Type != Constant {
		panic(fmt.Sprintf("polynomial %v is not fixed", poly))
	}
	//
	return &p.fixed[poly.ID]
}

// Witness returns the witness column identified by a given polynomial, which
// must be of committed type.
func (p *FixedData[F]) Witness(poly PolyID) *WitnessColumn[F] {
	if poly.Type != Committed {
		panic(fmt.Sprintf("polynomial %v is not a witness", poly))
	}
	//
	return &p.witness[poly.ID]
}

// ColumnName returns the name of a given (fixed or witness) polynomial.
func (p *FixedData[F]) ColumnName(poly PolyID) string {
	if poly.Type == Constant {
		return p.Fixed(poly).Name
	}
	//
	return p.Witness(poly).Name
}

// ExternalWitness returns the externally supplied value for a given witness
// polynomial on a given row, if one exists.
func (p *FixedData[F]) ExternalWitness(row uint64, poly PolyID) util.Option[F] {
	col := p.Witness(poly)
	//
	if col.External.HasValue() {
		if values := col.External.Unwrap(); row < uint64(len(values)) {
			return util.Some(values[row])
		}
	}
	//
	return util.None[F]()
}

// Lookup resolves a column name into a reference to the matching polynomial.
func (p *FixedData[F]) Lookup(name string) (PolyID, bool) {
	for i, col := range p.fixed {
		if col.Name == name {
			return PolyID{uint(i), Constant}, true
		}
	}
	//
	for i, col := range p.witness {
		if col.Name == name {
			return PolyID{uint(i), Committed}, true
		}
	}
	//
	return PolyID{}, false
}
