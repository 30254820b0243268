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

import "fmt"

// PolynomialType distinguishes the kinds of column a polynomial can describe.
type PolynomialType uint8

const (
	// Committed polynomials are witness columns, whose values are produced
	// during witness generation.
	Committed PolynomialType = iota
	// Constant polynomials are fixed columns, whose values are known before
	// witness generation begins.
	Constant
	// Intermediate polynomials are named sub-expressions.
	Intermediate
)

func (p PolynomialType) String() string {
	switch p {
	case Committed:
		return "witness"
	case Constant:
		return "fixed"
	case Intermediate:
		return "intermediate"
	default:
		return fmt.Sprintf("PolynomialType(%d)", uint8(p))
	}
}

// PolyID uniquely identifies a polynomial.  Identifiers are indices into the
// list of polynomials of the given type.
type PolyID struct {
	ID   uint
	Type PolynomialType
}

// PolyRef is a reference to a polynomial, either on the current row or (when
// Next holds) on the following row.
type PolyRef struct {
	Name string
	Poly PolyID
	Next bool
}

func (p PolyRef) String() string {
	if p.Next {
		return p.Name + "'"
	}
	//
	return p.Name
}

// Cell identifies a single (witness) value in the trace, namely the value of a
// given column on a given row.  Cells are the unknowns of evaluation requests.
type Cell struct {
	Column string
	Row    uint64
}

func (c Cell) String() string {
	return fmt.Sprintf("%s[%d]", c.Column, c.Row)
}
