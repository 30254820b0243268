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

	"github.com/r0qs/powdr/pkg/util/field"
)

// Expression represents an algebraic expression over polynomials, as found on
// either side of an identity.
type Expression[F field.Element[F]] interface {
	fmt.Stringer
	// Equals determines whether this expression is structurally identical to
	// another.
	Equals(Expression[F]) bool
}

// BinaryOperator identifies the arithmetic operation of a BinaryOp.
type BinaryOperator uint8

const (
	// Add represents x + y
	Add BinaryOperator = iota
	// Sub represents x - y
	Sub
	// Mul represents x * y
	Mul
)

var binaryOperatorSymbols = [...]string{"+", "-", "*"}

func (op BinaryOperator) String() string {
	return binaryOperatorSymbols[op]
}

// ============================================================================
// Reference
// ============================================================================

// Reference is an expression which simply references a polynomial.
type Reference[F field.Element[F]] struct {
	PolyRef
}

// NewReference constructs a reference to a given polynomial.
func NewReference[F field.Element[F]](name string, poly PolyID, next bool) *Reference[F] {
	return &Reference[F]{PolyRef{name, poly, next}}
}

// Equals implementation for the Expression interface.
func (e *Reference[F]) Equals(other Expression[F]) bool {
	if o, ok := other.(*Reference[F]); ok {
		return e.PolyRef == o.PolyRef
	}
	//
	return false
}

// ============================================================================
// Number
// ============================================================================

// Number is a constant expression.
type Number[F field.Element[F]] struct {
	Value F
}

// NewNumber constructs a constant expression.
func NewNumber[F field.Element[F]](val F) *Number[F] {
	return &Number[F]{val}
}

// Equals implementation for the Expression interface.
func (e *Number[F]) Equals(other Expression[F]) bool {
	if o, ok := other.(*Number[F]); ok {
		return e.Value.Cmp(o.Value) == 0
	}
	//
	return false
}

func (e *Number[F]) String() string {
	return e.Value.String()
}

// ============================================================================
// Binary Operation
// ============================================================================

// BinaryOp combines two expressions with an arithmetic operator.
type BinaryOp[F field.Element[F]] struct {
	Left     Expression[F]
	Operator BinaryOperator
	Right    Expression[F]
}

// NewBinaryOp constructs a binary operation.
func NewBinaryOp[F field.Element[F]](lhs Expression[F], op BinaryOperator, rhs Expression[F]) *BinaryOp[F] {
	return &BinaryOp[F]{lhs, op, rhs}
}

// Equals implementation for the Expression interface.
func (e *BinaryOp[F]) Equals(other Expression[F]) bool {
	if o, ok := other.(*BinaryOp[F]); ok {
		return e.Operator == o.Operator && e.Left.Equals(o.Left) && e.Right.Equals(o.Right)
	}
	//
	return false
}

func (e *BinaryOp[F]) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Operator.String(), e.Right.String())
}

// ============================================================================
// Negation
// ============================================================================

// Negation is the additive inverse of an expression.
type Negation[F field.Element[F]] struct {
	Inner Expression[F]
}

// NewNegation constructs a negation.
func NewNegation[F field.Element[F]](inner Expression[F]) *Negation[F] {
	return &Negation[F]{inner}
}

// Equals implementation for the Expression interface.
func (e *Negation[F]) Equals(other Expression[F]) bool {
	if o, ok := other.(*Negation[F]); ok {
		return e.Inner.Equals(o.Inner)
	}
	//
	return false
}

func (e *Negation[F]) String() string {
	return fmt.Sprintf("-%s", e.Inner.String())
}

// ============================================================================
// Helpers
// ============================================================================

// AsSimpleRef returns the polynomial referenced by a given expression, provided
// that expression is nothing more than a reference.
func AsSimpleRef[F field.Element[F]](e Expression[F]) (PolyRef, bool) {
	if r, ok := e.(*Reference[F]); ok {
		return r.PolyRef, true
	}
	//
	return PolyRef{}, false
}

// References returns every polynomial reference within a given expression, in
// order of occurrence.
func References[F field.Element[F]](e Expression[F]) []PolyRef {
	switch e := e.(type) {
	case *Reference[F]:
		return []PolyRef{e.PolyRef}
	case *BinaryOp[F]:
		return append(References(e.Left), References(e.Right)...)
	case *Negation[F]:
		return References(e.Inner)
	default:
		return nil
	}
}
