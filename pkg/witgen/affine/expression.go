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
package affine

import (
	"fmt"
	"strings"

	"github.com/r0qs/powdr/pkg/util/field"
)

// Term is a single linear term "c*x" of an affine expression.
type Term[K comparable, F field.Element[F]] struct {
	Var         K
	Coefficient F
}

// Expression is an affine expression "c₀*x₀ + ... + cₙ*xₙ + c" over a finite
// field, where each xᵢ is an unknown identified by a key of type K.  Terms are
// kept in order of first occurrence and never hold a zero coefficient, hence an
// expression without terms is constant.  Expressions are immutable: every
// operation returns a fresh expression.
type Expression[K comparable, F field.Element[F]] struct {
	terms    []Term[K, F]
	constant F
}

// Constant constructs an expression representing a known value.
func Constant[K comparable, F field.Element[F]](val F) Expression[K, F] {
	return Expression[K, F]{nil, val}
}

// Variable constructs an expression representing a single unknown.
func Variable[K comparable, F field.Element[F]](v K) Expression[K, F] {
	return Expression[K, F]{[]Term[K, F]{{v, field.One[F]()}}, field.Zero[F]()}
}

// Linear constructs an expression from a set of terms and a constant.  Repeated
// variables are merged and zero coefficients dropped.
func Linear[K comparable, F field.Element[F]](constant F, terms ...Term[K, F]) Expression[K, F] {
	var e = Constant[K](constant)
	//
	for _, t := range terms {
		e = e.addTerm(t.Var, t.Coefficient)
	}
	//
	return e
}

// Terms returns the (non-zero) linear terms of this expression.
func (e Expression[K, F]) Terms() []Term[K, F] {
	return e.terms
}

// ConstantPart returns the constant offset of this expression.
func (e Expression[K, F]) ConstantPart() F {
	return e.constant
}

// ConstantValue returns the value of this expression when it is fully
// determined (i.e. contains no unknowns).
func (e Expression[K, F]) ConstantValue() (F, bool) {
	if len(e.terms) == 0 {
		return e.constant, true
	}
	//
	return field.Zero[F](), false
}

// IsConstant checks whether this expression contains no unknowns.
func (e Expression[K, F]) IsConstant() bool {
	return len(e.terms) == 0
}

// Add another expression onto this expression.
func (e Expression[K, F]) Add(other Expression[K, F]) Expression[K, F] {
	var res = Expression[K, F]{cloneTerms(e.terms), e.constant.Add(other.constant)}
	//
	for _, t := range other.terms {
		res = res.addTerm(t.Var, t.Coefficient)
	}
	//
	return res
}

// Sub subtracts another expression from this expression.
func (e Expression[K, F]) Sub(other Expression[K, F]) Expression[K, F] {
	return e.Add(other.Scale(field.Neg(field.One[F]())))
}

// Scale multiplies this expression by a constant factor.
func (e Expression[K, F]) Scale(factor F) Expression[K, F] {
	if factor.IsZero() {
		return Constant[K](field.Zero[F]())
	}
	//
	terms := make([]Term[K, F], len(e.terms))
	//
	for i, t := range e.terms {
		terms[i] = Term[K, F]{t.Var, t.Coefficient.Mul(factor)}
	}
	//
	return Expression[K, F]{terms, e.constant.Mul(factor)}
}

// Substitute replaces every unknown for which a value is known.
func (e Expression[K, F]) Substitute(known func(K) (F, bool)) Expression[K, F] {
	var res = Constant[K](e.constant)
	//
	for _, t := range e.terms {
		if val, ok := known(t.Var); ok {
			res.constant = res.constant.Add(t.Coefficient.Mul(val))
		} else {
			res.terms = append(res.terms, t)
		}
	}
	//
	return res
}

func (e Expression[K, F]) String() string {
	var builder strings.Builder
	//
	for i, t := range e.terms {
		if i != 0 {
			builder.WriteString(" + ")
		}
		//
		if !t.Coefficient.IsOne() {
			builder.WriteString(t.Coefficient.String())
			builder.WriteString(" * ")
		}
		//
		builder.WriteString(fmt.Sprintf("%v", t.Var))
	}
	//
	if len(e.terms) == 0 {
		return e.constant.String()
	} else if !e.constant.IsZero() {
		builder.WriteString(" + ")
		builder.WriteString(e.constant.String())
	}
	//
	return builder.String()
}

func (e Expression[K, F]) addTerm(v K, coeff F) Expression[K, F] {
	for i, t := range e.terms {
		if t.Var == v {
			sum := t.Coefficient.Add(coeff)
			//
			if sum.IsZero() {
				e.terms = append(e.terms[:i:i], e.terms[i+1:]...)
			} else {
				e.terms[i].Coefficient = sum
			}
			//
			return e
		}
	}
	//
	if !coeff.IsZero() {
		e.terms = append(e.terms, Term[K, F]{v, coeff})
	}
	//
	return e
}

func cloneTerms[K comparable, F field.Element[F]](terms []Term[K, F]) []Term[K, F] {
	if len(terms) == 0 {
		return nil
	}
	//
	return append([]Term[K, F](nil), terms...)
}
