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
package field

import (
	"fmt"
	"math/big"
)

// An Element of a prime-order field.
type Element[Operand any] interface {
	fmt.Stringer
	// Add x+y
	Add(y Operand) Operand
	// Bytes returns the big-endian encoding of this element.
	Bytes() []byte
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.  Fields have no
	// natural order, hence this is the order of the canonical representatives
	// and is only meaningful for structural purposes (e.g. sorting).
	Cmp(y Operand) int
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Compute x * y
	Mul(y Operand) Operand
	// Compute x⁻¹, or 0 if x = 0.
	Inverse() Operand
	// Initialise from a set of big-endian bytes, reducing modulo the field.
	SetBytes([]byte) Operand
	// Initialise from an unsigned integer.
	SetUint64(uint64) Operand
	// Compute x - y
	Sub(y Operand) Operand
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// BigInt construct a field element from a given big.Int.  Negative values are
// mapped onto their additive inverse.
func BigInt[F Element[F]](val big.Int) F {
	var (
		element F
		abs     big.Int
	)
	//
	element = element.SetBytes(abs.Abs(&val).Bytes())
	// Handle negative values
	if val.Sign() < 0 {
		return Zero[F]().Sub(element)
	}
	//
	return element
}

// Uint64 construct a field element from a given uint64
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// Neg returns the additive inverse of a given element.
func Neg[F Element[F]](val F) F {
	return Zero[F]().Sub(val)
}

// Parse a field element from a string given in decimal, or in hexadecimal when
// prefixed with "0x".  A leading "-" yields the additive inverse.
func Parse[F Element[F]](text string) (F, error) {
	var val big.Int
	//
	if _, ok := val.SetString(text, 0); !ok {
		return Zero[F](), fmt.Errorf("invalid field element \"%s\"", text)
	}
	//
	return BigInt[F](val), nil
}
