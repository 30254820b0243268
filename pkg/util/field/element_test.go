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
package field_test

import (
	"math/big"
	"testing"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/util/field/bls12_377"
	"github.com/r0qs/powdr/pkg/util/field/koalabear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// make sure the interface is adhered to.
	_ = field.Element[koalabear.Element](koalabear.Element{})
	_ = field.Element[bls12_377.Element](bls12_377.Element{})
}

type F = bls12_377.Element

func Test_Element_01(t *testing.T) {
	assert.True(t, field.Zero[F]().IsZero())
	assert.True(t, field.One[F]().IsOne())
	assert.Equal(t, "7", field.Uint64[F](7).String())
}

func Test_Element_02(t *testing.T) {
	var (
		x = field.Uint64[F](3)
		y = field.Uint64[F](5)
	)
	//
	assert.Equal(t, field.Uint64[F](8), x.Add(y))
	assert.Equal(t, field.Uint64[F](15), x.Mul(y))
	assert.Equal(t, field.Uint64[F](2), y.Sub(x))
	assert.True(t, x.Mul(x.Inverse()).IsOne())
	assert.True(t, field.Zero[F]().Inverse().IsZero())
}

func Test_Element_03(t *testing.T) {
	// Negation wraps around the modulus.
	x := field.Neg(field.Uint64[F](1))
	assert.True(t, x.Add(field.One[F]()).IsZero())
	//
	y := field.BigInt[F](*big.NewInt(-5))
	assert.Equal(t, field.Neg(field.Uint64[F](5)), y)
}

func Test_Element_04(t *testing.T) {
	// a * a^-1 = 1
	for _, a := range []uint64{1, 2, 3, 1024} {
		x := field.Uint64[F](a)
		assert.True(t, x.Mul(x.Inverse()).IsOne())
	}
	//
	assert.Equal(t, field.Uint64[F](6), field.Uint64[F](2).Mul(field.Uint64[F](3)))
}

func Test_Element_05(t *testing.T) {
	checkParse(t, "0", 0)
	checkParse(t, "42", 42)
	checkParse(t, "0x10", 16)
	//
	neg, err := field.Parse[F]("-1")
	require.NoError(t, err)
	assert.True(t, neg.Add(field.One[F]()).IsZero())
	//
	_, err = field.Parse[F]("seven")
	assert.Error(t, err)
}

func Test_Element_06(t *testing.T) {
	var (
		k3 = field.Uint64[koalabear.Element](3)
		k4 = field.Uint64[koalabear.Element](4)
	)
	//
	assert.Equal(t, field.Uint64[koalabear.Element](12), k3.Mul(k4))
	assert.Equal(t, -1, k3.Cmp(k4))
	assert.Equal(t, 1, k4.Cmp(k3))
	assert.Equal(t, 0, k3.Cmp(k3))
}

func Test_CmpTuple_01(t *testing.T) {
	var (
		a = tuple(1, 2)
		b = tuple(1, 3)
		c = tuple(1)
	)
	//
	assert.Equal(t, 0, field.CmpTuple(a, a))
	assert.Equal(t, -1, field.CmpTuple(a, b))
	assert.Equal(t, 1, field.CmpTuple(b, a))
	assert.Equal(t, -1, field.CmpTuple(c, a))
	assert.Equal(t, 1, field.CmpTuple(a, c))
	assert.Equal(t, "(1, 2)", field.TupleString(a))
}

func Test_Config_01(t *testing.T) {
	assert.Equal(t, &field.BLS12_377, field.GetConfig("BLS12_377"))
	assert.Equal(t, &field.KOALABEAR, field.GetConfig("KOALABEAR"))
	assert.Nil(t, field.GetConfig("GF_7"))
}

func checkParse(t *testing.T, text string, expected uint64) {
	actual, err := field.Parse[F](text)
	//
	require.NoError(t, err)
	assert.Equal(t, field.Uint64[F](expected), actual)
}

func tuple(vals ...uint64) []F {
	var elems = make([]F, len(vals))
	//
	for i, v := range vals {
		elems[i] = field.Uint64[F](v)
	}
	//
	return elems
}
