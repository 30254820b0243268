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
	"testing"

	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

var (
	addr = PolyID{0, Constant}
	val  = PolyID{0, Committed}
)

func ref(name string, poly PolyID) Expression[F] {
	return NewReference[F](name, poly, false)
}

func Test_Expr_01(t *testing.T) {
	a := ref("ADDR", addr)
	b := ref("ADDR", addr)
	n := NewReference[F]("ADDR", addr, true)
	//
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(n))
	assert.Equal(t, "ADDR'", n.String())
}

func Test_Expr_02(t *testing.T) {
	sum := NewBinaryOp(ref("v", val), Add, Expression[F](NewNumber(field.Uint64[F](1))))
	//
	_, ok := AsSimpleRef(sum)
	assert.False(t, ok)
	assert.Equal(t, "(v + 1)", sum.String())
	assert.True(t, sum.Equals(NewBinaryOp(ref("v", val), Add, Expression[F](NewNumber(field.Uint64[F](1))))))
	assert.False(t, sum.Equals(NewBinaryOp(ref("v", val), Sub, Expression[F](NewNumber(field.Uint64[F](1))))))
	//
	r, ok := AsSimpleRef(ref("v", val))
	assert.True(t, ok)
	assert.Equal(t, val, r.Poly)
}

func Test_SelectedExpressions_01(t *testing.T) {
	lhs := NewSelectedExpressions(ref("ADDR", addr), ref("v", val))
	rhs := NewSelectedExpressions(ref("ADDR", addr), ref("v", val))
	sel := NewFilteredExpressions(ref("SEL", PolyID{1, Constant}), ref("ADDR", addr), ref("v", val))
	//
	assert.True(t, lhs.Equals(rhs))
	assert.False(t, lhs.Equals(sel))
	assert.False(t, lhs.Equals(NewSelectedExpressions(ref("ADDR", addr))))
	assert.Equal(t, "SEL {ADDR, v}", sel.String())
}

func Test_FixedData_01(t *testing.T) {
	_, err := NewFixedData[F](4, []FixedColumn[F]{{"ADDR", elems(0, 1, 2)}}, nil)
	assert.Error(t, err)
	//
	_, err = NewFixedData[F](2, nil, []WitnessColumn[F]{{"v", util.Some(elems(1, 2, 3))}})
	assert.Error(t, err)
}

func Test_FixedData_02(t *testing.T) {
	fixed, err := NewFixedData[F](4,
		[]FixedColumn[F]{{"ADDR", elems(0, 1, 2, 3)}},
		[]WitnessColumn[F]{{"v", util.Some(elems(5, 6))}, {"w", util.None[[]F]()}})
	require.NoError(t, err)
	//
	w, ok := fixed.Lookup("w")
	require.True(t, ok)
	assert.Equal(t, PolyID{1, Committed}, w)
	assert.Equal(t, "ADDR", fixed.ColumnName(addr))
	// Partially supplied external values
	assert.Equal(t, util.Some(field.Uint64[F](6)), fixed.ExternalWitness(1, val))
	assert.True(t, fixed.ExternalWitness(2, val).IsEmpty())
	assert.True(t, fixed.ExternalWitness(0, w).IsEmpty())
	//
	_, ok = fixed.Lookup("missing")
	assert.False(t, ok)
}

func Test_EvalValue_01(t *testing.T) {
	c := Complete[F](nil)
	i := Incomplete[F](NonConstantRequiredArgument("key"))
	//
	assert.True(t, c.IsComplete())
	assert.False(t, i.IsComplete())
	assert.Equal(t, "non-constant key", i.Cause().String())
	assert.Panics(t, func() { c.Cause() })
}

func elems(vals ...uint64) []F {
	var res = make([]F, len(vals))
	//
	for i, v := range vals {
		res[i] = field.Uint64[F](v)
	}
	//
	return res
}
