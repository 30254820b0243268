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
	"errors"
	"testing"

	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed data with a memory {ADDR, v} and a range table {BYTE}.
func mixedData(t *testing.T) *witgen.FixedData[F] {
	fixed, err := witgen.NewFixedData(4, []witgen.FixedColumn[F]{
		{Name: "ADDR", Values: nums(0, 1, 2, 3)},
		{Name: "BYTE", Values: nums(0, 1, 2, 3)},
	}, []witgen.WitnessColumn[F]{{Name: "v", External: noExternal()}})
	require.NoError(t, err)
	//
	return fixed
}

func Test_Registry_Split_01(t *testing.T) {
	var (
		fixed  = mixedData(t)
		memory = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
		bytes  = witgen.NewSelectedExpressions(fixedRef("BYTE", 1))
		// Structurally identical to memory
		memory2 = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
	)
	//
	registry, err := Split(fixed, []*witgen.Identity[F]{lookup(0, memory), lookup(1, bytes), lookup(2, memory2)})
	require.NoError(t, err)
	require.Len(t, registry.Machines(), 2)
	assert.IsType(t, &WriteOnceMemory[F]{}, registry.Machines()[0])
	assert.IsType(t, &FixedLookup[F]{}, registry.Machines()[1])
	// Route a store, then a load
	res, err := registry.Dispatch(witgen.Plookup, []Expr{constant(1), constant(5)}, memory)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	assert.Equal(t, uint64(1), registry.Revision())
	//
	res, err = registry.Dispatch(witgen.Plookup, []Expr{constant(1), unknown("x", 0)}, memory2)
	require.NoError(t, err)
	assert.Equal(t, []witgen.Update[F]{update("x", 0, 5)}, res.Updates)
	// Range check
	res, err = registry.Dispatch(witgen.Plookup, []Expr{constant(3)}, bytes)
	require.NoError(t, err)
	assert.True(t, res.IsComplete())
	//
	columns, err := registry.TakeWitnessColValues()
	require.NoError(t, err)
	assert.Equal(t, map[string][]F{"v": nums(0, 5, 0, 0)}, columns)
}

func Test_Registry_Split_02(t *testing.T) {
	var (
		fixed  = mixedData(t)
		memory = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
		// Constrains the memory contents, so it is no longer a plain memory.
		internal = &witgen.Identity[F]{ID: 1, Kind: witgen.Polynomial,
			Left: witgen.NewSelectedExpressions(witnessRef("v", 0))}
	)
	//
	_, err := Split(fixed, []*witgen.Identity[F]{lookup(0, memory), internal})
	assert.Error(t, err)
}

func Test_Registry_Split_03(t *testing.T) {
	// Polynomial identities unrelated to any machine are ignored.
	var (
		fixed  = mixedData(t)
		memory = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
		other  = &witgen.Identity[F]{ID: 1, Kind: witgen.Polynomial,
			Left: witgen.NewSelectedExpressions(fixedRef("BYTE", 1))}
	)
	//
	registry, err := Split(fixed, []*witgen.Identity[F]{lookup(0, memory), other})
	require.NoError(t, err)
	assert.Len(t, registry.Machines(), 1)
}

func Test_Registry_Split_04(t *testing.T) {
	// No machine handles permutations, which is reported up front.
	var (
		fixed       = mixedData(t)
		memory      = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
		permutation = &witgen.Identity[F]{ID: 2, Kind: witgen.Permutation, Left: witgen.NewSelectedExpressions[F](),
			Right: memory}
	)
	//
	registry, err := Split(fixed, []*witgen.Identity[F]{permutation})
	assert.Error(t, err)
	assert.Nil(t, registry)
}

func Test_Registry_Dispatch_01(t *testing.T) {
	var (
		unhandled *UnhandledLookupError
		fixed     = mixedData(t)
		memory    = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
	)
	//
	registry, err := Split(fixed, []*witgen.Identity[F]{lookup(0, memory)})
	require.NoError(t, err)
	// Permutations are never accepted by a memory
	_, err = registry.Dispatch(witgen.Permutation, []Expr{constant(0), constant(0)}, memory)
	require.Error(t, err)
	assert.True(t, errors.As(err, &unhandled))
	// Nor are lookups into something else
	_, err = registry.Dispatch(witgen.Plookup, []Expr{constant(0)}, witgen.NewSelectedExpressions(fixedRef("BYTE", 1)))
	require.Error(t, err)
	assert.True(t, errors.As(err, &unhandled))
}

func Test_Registry_Columns_01(t *testing.T) {
	var (
		fixed = mixedData(t)
		rhs1  = witgen.NewSelectedExpressions(fixedRef("ADDR", 0), witnessRef("v", 0))
		rhs2  = witgen.NewSelectedExpressions(witnessRef("v", 0), fixedRef("ADDR", 0))
	)
	//
	m1, ok := NewWriteOnceMemory(fixed, []*witgen.Identity[F]{lookup(0, rhs1)}, nil)
	require.True(t, ok)
	m2, ok := NewWriteOnceMemory(fixed, []*witgen.Identity[F]{lookup(1, rhs2)}, nil)
	require.True(t, ok)
	// Both claim column v
	registry := NewRegistry[F](m1, m2)
	_, err := registry.TakeWitnessColValues()
	assert.Error(t, err)
}
