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
package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/util/field/bls12_377"
	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/r0qs/powdr/pkg/witgen/affine"
	"github.com/r0qs/powdr/pkg/witgen/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Determines the (relative) location of the test directory.  That is
// where the circuit files used for testing are located.
const TestDir = "../../testdata/witgen"

type F = bls12_377.Element

func readTestDescription(t *testing.T, name string) *Description {
	bytes, err := os.ReadFile(filepath.Join(TestDir, name))
	require.NoError(t, err)
	//
	desc, err := ParseDescription(bytes)
	require.NoError(t, err)
	//
	return desc
}

func Test_Description_01(t *testing.T) {
	desc := readTestDescription(t, "memory.yaml")
	//
	assert.Equal(t, "BLS12_377", desc.Field)
	assert.Equal(t, uint64(4), desc.Degree)
	assert.Len(t, desc.Fixed, 3)
	assert.Len(t, desc.Identities, 2)
	assert.Len(t, desc.Requests, 4)
	assert.Equal(t, Scalar("42"), desc.Requests[0].Left[1].Const)
	assert.Equal(t, Scalar("2"), desc.Requests[3].Left[1].Terms[0].Coeff)
}

func Test_Description_02(t *testing.T) {
	circuit, err := Build[F](readTestDescription(t, "memory.yaml"), nil)
	require.NoError(t, err)
	//
	require.Len(t, circuit.Identities, 2)
	assert.Equal(t, "{ADDR, v}", circuit.Identities[0].Right.String())
	assert.Equal(t, witgen.Plookup, circuit.Identities[1].Kind)
	//
	require.Len(t, circuit.Requests, 4)
	assert.Same(t, circuit.Identities[1], circuit.Requests[2].Identity)
	assert.Equal(t, "2 * c[2] + 1", circuit.Requests[3].Left[1].String())
	//
	assert.Equal(t, []witgen.Update[F]{{Var: witgen.Cell{Column: "c", Row: 2}, Value: field.Uint64[F](5)}},
		circuit.Assignments)
}

func Test_Description_03(t *testing.T) {
	var desc = `
degree: 2
fixed:
  - {name: A, values: [0, 1]}
witness:
  - {name: v}
identities:
  - {id: 0, kind: plookup, right: [A, v'], selector: A}
  - {id: 1, kind: polynomial, left: [v]}
`
	//
	d, err := ParseDescription([]byte(desc))
	require.NoError(t, err)
	//
	circuit, err := Build[F](d, nil)
	require.NoError(t, err)
	assert.Equal(t, "A {A, v'}", circuit.Identities[0].Right.String())
	assert.Nil(t, circuit.Identities[1].Right)
}

func Test_Description_04(t *testing.T) {
	var invalid = []string{
		// Unknown column
		"degree: 1\nfixed: [{name: A, values: [0]}]\nidentities: [{id: 0, right: [B]}]",
		// Unknown identity kind
		"degree: 1\nfixed: [{name: A, values: [0]}]\nidentities: [{id: 0, kind: foo, right: [A]}]",
		// Unknown identity
		"degree: 1\nfixed: [{name: A, values: [0]}]\nrequests: [{identity: 3, left: [{const: 0}]}]",
		// Malformed value
		"degree: 1\nfixed: [{name: A, values: [zero]}]",
		// Wrong number of rows
		"degree: 2\nfixed: [{name: A, values: [0]}]",
		// Malformed coefficient
		"degree: 1\nfixed: [{name: A, values: [0]}]\nidentities: [{id: 0, right: [A]}]\n" +
			"requests: [{identity: 0, left: [{terms: [{column: x, coeff: x}]}]}]",
	}
	//
	for _, text := range invalid {
		desc, err := ParseDescription([]byte(text))
		require.NoError(t, err, text)
		//
		_, err = Build[F](desc, nil)
		assert.Error(t, err, text)
	}
}

func Test_Description_05(t *testing.T) {
	// Scalars must be scalars
	_, err := ParseDescription([]byte("degree: 1\nfixed: [{name: A, values: [[0]]}]"))
	assert.Error(t, err)
}

func Test_Description_06(t *testing.T) {
	desc := readTestDescription(t, "memory.yaml")
	// External values must refer to witness columns
	_, err := Build(desc, map[string][]F{"w": {}})
	assert.Error(t, err)
	// Which they override
	circuit, err := Build(desc, map[string][]F{"v": {field.Uint64[F](1)}})
	require.NoError(t, err)
	assert.True(t, circuit.Fixed.ExternalWitness(0, witgen.PolyID{ID: 0, Type: witgen.Committed}).HasValue())
}

func Test_Witgen_01(t *testing.T) {
	var out bytes.Buffer
	//
	err := runWitgen(readTestDescription(t, "memory.yaml"), witgenConfig{}, &out)
	require.NoError(t, err)
	assert.Equal(t, `{"v": [0, 11, 0, 42]}`, strings.TrimSpace(out.String()))
}

func Test_Witgen_02(t *testing.T) {
	var out bytes.Buffer
	// Same again, but over the small field.
	err := runWitgen(readTestDescription(t, "memory.yaml"), witgenConfig{field: "KOALABEAR"}, &out)
	require.NoError(t, err)
	assert.Equal(t, `{"v": [0, 11, 0, 42]}`, strings.TrimSpace(out.String()))
}

func Test_Witgen_03(t *testing.T) {
	var (
		out    bytes.Buffer
		output = filepath.Join(t.TempDir(), "witness.json")
	)
	//
	err := runWitgen(readTestDescription(t, "memory.yaml"), witgenConfig{output: output}, &out)
	require.NoError(t, err)
	assert.Empty(t, out.String())
	//
	bytes, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, `{"v": [0, 11, 0, 42]}`, string(bytes))
}

func Test_Witgen_04(t *testing.T) {
	var (
		out           bytes.Buffer
		contradiction *affine.ContradictionError
		cfg           = witgenConfig{external: filepath.Join(TestDir, "external.json")}
	)
	// External value 7 at address 1 conflicts with the store of 11.
	err := runWitgen(readTestDescription(t, "memory.yaml"), cfg, &out)
	require.Error(t, err)
	assert.True(t, errors.As(err, &contradiction))
}

func Test_Witgen_05(t *testing.T) {
	var (
		out   bytes.Buffer
		stall *generator.StallError
		desc  = readTestDescription(t, "memory.yaml")
	)
	// Without the square root, the first store never happens.
	desc.Requests = desc.Requests[:2]
	//
	err := runWitgen(desc, witgenConfig{}, &out)
	require.Error(t, err)
	assert.True(t, errors.As(err, &stall))
	// Unless incomplete requests are permitted
	out.Reset()
	//
	err = runWitgen(desc, witgenConfig{generator: generator.Config{AllowIncomplete: true}}, &out)
	require.NoError(t, err)
	assert.Equal(t, `{"v": [0, 0, 0, 0]}`, strings.TrimSpace(out.String()))
}

func Test_Witgen_06(t *testing.T) {
	var out bytes.Buffer
	//
	err := runWitgen(readTestDescription(t, "memory.yaml"), witgenConfig{field: "GF_251"}, &out)
	assert.Error(t, err)
}

func Test_Witgen_07(t *testing.T) {
	var (
		out         strings.Builder
		assignments = map[witgen.Cell]F{{Column: "b", Row: 1}: field.Uint64[F](42)}
		columns     = map[string][]F{"v": {field.Uint64[F](0), field.Uint64[F](11)}}
	)
	//
	columnTable(columns).Print(&out)
	assignmentTable(assignments, 80).Print(&out)
	//
	assert.Equal(t, "   |  v |\n 0 |  0 |\n 1 | 11 |\n b[1] | 42 |\n", out.String())
}
