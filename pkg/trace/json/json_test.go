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
package json

import (
	"testing"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/util/field/bls12_377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type F = bls12_377.Element

func column(vals ...uint64) []F {
	var res = make([]F, len(vals))
	//
	for i, v := range vals {
		res[i] = field.Uint64[F](v)
	}
	//
	return res
}

func Test_JsonWriter_01(t *testing.T) {
	columns := map[string][]F{"v": column(0, 0, 7, 0), "a": column(1), "empty": {}}
	//
	assert.Equal(t, `{"a": [1], "empty": [], "v": [0, 0, 7, 0]}`, ToJsonString(columns))
	assert.Equal(t, "{}", ToJsonString(map[string][]F{}))
}

func Test_JsonReader_01(t *testing.T) {
	columns, err := FromBytes[F]([]byte(`{"v": [0, 0, 7], "w@u8": [255]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string][]F{"v": column(0, 0, 7), "w": column(255)}, columns)
}

func Test_JsonReader_02(t *testing.T) {
	// Out of bounds for bitwidth
	_, err := FromBytes[F]([]byte(`{"w@u8": [256]}`))
	assert.Error(t, err)
	// Negative
	_, err = FromBytes[F]([]byte(`{"w": [-1]}`))
	assert.Error(t, err)
	// Malformed type
	_, err = FromBytes[F]([]byte(`{"w@i8": [1]}`))
	assert.Error(t, err)
	// Same column twice
	_, err = FromBytes[F]([]byte(`{"w@u8": [1], "w": [2]}`))
	assert.Error(t, err)
}

func Test_JsonRoundTrip_01(t *testing.T) {
	columns := map[string][]F{"x": column(1, 2, 3), "y": column(4, 5, 6)}
	//
	parsed, err := FromBytes[F]([]byte(ToJsonString(columns)))
	require.NoError(t, err)
	assert.Equal(t, columns, parsed)
}
