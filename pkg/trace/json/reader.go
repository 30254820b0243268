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
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/r0qs/powdr/pkg/util/field"
)

// FromBytes parses a set of columns expressed in JSON notation.  For example,
// {"X": [0], "Y": [1]} is a trace containing one row of data each for two
// columns "X" and "Y".  A column name may carry a bitwidth (e.g. "X@u8"), in
// which case every value must fit within that many bits.
func FromBytes[F field.Element[F]](data []byte) (map[string][]F, error) {
	var (
		rawData map[string][]big.Int
		cols    = make(map[string][]F)
	)
	// Unmarshall
	if err := json.Unmarshal(data, &rawData); err != nil {
		return nil, err
	}
	//
	for name, rawInts := range rawData {
		col, bitwidth, err := splitColumnBitwidth(name)
		// error check
		if err != nil {
			return nil, err
		} else if _, ok := cols[col]; ok {
			return nil, fmt.Errorf("duplicate column %s", col)
		}
		// Validate data array
		if row := validateBigInts(bitwidth, rawInts); row != math.MaxUint {
			return nil, fmt.Errorf("column %s out-of-bounds (row %d, value %s)",
				name, row, rawInts[row].String())
		}
		// Construct column
		values := make([]F, len(rawInts))
		//
		for i := range rawInts {
			values[i] = field.BigInt[F](rawInts[i])
		}
		//
		cols[col] = values
	}
	// Done.
	return cols, nil
}

func splitColumnBitwidth(name string) (string, uint, error) {
	var (
		err      error
		bitwidth uint64
		bits     = strings.Split(name, "@")
	)
	//
	if len(bits) == 1 {
		// no bitwidth given
		return bits[0], math.MaxUint, nil
	} else if len(bits) > 2 || len(bits[1]) < 2 {
		return "", 0, fmt.Errorf("malformed column name \"%s\"", name)
	} else if bits[1][0] != 'u' {
		return "", 0, fmt.Errorf("malformed column type \"%s\"", bits[1])
	}
	// Extract colwidth, whilst ignoring column type (for now)
	colwidth := bits[1][1:]
	//
	if bitwidth, err = strconv.ParseUint(colwidth, 10, 9); err != nil {
		// failure
		return "", 0, err
	}
	//
	return bits[0], uint(bitwidth), nil
}

func validateBigInts(bitwidth uint, data []big.Int) uint {
	var zero = big.NewInt(0)
	//
	for i, val := range data {
		if val.Cmp(zero) < 0 {
			return uint(i)
		} else if uint(val.BitLen()) > bitwidth {
			return uint(i)
		}
	}
	//
	return math.MaxUint
}
