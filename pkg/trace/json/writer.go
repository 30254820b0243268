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
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/r0qs/powdr/pkg/util/field"
)

// ToJsonString converts a set of columns into a JSON string.  Columns are
// written in order of their names, so the output is deterministic.
func ToJsonString[F field.Element[F]](columns map[string][]F) string {
	var builder strings.Builder
	//
	builder.WriteString("{")
	//
	for i, name := range slices.Sorted(maps.Keys(columns)) {
		if i != 0 {
			builder.WriteString(", ")
		}
		// Write out column name
		builder.WriteString(strconv.Quote(name))
		//
		builder.WriteString(": [")

		data := columns[name]

		for j := range data {
			if j != 0 {
				builder.WriteString(", ")
			}

			builder.WriteString(data[j].String())
		}

		builder.WriteString("]")
	}
	//
	builder.WriteString("}")
	// Done
	return builder.String()
}
