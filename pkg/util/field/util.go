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

import "strings"

// CmpTuple compares two tuples of field elements lexicographically, using the
// order of canonical representatives for each component.  A shorter tuple which
// is a prefix of a longer one is considered smaller.
func CmpTuple[F Element[F]](lhs []F, rhs []F) int {
	n := min(len(lhs), len(rhs))
	//
	for i := range n {
		if c := lhs[i].Cmp(rhs[i]); c != 0 {
			return c
		}
	}
	//
	switch {
	case len(lhs) < len(rhs):
		return -1
	case len(lhs) > len(rhs):
		return 1
	default:
		return 0
	}
}

// TupleString returns a human-readable representation of a tuple of field
// elements, such as "(1, 2, 3)".
func TupleString[F Element[F]](tuple []F) string {
	var builder strings.Builder
	//
	builder.WriteString("(")
	//
	for i, ith := range tuple {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(ith.String())
	}
	//
	builder.WriteString(")")
	//
	return builder.String()
}
