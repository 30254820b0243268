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

	"github.com/r0qs/powdr/pkg/util/field"
)

// Update binds an unknown to a concrete value.
type Update[K comparable, F field.Element[F]] struct {
	Var   K
	Value F
}

func (u Update[K, F]) String() string {
	return fmt.Sprintf("%v = %s", u.Var, u.Value.String())
}

// ContradictionError signals that an equation "e = 0" can never hold, because
// e is a non-zero constant.
type ContradictionError struct {
	// Textual form of the offending expression.
	Expression string
}

func (e *ContradictionError) Error() string {
	return fmt.Sprintf("constraint unsatisfiable: %s = 0", e.Expression)
}

// Solve the equation "e = 0".  When e is constant, this either succeeds with no
// updates (e is zero) or fails with a contradiction.  When e has exactly one
// unknown, that unknown is bound to the unique solution.  Otherwise, nothing can
// be determined yet and no updates are returned.
func (e Expression[K, F]) Solve() ([]Update[K, F], error) {
	switch len(e.terms) {
	case 0:
		if !e.constant.IsZero() {
			return nil, &ContradictionError{e.String()}
		}
		//
		return nil, nil
	case 1:
		// a*x + c = 0  ==>  x = -c / a
		t := e.terms[0]
		val := field.Neg(e.constant).Mul(t.Coefficient.Inverse())
		//
		return []Update[K, F]{{t.Var, val}}, nil
	default:
		return nil, nil
	}
}
