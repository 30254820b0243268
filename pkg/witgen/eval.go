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
	"fmt"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen/affine"
)

// AffineExpression is an affine expression whose unknowns are trace cells.
// This is the form in which the left-hand side of a request arrives.
type AffineExpression[F field.Element[F]] = affine.Expression[Cell, F]

// Update binds a trace cell to a concrete value.
type Update[F field.Element[F]] = affine.Update[Cell, F]

// IncompleteCause explains why a request could not (yet) be fully processed.
type IncompleteCause struct {
	// Argument of the request which was not known.
	Argument string
}

// NonConstantRequiredArgument indicates that some argument which must be known
// in order to make progress was not known.
func NonConstantRequiredArgument(argument string) IncompleteCause {
	return IncompleteCause{argument}
}

func (c IncompleteCause) String() string {
	return fmt.Sprintf("non-constant %s", c.Argument)
}

// EvalValue is the (non-fatal) outcome of processing a request.  A request is
// either complete, meaning nothing more can be learned from it, or incomplete,
// meaning it should be retried once more is known.  Either way, updates
// determined so far are included.
type EvalValue[F field.Element[F]] struct {
	Updates  []Update[F]
	complete bool
	cause    IncompleteCause
}

// Complete constructs the outcome of a fully processed request.
func Complete[F field.Element[F]](updates []Update[F]) EvalValue[F] {
	return EvalValue[F]{updates, true, IncompleteCause{}}
}

// Incomplete constructs the outcome of a request on which no progress could
// be made.
func Incomplete[F field.Element[F]](cause IncompleteCause) EvalValue[F] {
	return EvalValue[F]{nil, false, cause}
}

// IncompleteWithUpdates constructs the outcome of a request on which some, but
// not all, progress could be made.
func IncompleteWithUpdates[F field.Element[F]](updates []Update[F], cause IncompleteCause) EvalValue[F] {
	return EvalValue[F]{updates, false, cause}
}

// IsComplete determines whether this request was fully processed.
func (p EvalValue[F]) IsComplete() bool {
	return p.complete
}

// Cause returns the reason why a request is incomplete.
func (p EvalValue[F]) Cause() IncompleteCause {
	if p.complete {
		panic("complete evaluation has no cause")
	}
	//
	return p.cause
}

func (p EvalValue[F]) String() string {
	if p.complete {
		return fmt.Sprintf("complete %v", p.Updates)
	}
	//
	return fmt.Sprintf("incomplete (%s) %v", p.cause.String(), p.Updates)
}
