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
	"fmt"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen"
)

// Machine represents a self-contained part of the trace which answers lookup
// requests made against it.  Machines are driven by a fixed-point iteration:
// requests which cannot (yet) be completed are retried once other machines have
// made progress.  Once no further progress is possible anywhere, the machine
// hands over its witness columns.
type Machine[F field.Element[F]] interface {
	// Name returns a human-readable name for this machine, for use in logs and
	// error messages.
	Name() string
	// Accepts determines whether this machine is responsible for requests of a
	// given kind made against a given right-hand side.  Requests which are not
	// accepted should be offered to other machines.
	Accepts(kind witgen.IdentityKind, right *witgen.SelectedExpressions[F]) bool
	// ProcessLookup resolves as much of a request as possible.  The left-hand
	// expressions are paired, in order, with the expressions of the right-hand
	// side.  An error is returned only when the request can never succeed.
	ProcessLookup(left []witgen.AffineExpression[F], right *witgen.SelectedExpressions[F]) (witgen.EvalValue[F], error)
	// Revision returns a counter which increases whenever the internal state
	// of this machine changes.  This allows progress to be detected even when
	// it produced no updates.
	Revision() uint64
	// TakeWitnessColValues produces the final (dense) witness columns owned by
	// this machine.  This should be called exactly once, after witness
	// generation has converged.
	TakeWitnessColValues() map[string][]F
}

// AddressNotFoundError signals a request against an address which does not
// exist in a memory's address space.
type AddressNotFoundError struct {
	Machine string
	Key     string
}

func (e *AddressNotFoundError) Error() string {
	return fmt.Sprintf("key %s not found in %s", e.Key, e.Machine)
}

// NoMatchingRowError signals a request against a fixed table which matches
// none of its rows.
type NoMatchingRowError struct {
	Machine string
	Values  string
}

func (e *NoMatchingRowError) Error() string {
	return fmt.Sprintf("no row of %s matches %s", e.Machine, e.Values)
}

// UnhandledLookupError signals a request which no machine accepts.
type UnhandledLookupError struct {
	Kind  witgen.IdentityKind
	Right string
}

func (e *UnhandledLookupError) Error() string {
	return fmt.Sprintf("no machine accepts %s into %s", e.Kind.String(), e.Right)
}

// Check the shape of a request matches the right-hand side it is made against.
func checkArity[F field.Element[F]](name string, left []witgen.AffineExpression[F],
	right *witgen.SelectedExpressions[F]) error {
	if uint(len(left)) != right.Len() {
		return fmt.Errorf("%s expects %d arguments (received %d)", name, right.Len(), len(left))
	}
	//
	return nil
}
