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
	"slices"

	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen"
	log "github.com/sirupsen/logrus"
)

// Constructor attempts to construct a machine of a particular kind from the
// identities connecting to it, and those internal to it.  When the identities
// do not fit the kind of machine, false is returned.
type Constructor[F field.Element[F]] func(fixed *witgen.FixedData[F], connecting []*witgen.Identity[F],
	identities []*witgen.Identity[F]) (Machine[F], bool)

// Variants returns the constructors for all supported kinds of machine, in the
// order they should be tried.
func Variants[F field.Element[F]]() []Constructor[F] {
	return []Constructor[F]{
		func(fixed *witgen.FixedData[F], connecting, identities []*witgen.Identity[F]) (Machine[F], bool) {
			if m, ok := NewWriteOnceMemory(fixed, connecting, identities); ok {
				return m, true
			}
			//
			return nil, false
		},
		func(fixed *witgen.FixedData[F], connecting, identities []*witgen.Identity[F]) (Machine[F], bool) {
			if m, ok := NewFixedLookup(fixed, connecting, identities); ok {
				return m, true
			}
			//
			return nil, false
		},
	}
}

// Construct the first machine variant which fits a given set of identities.
func Construct[F field.Element[F]](fixed *witgen.FixedData[F], connecting []*witgen.Identity[F],
	identities []*witgen.Identity[F]) (Machine[F], bool) {
	//
	for _, variant := range Variants[F]() {
		if m, ok := variant(fixed, connecting, identities); ok {
			log.Debugf("constructed %s", m.Name())
			return m, true
		}
	}
	//
	return nil, false
}

// Registry holds a set of machines, and routes requests to them.
type Registry[F field.Element[F]] struct {
	machines []Machine[F]
}

// NewRegistry constructs a registry from a given set of machines.
func NewRegistry[F field.Element[F]](machines ...Machine[F]) *Registry[F] {
	return &Registry[F]{machines}
}

// Split identifies the machines within a set of identities.  Lookup identities
// are grouped by their right-hand side, such that each group connects to one
// machine.  Polynomial identities referencing any witness column of that
// right-hand side are considered internal to the machine.  Every group must
// fit some kind of machine, otherwise an error is returned.
func Split[F field.Element[F]](fixed *witgen.FixedData[F], identities []*witgen.Identity[F]) (*Registry[F], error) {
	var (
		registry = NewRegistry[F]()
		groups   [][]*witgen.Identity[F]
	)
	// Group connecting identities
	for _, id := range identities {
		if id.Kind != witgen.Plookup && id.Kind != witgen.Permutation {
			continue
		}
		//
		i := slices.IndexFunc(groups, func(g []*witgen.Identity[F]) bool {
			return g[0].Right.Equals(id.Right)
		})
		//
		if i < 0 {
			groups = append(groups, []*witgen.Identity[F]{id})
		} else {
			groups[i] = append(groups[i], id)
		}
	}
	// Construct machine for each group
	for _, connecting := range groups {
		var (
			rhs      = connecting[0].Right
			internal = internalIdentities(rhs, identities)
		)
		//
		m, ok := Construct(fixed, connecting, internal)
		if !ok {
			return nil, fmt.Errorf("no machine fits %d identities into %s", len(connecting), rhs.String())
		}
		//
		registry.Add(m)
	}
	//
	return registry, nil
}

// Add a machine to this registry.
func (p *Registry[F]) Add(m Machine[F]) {
	p.machines = append(p.machines, m)
}

// Machines returns the machines held in this registry.
func (p *Registry[F]) Machines() []Machine[F] {
	return p.machines
}

// Dispatch a request to the first machine which accepts it.
func (p *Registry[F]) Dispatch(kind witgen.IdentityKind, left []witgen.AffineExpression[F],
	right *witgen.SelectedExpressions[F]) (witgen.EvalValue[F], error) {
	//
	for _, m := range p.machines {
		if m.Accepts(kind, right) {
			return m.ProcessLookup(left, right)
		}
	}
	//
	return witgen.EvalValue[F]{}, &UnhandledLookupError{kind, right.String()}
}

// Revision returns a counter which increases whenever any machine in this
// registry changes state.
func (p *Registry[F]) Revision() uint64 {
	var revision uint64
	//
	for _, m := range p.machines {
		revision += m.Revision()
	}
	//
	return revision
}

// TakeWitnessColValues collects the witness columns of every machine.  Two
// machines claiming the same column is an error.
func (p *Registry[F]) TakeWitnessColValues() (map[string][]F, error) {
	var columns = make(map[string][]F)
	//
	for _, m := range p.machines {
		for name, values := range m.TakeWitnessColValues() {
			if _, ok := columns[name]; ok {
				return nil, fmt.Errorf("column %s produced by more than one machine", name)
			}
			//
			columns[name] = values
		}
	}
	//
	return columns, nil
}

// Identify the polynomial identities which reference a witness column of a
// given right-hand side.
func internalIdentities[F field.Element[F]](rhs *witgen.SelectedExpressions[F],
	identities []*witgen.Identity[F]) []*witgen.Identity[F] {
	var (
		witnesses []witgen.PolyID
		internal  []*witgen.Identity[F]
	)
	//
	for _, e := range rhs.Expressions {
		for _, ref := range witgen.References(e) {
			if ref.Poly.Type == witgen.Committed {
				witnesses = append(witnesses, ref.Poly)
			}
		}
	}
	//
	for _, id := range identities {
		if id.Kind != witgen.Polynomial {
			continue
		}
		//
		for _, ref := range id.References() {
			if slices.Contains(witnesses, ref.Poly) {
				internal = append(internal, id)
				break
			}
		}
	}
	//
	return internal
}
