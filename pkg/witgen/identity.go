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
	"strings"

	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
)

// IdentityKind determines how the two sides of an identity are related.
type IdentityKind uint8

const (
	// Polynomial identities assert that an expression vanishes on every row.
	Polynomial IdentityKind = iota
	// Plookup identities assert that every (selected) row of the left-hand
	// side matches some row of the right-hand side.
	Plookup
	// Permutation identities assert that the (selected) rows of both sides
	// are permutations of each other.
	Permutation
	// Connect identities express copy constraints.
	Connect
)

func (k IdentityKind) String() string {
	switch k {
	case Polynomial:
		return "polynomial"
	case Plookup:
		return "plookup"
	case Permutation:
		return "permutation"
	case Connect:
		return "connect"
	default:
		return fmt.Sprintf("IdentityKind(%d)", uint8(k))
	}
}

// SelectedExpressions describes one side of an identity, namely a list of
// expressions and an optional selector which determines on which rows the
// expressions are active.
type SelectedExpressions[F field.Element[F]] struct {
	Selector    util.Option[Expression[F]]
	Expressions []Expression[F]
}

// NewSelectedExpressions constructs one side of an identity without a selector.
func NewSelectedExpressions[F field.Element[F]](exprs ...Expression[F]) *SelectedExpressions[F] {
	return &SelectedExpressions[F]{util.None[Expression[F]](), exprs}
}

// NewFilteredExpressions constructs one side of an identity with a selector.
func NewFilteredExpressions[F field.Element[F]](selector Expression[F],
	exprs ...Expression[F]) *SelectedExpressions[F] {
	return &SelectedExpressions[F]{util.Some(selector), exprs}
}

// HasSelector determines whether or not this side has a selector.
func (p *SelectedExpressions[F]) HasSelector() bool {
	return p.Selector.HasValue()
}

// Len returns the number of expressions (excluding the selector).
func (p *SelectedExpressions[F]) Len() uint {
	return uint(len(p.Expressions))
}

// Equals determines whether two sides are structurally identical.
func (p *SelectedExpressions[F]) Equals(other *SelectedExpressions[F]) bool {
	if p == other {
		return true
	} else if p == nil || other == nil || len(p.Expressions) != len(other.Expressions) {
		return false
	} else if p.HasSelector() != other.HasSelector() {
		return false
	} else if p.HasSelector() && !p.Selector.Unwrap().Equals(other.Selector.Unwrap()) {
		return false
	}
	//
	for i, e := range p.Expressions {
		if !e.Equals(other.Expressions[i]) {
			return false
		}
	}
	//
	return true
}

func (p *SelectedExpressions[F]) String() string {
	var builder strings.Builder
	//
	if p.HasSelector() {
		builder.WriteString(p.Selector.Unwrap().String())
		builder.WriteString(" ")
	}
	//
	builder.WriteString("{")
	//
	for i, e := range p.Expressions {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		builder.WriteString(e.String())
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// Identity is a constraint relating two sides.  Polynomial identities only use
// the left-hand side.
type Identity[F field.Element[F]] struct {
	ID    uint
	Kind  IdentityKind
	Left  *SelectedExpressions[F]
	Right *SelectedExpressions[F]
}

func (p *Identity[F]) String() string {
	switch p.Kind {
	case Polynomial:
		return fmt.Sprintf("#%d: %s = 0", p.ID, p.Left.String())
	case Plookup:
		return fmt.Sprintf("#%d: %s in %s", p.ID, p.Left.String(), p.Right.String())
	case Permutation:
		return fmt.Sprintf("#%d: %s is %s", p.ID, p.Left.String(), p.Right.String())
	default:
		return fmt.Sprintf("#%d: %s connect %s", p.ID, p.Left.String(), p.Right.String())
	}
}

// References returns every polynomial referenced by either side of this
// identity (including selectors).
func (p *Identity[F]) References() []PolyRef {
	var refs []PolyRef
	//
	for _, side := range []*SelectedExpressions[F]{p.Left, p.Right} {
		if side == nil {
			continue
		} else if side.HasSelector() {
			refs = append(refs, References(side.Selector.Unwrap())...)
		}
		//
		for _, e := range side.Expressions {
			refs = append(refs, References(e)...)
		}
	}
	//
	return refs
}
