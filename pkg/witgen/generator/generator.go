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
package generator

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/r0qs/powdr/pkg/witgen/machines"
	log "github.com/sirupsen/logrus"
)

// Request is a single lookup made by the main program against some machine.
// The left-hand side has already been instantiated for a particular row, hence
// its unknowns are concrete trace cells.
type Request[F field.Element[F]] struct {
	Identity *witgen.Identity[F]
	Left     []witgen.AffineExpression[F]
}

func (r Request[F]) String() string {
	var args = make([]string, len(r.Left))
	//
	for i, e := range r.Left {
		args[i] = e.String()
	}
	//
	return fmt.Sprintf("#%d: {%s} in %s", r.Identity.ID, strings.Join(args, ", "), r.Identity.Right.String())
}

// Config determines how the generator behaves when it stops making progress.
type Config struct {
	// AllowIncomplete permits requests to remain outstanding once the
	// generator has converged, rather than reporting a stall.
	AllowIncomplete bool
	// MaxPasses bounds the number of passes made (0 means unbounded).
	MaxPasses uint
}

// ConflictingAssignmentError signals an attempt to bind a cell which is already
// bound to a different value.
type ConflictingAssignmentError struct {
	Cell     witgen.Cell
	Existing string
	Proposed string
}

func (e *ConflictingAssignmentError) Error() string {
	return fmt.Sprintf("conflicting assignment for %s (%s vs %s)", e.Cell.String(), e.Existing, e.Proposed)
}

// StallError signals that no further progress could be made, whilst some
// requests remained outstanding.
type StallError struct {
	Pending []string
}

func (e *StallError) Error() string {
	return fmt.Sprintf("witness generation stalled with %d outstanding requests (first %s)", len(e.Pending),
		e.Pending[0])
}

// PassLimitError signals that the pass limit was reached whilst passes were
// still making progress, and some requests remained outstanding.
type PassLimitError struct {
	Passes  uint
	Pending []string
}

func (e *PassLimitError) Error() string {
	return fmt.Sprintf("witness generation reached pass limit (%d) with %d outstanding requests (first %s)",
		e.Passes, len(e.Pending), e.Pending[0])
}

// Generator drives a set of machines to a fixed point.  Outstanding requests
// are repeatedly offered to the machines, with every binding learned so far
// substituted in, until a complete pass over them changes nothing.
type Generator[F field.Element[F]] struct {
	registry *machines.Registry[F]
	config   Config
	pending  []Request[F]
	// Bindings learned so far.
	assignments map[witgen.Cell]F
}

// New constructs a generator over a given set of machines.
func New[F field.Element[F]](registry *machines.Registry[F], config Config) *Generator[F] {
	return &Generator[F]{registry, config, nil, make(map[witgen.Cell]F)}
}

// Submit one or more requests for processing.
func (p *Generator[F]) Submit(requests ...Request[F]) {
	p.pending = append(p.pending, requests...)
}

// Assign binds a cell to a given value prior to running, as though it had been
// determined by some request.
func (p *Generator[F]) Assign(cell witgen.Cell, value F) error {
	return p.bind(witgen.Update[F]{Var: cell, Value: value})
}

// Pending returns the requests which remain outstanding.
func (p *Generator[F]) Pending() []Request[F] {
	return p.pending
}

// Value returns the value bound to a given cell, if any.
func (p *Generator[F]) Value(cell witgen.Cell) (F, bool) {
	val, ok := p.assignments[cell]
	return val, ok
}

// Assignments returns a copy of all bindings learned so far.
func (p *Generator[F]) Assignments() map[witgen.Cell]F {
	return maps.Clone(p.assignments)
}

// Run makes passes over the outstanding requests until a fixed point is
// reached.  Progress in a pass means some binding was learned, some request
// completed, or some machine changed its internal state.  Any error reported
// by a machine aborts the run immediately, as does reaching the pass limit
// before a fixed point.
func (p *Generator[F]) Run() error {
	var (
		stats     = util.NewPerfStats("witness generation")
		passes    uint
		converged bool
	)
	//
	for len(p.pending) > 0 && (p.config.MaxPasses == 0 || passes < p.config.MaxPasses) {
		progress, err := p.pass()
		//
		passes++
		//
		if err != nil {
			return err
		}
		//
		log.Debugf("pass %d: %d requests outstanding, %d cells bound", passes, len(p.pending), len(p.assignments))
		//
		if !progress {
			converged = true
			break
		}
	}
	//
	stats.Log(log.Fields{"passes": passes, "pending": len(p.pending)})
	//
	switch {
	case len(p.pending) == 0:
		return nil
	case !converged:
		// Stopped by the pass limit, not by a lack of progress.
		return &PassLimitError{passes, p.pendingStrings()}
	case !p.config.AllowIncomplete:
		return &StallError{p.pendingStrings()}
	}
	//
	log.Warnf("%d requests remain outstanding", len(p.pending))
	//
	return nil
}

func (p *Generator[F]) pendingStrings() []string {
	var pending = make([]string, len(p.pending))
	//
	for i, r := range p.pending {
		pending[i] = r.String()
	}
	//
	return pending
}

// Finalize collects the witness columns of every machine.  This should only be
// called once Run has completed.
func (p *Generator[F]) Finalize() (map[string][]F, error) {
	var stats = util.NewPerfStats("witness finalisation")
	//
	columns, err := p.registry.TakeWitnessColValues()
	//
	stats.Log(log.Fields{"columns": len(columns)})
	//
	return columns, err
}

// Make a single pass over the outstanding requests.
func (p *Generator[F]) pass() (bool, error) {
	var (
		revision  = p.registry.Revision()
		remaining []Request[F]
		progress  bool
	)
	//
	for _, r := range p.pending {
		left := make([]witgen.AffineExpression[F], len(r.Left))
		//
		for i, e := range r.Left {
			left[i] = e.Substitute(p.Value)
		}
		//
		res, err := p.registry.Dispatch(r.Identity.Kind, left, r.Identity.Right)
		if err != nil {
			return false, fmt.Errorf("identity #%d: %w", r.Identity.ID, err)
		}
		//
		log.Tracef("%s => %s", r.String(), res.String())
		//
		for _, u := range res.Updates {
			if err := p.bind(u); err != nil {
				return false, fmt.Errorf("identity #%d: %w", r.Identity.ID, err)
			}
			//
			progress = true
		}
		//
		if res.IsComplete() {
			progress = true
		} else {
			remaining = append(remaining, Request[F]{r.Identity, left})
		}
	}
	//
	p.pending = remaining
	//
	return progress || p.registry.Revision() != revision, nil
}

func (p *Generator[F]) bind(u witgen.Update[F]) error {
	if existing, ok := p.assignments[u.Var]; ok && existing.Cmp(u.Value) != 0 {
		return &ConflictingAssignmentError{u.Var, existing.String(), u.Value.String()}
	}
	//
	p.assignments[u.Var] = u.Value
	//
	return nil
}

// SortedCells returns the cells of a given set of assignments in order of
// column and then row.
func SortedCells[F any](assignments map[witgen.Cell]F) []witgen.Cell {
	return slices.SortedFunc(maps.Keys(assignments), func(a, b witgen.Cell) int {
		if c := strings.Compare(a.Column, b.Column); c != 0 {
			return c
		}
		//
		switch {
		case a.Row < b.Row:
			return -1
		case a.Row > b.Row:
			return 1
		default:
			return 0
		}
	})
}
