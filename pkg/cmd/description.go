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
package cmd

import (
	"fmt"
	"strings"

	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/r0qs/powdr/pkg/witgen/affine"
	"github.com/r0qs/powdr/pkg/witgen/generator"
	"gopkg.in/yaml.v3"
)

// Description is the (field agnostic) form of a circuit description file.  For
// example:
//
//	field: BLS12_377
//	degree: 4
//	fixed:
//	  - {name: ADDR, values: [0, 1, 2, 3]}
//	witness:
//	  - {name: v}
//	identities:
//	  - {id: 0, kind: plookup, right: [ADDR, v]}
//	requests:
//	  - {identity: 0, left: [{const: 2}, {terms: [{column: x, row: 0}]}]}
//
// Values are given as strings, so they can exceed 64 bits.
type Description struct {
	Field      string                `yaml:"field"`
	Degree     uint64                `yaml:"degree"`
	Fixed      []ColumnDescription   `yaml:"fixed"`
	Witness    []ColumnDescription   `yaml:"witness"`
	Identities []IdentityDescription `yaml:"identities"`
	Requests   []RequestDescription  `yaml:"requests"`
	// Cells bound before witness generation begins.
	Assignments []AssignmentDescription `yaml:"assignments"`
}

// ColumnDescription describes a fixed column, or a witness column with
// (optional) externally supplied values.
type ColumnDescription struct {
	Name   string   `yaml:"name"`
	Values []Scalar `yaml:"values"`
}

// IdentityDescription describes an identity.  Expressions are references to
// columns by name, where a trailing "'" refers to the next row.  Polynomial
// identities only have a left-hand side.
type IdentityDescription struct {
	ID       uint     `yaml:"id"`
	Kind     string   `yaml:"kind"`
	Left     []string `yaml:"left"`
	Right    []string `yaml:"right"`
	Selector string   `yaml:"selector"`
}

// RequestDescription describes a request made against an identity, where each
// argument is an affine expression over cells.
type RequestDescription struct {
	Identity uint                `yaml:"identity"`
	Left     []AffineDescription `yaml:"left"`
}

// AffineDescription describes the affine expression "c + a1*x1 + ... + an*xn".
type AffineDescription struct {
	Const Scalar            `yaml:"const"`
	Terms []TermDescription `yaml:"terms"`
}

// TermDescription describes a single term of an affine expression.  A missing
// coefficient is taken to be one.
type TermDescription struct {
	Column string `yaml:"column"`
	Row    uint64 `yaml:"row"`
	Coeff  Scalar `yaml:"coeff"`
}

// AssignmentDescription binds a cell to a value up front.
type AssignmentDescription struct {
	Column string `yaml:"column"`
	Row    uint64 `yaml:"row"`
	Value  Scalar `yaml:"value"`
}

// Scalar is the textual form of a field element.  An empty scalar is absent.
type Scalar string

// UnmarshalYAML accepts any scalar node (e.g. 1, "0x10" or -1) as text.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected scalar value", node.Line)
	}
	//
	*s = Scalar(node.Value)
	//
	return nil
}

// ParseDescription parses a circuit description from its YAML (or JSON) form.
func ParseDescription(bytes []byte) (*Description, error) {
	var desc Description
	//
	if err := yaml.Unmarshal(bytes, &desc); err != nil {
		return nil, err
	}
	//
	return &desc, nil
}

// Circuit is a description instantiated for a given field.
type Circuit[F field.Element[F]] struct {
	Fixed       *witgen.FixedData[F]
	Identities  []*witgen.Identity[F]
	Requests    []generator.Request[F]
	Assignments []witgen.Update[F]
}

// Build instantiates a description for a given field, where external provides
// values for witness columns in addition to any given in the description.
func Build[F field.Element[F]](desc *Description, external map[string][]F) (*Circuit[F], error) {
	var circuit Circuit[F]
	// Columns
	fixed, err := buildFixedData(desc, external)
	if err != nil {
		return nil, err
	}
	//
	circuit.Fixed = fixed
	// Identities
	for _, d := range desc.Identities {
		id, err := buildIdentity(fixed, d)
		if err != nil {
			return nil, fmt.Errorf("identity #%d: %w", d.ID, err)
		}
		//
		circuit.Identities = append(circuit.Identities, id)
	}
	// Requests
	for i, d := range desc.Requests {
		var (
			id   *witgen.Identity[F]
			left = make([]witgen.AffineExpression[F], len(d.Left))
		)
		//
		for _, c := range circuit.Identities {
			if c.ID == d.Identity {
				id = c
				break
			}
		}
		//
		if id == nil {
			return nil, fmt.Errorf("request %d: unknown identity #%d", i, d.Identity)
		}
		//
		for j, a := range d.Left {
			if left[j], err = buildAffine[F](a); err != nil {
				return nil, fmt.Errorf("request %d: %w", i, err)
			}
		}
		//
		circuit.Requests = append(circuit.Requests, generator.Request[F]{Identity: id, Left: left})
	}
	// Assignments
	for _, a := range desc.Assignments {
		value, err := parseScalar[F](a.Value, field.Zero[F]())
		if err != nil {
			return nil, fmt.Errorf("assignment to %s[%d]: %w", a.Column, a.Row, err)
		}
		//
		circuit.Assignments = append(circuit.Assignments,
			witgen.Update[F]{Var: witgen.Cell{Column: a.Column, Row: a.Row}, Value: value})
	}
	//
	return &circuit, nil
}

func buildFixedData[F field.Element[F]](desc *Description, external map[string][]F) (*witgen.FixedData[F], error) {
	var (
		fixed   = make([]witgen.FixedColumn[F], len(desc.Fixed))
		witness = make([]witgen.WitnessColumn[F], len(desc.Witness))
	)
	//
	for i, c := range desc.Fixed {
		values, err := parseScalars[F](c.Values)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		//
		fixed[i] = witgen.FixedColumn[F]{Name: c.Name, Values: values}
	}
	//
	for i, c := range desc.Witness {
		witness[i] = witgen.WitnessColumn[F]{Name: c.Name}
		//
		if values, ok := external[c.Name]; ok {
			witness[i].External = util.Some(values)
		} else if c.Values != nil {
			values, err := parseScalars[F](c.Values)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			//
			witness[i].External = util.Some(values)
		}
	}
	//
	for name := range external {
		if !hasColumn(desc.Witness, name) {
			return nil, fmt.Errorf("external values given for unknown witness column %s", name)
		}
	}
	//
	return witgen.NewFixedData(desc.Degree, fixed, witness)
}

func buildIdentity[F field.Element[F]](fixed *witgen.FixedData[F], d IdentityDescription) (*witgen.Identity[F],
	error) {
	var (
		kind  witgen.IdentityKind
		right *witgen.SelectedExpressions[F]
	)
	//
	switch strings.ToLower(d.Kind) {
	case "polynomial":
		kind = witgen.Polynomial
	case "plookup", "lookup", "":
		kind = witgen.Plookup
	case "permutation":
		kind = witgen.Permutation
	case "connect":
		kind = witgen.Connect
	default:
		return nil, fmt.Errorf("unknown identity kind \"%s\"", d.Kind)
	}
	//
	left, err := buildReferences(fixed, d.Left)
	if err != nil {
		return nil, err
	}
	//
	if kind != witgen.Polynomial {
		exprs, err := buildReferences(fixed, d.Right)
		if err != nil {
			return nil, err
		}
		//
		right = witgen.NewSelectedExpressions(exprs...)
		//
		if d.Selector != "" {
			selector, err := buildReference(fixed, d.Selector)
			if err != nil {
				return nil, err
			}
			//
			right = witgen.NewFilteredExpressions(selector, exprs...)
		}
	}
	//
	return &witgen.Identity[F]{ID: d.ID, Kind: kind, Left: witgen.NewSelectedExpressions(left...), Right: right}, nil
}

func buildReferences[F field.Element[F]](fixed *witgen.FixedData[F], names []string) ([]witgen.Expression[F],
	error) {
	var exprs = make([]witgen.Expression[F], len(names))
	//
	for i, name := range names {
		e, err := buildReference(fixed, name)
		if err != nil {
			return nil, err
		}
		//
		exprs[i] = e
	}
	//
	return exprs, nil
}

func buildReference[F field.Element[F]](fixed *witgen.FixedData[F], name string) (witgen.Expression[F], error) {
	var next = strings.HasSuffix(name, "'")
	//
	name = strings.TrimSuffix(name, "'")
	//
	poly, ok := fixed.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown column %s", name)
	}
	//
	return witgen.NewReference[F](name, poly, next), nil
}

func buildAffine[F field.Element[F]](d AffineDescription) (witgen.AffineExpression[F], error) {
	var terms = make([]affine.Term[witgen.Cell, F], len(d.Terms))
	//
	constant, err := parseScalar[F](d.Const, field.Zero[F]())
	if err != nil {
		return witgen.AffineExpression[F]{}, err
	}
	//
	for i, t := range d.Terms {
		coeff, err := parseScalar[F](t.Coeff, field.One[F]())
		if err != nil {
			return witgen.AffineExpression[F]{}, err
		}
		//
		terms[i] = affine.Term[witgen.Cell, F]{Var: witgen.Cell{Column: t.Column, Row: t.Row}, Coefficient: coeff}
	}
	//
	return affine.Linear(constant, terms...), nil
}

func parseScalars[F field.Element[F]](scalars []Scalar) ([]F, error) {
	var values = make([]F, len(scalars))
	//
	for i, s := range scalars {
		val, err := parseScalar[F](s, field.Zero[F]())
		if err != nil {
			return nil, err
		}
		//
		values[i] = val
	}
	//
	return values, nil
}

func parseScalar[F field.Element[F]](s Scalar, empty F) (F, error) {
	if s == "" {
		return empty, nil
	}
	//
	return field.Parse[F](string(s))
}

func hasColumn(columns []ColumnDescription, name string) bool {
	for _, c := range columns {
		if c.Name == name {
			return true
		}
	}
	//
	return false
}
