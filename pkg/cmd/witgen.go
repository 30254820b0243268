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
	"io"
	"maps"
	"os"
	"slices"

	"github.com/r0qs/powdr/pkg/trace/json"
	"github.com/r0qs/powdr/pkg/util"
	"github.com/r0qs/powdr/pkg/util/field"
	"github.com/r0qs/powdr/pkg/util/field/bls12_377"
	"github.com/r0qs/powdr/pkg/util/field/koalabear"
	"github.com/r0qs/powdr/pkg/witgen"
	"github.com/r0qs/powdr/pkg/witgen/generator"
	"github.com/r0qs/powdr/pkg/witgen/machines"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var witgenCmd = &cobra.Command{
	Use:   "witgen [flags] circuit_file",
	Short: "Generate the witness columns of a circuit.",
	Long: `Generate the witness columns of a circuit, by repeatedly processing
	its requests until no further progress can be made.  Circuits are given as
	YAML (or JSON) files.`,
	Run: func(cmd *cobra.Command, args []string) {
		var cfg witgenConfig
		//
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if getFlag(cmd, "trace") {
			log.SetLevel(log.TraceLevel)
		} else if getFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		cfg.field = getString(cmd, "field")
		cfg.external = getString(cmd, "external")
		cfg.output = getString(cmd, "output")
		cfg.generator.AllowIncomplete = getFlag(cmd, "allow-incomplete")
		cfg.generator.MaxPasses = getUint(cmd, "max-passes")
		//
		stats := util.NewPerfStats("reading circuit file")
		desc := readDescriptionFile(args[0])
		//
		stats.Log(log.Fields{"file": args[0]})
		// Flag takes precedence over the circuit file
		if cfg.field == "" {
			cfg.field = desc.Field
		}
		//
		if err := runWitgen(desc, cfg, os.Stdout); err != nil {
			log.Error(err)
			os.Exit(2)
		}
	},
}

// witgen config encapsulates the parameters of witness generation.
type witgenConfig struct {
	// Name of field to use
	field string
	// File holding external witness values (if any)
	external string
	// File to write witness to (if any)
	output string
	// Configuration for the fixed-point iteration
	generator generator.Config
}

// Run witness generation over whichever field is selected.
func runWitgen(desc *Description, cfg witgenConfig, out io.Writer) error {
	var config = field.BLS12_377
	//
	if cfg.field != "" {
		c := field.GetConfig(cfg.field)
		if c == nil {
			return fmt.Errorf("unknown field %s", cfg.field)
		}
		//
		config = *c
	}
	//
	log.Debugf("using field %s (%d bits)", config.Name, config.BitWidth)
	//
	switch config.Name {
	case field.KOALABEAR.Name:
		return generateWitness[koalabear.Element](desc, cfg, out)
	default:
		return generateWitness[bls12_377.Element](desc, cfg, out)
	}
}

func generateWitness[F field.Element[F]](desc *Description, cfg witgenConfig, out io.Writer) error {
	var external map[string][]F
	//
	if cfg.external != "" {
		bytes, err := os.ReadFile(cfg.external)
		if err != nil {
			return err
		} else if external, err = json.FromBytes[F](bytes); err != nil {
			return fmt.Errorf("%s: %w", cfg.external, err)
		}
	}
	//
	circuit, err := Build(desc, external)
	if err != nil {
		return err
	}
	//
	registry, err := machines.Split(circuit.Fixed, circuit.Identities)
	if err != nil {
		return err
	}
	//
	for _, m := range registry.Machines() {
		log.Debugf("identified %s", m.Name())
	}
	//
	gen := generator.New(registry, cfg.generator)
	//
	for _, a := range circuit.Assignments {
		if err := gen.Assign(a.Var, a.Value); err != nil {
			return err
		}
	}
	//
	gen.Submit(circuit.Requests...)
	//
	if err := gen.Run(); err != nil {
		return err
	}
	//
	columns, err := gen.Finalize()
	if err != nil {
		return err
	}
	//
	return writeWitness(out, cfg.output, columns, gen.Assignments())
}

// Write out the witness.  This goes to the output file if one is given.
// Otherwise, it is printed as a table when writing to a terminal, or as JSON
// when not.
func writeWitness[F field.Element[F]](out io.Writer, output string, columns map[string][]F,
	assignments map[witgen.Cell]F) error {
	//
	if output != "" {
		return os.WriteFile(output, []byte(json.ToJsonString(columns)), 0644)
	} else if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := fmt.Fprintln(out, json.ToJsonString(columns))
		return err
	}
	//
	width, _, err := term.GetSize(int(out.(*os.File).Fd()))
	if err != nil {
		width = 80
	}
	//
	columnTable(columns).Print(out)
	fmt.Fprintln(out)
	assignmentTable(assignments, uint(width)).Print(out)
	//
	return nil
}

// Construct a table with one row per trace row, and one column per witness
// column.
func columnTable[F field.Element[F]](columns map[string][]F) *util.TablePrinter {
	var (
		names  = slices.Sorted(maps.Keys(columns))
		height uint
	)
	//
	for _, name := range names {
		height = max(height, uint(len(columns[name])))
	}
	//
	table := util.NewTablePrinter(uint(len(names))+1, height+1)
	table.Set(0, 0, "")
	//
	for i, name := range names {
		table.Set(uint(i)+1, 0, name)
		//
		for row, val := range columns[name] {
			table.Set(uint(i)+1, uint(row)+1, val.String())
		}
	}
	//
	for row := range height {
		table.Set(0, row+1, fmt.Sprintf("%d", row))
	}
	//
	return table
}

// Construct a table of the cells bound during witness generation.
func assignmentTable[F field.Element[F]](assignments map[witgen.Cell]F, width uint) *util.TablePrinter {
	var (
		cells = generator.SortedCells(assignments)
		table = util.NewTablePrinter(2, uint(len(cells)))
	)
	//
	for i, c := range cells {
		table.SetRow(uint(i), c.String(), assignments[c].String())
	}
	// Leave room for the cell and the separators
	table.SetMaxWidth(max(width/2, 8))
	//
	return table
}

// Read a circuit description file, or exit.
func readDescriptionFile(filename string) *Description {
	bytes, err := os.ReadFile(filename)
	if err == nil {
		var desc *Description
		//
		if desc, err = ParseDescription(bytes); err == nil {
			return desc
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

func init() {
	rootCmd.AddCommand(witgenCmd)
	witgenCmd.Flags().String("field", "", "field to generate witness over (KOALABEAR or BLS12_377)")
	witgenCmd.Flags().String("external", "", "JSON file of externally supplied witness values")
	witgenCmd.Flags().StringP("output", "o", "", "JSON file to write witness to")
	witgenCmd.Flags().Bool("allow-incomplete", false, "permit requests to remain outstanding")
	witgenCmd.Flags().Uint("max-passes", 0, "bound the number of passes made (0 for unbounded)")
}
