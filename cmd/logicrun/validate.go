package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plus3/ooftn-logic/internal/scenario"
	"github.com/plus3/ooftn-logic/module"
)

// GraphReport lists the problems found in one graph.
type GraphReport struct {
	ID       string           `json:"id"`
	Name     string           `json:"name,omitempty"`
	Problems []module.Problem `json:"problems,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool          `json:"valid"`
	Graphs []GraphReport `json:"graphs"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check module graphs for structural problems",
		Long: `Check the module graphs of a scenario or a module library file for
missing entry nodes, dangling edges, unknown node kinds and unreachable nodes.
The interpreter tolerates all of these; validate reports them.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			graphs, err := loadGraphs(args[0])
			if err != nil {
				return err
			}
			result := validateGraphs(graphs)
			if err := writeValidation(cmd.OutOrStdout(), rootOpts.Format, result); err != nil {
				return err
			}
			if !result.Valid {
				return fmt.Errorf("%s: module graphs have problems", args[0])
			}
			return nil
		},
	}
	return cmd
}

// loadGraphs reads a scenario file, falling back to a plain graph library.
func loadGraphs(path string) ([]*module.Graph, error) {
	sc, scErr := scenario.Load(path)
	if scErr == nil {
		return sc.Modules, nil
	}
	lib, libErr := module.LoadLibrary(path)
	if libErr != nil {
		return nil, fmt.Errorf("not a scenario (%v) or module library (%w)", scErr, libErr)
	}
	return lib.Graphs(), nil
}

func validateGraphs(graphs []*module.Graph) ValidationResult {
	result := ValidationResult{Valid: true, Graphs: make([]GraphReport, 0, len(graphs))}
	for _, g := range graphs {
		report := GraphReport{ID: g.ID, Name: g.Name, Problems: g.Validate()}
		if len(report.Problems) > 0 {
			result.Valid = false
		}
		result.Graphs = append(result.Graphs, report)
	}
	return result
}

func writeValidation(w io.Writer, format string, result ValidationResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	for _, g := range result.Graphs {
		if len(g.Problems) == 0 {
			fmt.Fprintf(w, "✓ %s\n", g.ID)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", g.ID)
		for _, p := range g.Problems {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	if result.Valid {
		fmt.Fprintf(w, "✓ All %d graph(s) valid\n", len(result.Graphs))
	}
	return nil
}
