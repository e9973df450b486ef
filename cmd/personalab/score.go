package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/personalab/internal/model"
	"github.com/MikeSquared-Agency/personalab/internal/persona"
)

func newScoreCmd() *cobra.Command {
	var (
		file      string
		rulesFile string
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Derive a persona from a test run JSON file without storing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read run file: %w", err)
			}
			var run model.TestRun
			if err := json.Unmarshal(data, &run); err != nil {
				return fmt.Errorf("parse run file: %w", err)
			}

			rules, err := loadRules(rulesFile)
			if err != nil {
				return err
			}

			p := persona.Derive(rules, persona.NewNamer(seed), run)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a test run JSON document")
	cmd.Flags().StringVar(&rulesFile, "rules", "", "YAML scoring rules (defaults to built-in table)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "name generator seed (0 = time-seeded)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
