package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/defect-triage/internal/cli"
	"github.com/Veraticus/defect-triage/internal/config"
	"github.com/Veraticus/defect-triage/internal/model"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score TEXT...",
		Short: "Show how a defect summary would be categorized",
		Long: `Score a single defect summary against the catalog and show the chosen
category with the per-category keyword breakdown.

Examples:
  triage score "User cannot reset password, login fails"
  triage score --json sync issue with MCC`,
		Args: cobra.MinimumNArgs(1),
		RunE: runScore,
	}
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

type scoreOutput struct {
	Text       string           `json:"text"`
	Assignment model.Assignment `json:"assignment"`
	Scores     model.ScoreTable `json:"scores"`
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	categorizer, err := newCategorizer(cfg.Catalog)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	a, table := categorizer.Explain(text)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(scoreOutput{Text: text, Assignment: a, Scores: table.Matched()})
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderScores(text, a, table))
	return nil
}
