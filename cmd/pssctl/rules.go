package main

import (
	"github.com/spf13/cobra"

	"github.com/phng25/k8s-ai-sec-remediator/internal/catalog"
	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

var rulesProfile string

// RulesResult is the output of the rules command.
type RulesResult struct {
	CatalogVersion string         `json:"catalogVersion"`
	Profile        string         `json:"profile"`
	Rules          []catalog.Info `json:"rules"`
	Total          int            `json:"total"`
}

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the rules a profile enforces",
		Long: `List the Pod Security Standards rules enforced under a profile.

Examples:
  # List the restricted rule set
  pssctl rules

  # List only the baseline rules, as YAML
  pssctl rules --profile baseline -o yaml`,
		RunE: runRules,
	}

	cmd.Flags().StringVar(&rulesProfile, "profile", "restricted", "Profile to list rules for: baseline or restricted")

	return cmd
}

func runRules(cmd *cobra.Command, args []string) error {
	profile, err := types.ParseProfile(rulesProfile)
	if err != nil {
		return err
	}

	rules := catalog.InfoForProfile(profile)
	return outputResult(RulesResult{
		CatalogVersion: catalog.Version,
		Profile:        string(profile),
		Rules:          rules,
		Total:          len(rules),
	}, outputFmt)
}
