package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phng25/k8s-ai-sec-remediator/internal/analyzer"
	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

var (
	analyzeFile    string
	analyzeProfile string
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a manifest against a Pod Security Standards profile",
		Long: `Analyze a manifest and report every field violating the profile,
along with a strategic-merge patch that fixes them.

Examples:
  # Analyze a manifest file against the restricted profile
  pssctl analyze -f deployment.yaml

  # Analyze against baseline, output as JSON
  pssctl analyze -f deployment.yaml --profile baseline -o json

  # Read from stdin
  kubectl get deploy web -o yaml | pssctl analyze -f -`,
		RunE: runAnalyze,
	}

	cmd.Flags().StringVarP(&analyzeFile, "filename", "f", "", "Manifest file to analyze, or - for stdin (required)")
	cmd.Flags().StringVar(&analyzeProfile, "profile", "restricted", "Profile to enforce: baseline or restricted")
	cmd.MarkFlagRequired("filename")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if analyzeFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(analyzeFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}

	profile, err := types.ParseProfile(analyzeProfile)
	if err != nil {
		return err
	}

	a := analyzer.New(analyzer.Options{})
	result, err := a.Analyze(string(data), profile)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return outputResult(result, outputFmt)
}
