// pssctl is a CLI for analyzing Kubernetes manifests against the Pod
// Security Standards without a cluster.
//
// Installation:
//
//	go build -o pssctl ./cmd/pssctl
//	mv pssctl /usr/local/bin/
//
// Usage:
//
//	pssctl analyze -f deployment.yaml
//	pssctl analyze -f deployment.yaml --profile baseline -o json
//	pssctl rules --profile restricted
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	outputFmt string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pssctl",
		Short: "Analyze manifests against the Pod Security Standards",
		Long: `pssctl checks Kubernetes manifests against the Pod Security Standards
baseline and restricted profiles, entirely offline.

It reports every violating field with a suggested value and emits a
minimal strategic-merge patch that makes the manifest compliant.`,
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(rulesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
