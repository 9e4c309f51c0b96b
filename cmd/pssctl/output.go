package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// outputResult outputs the result in the specified format.
func outputResult(result interface{}, format string) error {
	switch format {
	case "json":
		return outputJSON(result)
	case "yaml":
		return outputYAML(result)
	default:
		return outputTable(result)
	}
}

func outputJSON(result interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(result interface{}) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputTable(result interface{}) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	switch r := result.(type) {
	case *types.AnalysisResult:
		return outputAnalysisTable(w, r)
	case RulesResult:
		return outputRulesTable(w, r)
	default:
		// Fall back to JSON for unknown types
		return outputJSON(result)
	}
}

func outputAnalysisTable(w *tabwriter.Writer, r *types.AnalysisResult) error {
	status := "PASS"
	if r.IssueCount > 0 {
		status = "FAIL"
	}

	fmt.Fprintf(w, "PROFILE:\t%s\n", r.Profile)
	fmt.Fprintf(w, "STATUS:\t%s\n", status)
	fmt.Fprintf(w, "ISSUES:\t%d\n\n", r.IssueCount)

	if len(r.Issues) > 0 {
		fmt.Fprintln(w, "RULE\tSEVERITY\tDOC\tPATH")
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", issue.RuleID, issue.Severity, issue.DocIndex, issue.Path)
		}
	}

	for _, doc := range r.Documents {
		if doc.Error != nil {
			fmt.Fprintf(w, "\nDOCUMENT %d:\t%s: %s\n", doc.Index, doc.Error.Kind, doc.Error.Message)
			continue
		}
		if doc.KubectlPatch != "" {
			fmt.Fprintf(w, "\nFIX %s/%s:\n", doc.Kind, doc.Name)
			fmt.Fprintf(w, "  $ %s\n", doc.KubectlPatch)
		}
	}

	return nil
}

func outputRulesTable(w *tabwriter.Writer, r RulesResult) error {
	fmt.Fprintf(w, "CATALOG:\t%s\n", r.CatalogVersion)
	fmt.Fprintf(w, "PROFILE:\t%s\n", r.Profile)
	fmt.Fprintf(w, "TOTAL:\t%d\n\n", r.Total)

	fmt.Fprintln(w, "ID\tTIER\tSCOPE\tSEVERITY\tDESCRIPTION")
	for _, rule := range r.Rules {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rule.ID, rule.Profile, rule.Scope, rule.Severity, rule.Description)
	}

	return nil
}
