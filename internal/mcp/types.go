package mcp

import (
	"github.com/phng25/k8s-ai-sec-remediator/internal/catalog"
)

// --- Tool: analyze_manifest_for_pss ---

type AnalyzeParams struct {
	// ManifestYAML is one or more YAML/JSON documents to analyze.
	ManifestYAML string `json:"manifest_yaml"`
	// Profile is "baseline" or "restricted". Empty defaults to restricted.
	Profile string `json:"profile,omitempty"`
}

// --- Tool: list_pss_rules ---

type ListRulesParams struct {
	Profile string `json:"profile,omitempty"`
}

type ListRulesResult struct {
	CatalogVersion string         `json:"catalogVersion"`
	Profile        string         `json:"profile"`
	Rules          []catalog.Info `json:"rules"`
	Total          int            `json:"total"`
}

// --- Errors ---

// ErrorBody is the JSON error envelope for failed tool calls.
type ErrorBody struct {
	Kind     string `json:"kind"`
	DocIndex int    `json:"docIndex"`
	Message  string `json:"message"`
}

// --- Resources ---

type HealthResponse struct {
	Status         string     `json:"status"`
	CatalogVersion string     `json:"catalogVersion"`
	Rules          RuleCounts `json:"rules"`
	SupportedKinds []string   `json:"supportedKinds"`
}

type RuleCounts struct {
	Baseline   int `json:"baseline"`
	Restricted int `json:"restricted"`
}
