// Package mcp exposes the analyzer to AI agents over HTTP.
//
// # Endpoints
//
// Tools are POST endpoints under /tools/, resources are GET endpoints under
// /resources/, and the MCP protocol listings live at /mcp/tools and
// /mcp/resources:
//
//	POST /tools/analyze_manifest_for_pss   analyze a manifest against a profile
//	POST /tools/list_pss_rules             list the rules a profile enforces
//	GET  /resources/health                 operational health
//	GET  /resources/capabilities           catalog version, rule counts, kinds
//
// # Errors
//
// Tool failures carry a structured body ({"error": {kind, docIndex,
// message}}). Unparseable or empty inputs are 400s; inputs that parse but
// name an unsupported kind are 422s, so callers can tell "fix your YAML"
// apart from "this resource type is not analyzable".
package mcp
