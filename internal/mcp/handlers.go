package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/phng25/k8s-ai-sec-remediator/internal/analyzer"
	"github.com/phng25/k8s-ai-sec-remediator/internal/catalog"
	"github.com/phng25/k8s-ai-sec-remediator/internal/extract"
	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// Handlers implements the MCP tool and resource handlers.
type Handlers struct {
	logger   *zap.Logger
	analyzer *analyzer.Analyzer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(a *analyzer.Analyzer, logger *zap.Logger) *Handlers {
	return &Handlers{
		logger:   logger.Named("mcp-handlers"),
		analyzer: a,
	}
}

// HandleAnalyze handles the analyze_manifest_for_pss tool.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var params AnalyzeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if params.ManifestYAML == "" {
		h.writeError(w, "manifest_yaml is required", http.StatusBadRequest)
		return
	}

	profile, err := types.ParseProfile(params.Profile)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.analyzer.Analyze(params.ManifestYAML, profile)
	if err != nil {
		h.writeAnalysisError(w, err)
		return
	}

	h.writeJSON(w, result)
}

// HandleListRules handles the list_pss_rules tool. The tool has no required
// parameters, so an empty request body lists the default profile.
func (h *Handlers) HandleListRules(w http.ResponseWriter, r *http.Request) {
	var params ListRulesParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := types.ParseProfile(params.Profile)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	rules := catalog.InfoForProfile(profile)
	h.writeJSON(w, ListRulesResult{
		CatalogVersion: catalog.Version,
		Profile:        string(profile),
		Rules:          rules,
		Total:          len(rules),
	})
}

// HandleHealthResource handles the health resource.
func (h *Handlers) HandleHealthResource(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, HealthResponse{
		Status:         "healthy",
		CatalogVersion: catalog.Version,
		Rules:          ruleCounts(),
		SupportedKinds: extract.DefaultRegistry().Kinds(),
	})
}

// HandleCapabilitiesResource handles the capabilities resource.
func (h *Handlers) HandleCapabilitiesResource(w http.ResponseWriter, r *http.Request) {
	counts := ruleCounts()
	h.writeJSON(w, map[string]interface{}{
		"catalogVersion": catalog.Version,
		"profiles":       []string{string(types.ProfileBaseline), string(types.ProfileRestricted)},
		"rules":          counts,
		"totalRules":     counts.Baseline + counts.Restricted,
		"supportedKinds": extract.DefaultRegistry().Kinds(),
	})
}

func ruleCounts() RuleCounts {
	var counts RuleCounts
	for _, r := range catalog.Rules() {
		switch r.Profile {
		case types.ProfileBaseline:
			counts.Baseline++
		case types.ProfileRestricted:
			counts.Restricted++
		}
	}
	return counts
}

// writeAnalysisError maps typed analysis errors onto HTTP statuses: inputs
// that could not be parsed or carry nothing to analyze are 400s, inputs
// that parsed but name an unsupported kind are 422s.
func (h *Handlers) writeAnalysisError(w http.ResponseWriter, err error) {
	body := ErrorBody{Kind: "ParseError", Message: err.Error()}
	status := http.StatusBadRequest

	var kindErr *types.UnsupportedKindError
	var emptyErr *types.EmptyManifestError
	var parseErr *types.ParseError
	switch {
	case errors.As(err, &kindErr):
		body.Kind = "UnsupportedKindError"
		body.DocIndex = kindErr.DocIndex
		status = http.StatusUnprocessableEntity
	case errors.As(err, &emptyErr):
		body.Kind = "EmptyManifestError"
	case errors.As(err, &parseErr):
		body.DocIndex = parseErr.DocIndex
	}

	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]ErrorBody{"error": body}); encErr != nil {
		h.logger.Error("Failed to encode error response", zap.Error(encErr))
	}
}

// writeJSON writes a JSON response.
func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}

// writeError writes a plain error response.
func (h *Handlers) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
