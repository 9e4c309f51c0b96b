package analyzer

import (
	"sort"

	"go.uber.org/zap"

	"github.com/phng25/k8s-ai-sec-remediator/internal/engine"
	"github.com/phng25/k8s-ai-sec-remediator/internal/extract"
	"github.com/phng25/k8s-ai-sec-remediator/internal/patch"
	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// Analyzer runs the extract / evaluate / synthesize pipeline over manifest
// text. It is stateless and safe for concurrent use.
type Analyzer struct {
	logger *zap.Logger
}

// Options configures an Analyzer. The zero value is usable.
type Options struct {
	// Logger receives per-analysis diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// New creates an Analyzer.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Analyze checks manifest text against the given profile and returns the
// violations plus corrective patches.
//
// The error return is reserved for inputs where nothing could be analyzed:
// an empty manifest (EmptyManifestError), or one where every document
// failed extraction (the first document's typed error is returned). When at
// least one pod template was found, per-document failures are reported
// inside the result and never poison their siblings.
func (a *Analyzer) Analyze(manifest string, profile types.Profile) (*types.AnalysisResult, error) {
	templates, docErrs, err := extract.Extract(manifest)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		// Extract guarantees every document yields a template or an error.
		return nil, docErrs[0].Cause
	}

	violations := engine.Evaluate(templates, profile)

	patches, err := patch.Synthesize(templates, violations)
	if err != nil {
		return nil, err
	}

	result := &types.AnalysisResult{
		Profile:    profile,
		IssueCount: len(violations),
		Issues:     violations,
	}
	if result.Issues == nil {
		result.Issues = []types.Violation{}
	}

	documents, err := buildDocuments(templates, docErrs, patches)
	if err != nil {
		return nil, err
	}
	result.Documents = documents

	// The top-level patch is only unambiguous when exactly one document
	// needs changes; otherwise callers read the per-document patches.
	if len(patches) == 1 {
		for _, p := range patches {
			result.Patch = p
		}
	}

	a.logger.Info("analyzed manifest",
		zap.String("profile", string(profile)),
		zap.Int("documents", len(documents)),
		zap.Int("templates", len(templates)),
		zap.Int("issues", result.IssueCount),
		zap.Int("documentErrors", len(docErrs)))

	return result, nil
}

// buildDocuments assembles the per-document breakdown, interleaving analyzed
// templates and failed documents in input order.
func buildDocuments(templates []types.PodTemplate, docErrs []types.DocumentError, patches map[int]map[string]interface{}) ([]types.DocumentResult, error) {
	documents := make([]types.DocumentResult, 0, len(templates)+len(docErrs))

	for i := range templates {
		tpl := &templates[i]
		doc := types.DocumentResult{
			Index:     tpl.DocIndex,
			Kind:      tpl.Kind,
			Name:      tpl.Name,
			Namespace: tpl.Namespace,
		}
		if p, ok := patches[tpl.DocIndex]; ok {
			doc.Patch = p
			cmd, err := patch.KubectlCommand(tpl.Kind, tpl.Name, tpl.Namespace, p)
			if err != nil {
				return nil, err
			}
			doc.KubectlPatch = cmd
		}
		documents = append(documents, doc)
	}

	for i := range docErrs {
		de := docErrs[i]
		documents = append(documents, types.DocumentResult{
			Index: de.Index,
			Error: &de,
		})
	}

	sort.Slice(documents, func(i, j int) bool { return documents[i].Index < documents[j].Index })
	return documents, nil
}
