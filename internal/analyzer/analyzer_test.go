package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestAnalyze_InsecureDeploymentRestricted(t *testing.T) {
	a := New(Options{})
	result, err := a.Analyze(loadFixture(t, "deployment_insecure.yaml"), types.ProfileRestricted)
	require.NoError(t, err)

	assert.Equal(t, types.ProfileRestricted, result.Profile)
	assert.Equal(t, 9, result.IssueCount)
	require.Len(t, result.Issues, 9)

	// Pod-scoped findings lead, in catalog order.
	assert.Equal(t, "host-namespaces", result.Issues[0].RuleID)
	assert.Equal(t, "spec.template.spec.hostNetwork", result.Issues[0].Path)
	assert.Equal(t, "host-path-volumes", result.Issues[1].RuleID)
	assert.Equal(t, "spec.template.spec.volumes[0].hostPath", result.Issues[1].Path)

	require.Len(t, result.Documents, 1)
	doc := result.Documents[0]
	assert.Equal(t, "Deployment", doc.Kind)
	assert.Equal(t, "web", doc.Name)
	assert.Equal(t, "prod", doc.Namespace)
	require.NotNil(t, doc.Patch)
	assert.Contains(t, doc.KubectlPatch, "kubectl patch deployment web -n prod --type=strategic")

	// Single document needing changes, so the top-level patch is set.
	assert.Equal(t, doc.Patch, result.Patch)
}

func TestAnalyze_InsecureDeploymentBaseline(t *testing.T) {
	a := New(Options{})
	result, err := a.Analyze(loadFixture(t, "deployment_insecure.yaml"), types.ProfileBaseline)
	require.NoError(t, err)

	assert.Equal(t, 5, result.IssueCount)
	for _, issue := range result.Issues {
		assert.Equal(t, types.SeverityCritical, issue.Severity)
	}
}

func TestAnalyze_HardenedPodPassesRestricted(t *testing.T) {
	a := New(Options{})
	result, err := a.Analyze(loadFixture(t, "pod_hardened.yaml"), types.ProfileRestricted)
	require.NoError(t, err)

	assert.Equal(t, 0, result.IssueCount)
	assert.NotNil(t, result.Issues)
	assert.Empty(t, result.Issues)
	assert.Nil(t, result.Patch)

	require.Len(t, result.Documents, 1)
	assert.Nil(t, result.Documents[0].Patch)
	assert.Empty(t, result.Documents[0].KubectlPatch)
}

func TestAnalyze_UnsupportedKindOnly(t *testing.T) {
	manifest := "apiVersion: example.com/v1\nkind: CustomResource\nmetadata:\n  name: thing\n"

	a := New(Options{})
	_, err := a.Analyze(manifest, types.ProfileRestricted)

	var kindErr *types.UnsupportedKindError
	require.ErrorAs(t, err, &kindErr)
	assert.Equal(t, "CustomResource", kindErr.Kind)
	assert.Equal(t, 0, kindErr.DocIndex)
}

func TestAnalyze_EmptyInputs(t *testing.T) {
	a := New(Options{})

	for _, manifest := range []string{"", "   \n", "# only a comment\n---\n", "---\n---\n"} {
		_, err := a.Analyze(manifest, types.ProfileRestricted)
		var emptyErr *types.EmptyManifestError
		assert.ErrorAs(t, err, &emptyErr, "input %q", manifest)
	}
}

func TestAnalyze_MalformedSiblingDoesNotPoisonValidDocument(t *testing.T) {
	manifest := loadFixture(t, "pod_hardened.yaml") + "---\nkind: Pod\nspec: [unclosed\n"

	a := New(Options{})
	result, err := a.Analyze(manifest, types.ProfileRestricted)
	require.NoError(t, err)

	require.Len(t, result.Documents, 2)
	assert.Equal(t, "Pod", result.Documents[0].Kind)
	assert.Nil(t, result.Documents[0].Error)

	require.NotNil(t, result.Documents[1].Error)
	assert.Equal(t, 1, result.Documents[1].Index)
	assert.Equal(t, "ParseError", result.Documents[1].Error.Kind)
}

func TestAnalyze_MultipleDocumentsNeedingChanges(t *testing.T) {
	manifest := "kind: Pod\nmetadata:\n  name: a\nspec:\n  hostPID: true\n  containers:\n    - name: app\n" +
		"---\n" +
		"kind: Pod\nmetadata:\n  name: b\nspec:\n  hostIPC: true\n  containers:\n    - name: app\n"

	a := New(Options{})
	result, err := a.Analyze(manifest, types.ProfileBaseline)
	require.NoError(t, err)

	assert.Equal(t, 2, result.IssueCount)
	assert.Nil(t, result.Patch, "ambiguous across documents, top-level patch stays empty")

	require.Len(t, result.Documents, 2)
	assert.NotNil(t, result.Documents[0].Patch)
	assert.NotNil(t, result.Documents[1].Patch)
	assert.Contains(t, result.Documents[0].KubectlPatch, "kubectl patch pod a")
	assert.Contains(t, result.Documents[1].KubectlPatch, "kubectl patch pod b")
}

func TestAnalyze_PatchIsIdempotent(t *testing.T) {
	a := New(Options{})
	raw := loadFixture(t, "deployment_insecure.yaml")

	result, err := a.Analyze(raw, types.ProfileRestricted)
	require.NoError(t, err)
	require.NotNil(t, result.Patch)

	var obj map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(raw), &obj))

	fixed, err := json.Marshal(applyPatch(obj, result.Patch))
	require.NoError(t, err)

	again, err := a.Analyze(string(fixed), types.ProfileRestricted)
	require.NoError(t, err)
	assert.Equal(t, 0, again.IssueCount, "patched manifest must be clean, got %+v", again.Issues)
}

func TestAnalyze_RestrictedSupersetOfBaseline(t *testing.T) {
	a := New(Options{})
	raw := loadFixture(t, "deployment_insecure.yaml")

	baseline, err := a.Analyze(raw, types.ProfileBaseline)
	require.NoError(t, err)
	restricted, err := a.Analyze(raw, types.ProfileRestricted)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, restricted.IssueCount, baseline.IssueCount)
}

// applyPatch is a test-side strategic-merge apply: objects merge field by
// field, a null value deletes the field, and the pod-spec arrays are matched
// by merge key (containerPort for ports, name otherwise).
func applyPatch(obj, p map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for k, pv := range p {
		if pv == nil {
			delete(out, k)
			continue
		}
		switch typed := pv.(type) {
		case map[string]interface{}:
			base, _ := out[k].(map[string]interface{})
			out[k] = applyPatch(base, typed)
		case []interface{}:
			if isEntryList(typed) {
				base, _ := out[k].([]interface{})
				out[k] = mergeList(base, typed, mergeKeyFor(k))
			} else {
				// Scalar lists (capabilities) replace atomically.
				out[k] = typed
			}
		default:
			out[k] = pv
		}
	}
	return out
}

func isEntryList(list []interface{}) bool {
	if len(list) == 0 {
		return false
	}
	for _, item := range list {
		if _, ok := item.(map[string]interface{}); !ok {
			return false
		}
	}
	return true
}

func mergeKeyFor(field string) string {
	if field == "ports" {
		return "containerPort"
	}
	return "name"
}

func mergeList(base, patches []interface{}, key string) []interface{} {
	out := append([]interface{}(nil), base...)
	for _, item := range patches {
		entry, ok := item.(map[string]interface{})
		if !ok {
			out = append(out, item)
			continue
		}
		merged := false
		for i, existing := range out {
			ex, ok := existing.(map[string]interface{})
			if !ok || fmt.Sprint(ex[key]) != fmt.Sprint(entry[key]) {
				continue
			}
			out[i] = applyPatch(ex, entry)
			merged = true
			break
		}
		if !merged {
			out = append(out, entry)
		}
	}
	return out
}
