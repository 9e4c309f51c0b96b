package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestExtract_CronJob(t *testing.T) {
	templates, docErrs, err := Extract(loadFixture(t, "cronjob.yaml"))
	require.NoError(t, err)
	assert.Empty(t, docErrs)
	require.Len(t, templates, 1)

	tpl := templates[0]
	assert.Equal(t, "CronJob", tpl.Kind)
	assert.Equal(t, "backup", tpl.Name)
	assert.Equal(t, "ops", tpl.Namespace)
	assert.Equal(t, "spec.jobTemplate.spec.template.spec", tpl.BasePath)

	// initContainers come first, each keeping its origin array and index.
	require.Len(t, tpl.Containers, 2)
	assert.Equal(t, types.OriginInitContainers, tpl.Containers[0].Origin)
	assert.Equal(t, "prepare", tpl.Containers[0].Name)
	assert.Equal(t, 0, tpl.Containers[0].Index)
	assert.Equal(t, types.OriginContainers, tpl.Containers[1].Origin)
	assert.Equal(t, "backup", tpl.Containers[1].Name)

	sc := tpl.Containers[1].SecurityContext
	require.NotNil(t, sc)
	require.NotNil(t, sc.RunAsNonRoot)
	assert.True(t, *sc.RunAsNonRoot)
	require.NotNil(t, sc.RunAsUser)
	assert.Equal(t, int64(1000), *sc.RunAsUser)
	assert.Equal(t, []string{"ALL"}, sc.CapabilitiesDrop)
	assert.Nil(t, sc.Privileged, "unset fields stay nil")
}

func TestExtract_MultiDocumentIsolation(t *testing.T) {
	templates, docErrs, err := Extract(loadFixture(t, "multi_doc.yaml"))
	require.NoError(t, err)

	// Two of the four documents fail, the other two are still extracted
	// under their original indices.
	require.Len(t, templates, 2)
	require.Len(t, docErrs, 2)

	pod := templates[0]
	assert.Equal(t, 0, pod.DocIndex)
	assert.Equal(t, "Pod", pod.Kind)
	assert.True(t, pod.HostPID)
	require.Len(t, pod.Containers, 1)
	require.Len(t, pod.Containers[0].Ports, 1)
	assert.Equal(t, int64(8080), pod.Containers[0].Ports[0].ContainerPort)
	assert.Equal(t, int64(80), pod.Containers[0].Ports[0].HostPort)

	deploy := templates[1]
	assert.Equal(t, 3, deploy.DocIndex)
	assert.Equal(t, "Deployment", deploy.Kind)
	assert.Equal(t, "spec.template.spec", deploy.BasePath)
	require.NotNil(t, deploy.SecurityContext)
	assert.Equal(t, "Unconfined", deploy.SecurityContext.SeccompProfileType)

	// Volume indices are preserved; only hostPath volumes are flagged.
	require.Len(t, deploy.Volumes, 2)
	assert.False(t, deploy.Volumes[0].HasHostPath)
	assert.True(t, deploy.Volumes[1].HasHostPath)
	assert.Equal(t, 1, deploy.Volumes[1].Index)
	assert.Equal(t, "/etc", deploy.Volumes[1].HostPathPath)

	assert.Equal(t, 1, docErrs[0].Index)
	assert.Equal(t, "UnsupportedKindError", docErrs[0].Kind)
	assert.Contains(t, docErrs[0].Message, "CustomResource")

	assert.Equal(t, 2, docErrs[1].Index)
	assert.Equal(t, "ParseError", docErrs[1].Kind)
}

func TestExtract_JSONDocument(t *testing.T) {
	manifest := `{"apiVersion":"v1","kind":"Pod","metadata":{"name":"web"},"spec":{"hostNetwork":true,"containers":[{"name":"app"}]}}`

	templates, docErrs, err := Extract(manifest)
	require.NoError(t, err)
	assert.Empty(t, docErrs)
	require.Len(t, templates, 1)
	assert.True(t, templates[0].HostNetwork)
}

func TestExtract_EmptyInputs(t *testing.T) {
	// Blank text, comments, and bare separators are a valid zero-document
	// stream, so they are not parse failures.
	for _, raw := range []string{"", "   \n\t", "# comment only\n", "---\n---\n"} {
		_, _, err := Extract(raw)
		var emptyErr *types.EmptyManifestError
		assert.ErrorAs(t, err, &emptyErr, "input %q", raw)
		var parseErr *types.ParseError
		assert.False(t, errors.As(err, &parseErr), "input %q must not be a parse error", raw)
	}
}

func TestExtract_DocumentWithoutKind(t *testing.T) {
	_, docErrs, err := Extract("metadata:\n  name: anonymous\n")
	require.NoError(t, err)
	require.Len(t, docErrs, 1)
	assert.Equal(t, "ParseError", docErrs[0].Kind)
	assert.Contains(t, docErrs[0].Message, "kind")
}

func TestExtract_WorkloadWithoutTemplate(t *testing.T) {
	_, docErrs, err := Extract("apiVersion: apps/v1\nkind: Deployment\nmetadata:\n  name: broken\nspec:\n  replicas: 1\n")
	require.NoError(t, err)
	require.Len(t, docErrs, 1)
	assert.Equal(t, "ParseError", docErrs[0].Kind)
	assert.Contains(t, docErrs[0].Message, "spec.template.spec")
}

func TestExtract_PodWithoutContainers(t *testing.T) {
	templates, docErrs, err := Extract("kind: Pod\nmetadata:\n  name: bare\nspec:\n  hostIPC: true\n")
	require.NoError(t, err)
	assert.Empty(t, docErrs)
	require.Len(t, templates, 1)
	assert.Empty(t, templates[0].Containers)
	assert.True(t, templates[0].HostIPC)
}

func TestExtract_RawIsDetachedCopy(t *testing.T) {
	templates, _, err := Extract("kind: Pod\nspec:\n  hostNetwork: true\n  containers:\n    - name: app\n")
	require.NoError(t, err)
	require.Len(t, templates, 1)

	raw := templates[0].Raw
	require.NotNil(t, raw)
	assert.Equal(t, true, raw["hostNetwork"])

	// Mutating Raw must not affect a fresh extraction of the same input.
	raw["hostNetwork"] = false
	again, _, err := Extract("kind: Pod\nspec:\n  hostNetwork: true\n  containers:\n    - name: app\n")
	require.NoError(t, err)
	assert.Equal(t, true, again[0].Raw["hostNetwork"])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("Pod", "spec"))

	err := r.Register("Pod", "spec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	err = r.Register("Empty")
	require.Error(t, err)

	path, ok := r.TemplatePath("Pod")
	require.True(t, ok)
	assert.Equal(t, []string{"spec"}, path)

	_, ok = r.TemplatePath("Deployment")
	assert.False(t, ok)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{
		"CronJob", "DaemonSet", "Deployment", "Job", "Pod", "ReplicaSet", "StatefulSet",
	}, r.Kinds())

	base, ok := r.BasePath("CronJob")
	require.True(t, ok)
	assert.Equal(t, "spec.jobTemplate.spec.template.spec", base)
}
