package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// captureStdout redirects os.Stdout for the duration of fn and returns
// whatever was written to it.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	r.Close()

	return buf.String()
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const insecurePodYAML = `apiVersion: v1
kind: Pod
metadata:
  name: web
spec:
  hostNetwork: true
  containers:
    - name: app
      image: nginx:1.27
`

// ---------------------------------------------------------------------------
// analyzeCmd constructor
// ---------------------------------------------------------------------------

func TestAnalyzeCmd(t *testing.T) {
	cmd := analyzeCmd()

	assert.Equal(t, "analyze", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.RunE)

	f := cmd.Flags().Lookup("filename")
	require.NotNil(t, f)
	assert.Equal(t, "f", f.Shorthand)

	p := cmd.Flags().Lookup("profile")
	require.NotNil(t, p)
	assert.Equal(t, "restricted", p.DefValue)
}

func TestRulesCmd(t *testing.T) {
	cmd := rulesCmd()

	assert.Equal(t, "rules", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	require.NotNil(t, cmd.Flags().Lookup("profile"))
}

// ---------------------------------------------------------------------------
// runAnalyze
// ---------------------------------------------------------------------------

func TestRunAnalyze_JSON(t *testing.T) {
	analyzeFile = writeManifest(t, insecurePodYAML)
	analyzeProfile = "baseline"
	outputFmt = "json"

	var runErr error
	output := captureStdout(t, func() {
		runErr = runAnalyze(nil, nil)
	})
	require.NoError(t, runErr)

	var result types.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, types.ProfileBaseline, result.Profile)
	assert.Equal(t, 1, result.IssueCount)
	assert.Equal(t, "host-namespaces", result.Issues[0].RuleID)
}

func TestRunAnalyze_Table(t *testing.T) {
	analyzeFile = writeManifest(t, insecurePodYAML)
	analyzeProfile = "restricted"
	outputFmt = "table"

	var runErr error
	output := captureStdout(t, func() {
		runErr = runAnalyze(nil, nil)
	})
	require.NoError(t, runErr)

	assert.Contains(t, output, "STATUS:")
	assert.Contains(t, output, "FAIL")
	assert.Contains(t, output, "host-namespaces")
	assert.Contains(t, output, "kubectl patch pod web")
}

func TestRunAnalyze_MissingFile(t *testing.T) {
	analyzeFile = filepath.Join(t.TempDir(), "nope.yaml")
	outputFmt = "json"

	err := runAnalyze(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}

func TestRunAnalyze_BadProfile(t *testing.T) {
	analyzeFile = writeManifest(t, insecurePodYAML)
	analyzeProfile = "paranoid"

	err := runAnalyze(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paranoid")
}

// ---------------------------------------------------------------------------
// runRules
// ---------------------------------------------------------------------------

func TestRunRules_JSON(t *testing.T) {
	rulesProfile = "baseline"
	outputFmt = "json"

	var runErr error
	output := captureStdout(t, func() {
		runErr = runRules(nil, nil)
	})
	require.NoError(t, runErr)

	var result RulesResult
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, 6, result.Total)
	assert.Equal(t, "baseline", result.Profile)
}

func TestRunRules_Table(t *testing.T) {
	rulesProfile = "restricted"
	outputFmt = "table"

	var runErr error
	output := captureStdout(t, func() {
		runErr = runRules(nil, nil)
	})
	require.NoError(t, runErr)

	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "run-as-non-root")
	assert.Contains(t, output, "seccomp-unconfined")
}
