package types

import "fmt"

// Profile is a Pod Security Standards tier that a manifest is checked against.
type Profile string

const (
	ProfileBaseline   Profile = "baseline"
	ProfileRestricted Profile = "restricted"
)

// ParseProfile validates a profile string. An empty string defaults to
// restricted, the stricter tier.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case "":
		return ProfileRestricted, nil
	case ProfileBaseline:
		return ProfileBaseline, nil
	case ProfileRestricted:
		return ProfileRestricted, nil
	default:
		return "", fmt.Errorf("unknown profile %q (want %q or %q)", s, ProfileBaseline, ProfileRestricted)
	}
}

// Includes reports whether checking against p also enforces other.
// Restricted is a strict superset of baseline.
func (p Profile) Includes(other Profile) bool {
	if p == other {
		return true
	}
	return p == ProfileRestricted && other == ProfileBaseline
}

// Severity indicates how urgently a violation needs attention.
type Severity string

const (
	SeverityCritical Severity = "Critical" // rejected even under the baseline profile
	SeverityWarning  Severity = "Warning"  // rejected only under the restricted profile
	SeverityInfo     Severity = "Info"     // informational, not blocking
)

// ContainerOrigin names the pod-spec array a container was declared in.
// It is part of the container's field path, so the original array and
// index must be preserved through extraction.
type ContainerOrigin string

const (
	OriginInitContainers      ContainerOrigin = "initContainers"
	OriginContainers          ContainerOrigin = "containers"
	OriginEphemeralContainers ContainerOrigin = "ephemeralContainers"
)

// PodTemplate is the normalized, workload-kind-agnostic view of an embedded
// pod specification. The Manifest Extractor resolves every supported
// workload kind into this shape once; downstream stages never branch on
// workload kind again.
type PodTemplate struct {
	// Identity of the owning document.
	DocIndex  int
	Kind      string
	Name      string
	Namespace string

	// BasePath is the dotted path from the document root to the pod spec,
	// e.g. "spec" for a bare Pod or "spec.template.spec" for a Deployment.
	BasePath string

	// Pod-level security-relevant fields.
	HostNetwork     bool
	HostPID         bool
	HostIPC         bool
	SecurityContext *PodSecurityContext
	Volumes         []Volume

	// Containers covers initContainers, containers, and ephemeralContainers
	// in that order; each entry keeps its origin array and index.
	Containers []ContainerSpec

	// Raw is the pod spec as parsed, shared read-only. The Patch Synthesizer
	// reads merge keys (container names, port numbers) from it.
	Raw map[string]interface{}
}

// PodSecurityContext holds the pod-level securityContext fields the rule
// catalog inspects. Pointer fields distinguish "explicitly set" from "unset"
// so effective values can fall back per scope.
type PodSecurityContext struct {
	RunAsNonRoot       *bool
	RunAsUser          *int64
	SeccompProfileType string // empty when unset
}

// SecurityContext holds the container-level securityContext fields the rule
// catalog inspects.
type SecurityContext struct {
	Privileged               *bool
	AllowPrivilegeEscalation *bool
	RunAsNonRoot             *bool
	RunAsUser                *int64
	ReadOnlyRootFilesystem   *bool
	CapabilitiesAdd          []string
	CapabilitiesDrop         []string
	SeccompProfileType       string // empty when unset
}

// ContainerSpec is one container entry of a PodTemplate.
type ContainerSpec struct {
	Name            string
	Origin          ContainerOrigin
	Index           int
	SecurityContext *SecurityContext
	Ports           []ContainerPort
}

// FieldPath resolves a field path relative to the pod spec for this
// container, e.g. FieldPath("securityContext.privileged") on containers[0]
// yields "containers[0].securityContext.privileged".
func (c ContainerSpec) FieldPath(sub string) string {
	return fmt.Sprintf("%s[%d].%s", c.Origin, c.Index, sub)
}

// ContainerPort is one entry of a container's ports array.
type ContainerPort struct {
	Index         int
	ContainerPort int64
	HostPort      int64 // 0 when unset
}

// Volume is one entry of the pod spec's volumes array. Only the fields the
// catalog inspects are extracted.
type Volume struct {
	Index        int
	Name         string
	HostPathPath string // spec.volumes[i].hostPath.path, empty when no hostPath
	HasHostPath  bool
}

// Violation is one rule failure at one concrete field path.
type Violation struct {
	RuleID   string   `json:"ruleId"`
	Severity Severity `json:"severity"`

	// Path is fully resolved from the document root, e.g.
	// "spec.template.spec.containers[0].securityContext.privileged".
	Path    string `json:"path"`
	Message string `json:"message"`

	// CurrentValue is the offending value; nil when the field is absent.
	CurrentValue interface{} `json:"currentValue"`
	// SuggestedValue makes the rule pass when written at Path; nil means
	// the field should be removed.
	SuggestedValue interface{} `json:"suggestedValue"`

	// DocIndex ties the violation back to its source document in
	// multi-document inputs.
	DocIndex int `json:"docIndex"`
}

// DocumentError is a per-document extraction failure. Sibling documents in
// the same input are still analyzed.
type DocumentError struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"` // "ParseError" or "UnsupportedKindError"
	Message string `json:"message"`

	// Cause is the typed extraction error, kept for errors.As dispatch at the
	// API boundary. Not serialized.
	Cause error `json:"-"`
}

// DocumentResult is the per-document breakdown of an analysis.
type DocumentResult struct {
	Index     int    `json:"index"`
	Kind      string `json:"kind,omitempty"`
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`

	// Patch is the strategic-merge-shaped patch for this document, nil when
	// the document needs no changes.
	Patch map[string]interface{} `json:"patch,omitempty"`

	// KubectlPatch is a ready-to-run kubectl command applying Patch.
	KubectlPatch string `json:"kubectlPatch,omitempty"`

	Error *DocumentError `json:"error,omitempty"`
}

// AnalysisResult is the structured output of one analysis call.
type AnalysisResult struct {
	Profile    Profile     `json:"profile"`
	IssueCount int         `json:"issueCount"`
	Issues     []Violation `json:"issues"`

	// Patch is the merge patch for the single document that needs changes.
	// When several documents need changes it stays empty and the
	// per-document patches are carried in Documents.
	Patch map[string]interface{} `json:"patch"`

	Documents []DocumentResult `json:"documents,omitempty"`
}
