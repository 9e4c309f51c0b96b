// Package extract locates the embedded pod templates of Kubernetes workload
// manifests and normalizes them into the engine's PodTemplate shape.
//
// # Supported kinds
//
//	Pod          → spec
//	Deployment   → spec.template.spec
//	DaemonSet    → spec.template.spec
//	StatefulSet  → spec.template.spec
//	ReplicaSet   → spec.template.spec
//	Job          → spec.template.spec
//	CronJob      → spec.jobTemplate.spec.template.spec
//
// The kind-to-path mapping lives in a Registry so new workload kinds are a
// registration, not new control flow. Downstream stages (rule engine, patch
// synthesizer) only ever see PodTemplate and never branch on workload kind.
//
// # Multi-document inputs
//
// Input may contain several YAML documents (or a single JSON document).
// Documents are independent: a malformed document or an unsupported kind
// produces a DocumentError carrying the document index, and the remaining
// documents are still extracted. Valid results are never discarded because
// a sibling failed.
//
// # Containers
//
// ContainerSpec entries cover initContainers, containers, and
// ephemeralContainers, in that order, each tagged with its origin array and
// original index so concrete field paths like
// "spec.template.spec.containers[0].securityContext.privileged" can be
// reconstructed. A template with none of these arrays yields zero
// ContainerSpecs; pod-level rules still apply to it.
package extract
