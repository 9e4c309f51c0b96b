// Package catalog is the static, versioned table of Pod Security Standards
// rules.
//
// # Structure
//
// Each rule is one table row: a stable id, the profile tier that introduces
// it, its scope, a severity, and a pure check/remediation pair expressed as
// Offense records (offending path, current value, value that would pass).
// The engine never special-cases individual rules; adding one is a new row.
//
// # Tiers
//
//	baseline    host-namespaces, host-ports, privileged, host-path-volumes,
//	            capabilities-add, seccomp-unconfined
//	restricted  run-as-non-root, allow-privilege-escalation,
//	            capabilities-drop-all, seccomp-runtime-default
//
// Restricted enforces the union of both tiers. Baseline rules fail only on
// explicitly dangerous values (absence passes); restricted rules treat the
// absence of a hardening field as the failure itself, reported at the path
// where the field belongs.
//
// # Inheritance
//
// runAsNonRoot and seccompProfile may be set at the pod level and
// overridden per container. Effective values are resolved by an explicit
// three-valued lookup (container-set, pod-set, unset); offenses point at
// the field that is actually wrong, falling back to the pod-level path so
// a single fix covers every container. A template with no containers at all
// is still checked at the pod level for both fields, so an explicit
// runAsNonRoot: false or a missing seccomp profile never slips through.
//
// # Conflicts
//
// No baseline rule and restricted rule suggest different values for the
// same field: the only shared path is seccompProfile.type, where both tiers
// suggest RuntimeDefault. The patch synthesizer relies on this invariant
// instead of resolving conflicts at runtime.
package catalog
