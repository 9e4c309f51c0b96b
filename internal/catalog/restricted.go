package catalog

import (
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// capabilityAll is the pseudo-capability that drops every capability.
const capabilityAll = "ALL"

// restrictedRules returns the restricted-only rules. Restricted requires
// hardening fields to be present and correct, so their absence is a
// failure, not a pass: a container with no securityContext at all fails
// allow-privilege-escalation and capabilities-drop-all.
func restrictedRules() []Rule {
	return []Rule{
		{
			ID:             "run-as-non-root",
			Profile:        types.ProfileRestricted,
			Scope:          ScopeContainer,
			Severity:       types.SeverityWarning,
			Description:    "Containers must be required to run as non-root users.",
			CheckPod:       checkPodRunAsNonRoot,
			CheckContainer: checkRunAsNonRoot,
		},
		{
			ID:             "allow-privilege-escalation",
			Profile:        types.ProfileRestricted,
			Scope:          ScopeContainer,
			Severity:       types.SeverityWarning,
			Description:    "Privilege escalation must be explicitly disallowed.",
			CheckContainer: checkAllowPrivilegeEscalation,
		},
		{
			ID:             "capabilities-drop-all",
			Profile:        types.ProfileRestricted,
			Scope:          ScopeContainer,
			Severity:       types.SeverityWarning,
			Description:    "Containers must drop ALL capabilities.",
			CheckContainer: checkCapabilitiesDropAll,
		},
		{
			ID:             "seccomp-runtime-default",
			Profile:        types.ProfileRestricted,
			Scope:          ScopeContainer,
			Severity:       types.SeverityWarning,
			Description:    "The seccomp profile must be explicitly set to RuntimeDefault or Localhost.",
			CheckPod:       checkPodSeccompRuntimeDefault,
			CheckContainer: checkSeccompRuntimeDefault,
		},
	}
}

// effectiveRunAsNonRoot resolves the runAsNonRoot value that applies to the
// container: the container override when set, else the pod-level value,
// else unset (nil). The returned path is where an offense is reported and
// where the fix belongs: the pod-level field when the container does not
// override it, so one pod-level fix covers every container.
func effectiveRunAsNonRoot(tpl *types.PodTemplate, c *types.ContainerSpec) (*bool, string) {
	if c.SecurityContext != nil && c.SecurityContext.RunAsNonRoot != nil {
		return c.SecurityContext.RunAsNonRoot, c.FieldPath("securityContext.runAsNonRoot")
	}
	if tpl.SecurityContext != nil && tpl.SecurityContext.RunAsNonRoot != nil {
		return tpl.SecurityContext.RunAsNonRoot, "securityContext.runAsNonRoot"
	}
	return nil, "securityContext.runAsNonRoot"
}

// effectiveSeccompType resolves the seccomp profile type that applies to
// the container, with the same fallback and path semantics as
// effectiveRunAsNonRoot. An empty string means unset.
func effectiveSeccompType(tpl *types.PodTemplate, c *types.ContainerSpec) (string, string) {
	if c.SecurityContext != nil && c.SecurityContext.SeccompProfileType != "" {
		return c.SecurityContext.SeccompProfileType, c.FieldPath("securityContext.seccompProfile.type")
	}
	if tpl.SecurityContext != nil && tpl.SecurityContext.SeccompProfileType != "" {
		return tpl.SecurityContext.SeccompProfileType, "securityContext.seccompProfile.type"
	}
	return "", "securityContext.seccompProfile.type"
}

// checkPodRunAsNonRoot covers templates with no containers at all, where no
// container pass runs. With containers present it stays silent: the
// container checks already report pod-level values through the fallback
// path, and a second pod-level offense would duplicate them.
func checkPodRunAsNonRoot(tpl *types.PodTemplate) []Offense {
	if len(tpl.Containers) > 0 {
		return nil
	}

	var value *bool
	if tpl.SecurityContext != nil {
		value = tpl.SecurityContext.RunAsNonRoot
	}
	if value != nil && *value {
		return nil
	}

	var current interface{}
	message := "pod does not require running as non-root"
	if value != nil {
		current = *value
		message = "pod explicitly allows running as root"
	}

	return []Offense{{
		Path:      "securityContext.runAsNonRoot",
		Message:   message,
		Current:   current,
		Suggested: true,
	}}
}

// checkPodSeccompRuntimeDefault is the zero-container counterpart of
// checkSeccompRuntimeDefault, with the same silence rule as
// checkPodRunAsNonRoot.
func checkPodSeccompRuntimeDefault(tpl *types.PodTemplate) []Offense {
	if len(tpl.Containers) > 0 {
		return nil
	}

	var value string
	if tpl.SecurityContext != nil {
		value = tpl.SecurityContext.SeccompProfileType
	}
	switch value {
	case string(corev1.SeccompProfileTypeRuntimeDefault), string(corev1.SeccompProfileTypeLocalhost):
		return nil
	}

	var current interface{}
	message := "pod has no seccomp profile"
	if value != "" {
		current = value
		message = fmt.Sprintf("pod uses seccomp profile %q", value)
	}

	return []Offense{{
		Path:      "securityContext.seccompProfile.type",
		Message:   message,
		Current:   current,
		Suggested: string(corev1.SeccompProfileTypeRuntimeDefault),
	}}
}

func checkRunAsNonRoot(tpl *types.PodTemplate, c *types.ContainerSpec) []Offense {
	value, path := effectiveRunAsNonRoot(tpl, c)
	if value != nil && *value {
		return nil
	}

	var current interface{}
	message := fmt.Sprintf("container %q does not require running as non-root", c.Name)
	if value != nil {
		current = *value
		message = fmt.Sprintf("container %q explicitly allows running as root", c.Name)
	}

	return []Offense{{
		Path:      path,
		Message:   message,
		Current:   current,
		Suggested: true,
	}}
}

func checkAllowPrivilegeEscalation(_ *types.PodTemplate, c *types.ContainerSpec) []Offense {
	sc := c.SecurityContext
	if sc != nil && sc.AllowPrivilegeEscalation != nil && !*sc.AllowPrivilegeEscalation {
		return nil
	}

	var current interface{}
	if sc != nil && sc.AllowPrivilegeEscalation != nil {
		current = *sc.AllowPrivilegeEscalation
	}

	return []Offense{{
		Path:      c.FieldPath("securityContext.allowPrivilegeEscalation"),
		Message:   fmt.Sprintf("container %q does not disallow privilege escalation", c.Name),
		Current:   current,
		Suggested: false,
	}}
}

func checkCapabilitiesDropAll(_ *types.PodTemplate, c *types.ContainerSpec) []Offense {
	sc := c.SecurityContext
	if sc != nil {
		for _, dropped := range sc.CapabilitiesDrop {
			if dropped == capabilityAll {
				return nil
			}
		}
	}

	var current interface{}
	if sc != nil && len(sc.CapabilitiesDrop) > 0 {
		current = sc.CapabilitiesDrop
	}

	return []Offense{{
		Path:      c.FieldPath("securityContext.capabilities.drop"),
		Message:   fmt.Sprintf("container %q does not drop ALL capabilities", c.Name),
		Current:   current,
		Suggested: []string{capabilityAll},
	}}
}

func checkSeccompRuntimeDefault(tpl *types.PodTemplate, c *types.ContainerSpec) []Offense {
	value, path := effectiveSeccompType(tpl, c)
	switch value {
	case string(corev1.SeccompProfileTypeRuntimeDefault), string(corev1.SeccompProfileTypeLocalhost):
		return nil
	}

	var current interface{}
	message := fmt.Sprintf("container %q has no seccomp profile", c.Name)
	if value != "" {
		current = value
		message = fmt.Sprintf("container %q uses seccomp profile %q", c.Name, value)
	}

	return []Offense{{
		Path:      path,
		Message:   message,
		Current:   current,
		Suggested: string(corev1.SeccompProfileTypeRuntimeDefault),
	}}
}
