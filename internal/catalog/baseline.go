package catalog

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// baselineRules returns the baseline-tier rules. Baseline guards against
// known privilege escalations; fields it inspects fail only when explicitly
// set to a dangerous value, so their absence passes.
func baselineRules() []Rule {
	return []Rule{
		{
			ID:          "host-namespaces",
			Profile:     types.ProfileBaseline,
			Scope:       ScopePod,
			Severity:    types.SeverityCritical,
			Description: "Sharing the host network, PID, or IPC namespace must be disallowed.",
			CheckPod:    checkHostNamespaces,
		},
		{
			ID:             "host-ports",
			Profile:        types.ProfileBaseline,
			Scope:          ScopeContainer,
			Severity:       types.SeverityCritical,
			Description:    "Containers must not bind ports on the host.",
			CheckContainer: checkHostPorts,
		},
		{
			ID:             "privileged",
			Profile:        types.ProfileBaseline,
			Scope:          ScopeContainer,
			Severity:       types.SeverityCritical,
			Description:    "Privileged containers disable most security mechanisms and must be disallowed.",
			CheckContainer: checkPrivileged,
		},
		{
			ID:          "host-path-volumes",
			Profile:     types.ProfileBaseline,
			Scope:       ScopePod,
			Severity:    types.SeverityCritical,
			Description: "HostPath volumes expose the node filesystem and must be disallowed.",
			CheckPod:    checkHostPathVolumes,
		},
		{
			ID:             "capabilities-add",
			Profile:        types.ProfileBaseline,
			Scope:          ScopeContainer,
			Severity:       types.SeverityCritical,
			Description:    "Adding Linux capabilities beyond the allowed set must be disallowed.",
			CheckContainer: checkCapabilitiesAdd,
		},
		{
			ID:             "seccomp-unconfined",
			Profile:        types.ProfileBaseline,
			Scope:          ScopePod,
			Severity:       types.SeverityCritical,
			Description:    "The seccomp profile must not be explicitly set to Unconfined.",
			CheckPod:       checkPodSeccompUnconfined,
			CheckContainer: checkContainerSeccompUnconfined,
		},
	}
}

func checkHostNamespaces(tpl *types.PodTemplate) []Offense {
	var offenses []Offense
	for _, field := range []struct {
		name string
		set  bool
	}{
		{"hostNetwork", tpl.HostNetwork},
		{"hostPID", tpl.HostPID},
		{"hostIPC", tpl.HostIPC},
	} {
		if !field.set {
			continue
		}
		offenses = append(offenses, Offense{
			Path:      field.name,
			Message:   fmt.Sprintf("pod shares the host %s namespace", strings.TrimPrefix(field.name, "host")),
			Current:   true,
			Suggested: false,
		})
	}
	return offenses
}

func checkHostPorts(_ *types.PodTemplate, c *types.ContainerSpec) []Offense {
	var offenses []Offense
	for _, port := range c.Ports {
		if port.HostPort == 0 {
			continue
		}
		offenses = append(offenses, Offense{
			Path:      c.FieldPath(fmt.Sprintf("ports[%d].hostPort", port.Index)),
			Message:   fmt.Sprintf("container %q binds host port %d", c.Name, port.HostPort),
			Current:   port.HostPort,
			Suggested: int64(0),
		})
	}
	return offenses
}

func checkPrivileged(_ *types.PodTemplate, c *types.ContainerSpec) []Offense {
	sc := c.SecurityContext
	if sc == nil || sc.Privileged == nil || !*sc.Privileged {
		return nil
	}
	return []Offense{{
		Path:      c.FieldPath("securityContext.privileged"),
		Message:   fmt.Sprintf("container %q runs in privileged mode", c.Name),
		Current:   true,
		Suggested: false,
	}}
}

func checkHostPathVolumes(tpl *types.PodTemplate) []Offense {
	var offenses []Offense
	for _, vol := range tpl.Volumes {
		if !vol.HasHostPath {
			continue
		}
		offenses = append(offenses, Offense{
			Path:      fmt.Sprintf("volumes[%d].hostPath", vol.Index),
			Message:   fmt.Sprintf("volume %q mounts host path %q", vol.Name, vol.HostPathPath),
			Current:   map[string]interface{}{"path": vol.HostPathPath},
			Suggested: nil,
		})
	}
	return offenses
}

func checkCapabilitiesAdd(_ *types.PodTemplate, c *types.ContainerSpec) []Offense {
	sc := c.SecurityContext
	if sc == nil || len(sc.CapabilitiesAdd) == 0 {
		return nil
	}
	return []Offense{{
		Path:      c.FieldPath("securityContext.capabilities.add"),
		Message:   fmt.Sprintf("container %q adds capabilities %s", c.Name, strings.Join(sc.CapabilitiesAdd, ", ")),
		Current:   sc.CapabilitiesAdd,
		Suggested: []string{},
	}}
}

func checkPodSeccompUnconfined(tpl *types.PodTemplate) []Offense {
	sc := tpl.SecurityContext
	if sc == nil || sc.SeccompProfileType != string(corev1.SeccompProfileTypeUnconfined) {
		return nil
	}
	return []Offense{{
		Path:      "securityContext.seccompProfile.type",
		Message:   "pod sets the seccomp profile to Unconfined",
		Current:   sc.SeccompProfileType,
		Suggested: string(corev1.SeccompProfileTypeRuntimeDefault),
	}}
}

func checkContainerSeccompUnconfined(_ *types.PodTemplate, c *types.ContainerSpec) []Offense {
	sc := c.SecurityContext
	if sc == nil || sc.SeccompProfileType != string(corev1.SeccompProfileTypeUnconfined) {
		return nil
	}
	return []Offense{{
		Path:      c.FieldPath("securityContext.seccompProfile.type"),
		Message:   fmt.Sprintf("container %q sets the seccomp profile to Unconfined", c.Name),
		Current:   sc.SeccompProfileType,
		Suggested: string(corev1.SeccompProfileTypeRuntimeDefault),
	}}
}
