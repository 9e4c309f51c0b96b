package catalog

import (
	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// Version identifies the Pod Security Standards tables this catalog
// reproduces. Bump when rule semantics change.
const Version = "v1.32"

// Scope names the level of the pod spec a rule primarily inspects.
type Scope string

const (
	ScopePod       Scope = "pod"
	ScopeContainer Scope = "container"
)

// Offense is one failing field produced by a rule check.
//
// Path is relative to the pod spec root ("hostNetwork",
// "containers[0].securityContext.privileged"); the engine prefixes it with
// the template's base path. Suggested is the value that makes the check
// pass when written at Path; nil means the field should be removed.
type Offense struct {
	Path      string
	Message   string
	Current   interface{}
	Suggested interface{}
}

// Rule is one immutable catalog entry. Checks are pure: they never mutate
// their input, and identical input always yields identical offenses.
//
// Profile is the tier that introduces the rule. Baseline rules are enforced
// under both tiers; restricted rules only under restricted. A rule declares
// CheckPod, CheckContainer, or both; rules spanning both scopes (seccomp)
// contribute pod offenses in the pod pass and container offenses in the
// container pass.
type Rule struct {
	ID          string
	Profile     types.Profile
	Scope       Scope
	Severity    types.Severity
	Description string

	CheckPod       func(tpl *types.PodTemplate) []Offense
	CheckContainer func(tpl *types.PodTemplate, c *types.ContainerSpec) []Offense
}

// Info is the serializable description of a rule, for catalog listings.
type Info struct {
	ID          string         `json:"id"`
	Profile     types.Profile  `json:"profile"`
	Scope       Scope          `json:"scope"`
	Severity    types.Severity `json:"severity"`
	Description string         `json:"description"`
}

// Rules returns the full catalog in evaluation order: baseline rules first,
// then restricted-only rules. The order is part of the engine's output
// contract, so entries are never reordered within a tier.
//
// Adding a rule is a new table row in baseline.go or restricted.go; the
// engine's control flow never changes.
func Rules() []Rule {
	rules := make([]Rule, 0, 10)
	rules = append(rules, baselineRules()...)
	rules = append(rules, restrictedRules()...)
	return rules
}

// ForProfile returns the rule subset enforced under the given profile.
// Restricted is a superset: it enforces every baseline rule plus its own,
// so evaluating under restricted never yields fewer violations than
// evaluating the same input under baseline.
func ForProfile(p types.Profile) []Rule {
	var selected []Rule
	for _, r := range Rules() {
		if p.Includes(r.Profile) {
			selected = append(selected, r)
		}
	}
	return selected
}

// InfoForProfile returns serializable rule descriptions for the given
// profile, in catalog order.
func InfoForProfile(p types.Profile) []Info {
	rules := ForProfile(p)
	infos := make([]Info, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, Info{
			ID:          r.ID,
			Profile:     r.Profile,
			Scope:       r.Scope,
			Severity:    r.Severity,
			Description: r.Description,
		})
	}
	return infos
}
