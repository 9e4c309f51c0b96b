// Package engine evaluates the rule catalog against extracted pod templates.
//
// Evaluation is a pure, stateless transform: the catalog is immutable and
// shared read-only, so concurrent evaluations need no locking. Output order
// is part of the contract (document index, template order, pod rules before
// container rules, container order, catalog order) and never depends on
// scheduling.
package engine

import (
	"github.com/phng25/k8s-ai-sec-remediator/internal/catalog"
	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
)

// Evaluate checks every pod template against the rules enforced under the
// given profile and returns the violations in stable order.
//
// For each template, pod-scoped checks run first, then each container is
// checked in origin order (initContainers, containers, ephemeralContainers).
// Within a pass, rules run in catalog order.
func Evaluate(templates []types.PodTemplate, profile types.Profile) []types.Violation {
	rules := catalog.ForProfile(profile)

	var violations []types.Violation
	for i := range templates {
		tpl := &templates[i]

		for _, rule := range rules {
			if rule.CheckPod == nil {
				continue
			}
			violations = append(violations, toViolations(tpl, rule, rule.CheckPod(tpl))...)
		}

		for j := range tpl.Containers {
			c := &tpl.Containers[j]
			for _, rule := range rules {
				if rule.CheckContainer == nil {
					continue
				}
				violations = append(violations, toViolations(tpl, rule, rule.CheckContainer(tpl, c))...)
			}
		}
	}

	return violations
}

// toViolations resolves offenses against the template's base path.
func toViolations(tpl *types.PodTemplate, rule catalog.Rule, offenses []catalog.Offense) []types.Violation {
	violations := make([]types.Violation, 0, len(offenses))
	for _, o := range offenses {
		violations = append(violations, types.Violation{
			RuleID:         rule.ID,
			Severity:       rule.Severity,
			Path:           tpl.BasePath + "." + o.Path,
			Message:        o.Message,
			CurrentValue:   o.Current,
			SuggestedValue: o.Suggested,
			DocIndex:       tpl.DocIndex,
		})
	}
	return violations
}
