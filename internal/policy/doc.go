// Package policy evaluates a working tree against gitcare's hygiene rules.
//
// Rules run in a fixed order described by RuleDescriptor values. Remediable findings are offered
// to a DecisionSource while evaluation is in progress so later rules observe the remediated tree.
package policy
