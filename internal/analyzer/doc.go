// Package analyzer wires the analysis pipeline end to end: manifest text is
// extracted into pod templates, the templates are evaluated against the rule
// catalog for a profile, and the violations are synthesized into corrective
// patches.
//
// The pipeline degrades per document. One malformed or unsupported document
// in a multi-document input surfaces as a document-level error in the result
// while its siblings are analyzed normally; only inputs with nothing to
// analyze at all fail the whole call.
package analyzer
