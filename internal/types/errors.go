package types

import "fmt"

// ParseError reports a document that could not be parsed as YAML/JSON or
// that is structurally not a Kubernetes object. Not recoverable inside the
// engine; the underlying parser message is surfaced verbatim.
type ParseError struct {
	DocIndex int
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("document %d: parse error: %v", e.DocIndex, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedKindError reports a document whose kind carries no known pod
// template path. The kind is surfaced so the caller can decide whether to
// skip it or extract differently.
type UnsupportedKindError struct {
	DocIndex int
	Kind     string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("document %d: unsupported kind %q", e.DocIndex, e.Kind)
}

// EmptyManifestError reports an input that parsed successfully but contains
// no pod template. Zero violations is a valid result; nothing to check is
// not, and must be distinguishable.
type EmptyManifestError struct{}

func (e *EmptyManifestError) Error() string {
	return "manifest contains no pod template to analyze"
}
