package extract

import (
	"errors"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
	"github.com/phng25/k8s-ai-sec-remediator/internal/util"
)

// Extract parses raw manifest text (one or more YAML or JSON documents) and
// returns every embedded pod template it finds.
//
// Each document is handled independently: a malformed or unsupported
// document yields a DocumentError tagged with its index, and extraction
// continues with its siblings. A document is never silently dropped.
//
// The returned error is non-nil only for total failures. An input with no
// content-bearing documents at all (empty text, comments, bare separators)
// is a valid zero-document YAML stream, not a parse failure, so it is
// reported as EmptyManifestError.
func Extract(raw string) ([]types.PodTemplate, []types.DocumentError, error) {
	docs := splitDocuments(raw)
	if len(docs) == 0 {
		return nil, nil, &types.EmptyManifestError{}
	}

	var templates []types.PodTemplate
	var docErrs []types.DocumentError

	for i, doc := range docs {
		tpl, err := extractDocument(i, doc)
		if err != nil {
			docErrs = append(docErrs, toDocumentError(i, err))
			continue
		}
		templates = append(templates, *tpl)
	}

	return templates, docErrs, nil
}

// extractDocument parses a single document and locates its pod template.
func extractDocument(index int, doc string) (*types.PodTemplate, error) {
	var obj map[string]interface{}
	if err := yaml.Unmarshal([]byte(doc), &obj); err != nil {
		return nil, &types.ParseError{DocIndex: index, Err: err}
	}
	if obj == nil {
		return nil, &types.ParseError{DocIndex: index, Err: errors.New("document is empty")}
	}

	kind := util.SafeNestedString(obj, "kind")
	if kind == "" {
		return nil, &types.ParseError{DocIndex: index, Err: errors.New("document has no kind")}
	}

	path, ok := DefaultRegistry().TemplatePath(kind)
	if !ok {
		return nil, &types.UnsupportedKindError{DocIndex: index, Kind: kind}
	}

	// SafeNestedMap deep-copies, so the template never aliases the caller's
	// parsed document.
	spec := util.SafeNestedMap(obj, path...)
	if spec == nil {
		return nil, &types.ParseError{
			DocIndex: index,
			Err:      fmt.Errorf("kind %q has no pod template at %q", kind, strings.Join(path, ".")),
		}
	}

	tpl := buildTemplate(index, kind, obj, spec)
	tpl.BasePath = strings.Join(path, ".")
	return tpl, nil
}

// buildTemplate normalizes a pod spec map into a PodTemplate.
func buildTemplate(index int, kind string, obj, spec map[string]interface{}) *types.PodTemplate {
	tpl := &types.PodTemplate{
		DocIndex:    index,
		Kind:        kind,
		Name:        util.SafeNestedString(obj, "metadata", "name"),
		Namespace:   util.SafeNestedString(obj, "metadata", "namespace"),
		HostNetwork: util.SafeNestedBool(spec, "hostNetwork"),
		HostPID:     util.SafeNestedBool(spec, "hostPID"),
		HostIPC:     util.SafeNestedBool(spec, "hostIPC"),
		Raw:         spec,
	}

	if sc := util.SafeNestedMap(spec, "securityContext"); sc != nil {
		tpl.SecurityContext = &types.PodSecurityContext{
			RunAsNonRoot:       util.SafeNestedBoolPtr(sc, "runAsNonRoot"),
			RunAsUser:          util.SafeNestedInt64Ptr(sc, "runAsUser"),
			SeccompProfileType: util.SafeNestedString(sc, "seccompProfile", "type"),
		}
	}

	for i, volRaw := range util.SafeNestedSlice(spec, "volumes") {
		vol, ok := volRaw.(map[string]interface{})
		if !ok {
			continue
		}
		v := types.Volume{
			Index: i,
			Name:  util.SafeStringFromMap(vol, "name"),
		}
		if hp := util.SafeNestedMap(vol, "hostPath"); hp != nil {
			v.HasHostPath = true
			v.HostPathPath = util.SafeStringFromMap(hp, "path")
		}
		tpl.Volumes = append(tpl.Volumes, v)
	}

	// Origin order matters: violations are reported per container in this
	// order, and the original array index is kept for path reconstruction.
	for _, origin := range []types.ContainerOrigin{
		types.OriginInitContainers,
		types.OriginContainers,
		types.OriginEphemeralContainers,
	} {
		for i, cRaw := range util.SafeNestedSlice(spec, string(origin)) {
			c, ok := cRaw.(map[string]interface{})
			if !ok {
				continue
			}
			tpl.Containers = append(tpl.Containers, buildContainer(origin, i, c))
		}
	}

	return tpl
}

// buildContainer normalizes one container entry.
func buildContainer(origin types.ContainerOrigin, index int, c map[string]interface{}) types.ContainerSpec {
	spec := types.ContainerSpec{
		Name:   util.SafeStringFromMap(c, "name"),
		Origin: origin,
		Index:  index,
	}

	if sc := util.SafeNestedMap(c, "securityContext"); sc != nil {
		spec.SecurityContext = &types.SecurityContext{
			Privileged:               util.SafeNestedBoolPtr(sc, "privileged"),
			AllowPrivilegeEscalation: util.SafeNestedBoolPtr(sc, "allowPrivilegeEscalation"),
			RunAsNonRoot:             util.SafeNestedBoolPtr(sc, "runAsNonRoot"),
			RunAsUser:                util.SafeNestedInt64Ptr(sc, "runAsUser"),
			ReadOnlyRootFilesystem:   util.SafeNestedBoolPtr(sc, "readOnlyRootFilesystem"),
			CapabilitiesAdd:          util.SafeNestedStringSlice(sc, "capabilities", "add"),
			CapabilitiesDrop:         util.SafeNestedStringSlice(sc, "capabilities", "drop"),
			SeccompProfileType:       util.SafeNestedString(sc, "seccompProfile", "type"),
		}
	}

	for i, portRaw := range util.SafeNestedSlice(c, "ports") {
		port, ok := portRaw.(map[string]interface{})
		if !ok {
			continue
		}
		p := types.ContainerPort{Index: i}
		if n, ok := util.AsInt64(port["containerPort"]); ok {
			p.ContainerPort = n
		}
		if n, ok := util.AsInt64(port["hostPort"]); ok {
			p.HostPort = n
		}
		spec.Ports = append(spec.Ports, p)
	}

	return spec
}

// splitDocuments splits raw input on YAML document separators ("---" lines)
// and drops chunks with no content. Document indices are assigned over the
// remaining chunks in order.
func splitDocuments(raw string) []string {
	lines := strings.Split(raw, "\n")

	var docs []string
	var current []string

	flush := func() {
		chunk := strings.Join(current, "\n")
		current = current[:0]
		if hasContent(chunk) {
			docs = append(docs, chunk)
		}
	}

	for _, line := range lines {
		if strings.TrimRight(line, " \t") == "---" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return docs
}

// hasContent reports whether a chunk contains anything beyond blank lines
// and comments.
func hasContent(chunk string) bool {
	for _, line := range strings.Split(chunk, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return true
		}
	}
	return false
}

// toDocumentError converts a typed extraction error to its wire form.
func toDocumentError(index int, err error) types.DocumentError {
	var kindErr *types.UnsupportedKindError
	if errors.As(err, &kindErr) {
		return types.DocumentError{Index: index, Kind: "UnsupportedKindError", Message: kindErr.Error(), Cause: err}
	}
	return types.DocumentError{Index: index, Kind: "ParseError", Message: err.Error(), Cause: err}
}
