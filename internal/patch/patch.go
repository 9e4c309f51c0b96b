package patch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/phng25/k8s-ai-sec-remediator/internal/types"
	"github.com/phng25/k8s-ai-sec-remediator/internal/util"
)

// mergeKeys maps pod-spec array fields to the key kubectl's strategic merge
// uses to match entries. Violation paths only ever traverse these arrays.
var mergeKeys = map[string]string{
	"containers":          "name",
	"initContainers":      "name",
	"ephemeralContainers": "name",
	"volumes":             "name",
	"ports":               "containerPort",
}

// Synthesize builds one strategic-merge-shaped patch per document from the
// violations raised against it. Applying the patch to the original document
// and re-analyzing under the same profile yields zero violations.
//
// Array entries carry their merge key (container name, volume name, port
// number) read from the template's raw spec, so kubectl matches them to the
// existing entries instead of replacing the whole array. A nil suggested
// value becomes an explicit null, which deletes the field; removed hostPath
// sources are replaced with an emptyDir so the volume stays mountable.
func Synthesize(templates []types.PodTemplate, violations []types.Violation) (map[int]map[string]interface{}, error) {
	byDoc := make(map[int]*types.PodTemplate, len(templates))
	for i := range templates {
		byDoc[templates[i].DocIndex] = &templates[i]
	}

	patches := make(map[int]map[string]interface{})
	for _, v := range violations {
		tpl, ok := byDoc[v.DocIndex]
		if !ok {
			return nil, fmt.Errorf("violation %s references unknown document %d", v.RuleID, v.DocIndex)
		}

		relative := strings.TrimPrefix(v.Path, tpl.BasePath+".")
		if relative == v.Path {
			return nil, fmt.Errorf("violation path %q is outside pod spec %q", v.Path, tpl.BasePath)
		}

		root := patches[v.DocIndex]
		if root == nil {
			root = make(map[string]interface{})
			patches[v.DocIndex] = root
		}

		spec := nestedMap(root, strings.Split(tpl.BasePath, "."))
		if err := write(spec, tpl.Raw, relative, v.SuggestedValue); err != nil {
			return nil, fmt.Errorf("rule %s at %s: %w", v.RuleID, v.Path, err)
		}
	}
	return patches, nil
}

// KubectlCommand renders a ready-to-run kubectl invocation applying the
// patch to the live object.
func KubectlCommand(kind, name, namespace string, p map[string]interface{}) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding patch: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "kubectl patch %s %s", strings.ToLower(kind), name)
	if namespace != "" {
		fmt.Fprintf(&b, " -n %s", namespace)
	}
	fmt.Fprintf(&b, " --type=strategic -p '%s'", body)
	return b.String(), nil
}

// segment is one step of a parsed field path. An index of -1 marks a plain
// object field.
type segment struct {
	field string
	index int
}

// parsePath splits a dotted field path into segments, resolving the
// bracketed array indices ("containers[2]" yields field "containers",
// index 2).
func parsePath(path string) ([]segment, error) {
	parts := strings.Split(path, ".")
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		open := strings.IndexByte(part, '[')
		if open < 0 {
			segments = append(segments, segment{field: part, index: -1})
			continue
		}
		if !strings.HasSuffix(part, "]") {
			return nil, fmt.Errorf("malformed path segment %q", part)
		}
		idx, err := strconv.Atoi(part[open+1 : len(part)-1])
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("malformed index in path segment %q", part)
		}
		segments = append(segments, segment{field: part[:open], index: idx})
	}
	return segments, nil
}

// write records value at the given path inside the patch, descending the raw
// spec in parallel to pick up merge keys for array entries. Later writes to
// the same leaf win.
func write(node map[string]interface{}, raw map[string]interface{}, path string, value interface{}) error {
	segments, err := parsePath(path)
	if err != nil {
		return err
	}

	for i, seg := range segments {
		last := i == len(segments)-1

		if seg.index < 0 {
			if last {
				node[seg.field] = normalize(value)
				if seg.field == "hostPath" && value == nil {
					node["emptyDir"] = map[string]interface{}{}
				}
				return nil
			}
			node = childMap(node, seg.field)
			raw = util.SafeNestedMap(raw, seg.field)
			continue
		}

		key, ok := mergeKeys[seg.field]
		if !ok {
			return fmt.Errorf("array field %q has no merge key", seg.field)
		}
		keyValue, err := rawMergeKey(raw, seg.field, seg.index, key)
		if err != nil {
			return err
		}

		entry := childEntry(node, seg.field, key, keyValue)
		if last {
			return fmt.Errorf("path %q ends on an array element", path)
		}
		node = entry
		raw = rawElement(raw, seg.field, seg.index)
	}
	return nil
}

// nestedMap descends (creating as needed) the object fields named by keys.
func nestedMap(node map[string]interface{}, keys []string) map[string]interface{} {
	for _, key := range keys {
		node = childMap(node, key)
	}
	return node
}

func childMap(node map[string]interface{}, field string) map[string]interface{} {
	if existing, ok := node[field].(map[string]interface{}); ok {
		return existing
	}
	child := make(map[string]interface{})
	node[field] = child
	return child
}

// childEntry finds or creates the array entry under field whose merge key
// matches keyValue.
func childEntry(node map[string]interface{}, field, key string, keyValue interface{}) map[string]interface{} {
	list, _ := node[field].([]interface{})
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if ok && entry[key] == keyValue {
			return entry
		}
	}
	entry := map[string]interface{}{key: keyValue}
	node[field] = append(list, entry)
	return entry
}

// rawMergeKey reads the merge-key value of the idx-th element of the named
// array in the raw spec.
func rawMergeKey(raw map[string]interface{}, field string, idx int, key string) (interface{}, error) {
	element := rawElement(raw, field, idx)
	if element == nil {
		return nil, fmt.Errorf("raw spec has no %s[%d]", field, idx)
	}
	value, ok := element[key]
	if !ok {
		return nil, fmt.Errorf("%s[%d] has no %q merge key", field, idx, key)
	}
	if n, isNum := util.AsInt64(value); isNum {
		return n, nil
	}
	return value, nil
}

func rawElement(raw map[string]interface{}, field string, idx int) map[string]interface{} {
	if raw == nil {
		return nil
	}
	list, ok := raw[field].([]interface{})
	if !ok || idx >= len(list) {
		return nil
	}
	element, _ := list[idx].(map[string]interface{})
	return element
}

// normalize converts typed suggested values into the plain JSON shapes the
// rest of the patch tree uses, so equality checks and serialization behave
// uniformly.
func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return value
	}
}
