package extract

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps workload kinds to the field path of their embedded pod
// template. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	paths map[string][]string
}

// NewRegistry creates an empty kind registry.
// Call Register() to add kinds, or use DefaultRegistry() for the built-ins.
func NewRegistry() *Registry {
	return &Registry{paths: make(map[string][]string)}
}

// Register maps a workload kind to the path of its pod template, e.g.
// Register("Deployment", "spec", "template", "spec").
// Returns an error if the kind is already registered.
func (r *Registry) Register(kind string, path ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.paths[kind]; exists {
		return fmt.Errorf("kind %q already registered", kind)
	}
	if len(path) == 0 {
		return fmt.Errorf("kind %q: empty template path", kind)
	}

	r.paths[kind] = append([]string(nil), path...)
	return nil
}

// TemplatePath returns the pod-template field path for the given kind.
func (r *Registry) TemplatePath(kind string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	path, ok := r.paths[kind]
	return path, ok
}

// Kinds returns all registered kinds, sorted.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.paths))
	for k := range r.paths {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// BasePath returns the dotted form of the template path for the given kind,
// e.g. "spec.template.spec".
func (r *Registry) BasePath(kind string) (string, bool) {
	path, ok := r.TemplatePath(kind)
	if !ok {
		return "", false
	}
	return strings.Join(path, "."), true
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry of built-in workload kinds. The
// workload controllers under apps/v1 and batch/v1 all embed a PodTemplateSpec
// at spec.template; a CronJob nests one level deeper through its jobTemplate.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		must(r.Register("Pod", "spec"))
		must(r.Register("Deployment", "spec", "template", "spec"))
		must(r.Register("DaemonSet", "spec", "template", "spec"))
		must(r.Register("StatefulSet", "spec", "template", "spec"))
		must(r.Register("ReplicaSet", "spec", "template", "spec"))
		must(r.Register("Job", "spec", "template", "spec"))
		must(r.Register("CronJob", "spec", "jobTemplate", "spec", "template", "spec"))
		defaultRegistry = r
	})
	return defaultRegistry
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
