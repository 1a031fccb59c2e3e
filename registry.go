package eip712

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

type schema struct {
	fields []Field
	descs  []*typeDescriptor
}

// Registry holds named struct type schemas. Registration may happen at any
// time; reads take a shared lock so concurrent encoding against a settled
// registry never contends.
type Registry struct {
	mu    sync.RWMutex
	types map[string]schema
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]schema)}
}

// Register adds or replaces the schema for name. Field order is significant:
// it fixes both the type signature and the byte layout of encoded values.
func (r *Registry) Register(name string, fields []Field) error {
	if !structNameRegexp.MatchString(name) {
		return fmt.Errorf("%w: invalid struct type name %q", ErrUnknownType, name)
	}
	descs := make([]*typeDescriptor, len(fields))
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return fmt.Errorf("field %d of %q has an empty name", i, name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %q in type %q", ErrDuplicateField, f.Name, name)
		}
		seen[f.Name] = true
		desc, err := parseType(f.Type)
		if err != nil {
			return fmt.Errorf("field %q of %q: %w", f.Name, name, err)
		}
		if desc.baseStruct() == name {
			return fmt.Errorf("%w: type %q references itself", ErrCyclicType, name)
		}
		descs[i] = desc
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = schema{fields: append([]Field(nil), fields...), descs: descs}
	return nil
}

// Resolve returns the registered field list for name.
func (r *Registry) Resolve(name string) ([]Field, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return append([]Field(nil), s.fields...), nil
}

// Dependencies returns every struct type transitively referenced by name,
// excluding name itself, sorted alphabetically. The closure is computed
// breadth-first over a visited set; reference cycles are rejected.
func (r *Registry) Dependencies(name string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dependencies(name)
}

func (r *Registry) dependencies(name string) ([]string, error) {
	if _, ok := r.types[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	if err := r.checkCycles(name, make(map[string]bool), make(map[string]bool)); err != nil {
		return nil, err
	}

	visited := map[string]bool{name: true}
	queue := []string{name}
	var deps []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		s, ok := r.types[current]
		if !ok {
			return nil, fmt.Errorf("%w: %q referenced by %q", ErrUnknownType, current, name)
		}
		for _, desc := range s.descs {
			ref := desc.baseStruct()
			if ref == "" || visited[ref] {
				continue
			}
			visited[ref] = true
			deps = append(deps, ref)
			queue = append(queue, ref)
		}
	}
	sort.Strings(deps)
	return deps, nil
}

// checkCycles walks struct references depth-first, tracking the current path.
// Caller holds at least a read lock.
func (r *Registry) checkCycles(name string, visited, inPath map[string]bool) error {
	if inPath[name] {
		return fmt.Errorf("%w: %q", ErrCyclicType, name)
	}
	if visited[name] {
		return nil
	}
	visited[name] = true
	inPath[name] = true
	for _, desc := range r.types[name].descs {
		ref := desc.baseStruct()
		if ref == "" {
			continue
		}
		if _, ok := r.types[ref]; !ok {
			continue
		}
		if err := r.checkCycles(ref, visited, inPath); err != nil {
			return err
		}
	}
	inPath[name] = false
	return nil
}

// TypeSignature renders the canonical type string for name: the root type's
// field clause followed by the clause of each dependency in alphabetical
// order, each rendered exactly once. This string must be byte-identical across
// implementations; its digest is the type hash.
func (r *Registry) TypeSignature(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.typeSignature(name)
}

func (r *Registry) typeSignature(name string) (string, error) {
	deps, err := r.dependencies(name)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, typ := range append([]string{name}, deps...) {
		s := r.types[typ]
		b.WriteString(typ)
		b.WriteByte('(')
		for i, f := range s.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Type)
			b.WriteByte(' ')
			b.WriteString(f.Name)
		}
		b.WriteByte(')')
	}
	return b.String(), nil
}
