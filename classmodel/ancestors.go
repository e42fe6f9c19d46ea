package classmodel

import "github.com/don7panic/classgen/models"

// Registry indexes every known class model by name. When two models share a
// name the first one registered wins.
type Registry struct {
	byName map[string]models.ClassModel
	order  []string
}

func NewRegistry(all []models.ClassModel) *Registry {
	r := &Registry{byName: make(map[string]models.ClassModel, len(all))}
	for _, m := range all {
		if _, ok := r.byName[m.Name]; ok {
			continue
		}
		r.byName[m.Name] = m
		r.order = append(r.order, m.Name)
	}
	return r
}

// Lookup returns an independent copy of the model registered under name.
func (r *Registry) Lookup(name string) (models.ClassModel, bool) {
	if r == nil {
		return models.ClassModel{}, false
	}
	m, ok := r.byName[name]
	if !ok {
		return models.ClassModel{}, false
	}
	return m.Clone(), true
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// CollectAncestorsRecursive returns m followed by its transitive ancestors,
// depth-first in base declaration order, deduplicated by name. Bases that are
// not in the registry are external and are not expanded.
func CollectAncestorsRecursive(m models.ClassModel, r *Registry) []models.ClassModel {
	return collect(m, r, make(map[string]bool), nil)
}

// ExpandAncestors applies CollectAncestorsRecursive to every model in order,
// sharing one name set so the whole result is deduplicated by name.
func ExpandAncestors(discovered []models.ClassModel, r *Registry) []models.ClassModel {
	seen := make(map[string]bool)
	var out []models.ClassModel
	for _, m := range discovered {
		out = collect(m, r, seen, out)
	}
	return out
}

func collect(m models.ClassModel, r *Registry, seen map[string]bool, out []models.ClassModel) []models.ClassModel {
	if seen[m.Name] {
		return out
	}
	seen[m.Name] = true
	out = append(out, m.Clone())
	for _, base := range m.Bases {
		if seen[base] {
			continue
		}
		parent, ok := r.Lookup(base)
		if !ok {
			continue
		}
		out = collect(parent, r, seen, out)
	}
	return out
}

// Select keeps the models whose names are in names, in input order. An
// empty names list keeps everything.
func Select(all []models.ClassModel, names []string) []models.ClassModel {
	if len(names) == 0 {
		return all
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out []models.ClassModel
	for _, m := range all {
		if want[m.Name] {
			out = append(out, m)
		}
	}
	return out
}
