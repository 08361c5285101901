// Package schema defines the section catalog for vision documents.
//
// A document is made of static sections (fixed, known up front) and
// dynamic groups (variable-cardinality collections such as entities).
// The Registry is built once at startup — from the compiled-in catalog
// or a sections.yaml file — and is read-only afterwards, so it can be
// shared freely between the store and the exporter.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Section describes one static section of a vision document.
type Section struct {
	ID          string
	Title       string
	Description string
}

// Group describes one dynamic group: an ordered, variable-cardinality
// collection of items, each materialized as its own section.
type Group struct {
	Name       string // dynamic_items key, e.g. "entities"
	Title      string // exported heading, e.g. "Entities"
	ItemPrefix string // section id prefix, e.g. "05-entity-"
}

// ItemSectionID returns the section id for an item of this group.
func (g Group) ItemSectionID(slug string) string {
	return g.ItemPrefix + slug
}

// Registry is the ordered catalog of sections and dynamic groups.
type Registry struct {
	statics []Section
	byID    map[string]Section
	groups  []Group
	byName  map[string]Group
}

// New builds a Registry from an explicit catalog. Sections are ordered
// lexically on their numeric prefix, groups on their item prefix, which
// must match declaration order in the source catalog.
func New(sections []Section, groups []Group) (*Registry, error) {
	r := &Registry{
		byID:   make(map[string]Section, len(sections)),
		byName: make(map[string]Group, len(groups)),
	}

	for _, s := range sections {
		if s.ID == "" {
			return nil, fmt.Errorf("schema: static section with empty id")
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, fmt.Errorf("schema: duplicate section id %q", s.ID)
		}
		r.byID[s.ID] = s
		r.statics = append(r.statics, s)
	}

	for _, g := range groups {
		if g.Name == "" || g.ItemPrefix == "" {
			return nil, fmt.Errorf("schema: dynamic group %q needs a name and item prefix", g.Name)
		}
		if _, dup := r.byName[g.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate dynamic group %q", g.Name)
		}
		r.byName[g.Name] = g
		r.groups = append(r.groups, g)
	}

	sort.Slice(r.statics, func(i, j int) bool { return r.statics[i].ID < r.statics[j].ID })
	sort.Slice(r.groups, func(i, j int) bool { return r.groups[i].ItemPrefix < r.groups[j].ItemPrefix })

	return r, nil
}

// Default returns the built-in vision document catalog.
func Default() *Registry {
	r, err := New(
		[]Section{
			{ID: "01-preface", Title: "Preface", Description: "About this guide, audience, references, glossary"},
			{ID: "02-getting-started", Title: "Getting Started", Description: "Overview, vision, success metrics"},
			{ID: "03-01-list-of-features", Title: "List of Features", Description: "Feature table with priorities"},
		},
		[]Group{
			{Name: "value_iterations", Title: "Value Iterations", ItemPrefix: "04-value-iteration-"},
			{Name: "entities", Title: "Entities", ItemPrefix: "05-entity-"},
		},
	)
	if err != nil {
		// The built-in catalog is a compile-time constant; it cannot fail.
		panic(err)
	}
	return r
}

// StaticSections returns the static sections in registry order.
func (r *Registry) StaticSections() []Section {
	out := make([]Section, len(r.statics))
	copy(out, r.statics)
	return out
}

// Groups returns the dynamic groups in registry order.
func (r *Registry) Groups() []Group {
	out := make([]Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// Static looks up a static section by id.
func (r *Registry) Static(id string) (Section, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// Group looks up a dynamic group by name.
func (r *Registry) Group(name string) (Group, bool) {
	g, ok := r.byName[name]
	return g, ok
}

// IsDynamicGroup reports whether name is a registered dynamic group.
func (r *Registry) IsDynamicGroup(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// ValidateSectionID reports whether id names a static section or a
// well-formed item of a registered dynamic group.
func (r *Registry) ValidateSectionID(id string) bool {
	if _, ok := r.byID[id]; ok {
		return true
	}
	_, _, ok := r.SplitItemID(id)
	return ok
}

// SplitItemID resolves a dynamic-item section id into its group and
// item slug. Returns ok=false if id doesn't match any group's prefix
// or the remainder isn't a valid slug.
func (r *Registry) SplitItemID(id string) (Group, string, bool) {
	for _, g := range r.groups {
		if rest, found := strings.CutPrefix(id, g.ItemPrefix); found && IsSlug(rest) {
			return g, rest, true
		}
	}
	return Group{}, "", false
}
