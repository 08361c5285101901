// Package document implements the vision document store: metadata and
// section content persistence, section status lifecycle, and dynamic
// item (entity / iteration) bookkeeping.
//
// The store is the single writer for a document's records. Mutations on
// one document key are serialized; different documents proceed in
// parallel. Section content is opaque to the store — it is validated
// for being well-formed JSON and passed through untouched.
package document

import (
	"encoding/json"

	"github.com/autobots-devtools/vision-mcp/internal/schema"
)

// Key uniquely identifies one vision document. Immutable once the
// document exists; it is also the store's locking unit.
type Key struct {
	Component string `json:"component"`
	Version   string `json:"version"`
}

// String renders the key as "component/version".
func (k Key) String() string {
	return k.Component + "/" + k.Version
}

// SectionMeta tracks status for a single section. Content lives in a
// separate per-section record, not here.
type SectionMeta struct {
	Status    Status `json:"status"`
	UpdatedAt string `json:"updated_at"`
}

// DynamicItem is one entry of a dynamic group (an entity or iteration).
// Order within the group slice is significant and reorderable.
type DynamicItem struct {
	ItemName  string `json:"item_name"`
	Iteration int    `json:"iteration"`
	CreatedAt string `json:"created_at"`
}

// Meta is the root metadata record for a document, persisted as
// _meta.json in the document's directory.
type Meta struct {
	Component    string                   `json:"component"`
	Version      string                   `json:"version"`
	CreatedAt    string                   `json:"created_at"`
	UpdatedAt    string                   `json:"updated_at"`
	Sections     map[string]SectionMeta   `json:"sections"`
	DynamicItems map[string][]DynamicItem `json:"dynamic_items"`
}

// Key returns the document's identity.
func (m *Meta) Key() Key {
	return Key{Component: m.Component, Version: m.Version}
}

// NewMeta builds the metadata for a freshly created document: every
// static section of the registry at NOT_STARTED, every dynamic group
// present and empty, created_at == updated_at == now.
func NewMeta(reg *schema.Registry, component, version string) *Meta {
	now := timeNow().UTC().Format(timeFormat)

	sections := make(map[string]SectionMeta)
	for _, s := range reg.StaticSections() {
		sections[s.ID] = SectionMeta{Status: StatusNotStarted, UpdatedAt: now}
	}

	items := make(map[string][]DynamicItem)
	for _, g := range reg.Groups() {
		items[g.Name] = []DynamicItem{}
	}

	return &Meta{
		Component:    component,
		Version:      version,
		CreatedAt:    now,
		UpdatedAt:    now,
		Sections:     sections,
		DynamicItems: items,
	}
}

// Summary is a compact listing view of a document: its key plus how
// many of its sections have reached COMPLETE.
type Summary struct {
	Key       Key `json:"key"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Entity is the listing view of one dynamic-group item.
type Entity struct {
	Name      string `json:"name"`
	SectionID string `json:"section_id"`
	Status    Status `json:"status"`
}

// Content is an opaque, well-formed JSON section payload.
type Content = json.RawMessage
