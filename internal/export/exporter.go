// Package export renders a stored vision document as a single ordered
// Markdown document.
//
// The projection is pure and deterministic: sections appear in registry
// order, dynamic groups after them in registry order, and items within
// a group in their stored order. Headings are numbered sequentially in
// that order. No timestamps or other volatile data are embedded, so
// re-exporting an unchanged document is byte-identical.
//
// Sections still at NOT_STARTED (or with no content on disk) render
// their heading followed by a "*Section not completed*" placeholder.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/schema"
)

const placeholder = "*Section not completed*"

// Exporter projects documents from a store into Markdown.
type Exporter struct {
	store document.Store
	reg   *schema.Registry
}

// New creates an Exporter reading from store, ordered per reg.
func New(store document.Store, reg *schema.Registry) *Exporter {
	return &Exporter{store: store, reg: reg}
}

// Export renders the document identified by key.
func (e *Exporter) Export(key document.Key) (string, error) {
	meta, err := e.store.GetDocument(key)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", meta.Component, meta.Version)
	b.WriteString("*Component Vision Document*\n\n")

	num := 0
	for _, s := range e.reg.StaticSections() {
		num++
		if err := e.writeStatic(&b, key, meta, s, num); err != nil {
			return "", err
		}
	}

	for _, g := range e.reg.Groups() {
		num++
		if err := e.writeGroup(&b, key, meta, g, num); err != nil {
			return "", err
		}
	}

	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// readContent loads and decodes a section's content. Returns nil when
// the content record is absent — the caller renders the placeholder.
// Any other failure is a real read error and propagates.
func (e *Exporter) readContent(key document.Key, sectionID string) (map[string]any, error) {
	raw, err := e.store.ReadSection(key, sectionID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("decoding section %s in %s: %w", sectionID, key, err)
	}
	return content, nil
}

func (e *Exporter) writeStatic(b *strings.Builder, key document.Key, meta *document.Meta, s schema.Section, num int) error {
	fmt.Fprintf(b, "## %d. %s\n\n", num, s.Title)

	if meta.Sections[s.ID].Status == document.StatusNotStarted {
		b.WriteString(placeholder + "\n\n")
		return nil
	}
	content, err := e.readContent(key, s.ID)
	if err != nil {
		return err
	}
	if content == nil {
		b.WriteString(placeholder + "\n\n")
		return nil
	}

	switch s.ID {
	case "01-preface":
		writePreface(b, num, content)
	case "02-getting-started":
		writeGettingStarted(b, num, content)
	case "03-01-list-of-features":
		writeFeatures(b, content)
	default:
		writeGeneric(b, content)
	}
	return nil
}

func (e *Exporter) writeGroup(b *strings.Builder, key document.Key, meta *document.Meta, g schema.Group, num int) error {
	fmt.Fprintf(b, "## %d. %s\n\n", num, g.Title)

	items := meta.DynamicItems[g.Name]
	if len(items) == 0 {
		fmt.Fprintf(b, "*No %s defined*\n\n", strings.ToLower(g.Title))
		return nil
	}

	for i, item := range items {
		sectionID := g.ItemSectionID(item.ItemName)
		content, err := e.readContent(key, sectionID)
		if err != nil {
			return err
		}

		title := item.ItemName
		if content != nil {
			if name, ok := content["name"].(string); ok && name != "" {
				title = name
			}
		}
		fmt.Fprintf(b, "### %d.%d %s\n\n", num, i+1, title)

		if content == nil || len(content) == 0 {
			fmt.Fprintf(b, "*Item not completed*\n\n")
			continue
		}

		if g.Name == "entities" {
			writeEntity(b, content)
		} else {
			writeGeneric(b, content)
		}
	}
	return nil
}

// --- Section templates ---

func writePreface(b *strings.Builder, num int, content map[string]any) {
	sub := 0

	if about, ok := content["about_this_guide"].(string); ok && about != "" {
		sub++
		fmt.Fprintf(b, "### %d.%d About This Guide\n\n%s\n\n", num, sub, about)
	}

	if audience := stringSlice(content["audience"]); len(audience) > 0 {
		sub++
		fmt.Fprintf(b, "### %d.%d Audience\n\n", num, sub)
		for _, item := range audience {
			fmt.Fprintf(b, "- %s\n", item)
		}
		b.WriteString("\n")
	}

	if refs := mapSlice(content["reference_documents"]); len(refs) > 0 {
		sub++
		fmt.Fprintf(b, "### %d.%d Reference Documents\n\n", num, sub)
		for _, ref := range refs {
			name, _ := ref["name"].(string)
			url, _ := ref["url"].(string)
			if url != "" {
				fmt.Fprintf(b, "- [%s](%s)\n", name, url)
			} else {
				fmt.Fprintf(b, "- %s\n", name)
			}
		}
		b.WriteString("\n")
	}

	if glossary := mapSlice(content["glossary"]); len(glossary) > 0 {
		sub++
		fmt.Fprintf(b, "### %d.%d Glossary\n\n", num, sub)
		for _, item := range glossary {
			term, _ := item["term"].(string)
			definition, _ := item["definition"].(string)
			fmt.Fprintf(b, "**%s**: %s\n\n", term, definition)
		}
	}
}

func writeGettingStarted(b *strings.Builder, num int, content map[string]any) {
	sub := 0

	if overview, ok := content["overview"].(string); ok && overview != "" {
		sub++
		fmt.Fprintf(b, "### %d.%d Overview\n\n%s\n\n", num, sub, overview)
	}

	if vision, ok := content["vision"].(string); ok && vision != "" {
		sub++
		fmt.Fprintf(b, "### %d.%d Vision\n\n%s\n\n", num, sub, vision)
	}

	if metrics := stringSlice(content["success_metrics"]); len(metrics) > 0 {
		sub++
		fmt.Fprintf(b, "### %d.%d Success Metrics\n\n", num, sub)
		for _, m := range metrics {
			fmt.Fprintf(b, "- %s\n", m)
		}
		b.WriteString("\n")
	}
}

func writeFeatures(b *strings.Builder, content map[string]any) {
	features := mapSlice(content["features"])
	if len(features) == 0 {
		return
	}

	b.WriteString("| Feature | Description | Priority |\n")
	b.WriteString("|---------|-------------|----------|\n")
	for _, f := range features {
		name, _ := f["name"].(string)
		desc, _ := f["description"].(string)
		priority := titleWords(stringField(f, "priority"))
		fmt.Fprintf(b, "| %s | %s | %s |\n", name, desc, priority)
	}
	b.WriteString("\n")
}

func writeEntity(b *strings.Builder, content map[string]any) {
	if desc, ok := content["description"].(string); ok && desc != "" {
		b.WriteString(desc + "\n\n")
	}
	if purpose, ok := content["purpose"].(string); ok && purpose != "" {
		fmt.Fprintf(b, "**Purpose**: %s\n\n", purpose)
	}

	if attrs := mapSlice(content["attributes"]); len(attrs) > 0 {
		b.WriteString("#### Attributes\n\n")
		b.WriteString("| Name | Type | Required | Description |\n")
		b.WriteString("|------|------|----------|-------------|\n")
		for _, attr := range attrs {
			name, _ := attr["name"].(string)
			typ, _ := attr["type"].(string)
			required := "No"
			if req, _ := attr["required"].(bool); req {
				required = "Yes"
			}
			desc, _ := attr["description"].(string)
			fmt.Fprintf(b, "| %s | %s | %s | %s |\n", name, typ, required, desc)
		}
		b.WriteString("\n")
	}

	if rels := mapSlice(content["relationships"]); len(rels) > 0 {
		b.WriteString("#### Relationships\n\n")
		for _, rel := range rels {
			entity, _ := rel["entity"].(string)
			relType, _ := rel["type"].(string)
			desc, _ := rel["description"].(string)
			fmt.Fprintf(b, "- **%s** (%s): %s\n", entity, relType, desc)
		}
		b.WriteString("\n")
	}

	if rules := stringSlice(content["business_rules"]); len(rules) > 0 {
		b.WriteString("#### Business Rules\n\n")
		for _, rule := range rules {
			fmt.Fprintf(b, "- %s\n", rule)
		}
		b.WriteString("\n")
	}
}

// writeGeneric renders a content object with no dedicated template:
// fields in sorted key order, scalar values inline, string lists as
// bullets. Keeps output stable for section shapes added by config.
func writeGeneric(b *strings.Builder, content map[string]any) {
	keys := make([]string, 0, len(content))
	for k := range content {
		if k == "name" {
			continue // already rendered as the heading
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		label := titleWords(k)
		switch v := content[k].(type) {
		case string:
			if v != "" {
				fmt.Fprintf(b, "**%s**: %s\n\n", label, v)
			}
		case bool:
			fmt.Fprintf(b, "**%s**: %t\n\n", label, v)
		case float64:
			fmt.Fprintf(b, "**%s**: %g\n\n", label, v)
		case []any:
			if items := stringSlice(v); len(items) > 0 {
				fmt.Fprintf(b, "**%s**:\n\n", label)
				for _, item := range items {
					fmt.Fprintf(b, "- %s\n", item)
				}
				b.WriteString("\n")
			}
		}
	}
}

// --- Decoding helpers ---

// titleWords turns a snake_case field name into a display label:
// "success_metrics" → "Success Metrics".
func titleWords(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func mapSlice(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
