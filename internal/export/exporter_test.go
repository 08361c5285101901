package export

import (
	"errors"
	"strings"
	"testing"

	"github.com/autobots-devtools/vision-mcp/internal/document"
	"github.com/autobots-devtools/vision-mcp/internal/schema"
)

func newTestExporter(t *testing.T) (*Exporter, *document.FileStore) {
	t.Helper()
	reg := schema.Default()
	store := document.NewFileStore(t.TempDir(), reg)
	return New(store, reg), store
}

func mustCreate(t *testing.T, store *document.FileStore, component, version string) document.Key {
	t.Helper()
	if _, err := store.CreateDocument(component, version); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}
	return document.Key{Component: component, Version: version}
}

func mustWrite(t *testing.T, store *document.FileStore, key document.Key, sectionID, content string) {
	t.Helper()
	if err := store.WriteSection(key, sectionID, document.Content(content)); err != nil {
		t.Fatalf("WriteSection(%s) failed: %v", sectionID, err)
	}
}

func TestExport_EmptyDocument(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	out, err := e.Export(key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.HasPrefix(out, "# billing 1.0\n\n*Component Vision Document*\n\n") {
		t.Errorf("export header wrong:\n%s", out)
	}
	for _, heading := range []string{
		"## 1. Preface",
		"## 2. Getting Started",
		"## 3. List of Features",
		"## 4. Value Iterations",
		"## 5. Entities",
	} {
		if !strings.Contains(out, heading) {
			t.Errorf("export missing heading %q", heading)
		}
	}
	if got := strings.Count(out, "*Section not completed*"); got != 3 {
		t.Errorf("placeholder count = %d, want 3", got)
	}
	if !strings.Contains(out, "*No value iterations defined*") {
		t.Error("export missing empty-group marker for value iterations")
	}
	if !strings.Contains(out, "*No entities defined*") {
		t.Error("export missing empty-group marker for entities")
	}
	if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n") {
		t.Error("export must end with exactly one trailing newline")
	}
}

func TestExport_Deterministic(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	mustWrite(t, store, key, "02-getting-started", `{
		"overview": "Billing handles invoicing.",
		"vision": "Zero-touch billing.",
		"success_metrics": ["99% automated", "sub-second lookup"]
	}`)
	if _, err := store.CreateEntity(key, "entities", "Invoice"); err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}

	first, err := e.Export(key)
	if err != nil {
		t.Fatalf("first Export failed: %v", err)
	}
	second, err := e.Export(key)
	if err != nil {
		t.Fatalf("second Export failed: %v", err)
	}
	if first != second {
		t.Error("re-export of unchanged document is not byte-identical")
	}
}

func TestExport_GettingStartedTemplate(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	mustWrite(t, store, key, "02-getting-started", `{
		"overview": "Billing handles invoicing.",
		"vision": "Zero-touch billing.",
		"success_metrics": ["99% automated"]
	}`)

	out, err := e.Export(key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, want := range []string{
		"### 2.1 Overview\n\nBilling handles invoicing.",
		"### 2.2 Vision\n\nZero-touch billing.",
		"### 2.3 Success Metrics\n\n- 99% automated",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}

func TestExport_FeaturesTable(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	mustWrite(t, store, key, "03-01-list-of-features", `{
		"features": [
			{"name": "Auto-invoice", "description": "Generates invoices", "priority": "must_have"},
			{"name": "Reminders", "description": "Chases late payers", "priority": "nice_to_have"}
		]
	}`)

	out, err := e.Export(key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.Contains(out, "| Feature | Description | Priority |") {
		t.Error("export missing feature table header")
	}
	if !strings.Contains(out, "| Auto-invoice | Generates invoices | Must Have |") {
		t.Errorf("export missing feature row:\n%s", out)
	}
	if !strings.Contains(out, "| Reminders | Chases late payers | Nice To Have |") {
		t.Errorf("export missing second feature row:\n%s", out)
	}
}

func TestExport_EntityTemplate(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	sectionID, err := store.CreateEntity(key, "entities", "Invoice")
	if err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}
	mustWrite(t, store, key, sectionID, `{
		"name": "Invoice",
		"description": "A bill sent to a customer.",
		"purpose": "Records what is owed.",
		"attributes": [
			{"name": "total", "type": "decimal", "required": true, "description": "Amount due"}
		],
		"relationships": [
			{"entity": "Customer", "type": "belongs-to", "description": "The payer"}
		],
		"business_rules": ["Totals are never negative"]
	}`)

	out, err := e.Export(key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	for _, want := range []string{
		"### 5.1 Invoice",
		"A bill sent to a customer.",
		"**Purpose**: Records what is owed.",
		"| total | decimal | Yes | Amount due |",
		"- **Customer** (belongs-to): The payer",
		"#### Business Rules\n\n- Totals are never negative",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}

func TestExport_ItemsInStoredOrder(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	for _, name := range []string{"zebra", "apple"} {
		if _, err := store.CreateEntity(key, "entities", name); err != nil {
			t.Fatalf("CreateEntity(%s) failed: %v", name, err)
		}
	}

	out, err := e.Export(key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Insertion order, not alphabetical.
	zebra := strings.Index(out, "### 5.1 zebra")
	apple := strings.Index(out, "### 5.2 apple")
	if zebra < 0 || apple < 0 || apple < zebra {
		t.Errorf("items out of stored order:\n%s", out)
	}

	if err := store.ReorderGroup(key, "entities", []string{"apple", "zebra"}); err != nil {
		t.Fatalf("ReorderGroup failed: %v", err)
	}
	out, _ = e.Export(key)
	if !strings.Contains(out, "### 5.1 apple") || !strings.Contains(out, "### 5.2 zebra") {
		t.Errorf("export does not reflect reordered group:\n%s", out)
	}
}

func TestExport_FreshEntityPlaceholder(t *testing.T) {
	e, store := newTestExporter(t)
	key := mustCreate(t, store, "billing", "1.0")

	if _, err := store.CreateEntity(key, "entities", "Invoice"); err != nil {
		t.Fatalf("CreateEntity failed: %v", err)
	}

	out, err := e.Export(key)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(out, "### 5.1 invoice\n\n*Item not completed*") {
		t.Errorf("fresh entity should render a placeholder:\n%s", out)
	}
}

func TestExport_NotFound(t *testing.T) {
	e, _ := newTestExporter(t)

	_, err := e.Export(document.Key{Component: "ghost", Version: "1.0"})
	if !errors.Is(err, document.ErrNotFound) {
		t.Errorf("Export error = %v, want ErrNotFound", err)
	}
}

// brokenReadStore fails every content read with a non-NotFound error,
// standing in for a storage medium with I/O trouble.
type brokenReadStore struct {
	document.Store
	err error
}

func (s brokenReadStore) ReadSection(document.Key, string) (document.Content, error) {
	return nil, s.err
}

func TestExport_PropagatesReadFailures(t *testing.T) {
	reg := schema.Default()
	store := document.NewFileStore(t.TempDir(), reg)
	key := mustCreate(t, store, "billing", "1.0")
	mustWrite(t, store, key, "01-preface", `{"about_this_guide": "x"}`)

	readErr := errors.New("disk read failed")
	e := New(brokenReadStore{Store: store, err: readErr}, reg)

	_, err := e.Export(key)
	if !errors.Is(err, readErr) {
		t.Errorf("Export error = %v, want the read failure, not a placeholder render", err)
	}
}

func TestTitleWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"success_metrics", "Success Metrics"},
		{"must_have", "Must Have"},
		{"priority", "Priority"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := titleWords(tt.in); got != tt.want {
			t.Errorf("titleWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
