package schema

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sections.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	return path
}

func TestLoad_BuildsRegistry(t *testing.T) {
	path := writeCatalog(t, `
sections:
  01-intro:
    title: Introduction
    description: Opening section
    static: true
  02-scope:
    title: Scope
    static: true
  03-risk:
    title: Risks
    dynamic: true
    group: risks
    item_prefix: 03-risk-
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	statics := reg.StaticSections()
	if len(statics) != 2 {
		t.Fatalf("static count = %d, want 2", len(statics))
	}
	if statics[0].ID != "01-intro" || statics[1].ID != "02-scope" {
		t.Errorf("static order = %s, %s", statics[0].ID, statics[1].ID)
	}
	if statics[0].Title != "Introduction" {
		t.Errorf("title = %s, want Introduction", statics[0].Title)
	}

	g, ok := reg.Group("risks")
	if !ok {
		t.Fatal("group risks not registered")
	}
	if g.ItemPrefix != "03-risk-" {
		t.Errorf("item prefix = %s, want 03-risk-", g.ItemPrefix)
	}
	if !reg.ValidateSectionID("03-risk-data-loss") {
		t.Error("dynamic item id of loaded group should validate")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestLoad_EmptyCatalog(t *testing.T) {
	path := writeCatalog(t, "sections: {}\n")
	if _, err := Load(path); err == nil {
		t.Error("expected error for empty catalog")
	}
}

func TestLoad_DynamicWithoutGroup(t *testing.T) {
	path := writeCatalog(t, `
sections:
  03-risk:
    title: Risks
    dynamic: true
    item_prefix: 03-risk-
`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for dynamic section without group name")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeCatalog(t, "sections: [not a map")
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
