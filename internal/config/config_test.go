package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.DocsDir != "vision-docs" {
		t.Errorf("DocsDir = %s, want vision-docs", s.DocsDir)
	}
	if s.ContextBackend != "memory" {
		t.Errorf("ContextBackend = %s, want memory", s.ContextBackend)
	}
	if filepath.Base(s.DataDir) != ".vision-mcp" {
		t.Errorf("DataDir = %s, want .vision-mcp under home", s.DataDir)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv(EnvDocsDir, "/srv/docs")
	t.Setenv(EnvContextBackend, "redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.DocsDir != "/srv/docs" {
		t.Errorf("DocsDir = %s, want /srv/docs", s.DocsDir)
	}
	if s.ContextBackend != "redis" {
		t.Errorf("ContextBackend = %s, want redis", s.ContextBackend)
	}
	if s.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %s", s.RedisURL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	content := "docs_dir: /data/visions\ncontext_backend: sqlite\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.DocsDir != "/data/visions" {
		t.Errorf("DocsDir = %s, want /data/visions", s.DocsDir)
	}
	if s.ContextBackend != "sqlite" {
		t.Errorf("ContextBackend = %s, want sqlite", s.ContextBackend)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvDocsDir, "/from/env")

	content := "docs_dir: /from/file\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.DocsDir != "/from/env" {
		t.Errorf("DocsDir = %s, want /from/env", s.DocsDir)
	}
}

func TestLoad_MissingConfigFileIsNotAnError(t *testing.T) {
	t.Setenv(EnvDataDir, t.TempDir())

	if _, err := Load(); err != nil {
		t.Errorf("Load with no config.yaml failed: %v", err)
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("docs_dir: [oops"), 0o644); err != nil {
		t.Fatalf("writing config.yaml: %v", err)
	}
	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config.yaml")
	}
}
