package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ziadkadry99/navtree/internal/navtree"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Source != SourceOutline {
		t.Errorf("expected default source %q, got %q", SourceOutline, cfg.Source)
	}
	if cfg.OutputDir != "html" {
		t.Errorf("expected default output_dir %q, got %q", "html", cfg.OutputDir)
	}
	if cfg.PageSize != 250 {
		t.Errorf("expected default page_size 250, got %d", cfg.PageSize)
	}
	if cfg.SplitDepth != 2 {
		t.Errorf("expected default split_depth 2, got %d", cfg.SplitDepth)
	}
	if cfg.Messages[navtree.SyncOnKey] == "" {
		t.Errorf("expected default %s message", navtree.SyncOnKey)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.navtree.yml")

	original := DefaultConfig()
	original.ProjectName = "PING"
	original.Source = SourceDocs
	original.DocsDir = "site-src"
	original.Include = []string{"**/*.md", "**/*.html"}
	original.CreateSubdirs = true
	original.PageSize = 100
	original.Messages = map[string]string{"SYNCONMSG": "on", "SYNCOFFMSG": "off"}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.ProjectName != original.ProjectName {
		t.Errorf("project_name: got %q, want %q", loaded.ProjectName, original.ProjectName)
	}
	if loaded.Source != original.Source {
		t.Errorf("source: got %q, want %q", loaded.Source, original.Source)
	}
	if loaded.DocsDir != original.DocsDir {
		t.Errorf("docs_dir: got %q, want %q", loaded.DocsDir, original.DocsDir)
	}
	if !loaded.CreateSubdirs {
		t.Error("create_subdirs: got false, want true")
	}
	if loaded.PageSize != original.PageSize {
		t.Errorf("page_size: got %d, want %d", loaded.PageSize, original.PageSize)
	}
	if loaded.Messages["SYNCONMSG"] != "on" || loaded.Messages["SYNCOFFMSG"] != "off" {
		t.Errorf("messages: got %v", loaded.Messages)
	}
	if len(loaded.Include) != len(original.Include) {
		t.Errorf("include length: got %d, want %d", len(loaded.Include), len(original.Include))
	}
	for i, v := range loaded.Include {
		if v != original.Include[i] {
			t.Errorf("include[%d]: got %q, want %q", i, v, original.Include[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Source != SourceOutline {
		t.Errorf("expected default source, got %q", cfg.Source)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override output dir via env var.
	t.Setenv("NAVTREE_OUTPUT_DIR", "public")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputDir != "public" {
		t.Errorf("env override failed: got %q, want %q", loaded.OutputDir, "public")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("source: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"docs source", func(c *Config) { c.Source = SourceDocs }, false},
		{"invalid source", func(c *Config) { c.Source = "wiki" }, true},
		{"outline missing", func(c *Config) { c.Outline = "" }, true},
		{"docs dir missing", func(c *Config) { c.Source = SourceDocs; c.DocsDir = "" }, true},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, true},
		{"negative page size", func(c *Config) { c.PageSize = -1 }, true},
		{"negative split depth", func(c *Config) { c.SplitDepth = -1 }, true},
		{"negative concurrency", func(c *Config) { c.MaxConcurrency = -1 }, true},
		{"bad message key", func(c *Config) { c.Messages = map[string]string{"not a key": "x"} }, true},
		{"message redeclares tree", func(c *Config) { c.Messages = map[string]string{"navtree": "x"} }, true},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestMessageSet(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Messages = nil
	if got := cfg.MessageSet(); got[navtree.SyncOffKey] == "" {
		t.Errorf("expected default messages, got %v", got)
	}

	cfg.Messages = map[string]string{"synconmsg": "on"}
	got := cfg.MessageSet()
	if got["SYNCONMSG"] != "on" || len(got) != 1 {
		t.Errorf("MessageSet() = %v, want only SYNCONMSG=on", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"**/*.md", []string{"**/*.md"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
