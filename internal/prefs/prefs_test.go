package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("Load = %+v, want %+v", p, Default())
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "haven")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	body := "theme = \"Slate\"\narticle_page_size = 10\narticle_category = 2\n"
	if err := os.WriteFile(filepath.Join(prefsDir, "prefs.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || p.ArticlePageSize != 10 || p.ArticleCategory != 2 {
		t.Fatalf("Load = %+v, want Slate/10/2", p)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Kanagawa\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("Theme = %q, want Kanagawa", p.Theme)
	}
	if p.ArticlePageSize != defaultArticlePageSize {
		t.Fatalf("ArticlePageSize = %d, want %d", p.ArticlePageSize, defaultArticlePageSize)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(prefsFile, Prefs{Theme: "Slate", ArticlePageSize: 12, ArticleCategory: 1}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" || loaded.ArticlePageSize != 12 || loaded.ArticleCategory != 1 {
		t.Fatalf("Load = %+v, want Slate/12/1", loaded)
	}
}

func TestLoad_OutOfRangeValuesAreClamped(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	body := "theme = \"\"\narticle_page_size = 500\narticle_category = -4\n"
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.ArticlePageSize != maxArticlePageSize {
		t.Fatalf("ArticlePageSize = %d, want %d", p.ArticlePageSize, maxArticlePageSize)
	}
	if p.ArticleCategory != 0 {
		t.Fatalf("ArticleCategory = %d, want 0", p.ArticleCategory)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err == nil {
		t.Fatal("Load returned nil error for malformed file")
	}
	if p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestLoad_UnreadableFileReportsError(t *testing.T) {
	// A directory opens but cannot be read as a file.
	dir := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	p, err := Load(dir)
	if err == nil {
		t.Fatal("Load returned nil error for unreadable file")
	}
	if p != Default() {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}
