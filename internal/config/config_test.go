package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("FERNWIKI_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Search.DefaultLimit != 20 {
		t.Errorf("default search limit = %d", cfg.Search.DefaultLimit)
	}
	if cfg.Actor.Role != "writer" {
		t.Errorf("default role = %q", cfg.Actor.Role)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "[database]\ndefault = \"/tmp/custom.db\"\n\n[actor]\nid = \"gm\"\nrole = \"admin\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("FERNWIKI_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Default != "/tmp/custom.db" {
		t.Errorf("database = %q", cfg.Database.Default)
	}
	if cfg.Actor.ID != "gm" || cfg.Actor.Role != "admin" {
		t.Errorf("actor = %+v", cfg.Actor)
	}
	// unset sections keep their defaults
	if cfg.Search.DefaultLimit != 20 {
		t.Errorf("search limit lost its default: %d", cfg.Search.DefaultLimit)
	}
}

func TestResolveDatabasePath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")

	got, err := ResolveDatabasePath("/abs/wiki.db")
	if err != nil || got != "/abs/wiki.db" {
		t.Errorf("absolute path: %q, %v", got, err)
	}

	got, err = ResolveDatabasePath("campaign")
	if err != nil || got != filepath.Join("/data", appDir, "campaign.db") {
		t.Errorf("bare name: %q, %v", got, err)
	}

	got, err = ResolveDatabasePath("notes.sqlite")
	if err != nil || got != filepath.Join("/data", appDir, "notes.sqlite") {
		t.Errorf("named with extension: %q, %v", got, err)
	}
}
