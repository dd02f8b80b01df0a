package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"ULENS_ADDR", "ULENS_DB", "ULENS_EPHEMERIS", "ULENS_VERBOSE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBPath != "ulens.db" {
		t.Errorf("DBPath = %q, want ulens.db", cfg.DBPath)
	}
	if cfg.Ephemeris != "meeus" {
		t.Errorf("Ephemeris = %q, want meeus", cfg.Ephemeris)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ULENS_ADDR", "127.0.0.1:9999")
	t.Setenv("ULENS_DB", "/tmp/events.db")
	t.Setenv("ULENS_VERBOSE", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/events.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be true")
	}
}

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfigFile(t, "ulens.json", `{"addr": ":9090", "verbose": true}`)

	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if f.Addr == nil || *f.Addr != ":9090" {
		t.Errorf("Addr = %v", f.Addr)
	}
	if f.DBPath != nil {
		t.Errorf("DBPath should stay nil when omitted, got %v", *f.DBPath)
	}

	cfg := f.Apply(Config{Addr: ":8080", DBPath: "ulens.db", Ephemeris: "meeus"})
	if cfg.Addr != ":9090" {
		t.Errorf("Apply Addr = %q, want the file override", cfg.Addr)
	}
	if cfg.DBPath != "ulens.db" {
		t.Errorf("Apply DBPath = %q, want the environment value", cfg.DBPath)
	}
	if !cfg.Verbose {
		t.Error("Apply should carry the verbose override")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(writeConfigFile(t, "ulens.yaml", "addr: :9090")); err == nil {
		t.Error("expected extension error for non-JSON file")
	}
	if _, err := LoadFile(writeConfigFile(t, "bad.json", "{not json")); err == nil {
		t.Error("expected parse error for invalid JSON")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected stat error for missing file")
	}
}

func TestFileValidate(t *testing.T) {
	bad := "no-port"
	if err := (&File{Addr: &bad}).Validate(); err == nil {
		t.Error("expected addr validation error")
	}
	eph := "jpl-de440"
	if err := (&File{Ephemeris: &eph}).Validate(); err == nil {
		t.Error("expected unknown ephemeris error")
	}
	empty := ""
	if err := (&File{DBPath: &empty}).Validate(); err == nil {
		t.Error("expected empty db_path error")
	}
	if err := (&File{}).Validate(); err != nil {
		t.Errorf("empty override should validate: %v", err)
	}
}

func TestFileGetters(t *testing.T) {
	var f *File
	if got := f.GetAddr(":8080"); got != ":8080" {
		t.Errorf("nil file GetAddr = %q", got)
	}
	addr := ":7070"
	f = &File{Addr: &addr}
	if got := f.GetAddr(":8080"); got != ":7070" {
		t.Errorf("GetAddr = %q", got)
	}
	if got := f.GetDBPath("ulens.db"); got != "ulens.db" {
		t.Errorf("GetDBPath fallback = %q", got)
	}
}
