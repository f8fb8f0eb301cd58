package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadGlobalMissingFileUsesDefaults(t *testing.T) {
	Global = global{}
	if err := LoadGlobal(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("expected no error for a missing file, got %s", err)
	}
	if Global.IsGlobalConfigExists() {
		t.Fatalf("expected global config to be marked as not loaded")
	}
}

func TestLoadGlobalReadsYaml(t *testing.T) {
	Global = global{}
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("controller-url: http://controller.test:8080\norg-id: org-1\n"), 0o600); err != nil {
		t.Fatalf("failed to write config: %s", err)
	}
	if err := LoadGlobal(configPath); err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	if Global.ControllerUrl != "http://controller.test:8080" {
		t.Fatalf("unexpected controller url: %s", Global.ControllerUrl)
	}
	if Global.OrgId != "org-1" {
		t.Fatalf("unexpected org id: %s", Global.OrgId)
	}
	if !Global.IsGlobalConfigExists() {
		t.Fatalf("expected global config to be marked as loaded")
	}
}
