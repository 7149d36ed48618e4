// Copyright 2024 TochusC AOSP Lab. All rights reserved.

package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "bind_address: \"127.0.0.1:5353\"\nzone_file: zones/example.com.zone\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BindAddress != "127.0.0.1:5353" {
		t.Errorf("BindAddress = %q, want 127.0.0.1:5353", cfg.BindAddress)
	}
	if cfg.MTU != DefaultMTU {
		t.Errorf("MTU = %d, want default %d", cfg.MTU, DefaultMTU)
	}
	if cfg.SignWorkers != DefaultSignWorkers {
		t.Errorf("SignWorkers = %d, want default %d", cfg.SignWorkers, DefaultSignWorkers)
	}
}

func TestLoadConfigRespectsExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	doc := "bind_address: \":53\"\nmtu: 4096\nsign_workers: 16\nnsec3:\n  iterations: 10\n  salt: \"aabb\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MTU != 4096 {
		t.Errorf("MTU = %d, want 4096", cfg.MTU)
	}
	if cfg.SignWorkers != 16 {
		t.Errorf("SignWorkers = %d, want 16", cfg.SignWorkers)
	}
	if cfg.NSEC3 == nil || cfg.NSEC3.Iterations != 10 || cfg.NSEC3.Salt != "aabb" {
		t.Errorf("NSEC3 = %+v, want iterations=10 salt=aabb", cfg.NSEC3)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
