package config

import "testing"

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("NAGME_DATA_DIR", "/tmp/nagme-test")
	t.Setenv("NAGME_STORAGE", "sqlite")
	t.Setenv("NAGME_NOTIFICATIONS", "no")
	t.Setenv("NAGME_DESKTOP_NOTIFICATIONS", "1")
	t.Setenv("NAGME_ALERT_BUFFER", "128")
	t.Setenv("NAGME_RESYNC_MINUTES", "15")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DataDir != "/tmp/nagme-test" {
		t.Fatalf("data dir not applied: %q", cfg.DataDir)
	}
	if cfg.Storage != StorageSQLite {
		t.Fatalf("storage backend not applied: %q", cfg.Storage)
	}
	if cfg.NotificationsGranted {
		t.Fatalf("notifications should be denied")
	}
	if !cfg.DesktopNotifications {
		t.Fatalf("desktop notifications should be on")
	}
	if cfg.AlertBuffer != 128 || cfg.ResyncMinutes != 15 {
		t.Fatalf("numeric overrides not applied: %#v", cfg)
	}
}

func TestRuntimeConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("NAGME_STORAGE", "postgres")
	t.Setenv("NAGME_ALERT_BUFFER", "not-a-number")
	t.Setenv("NAGME_NOTIFICATIONS", "maybe")

	base := DefaultRuntimeConfig()
	cfg := RuntimeConfigFromEnv(base)
	if cfg.Storage != base.Storage || cfg.AlertBuffer != base.AlertBuffer {
		t.Fatalf("invalid values should fall back to defaults: %#v", cfg)
	}
	if cfg.NotificationsGranted != base.NotificationsGranted {
		t.Fatalf("unparseable bool should keep default")
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	cfg.DataDir = "/data"
	if cfg.TaskFilePath() != "/data/tasks.json" {
		t.Fatalf("unexpected task file path: %q", cfg.TaskFilePath())
	}
	if cfg.DatabasePath() != "/data/nagme.db" {
		t.Fatalf("unexpected db path: %q", cfg.DatabasePath())
	}
	if cfg.LogFilePath() != "/data/nagme.log" {
		t.Fatalf("unexpected log path: %q", cfg.LogFilePath())
	}
}
