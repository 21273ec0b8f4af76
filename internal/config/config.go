package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageSQLite StorageBackend = "sqlite"
)

type RuntimeConfig struct {
	DataDir              string
	Storage              StorageBackend
	NotificationsGranted bool
	DesktopNotifications bool
	AlertBuffer          int
	// ResyncMinutes > 0 enables the periodic bulk resync that refreshes stale
	// nag intervals; 0 keeps intervals fixed until the next edit.
	ResyncMinutes int
}

func DefaultRuntimeConfig() RuntimeConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return RuntimeConfig{
		DataDir:              filepath.Join(home, ".nagme"),
		Storage:              StorageFile,
		NotificationsGranted: true,
		DesktopNotifications: false,
		AlertBuffer:          64,
		ResyncMinutes:        0,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("NAGME_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	switch StorageBackend(strings.ToLower(strings.TrimSpace(os.Getenv("NAGME_STORAGE")))) {
	case StorageFile:
		cfg.Storage = StorageFile
	case StorageSQLite:
		cfg.Storage = StorageSQLite
	}
	if v, ok := getEnvBool("NAGME_NOTIFICATIONS"); ok {
		cfg.NotificationsGranted = v
	}
	if v, ok := getEnvBool("NAGME_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("NAGME_ALERT_BUFFER"); ok && v > 0 {
		cfg.AlertBuffer = v
	}
	if v, ok := getEnvInt("NAGME_RESYNC_MINUTES"); ok && v >= 0 {
		cfg.ResyncMinutes = v
	}
	return cfg
}

func (c RuntimeConfig) TaskFilePath() string {
	return filepath.Join(c.DataDir, "tasks.json")
}

func (c RuntimeConfig) DatabasePath() string {
	return filepath.Join(c.DataDir, "nagme.db")
}

func (c RuntimeConfig) LogFilePath() string {
	return filepath.Join(c.DataDir, "nagme.log")
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
