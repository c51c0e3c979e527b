package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "gnnorm"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/gnnorm by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/gnnorm by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/gnnorm/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/gnnorm/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// DatasetsFilePath returns the full path to the datasets.yaml file.
// Returns ~/.config/gnnorm/datasets.yaml by default.
func DatasetsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "datasets.yaml")
}

// StoreDir returns the checkpoint store directory of a dataset.
// Returns ~/.cache/gnnorm/store/<datasetKey> by default.
func StoreDir(homeDir, datasetKey string) string {
	return filepath.Join(CacheDir(homeDir), "store", datasetKey)
}

// ExportDir returns the directory of SQLite hand-off files.
// Returns ~/.cache/gnnorm/export by default.
func ExportDir(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), "export")
}

// ArchiveDir returns the directory where zipped archives of a dataset are
// extracted. Returns ~/.cache/gnnorm/archive/<datasetKey> by default.
func ArchiveDir(homeDir, datasetKey string) string {
	return filepath.Join(CacheDir(homeDir), "archive", datasetKey)
}
