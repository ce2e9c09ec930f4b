// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

// Storage backends accepted in Options.Storage.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StorageLevelDB  = "leveldb"
	StoragePostgres = "postgres"
)

// Options holds the configuration values for the application.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port"`

	// Storage selects the key-value medium: memory, file, leveldb or postgres.
	Storage string `json:"storage"`

	// DataPath is the JSON file or LevelDB directory for the file and
	// leveldb backends.
	DataPath string `json:"data_path"`

	// DatabaseDSN holds the database connection string for the postgres backend.
	DatabaseDSN string `json:"database_dsn"`

	// LogLevel is passed to the zap logger.
	LogLevel string `json:"log_level"`

	// RefreshInterval is how often the shell refreshes its cart count.
	RefreshInterval time.Duration `json:"refresh_interval"`

	// Config is the path to the Config file.
	Config string `json:"-"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Port, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.Storage, "storage", StorageFile, "storage backend: memory | file | leveldb | postgres")
	flag.StringVar(&options.DataPath, "data", "storage.json", "path to the storage file or leveldb directory")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level")
	flag.DurationVar(&options.RefreshInterval, "refresh", time.Second, "cart count refresh interval")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() (*Options, error) {
	flag.Parse()

	if err := Load(options); err != nil {
		return nil, err
	}
	return options, nil
}

// Load overlays the config file named by o.Config (or the CONFIG
// environment variable) and then the environment onto o. A missing config
// file is ignored.
func Load(o *Options) error {
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		o.Config = configPath
	}

	if o.Config != "" {
		if _, err := os.Stat(o.Config); err == nil {
			data, err := os.ReadFile(o.Config)
			if err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, o); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		o.Port = serverAddress
	}
	if storage := os.Getenv("STORAGE"); storage != "" {
		o.Storage = storage
	}
	if dataPath := os.Getenv("DATA_PATH"); dataPath != "" {
		o.DataPath = dataPath
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		o.DatabaseDSN = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		o.LogLevel = level
	}

	switch o.Storage {
	case StorageMemory, StorageFile, StorageLevelDB, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage backend %q", o.Storage)
	}
	return nil
}
