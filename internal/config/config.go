package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all service configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logger  LoggerConfig  `yaml:"logger"`
	Storage StorageConfig `yaml:"storage"`
	Redis   RedisConfig   `yaml:"redis"`
	JWT     JWTConfig     `yaml:"jwt"`
	S3      S3Config      `yaml:"s3"`
	Jobs    JobsConfig    `yaml:"jobs"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"`
	BasePath        string        `yaml:"base_path"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig locates the durable files and tunes the flush debounce
type StorageConfig struct {
	DataDir       string        `yaml:"data_dir"`
	SnapshotFile  string        `yaml:"snapshot_file"`
	LegacyFile    string        `yaml:"legacy_file"`
	FlushDebounce time.Duration `yaml:"flush_debounce"`
}

// RedisConfig enables the cross-process sync relay when URL is set
type RedisConfig struct {
	URL     string `yaml:"url"`
	Channel string `yaml:"channel"`
}

// JWTConfig enables bearer authentication on the API when Secret is set
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"`
}

// Enabled reports whether enough is configured to back up snapshots
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.Region != ""
}

type JobsConfig struct {
	CleanupSchedule string `yaml:"cleanup_schedule"`
	RetentionDays   int    `yaml:"retention_days"`
	BackupSchedule  string `yaml:"backup_schedule"`
}

// Default returns the configuration used when no file or env overrides exist
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Mode:            "debug",
			BasePath:        "/api",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			DataDir:       "data",
			SnapshotFile:  "planner.db",
			LegacyFile:    "projects.json",
			FlushDebounce: 500 * time.Millisecond,
		},
		Redis: RedisConfig{
			Channel: "planner:sync",
		},
		S3: S3Config{
			Prefix: "snapshots",
		},
		Jobs: JobsConfig{
			CleanupSchedule: "@daily",
			RetentionDays:   30,
			BackupSchedule:  "@every 6h",
		},
	}
}

// Load builds the configuration from defaults, the yaml file at path (if present) and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if basePath := os.Getenv("SERVER_BASE_PATH"); basePath != "" {
		c.Server.BasePath = basePath
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logger.Level = level
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
	}
	if file := os.Getenv("SNAPSHOT_FILE"); file != "" {
		c.Storage.SnapshotFile = file
	}
	if file := os.Getenv("LEGACY_FILE"); file != "" {
		c.Storage.LegacyFile = file
	}
	if debounce := os.Getenv("FLUSH_DEBOUNCE"); debounce != "" {
		d, err := time.ParseDuration(debounce)
		if err != nil {
			return fmt.Errorf("invalid FLUSH_DEBOUNCE %q: %w", debounce, err)
		}
		c.Storage.FlushDebounce = d
	}
	if url := os.Getenv("REDIS_URL"); url != "" {
		c.Redis.URL = url
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		c.S3.Bucket = bucket
	}
	if region := os.Getenv("S3_REGION"); region != "" {
		c.S3.Region = region
	}
	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		c.S3.Endpoint = endpoint
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		c.S3.AccessKey = key
	}
	if key := os.Getenv("S3_SECRET_KEY"); key != "" {
		c.S3.SecretKey = key
	}
	if schedule := os.Getenv("CLEANUP_SCHEDULE"); schedule != "" {
		c.Jobs.CleanupSchedule = schedule
	}
	if days := os.Getenv("CLEANUP_RETENTION_DAYS"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid CLEANUP_RETENTION_DAYS %q: %w", days, err)
		}
		c.Jobs.RetentionDays = n
	}
	if schedule := os.Getenv("BACKUP_SCHEDULE"); schedule != "" {
		c.Jobs.BackupSchedule = schedule
	}
	return nil
}

// Validate rejects configurations the service cannot start with
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if c.Storage.SnapshotFile == "" {
		return errors.New("storage.snapshot_file is required")
	}
	if c.Storage.FlushDebounce <= 0 {
		return fmt.Errorf("storage.flush_debounce must be positive, got %s", c.Storage.FlushDebounce)
	}
	if c.Jobs.RetentionDays < 0 {
		return fmt.Errorf("jobs.retention_days must not be negative, got %d", c.Jobs.RetentionDays)
	}
	return nil
}

// SnapshotPath returns the snapshot file, resolved against the data dir when relative
func (s StorageConfig) SnapshotPath() string {
	return s.resolve(s.SnapshotFile)
}

// LegacyPath returns the legacy flat file, resolved against the data dir when relative.
// An empty legacy file disables migration.
func (s StorageConfig) LegacyPath() string {
	if s.LegacyFile == "" {
		return ""
	}
	return s.resolve(s.LegacyFile)
}

func (s StorageConfig) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.DataDir, name)
}
