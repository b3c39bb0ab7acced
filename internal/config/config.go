package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Remote blog API configuration
	Remote RemoteConfig `yaml:"remote"`

	// Image hosting configuration
	ImageHost ImageHostConfig `yaml:"image_host"`

	// Settings database configuration
	Database DatabaseConfig `yaml:"database"`

	// Logging configuration
	Log LogConfig `yaml:"log"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LatestCount     int           `yaml:"latest_count"`
}

// RemoteConfig holds the blog REST API settings
type RemoteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	AuthURL   string        `yaml:"auth_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

// ImageHostConfig holds image upload settings
type ImageHostConfig struct {
	BaseURL      string `yaml:"base_url"`
	CloudName    string `yaml:"cloud_name"`
	CloudURL     string `yaml:"cloud_url"`
	UploadPreset string `yaml:"upload_preset"`
	MaxSize      int64  `yaml:"max_size"` // in bytes
}

// DatabaseConfig holds database connection settings.
// When disabled, settings are kept in memory.
type DatabaseConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	SSLMode        string        `yaml:"sslmode"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
	MaxLifetime    time.Duration `yaml:"max_lifetime"`
	MigrationsPath string        `yaml:"migrations_path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "pretty"
}

// Load reads configuration from environment variables, then applies the
// YAML file named by CONFIG_FILE on top when set
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			LatestCount:     getIntEnv("LATEST_COUNT", 5),
		},
		Remote: RemoteConfig{
			BaseURL:   getEnv("BLOG_API_URL", "https://backend-blog-6oio.onrender.com/api"),
			AuthURL:   getEnv("BLOG_AUTH_URL", ""),
			Timeout:   getDurationEnv("BLOG_API_TIMEOUT", 30*time.Second),
			UserAgent: getEnv("BLOG_API_USER_AGENT", "blog-cache-api/1.0"),
		},
		ImageHost: ImageHostConfig{
			BaseURL:      getEnv("CLOUDINARY_API_URL", "https://api.cloudinary.com"),
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
			CloudURL:     getEnv("CLOUDINARY_URL", ""),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", ""),
			MaxSize:      getInt64Env("MAX_IMAGE_SIZE", 10*1024*1024), // 10MB
		},
		Database: DatabaseConfig{
			Enabled:        getBoolEnv("DB_ENABLED", false),
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Name:           getEnv("DB_NAME", "blog_settings"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getIntEnv("DB_MAX_OPEN_CONNS", 5),
			MaxIdleConns:   getIntEnv("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:    getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MergeFile overlays the values present in a YAML file onto cfg
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("BLOG_API_URL is required")
	}
	if u, err := url.Parse(c.Remote.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("BLOG_API_URL must be an absolute URL, got %q", c.Remote.BaseURL)
	}
	if c.Server.LatestCount < 1 {
		return fmt.Errorf("LATEST_COUNT must be at least 1")
	}
	if c.ImageHost.MaxSize <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}
	switch c.Log.Format {
	case "json", "pretty":
	default:
		return fmt.Errorf("LOG_FORMAT must be 'json' or 'pretty', got %q", c.Log.Format)
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
