package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "treeforge/domain/config"
)

// Environment names
const (
	Development = "development"
	Production  = "production"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Logging
	LogLevel string

	// Feature flags
	EnableMetrics bool
	EnableCORS    bool

	AllowedOrigins []string

	// Workspaces untouched for this long are evicted
	WorkspaceTTL time.Duration

	// Engine bounds: profile defaults, then ENGINE_CONFIG_FILE, then ENGINE_* variables
	EngineConfigFile string
	Engine           *domainconfig.EngineConfig
}

// LoadConfig loads configuration from environment variables and the optional
// engine config file
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:    getEnv("SERVER_ADDRESS", ":8080"),
		Environment:      getEnv("ENVIRONMENT", Development),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		EnableMetrics:    getEnvBool("ENABLE_METRICS", true),
		EnableCORS:       getEnvBool("ENABLE_CORS", true),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		WorkspaceTTL:     getEnvDuration("WORKSPACE_TTL", 2*time.Hour),
		EngineConfigFile: getEnv("ENGINE_CONFIG_FILE", ""),
	}

	engine, err := LoadEngineConfig(cfg.Environment, cfg.EngineConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.Engine = engine

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEngineConfig resolves the engine bounds for an environment: the profile
// defaults, overlaid by the YAML file at path (if any), overlaid by ENGINE_*
// environment variables.
func LoadEngineConfig(environment, path string) (*domainconfig.EngineConfig, error) {
	engine := domainconfig.LoadEngineConfig(environment)
	if path != "" {
		var err error
		engine, err = LoadEngineFile(path, engine)
		if err != nil {
			return nil, err
		}
	}

	engine.SizeCap = getEnvInt("ENGINE_SIZE_CAP", engine.SizeCap)
	engine.DepthCap = getEnvInt("ENGINE_DEPTH_CAP", engine.DepthCap)
	engine.MaxNodes = getEnvInt("ENGINE_MAX_NODES", engine.MaxNodes)

	if err := engine.Validate(); err != nil {
		return nil, err
	}
	return engine, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.ServerAddress == "" {
		return fmt.Errorf("SERVER_ADDRESS cannot be empty")
	}
	if c.WorkspaceTTL <= 0 {
		return fmt.Errorf("WORKSPACE_TTL must be positive")
	}
	if c.Engine == nil {
		return fmt.Errorf("engine configuration is missing")
	}
	return c.Engine.Validate()
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvList gets a comma separated environment variable with a default value
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
