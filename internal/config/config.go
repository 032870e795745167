package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Auth      AuthConfig      `yaml:"auth" json:"auth"`
	Model     ModelConfig     `yaml:"model" json:"model"`
	Estimator EstimatorConfig `yaml:"estimator" json:"estimator"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

type ServerConfig struct {
	Host      string          `yaml:"host" json:"host"`
	Port      int             `yaml:"port" json:"port"`
	PIDFile   string          `yaml:"pid_file" json:"pid_file"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	// MaxBodyBytes caps request bodies; 0 uses the middleware default.
	MaxBodyBytes int64 `yaml:"max_body_bytes" json:"max_body_bytes"`
}

type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `yaml:"burst" json:"burst"`
}

type AuthConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	User     string `yaml:"user" json:"user"`
	Password string `yaml:"password" json:"-"`
}

// ModelConfig locates the characterization model.
type ModelConfig struct {
	Path string `yaml:"path" json:"path"`
	// GenerateCommand is run once at start-up when Path does not exist.
	GenerateCommand    string `yaml:"generate_command" json:"generate_command"`
	GenerateDir        string `yaml:"generate_dir" json:"generate_dir"`
	GenerateTimeoutSec int    `yaml:"generate_timeout_sec" json:"generate_timeout_sec"`
}

// EstimatorConfig holds the reported accuracies. The recognized classes and
// actions are fixed in the estimator package.
type EstimatorConfig struct {
	EnergyAccuracy float64 `yaml:"energy_accuracy" json:"energy_accuracy"`
	AreaAccuracy   float64 `yaml:"area_accuracy" json:"area_accuracy"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Path    string `yaml:"path" json:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.Model.GenerateTimeoutSec) * time.Second
}
