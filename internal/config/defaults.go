package config

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8470,
			PIDFile: "/var/run/adcfox.pid",
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerSecond: 100,
				Burst:             200,
			},
			MaxBodyBytes: 1 << 20,
		},
		Auth: AuthConfig{
			Enabled:  false,
			User:     "",
			Password: "",
		},
		Model: ModelConfig{
			Path:               "adc_data/model.yaml",
			GenerateCommand:    "",
			GenerateTimeoutSec: 600,
		},
		Estimator: EstimatorConfig{
			EnergyAccuracy: 75,
			AreaAccuracy:   75,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
