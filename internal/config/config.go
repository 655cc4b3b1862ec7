package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vallmere/sitetrack-backend/internal/logger"
	"github.com/vallmere/sitetrack-backend/internal/utils"
)

type Config struct {
	ServerPort        string        `yaml:"server_port"`
	CORSOrigins       []string      `yaml:"cors_origins"`
	RiskBatchInterval time.Duration `yaml:"risk_batch_interval"`
}

func defaults() Config {
	return Config{
		ServerPort: "8080",
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		RiskBatchInterval: time.Hour,
	}
}

// Load reads the optional YAML config file, then applies env overrides.
// A missing file is not an error; a malformed one is.
func Load(path string, log *logger.Logger) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		} else if log != nil {
			log.Debug("Config file not found, using defaults", "path", path)
		}
	}

	cfg.ServerPort = utils.GetEnv("SERVER_PORT", cfg.ServerPort, log)
	if mins := utils.GetEnvAsInt("RISK_BATCH_INTERVAL_MINUTES", 0, log); mins > 0 {
		cfg.RiskBatchInterval = time.Duration(mins) * time.Minute
	}
	return cfg, nil
}
