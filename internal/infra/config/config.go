package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr            string        `yaml:"addr" env:"SCRIBE_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SCRIBE_SHUTDOWN_TIMEOUT"`

	UploadDir   string `yaml:"upload_dir" env:"SCRIBE_UPLOAD_DIR"`
	WorkerCount int    `yaml:"worker_count" env:"SCRIBE_WORKER_COUNT"`

	MaxUploadMb int64 `yaml:"max_upload_mb" env:"SCRIBE_MAX_UPLOAD_MB"`

	Engine Engine `yaml:"engine"`
}

type Engine struct {
	Command   string `yaml:"command" env:"SCRIBE_ENGINE_COMMAND"`
	ModelPath string `yaml:"model_path" env:"SCRIBE_ENGINE_MODEL"`
}

// Load reads the YAML file (optional: an empty path or a missing file yields
// defaults), then applies environment overrides so deployments can tune a
// shared config file without editing it.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("config: unmarshal yaml: %w", err)
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.UploadDir == "" {
		c.UploadDir = "./temp"
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	if c.MaxUploadMb <= 0 {
		c.MaxUploadMb = 100
	}
}

func (c *Config) validate() error {
	if c.Engine.Command == "" {
		return fmt.Errorf("config: engine.command is empty")
	}
	if c.Engine.ModelPath == "" {
		return fmt.Errorf("config: engine.model_path is empty")
	}
	return nil
}
