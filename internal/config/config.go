package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Events     EventsConfig     `yaml:"events"`
	Matcher    MatcherConfig    `yaml:"matcher"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	PassFail   PassFailConfig   `yaml:"pass_fail"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type MatcherConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

type EvaluationConfig struct {
	TargetLabels             []string  `yaml:"target_labels"`
	CenterDistanceThresholds []float64 `yaml:"center_distance_thresholds"`
	IoU3DThresholds          []float64 `yaml:"iou_3d_thresholds"`
	PlaneDistanceThresholds  []float64 `yaml:"plane_distance_thresholds"`
}

type PassFailConfig struct {
	MatchingMode         string             `yaml:"matching_mode"`
	Thresholds           map[string]float64 `yaml:"thresholds"`
	RestrictFPToCritical bool               `yaml:"restrict_fp_to_critical"`
	Critical             CriticalConfig     `yaml:"critical"`
}

type CriticalConfig struct {
	TargetLabels   []string `yaml:"target_labels"`
	MaxEgoDistance float64  `yaml:"max_ego_distance"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Matcher: MatcherConfig{
			URL: "http://localhost:8710",
		},
		Evaluation: EvaluationConfig{
			TargetLabels:             []string{"car", "truck", "bus", "bicycle", "pedestrian"},
			CenterDistanceThresholds: []float64{0.5, 1.0, 2.0, 4.0},
			IoU3DThresholds:          []float64{0.5},
			PlaneDistanceThresholds:  []float64{2.0, 3.0},
		},
		PassFail: PassFailConfig{
			MatchingMode: "plane_distance",
			Thresholds: map[string]float64{
				"car":        2.0,
				"truck":      2.0,
				"bus":        2.0,
				"bicycle":    2.0,
				"pedestrian": 2.0,
			},
			RestrictFPToCritical: true,
			Critical: CriticalConfig{
				MaxEgoDistance: 30.0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SCORECARD_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("SCORECARD_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("SCORECARD_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("SCORECARD_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("SCORECARD_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("SCORECARD_MATCHER_URL"); v != "" {
		cfg.Matcher.URL = v
	}
	if v := os.Getenv("SCORECARD_MATCHER_TOKEN"); v != "" {
		cfg.Matcher.Token = v
	}
	if v := os.Getenv("SCORECARD_RESTRICT_FP_TO_CRITICAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.PassFail.RestrictFPToCritical = b
		}
	}
	if v := os.Getenv("SCORECARD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SCORECARD_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
