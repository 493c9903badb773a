package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"remotive-ranker/internal/rank"
)

type Config struct {
	App struct {
		Port int `yaml:"port" json:"port"`
	} `yaml:"app" json:"app"`

	Source struct {
		BaseURL string `yaml:"base_url" json:"base_url"`
		// Optional Remotive search terms fetched in parallel; empty means
		// one unfiltered pull of the whole feed.
		Searches              []string `yaml:"searches" json:"searches"`
		RequestTimeoutSeconds int      `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`
	} `yaml:"source" json:"source"`

	Polling struct {
		RefreshSpec string `yaml:"refresh_spec" json:"refresh_spec"` // robfig/cron spec, e.g. "@every 6h"
	} `yaml:"polling" json:"polling"`

	Filters rank.Filter  `yaml:"filters" json:"filters"`
	Weights rank.Weights `yaml:"weights" json:"weights"`

	Notify struct {
		Enabled   bool    `yaml:"enabled" json:"enabled"`
		ChatID    int64   `yaml:"chat_id" json:"chat_id"`
		MinScore  float64 `yaml:"min_score" json:"min_score"`
		MaxPerRun int     `yaml:"max_per_run" json:"max_per_run"`
	} `yaml:"notify" json:"notify"`

	Export struct {
		SummaryTop int `yaml:"summary_top" json:"summary_top"`
	} `yaml:"export" json:"export"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
