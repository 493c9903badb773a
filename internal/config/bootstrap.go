package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnsureUserConfig copies the shipped default config into the data dir on
// first run so edits never touch the bundled file.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// OverlayKeywords lets users keep a plain keywords.yml beside the main
// config; a non-empty list there replaces filters.keywords. A missing
// file is not an error.
func OverlayKeywords(cfg *Config, keywordsPath string) error {
	b, err := os.ReadFile(keywordsPath)
	if err != nil {
		return nil
	}

	var kf struct {
		Keywords []string `yaml:"keywords"`
	}
	if err := yaml.Unmarshal(b, &kf); err != nil {
		return err
	}
	if len(kf.Keywords) > 0 {
		cfg.Filters.Keywords = kf.Keywords
	}
	return nil
}
