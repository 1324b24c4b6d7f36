package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when no config file exists at the looked-up location.
var ErrNoConfig = errors.New("no config")

// LocalNames are the repo-local config file names, in lookup order.
var LocalNames = []string{".o3rg.yml", ".o3rg.yaml", "o3rg.yml", "o3rg.yaml"}

// FileConfig is the on-disk YAML configuration shape for o3rg. Unset keys
// stay nil so that precedence can fall through to the next source.
type FileConfig struct {
	Threads      *int     `yaml:"threads"`
	QueueSize    *int     `yaml:"queue_size"`
	SearchHidden *bool    `yaml:"search_hidden"`
	MaxDepth     *int     `yaml:"max_depth"`
	MaxFileSize  *int64   `yaml:"max_file_size"`
	FollowLinks  *bool    `yaml:"follow_links"`
	RequireGit   *bool    `yaml:"require_git"`
	SkipBinary   *bool    `yaml:"skip_binary"`
	Include      *string  `yaml:"include"`
	Exclude      *string  `yaml:"exclude"`
	IgnoreFiles  []string `yaml:"ignore_files"`
	LogLevel     *string  `yaml:"log_level"`
	LogFile      *string  `yaml:"log_file"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .o3rg.yml/.yaml and o3rg.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNoConfig
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME or
// ~/.config.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", errors.New("no config dir")
	}
	return filepath.Join(base, "o3rg", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, err
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNoConfig
	}
	return LoadFile(p)
}

// Starter is the body written by "o3rg config init".
const Starter = `# o3rg configuration
# Command-line flags override this file; a repo-local .o3rg.yml overrides the
# global one.

# threads: 8
# queue_size: 1024
# search_hidden: false
# max_depth: 0        # 0 = unlimited
# max_file_size: 0    # bytes, 0 = unlimited
# follow_links: false
# require_git: true   # .gitignore applies only inside a git repository
# skip_binary: false
# include: "**/*.go,**/*.md"
# exclude: "vendor/**"
# ignore_files: []
# log_level: info
# log_file: ""
`

// WriteStarter writes Starter to path, creating parent directories. An
// existing file is left alone unless force is set.
func WriteStarter(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Starter), 0o644)
}
