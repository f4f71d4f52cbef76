// Package config handles the optional dynamize.yaml / dynamize.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"github.com/BurntSushi/toml"
	dynamizer "github.com/ahmetsait/BindingDynamizer"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

// Names searched by Find, in order.
var Names = []string{"dynamize.yaml", "dynamize.yml", "dynamize.toml"}

var ErrUnsupportedFormat = errors.New("unsupported config format")

// File represents a dynamize configuration file. Empty values leave the defaults untouched.
type File struct {
	Prefix    string `yaml:"prefix" toml:"prefix"`
	Version   string `yaml:"version" toml:"version"`
	Output    string `yaml:"output" toml:"output"`
	Loader    string `yaml:"loader" toml:"loader"`
	Extension string `yaml:"extension" toml:"extension"`
	Recursive bool   `yaml:"recursive" toml:"recursive"`

	// Path is the file the configuration was read from (set at load time).
	Path string `yaml:"-" toml:"-"`
}

// Load parses the configuration file at path, the format is chosen by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var f File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	case ".toml":
		err = toml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	f.Path = path
	return &f, nil
}

// Find walks up from startDir looking for one of Names.
func Find(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		for _, n := range Names {
			path := filepath.Join(dir, n)
			if _, err := os.Stat(path); err == nil {
				return path, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// FindAndLoad loads the configuration found from startDir. Returns nil if there is none.
func FindAndLoad(startDir string) (*File, error) {
	path, ok := Find(startDir)
	if !ok {
		return nil, nil
	}
	return Load(path)
}

// Apply returns cfg with the values of f. An invalid version is reported and skipped.
func (f *File) Apply(cfg dynamizer.Config) dynamizer.Config {
	if f.Prefix != "" {
		cfg = cfg.WithPrefix(f.Prefix)
	}
	if f.Version != "" {
		c, err := cfg.WithVersion(f.Version)
		if err != nil {
			dynamizer.Logger().Warn("ignored configured version",
				zap.String("file", f.Path),
				zap.String("current", cfg.Version),
				zap.Error(err))
		} else {
			cfg = c
		}
	}
	return cfg
}
