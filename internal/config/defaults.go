package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultsFileName is the per-directory defaults file, read from the target
// directory before flags are applied.
const DefaultsFileName = ".checksums.yaml"

// Defaults holds per-directory default values. Zero fields mean "not set";
// CLI flags that were given explicitly always win over these.
type Defaults struct {
	Algorithm      string `yaml:"algorithm"`
	Depth          string `yaml:"depth"`
	Jobs           int    `yaml:"jobs"`
	FollowSymlinks *bool  `yaml:"follow_symlinks"`
	NoCache        *bool  `yaml:"no_cache"`
}

// LoadDefaults reads the defaults file from the given directory. A missing
// file yields zero Defaults without error; a malformed file is an error.
// When dir does not name a directory at all there are no defaults either;
// the configuration resolver reports that problem with its own error.
func LoadDefaults(dir string) (Defaults, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return Defaults{}, nil
	}
	path := filepath.Join(dir, DefaultsFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, fmt.Errorf("read %s: %w", path, err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return d, nil
}
