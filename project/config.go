package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/japanoise/numparse"
)

// Config describes a build project: the source files to assemble in order
// and where the outputs go. Paths are relative to the config file.
type Config struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
	Output  string   `json:"output"`
	Symbols string   `json:"symbols,omitempty"`
	Report  string   `json:"report,omitempty"`

	// RuntimeLimit caps instruction count when the project is run after
	// building. Accepts decimal, hex (0x), octal and binary notations.
	RuntimeLimit string `json:"runtimeLimit,omitempty"`

	baseDir string
}

func LoadConfig(path string) (*Config, error) {
	b, e := os.ReadFile(path)
	if e != nil {
		return nil, e
	}

	conf := new(Config)
	if e = json.Unmarshal(b, conf); e != nil {
		return nil, fmt.Errorf("could not parse project file %s: %w", path, e)
	}
	if len(conf.Sources) == 0 {
		return nil, fmt.Errorf("project file %s lists no sources", path)
	}
	if conf.Output == "" {
		return nil, fmt.Errorf("project file %s has no output path", path)
	}
	conf.baseDir = filepath.Dir(path)
	return conf, nil
}

// ParsedRuntimeLimit resolves the runtime limit field; zero means unlimited.
func (c *Config) ParsedRuntimeLimit() (uint64, error) {
	if c.RuntimeLimit == "" {
		return 0, nil
	}
	v, err := numparse.UNumParse(c.RuntimeLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid runtimeLimit %q: %w", c.RuntimeLimit, err)
	}
	return uint64(v), nil
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.baseDir, path)
}
