// Package config loads the watch manifest fimwatchd starts from: the node
// name, default log format, and the subjects to watch for each pod.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultLogFormat     = "{event} {ftype} '{path}{sep}{file}' ({pod}:{node})"
	envNodeNameOverride  = "FIMWATCH_NODE_NAME"
	envLogFormatOverride = "FIMWATCH_LOG_FORMAT"
)

// SubjectConfig is one watch subject as written in the manifest.
type SubjectConfig struct {
	Paths     []string `yaml:"paths" json:"paths"`
	Events    []string `yaml:"events" json:"events"`
	Recursive bool     `yaml:"recursive" json:"recursive"`
}

// PodConfig is the set of subjects to watch for a single pod, keyed by its
// container IDs.
type PodConfig struct {
	PodName      string          `yaml:"pod_name" json:"pod_name"`
	ContainerIDs []string        `yaml:"container_ids" json:"container_ids"`
	Subjects     []SubjectConfig `yaml:"subjects" json:"subjects"`
}

// Config is the whole watch manifest for one node.
type Config struct {
	NodeName  string      `yaml:"node_name" json:"node_name"`
	LogFormat string      `yaml:"log_format" json:"log_format"`
	Pods      []PodConfig `yaml:"pods" json:"pods"`
}

// Load reads a manifest from path, dispatching on its extension, and
// applies defaults plus environment overrides. An empty path yields a
// default Config with no pods; Validate still runs on it, so unless
// FIMWATCH_NODE_NAME is set that Config comes back with a node_name error.
func Load(path string) (Config, error) {
	cfg := Config{}

	if path != "" {
		var err error
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			cfg, err = LoadYAML(path)
		case ".json":
			cfg, err = LoadJSON(path)
		default:
			return cfg, fmt.Errorf("config: unrecognized manifest extension %q", ext)
		}
		if err != nil {
			return cfg, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// LoadYAML parses a YAML manifest.
func LoadYAML(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// LoadJSON parses a JSON manifest.
func LoadJSON(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse json: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills in fields the manifest left blank.
func ApplyDefaults(cfg *Config) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	for i := range cfg.Pods {
		for j := range cfg.Pods[i].Subjects {
			if len(cfg.Pods[i].Subjects[j].Events) == 0 {
				cfg.Pods[i].Subjects[j].Events = []string{"all"}
			}
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envNodeNameOverride); v != "" {
		cfg.NodeName = v
	}
	if v := os.Getenv(envLogFormatOverride); v != "" {
		cfg.LogFormat = v
	}
}

// Validate checks the manifest is well-formed enough to act on.
func (cfg Config) Validate() error {
	if cfg.NodeName == "" {
		return errors.New("node_name must be set")
	}
	seen := make(map[string]struct{})
	for _, pod := range cfg.Pods {
		if pod.PodName == "" {
			return errors.New("pod_name must be set for every pod entry")
		}
		if _, dup := seen[pod.PodName]; dup {
			return fmt.Errorf("duplicate pod_name %q", pod.PodName)
		}
		seen[pod.PodName] = struct{}{}
		if len(pod.ContainerIDs) == 0 {
			return fmt.Errorf("pod %q: at least one container_id is required", pod.PodName)
		}
	}
	return nil
}
