package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StrataTaskDef defines a single strata-estimator task from the config
// file. Zero values take the built-in defaults (32 strata, 80-bucket
// IBFs, 4 hashes).
type StrataTaskDef struct {
	Name        string `yaml:"name"`
	StrataCount uint32 `yaml:"strata_count"`
	IBFSize     uint32 `yaml:"ibf_size"`
	IBFHashnum  uint32 `yaml:"ibf_hashnum"`
}

// EstimatorConfig holds the configuration for the estimation engine.
type EstimatorConfig struct {
	Types                []string        `yaml:"types"`
	StrataTasks          []StrataTaskDef `yaml:"strata_tasks"`
	SizeOfElementChannel int             `yaml:"size_of_element_channel"`
}

// EvalScenario describes one synthetic accuracy run for ss-eval: two
// sets sharing SharedKeys elements, with LocalOnly and RemoteOnly
// unique to either side.
type EvalScenario struct {
	Name       string `yaml:"name"`
	SharedKeys uint64 `yaml:"shared_keys"`
	LocalOnly  uint64 `yaml:"local_only"`
	RemoteOnly uint64 `yaml:"remote_only"`
}

// EvalConfig holds the scenarios for the offline evaluation tool.
type EvalConfig struct {
	Scenarios []EvalScenario `yaml:"scenarios"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Estimator EstimatorConfig `yaml:"estimator"`
	Eval      EvalConfig      `yaml:"eval"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	return &cfg, nil
}
