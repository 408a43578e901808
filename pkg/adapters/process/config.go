package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/wellplan/pkg/domain"
	"gopkg.in/yaml.v3"
)

// DriverConfig binds a command type to the executable that performs it on the robot.
type DriverConfig struct {
	Command     domain.CommandType `yaml:"command" json:"command"`
	Exec        string             `yaml:"exec" json:"exec"`
	Args        []string           `yaml:"args" json:"args"`
	Environment map[string]string  `yaml:"env" json:"env"`
	Description string             `yaml:"description" json:"description"`
}

// ConfigFile represents the structure of drivers.yaml.
type ConfigFile struct {
	Drivers []DriverConfig `yaml:"drivers" json:"drivers"`
}

// LoadDrivers reads a driver file (YAML, or JSON by extension) keyed by command type.
// The command "*" is the fallback for types without their own driver.
func LoadDrivers(path string) (map[domain.CommandType]DriverConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read driver config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	drivers := make(map[domain.CommandType]DriverConfig, len(cfg.Drivers))
	for i, d := range cfg.Drivers {
		if d.Command == "" || d.Exec == "" {
			return nil, fmt.Errorf("driver %d: command and exec are required", i)
		}
		if _, dup := drivers[d.Command]; dup {
			return nil, fmt.Errorf("driver %d: duplicate command %q", i, d.Command)
		}
		drivers[d.Command] = d
	}
	return drivers, nil
}
