package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dyluth/allot/internal/assign"
	"github.com/dyluth/allot/internal/report"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given
const DefaultPath = "allot.yml"

// Default artefact locations
const (
	DefaultStudentsPath    = "students.csv"
	DefaultProjectsPath    = "projects.csv"
	DefaultAssignmentsPath = "assignments.csv"
	DefaultReportPath      = "assignments.txt"
)

// AllotConfig represents the top-level allot.yml configuration
type AllotConfig struct {
	Version    string            `yaml:"version"`
	Paths      *PathsConfig      `yaml:"paths,omitempty"`
	Assignment *AssignmentConfig `yaml:"assignment,omitempty"`
	Output     *OutputConfig     `yaml:"output,omitempty"`
}

// PathsConfig names the two inputs and the two written artefacts
type PathsConfig struct {
	Students    string `yaml:"students,omitempty"`
	Projects    string `yaml:"projects,omitempty"`
	Assignments string `yaml:"assignments,omitempty"` // CSV table
	Report      string `yaml:"report,omitempty"`      // Human-readable table
}

// AssignmentConfig controls the engine
type AssignmentConfig struct {
	Seed   *uint64 `yaml:"seed,omitempty"`   // Omit for a fresh random seed on every run
	Policy string  `yaml:"policy,omitempty"` // "widen" (default) or "strict"
}

// OutputConfig controls console output and row order
type OutputConfig struct {
	Format     string `yaml:"format,omitempty"`       // default, table or jsonl
	SortByName *bool  `yaml:"sort_by_name,omitempty"` // Default: true
	Locale     string `yaml:"locale,omitempty"`       // BCP 47 tag used for name collation
}

// Default returns a configuration with every default applied.
func Default() *AllotConfig {
	cfg := &AllotConfig{Version: "1.0"}
	// Defaults always validate
	_ = cfg.Validate()
	return cfg
}

// Validate applies defaults and checks every value
func (c *AllotConfig) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if c.Paths == nil {
		c.Paths = &PathsConfig{}
	}
	c.Paths.applyDefaults()
	if err := c.Paths.Validate(); err != nil {
		return err
	}

	if c.Assignment == nil {
		c.Assignment = &AssignmentConfig{}
	}
	if _, err := assign.ParsePolicy(c.Assignment.Policy); err != nil {
		return fmt.Errorf("assignment.policy: %w", err)
	}

	if c.Output == nil {
		c.Output = &OutputConfig{}
	}
	if c.Output.Format == "" {
		c.Output.Format = string(report.OutputFormatDefault)
	}
	if _, err := report.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w (must be 'default', 'table' or 'jsonl')", err)
	}
	if c.Output.SortByName == nil {
		sortByName := true
		c.Output.SortByName = &sortByName
	}

	return nil
}

func (p *PathsConfig) applyDefaults() {
	if p.Students == "" {
		p.Students = DefaultStudentsPath
	}
	if p.Projects == "" {
		p.Projects = DefaultProjectsPath
	}
	if p.Assignments == "" {
		p.Assignments = DefaultAssignmentsPath
	}
	if p.Report == "" {
		p.Report = DefaultReportPath
	}
}

// Validate rejects output paths that would overwrite an input or each other
func (p *PathsConfig) Validate() error {
	inputs := map[string]string{p.Students: "students", p.Projects: "projects"}
	if p.Students == p.Projects {
		return fmt.Errorf("paths.students and paths.projects both point to %s", p.Students)
	}

	for name, path := range map[string]string{"assignments": p.Assignments, "report": p.Report} {
		if input, ok := inputs[path]; ok {
			return fmt.Errorf("paths.%s would overwrite the %s input: %s", name, input, path)
		}
	}
	if p.Assignments == p.Report {
		return fmt.Errorf("paths.assignments and paths.report both point to %s", p.Report)
	}

	return nil
}

// Policy returns the parsed fallback policy. Call after Validate.
func (c *AllotConfig) Policy() assign.Policy {
	p, _ := assign.ParsePolicy(c.Assignment.Policy)
	return p
}

// Load reads and validates allot.yml from the specified path
func Load(path string) (*AllotConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config AllotConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist and required is false. The second return value reports whether a
// file was read.
func LoadOrDefault(path string, required bool) (*AllotConfig, bool, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, true, nil
	}
	if !required && errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	return nil, false, err
}
