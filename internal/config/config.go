package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"gopkg.in/yaml.v3"
)

// Defaults of the documentation build.
const (
	DefaultRepositoryURL = "https://github.com/teroneko/Teronis.DotNet.git"
	DefaultSolution      = "Teronis.DotNet~Publish.sln"
	DefaultDepth         = 1
	DefaultObjDirectory  = "obj"
	DefaultDocFxConfig   = "./docfx.json"
	DefaultGit           = "git"
	DefaultDotNet        = "dotnet"
)

// Config represents the build configuration file.
type Config struct {
	RootDirectory string           `yaml:"root_directory"`
	ObjDirectory  string           `yaml:"obj_directory"`
	Repository    RepositoryConfig `yaml:"repository"`
	Tools         ToolsConfig      `yaml:"tools"`
	DocFx         DocFxConfig      `yaml:"docfx"`
	Metrics       MetricsConfig    `yaml:"metrics"`
}

// RepositoryConfig describes the repository whose documentation is built.
type RepositoryConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	// Depth of the clone; 0 clones the full history.
	Depth    *int   `yaml:"depth,omitempty"`
	Solution string `yaml:"solution"`
}

// ToolsConfig names the external executables.
type ToolsConfig struct {
	Git    string `yaml:"git"`
	DotNet string `yaml:"dotnet"`
	// NativeGit clones in-process instead of running the git executable.
	NativeGit bool `yaml:"native_git"`
}

// DocFxConfig configures the documentation generator invocation.
type DocFxConfig struct {
	Config string `yaml:"config"`
}

// MetricsConfig configures metrics output.
type MetricsConfig struct {
	TextFile string `yaml:"textfile,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from the specified file. An empty path yields the
// defaults. Environment variables in the file are expanded, so callers load
// .env files first (LoadEnvFiles).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- user supplied config path
	if err != nil {
		return nil, derrors.ConfigInvalid(configPath, fmt.Errorf("failed to read config file: %w", err))
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, derrors.ConfigInvalid(configPath, fmt.Errorf("failed to unmarshal config: %w", err))
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RootDirectory == "" {
		c.RootDirectory = "."
	}
	if c.ObjDirectory == "" {
		c.ObjDirectory = DefaultObjDirectory
	}
	if c.Repository.URL == "" {
		c.Repository.URL = DefaultRepositoryURL
	}
	if c.Repository.Depth == nil {
		depth := DefaultDepth
		c.Repository.Depth = &depth
	}
	if c.Repository.Solution == "" {
		c.Repository.Solution = DefaultSolution
	}
	if c.Tools.Git == "" {
		c.Tools.Git = DefaultGit
	}
	if c.Tools.DotNet == "" {
		c.Tools.DotNet = DefaultDotNet
	}
	if c.DocFx.Config == "" {
		c.DocFx.Config = DefaultDocFxConfig
	}
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Repository.Depth != nil && *c.Repository.Depth < 0 {
		return derrors.ValidationFailed("repository.depth", "must not be negative")
	}
	return nil
}

// CloneDepth returns the configured clone depth.
func (c *Config) CloneDepth() int {
	if c.Repository.Depth == nil {
		return DefaultDepth
	}
	return *c.Repository.Depth
}

// ObjPath returns the staging directory, resolved against the root directory
// unless absolute.
func (c *Config) ObjPath() string {
	if filepath.IsAbs(c.ObjDirectory) {
		return filepath.Clean(c.ObjDirectory)
	}
	return filepath.Join(c.RootDirectory, c.ObjDirectory)
}
