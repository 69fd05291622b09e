// Package config provides the configuration loader for taskrun.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/zerr"
	"go.trellis.sh/taskrun/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file.
const FileName = "taskrun.yaml"

// Config holds the agent-side settings for the task execution subsystem.
type Config struct {
	// ServerURL is the base URL of the Puppet Server, e.g. https://puppet:8140.
	ServerURL string `yaml:"server_url"`

	// CacheDir is the root of the content-addressed artifact cache.
	CacheDir string `yaml:"cache_dir"`

	// SpoolDir is the root under which per-request spool directories live.
	SpoolDir string `yaml:"spool_dir"`

	// BinDir overrides the platform binary root holding the task wrapper.
	BinDir string `yaml:"bin_dir,omitempty"`

	// Environment is the default puppet environment for lookups.
	Environment string `yaml:"environment"`

	// HTTPTimeout bounds individual requests to the server. Zero means no
	// per-request bound; the caller's context still governs.
	HTTPTimeout time.Duration `yaml:"http_timeout,omitempty"`
}

// Default returns the built-in configuration for the current platform.
func Default() *Config {
	base := "/var/lib/taskrun"
	if runtime.GOOS == "windows" {
		base = `C:\ProgramData\taskrun`
	}

	return &Config{
		ServerURL:   "https://puppet:8140",
		CacheDir:    filepath.Join(base, "cache"),
		SpoolDir:    filepath.Join(base, "spool"),
		Environment: "production",
		HTTPTimeout: 60 * time.Second,
	}
}

// WrapperPath returns the full path of the task wrapper binary.
func (c *Config) WrapperPath() string {
	name := domain.WrapperName
	if runtime.GOOS == "windows" {
		name = domain.WrapperNameWindows
	}
	return filepath.Join(c.binDir(), name)
}

// ShimPath returns the full path of the PowerShell shim script, which is
// installed beside the wrapper binary.
func (c *Config) ShimPath() string {
	return filepath.Join(c.binDir(), domain.PowerShellShim)
}

func (c *Config) binDir() string {
	if c.BinDir != "" {
		return c.BinDir
	}
	if runtime.GOOS == "windows" {
		return domain.WindowsBinRoot
	}
	return domain.UnixBinRoot
}

// Loader finds and parses the configuration file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration for the given working directory. The file is
// discovered by walking up from cwd; when none exists the defaults apply.
func (l *Loader) Load(cwd string) (*Config, error) {
	path, err := l.findConfiguration(cwd)
	if err != nil {
		return Default(), nil
	}
	return l.LoadFile(path)
}

// LoadFile reads and parses a specific configuration file, filling unset
// fields from the defaults.
func (l *Loader) LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path comes from discovery or the operator
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "path", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd

	for {
		candidate := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}
