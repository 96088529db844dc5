// pkg/core/config.go
package core

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultLibraryRoot is the shared library root on the cluster mount
	DefaultLibraryRoot = "/dbfs/mnt/r_files_home/rlib"

	// DefaultRepo is the CRAN mirror used for plain installs
	DefaultRepo = "https://cloud.r-project.org"

	// DefaultVersionRepo is the CRAN mirror used for version-pinned installs
	DefaultVersionRepo = "https://cran.us.r-project.org"

	// DefaultStagingPrefix prefixes every staging directory name
	DefaultStagingPrefix = "rlib"
)

// Config holds rlib configuration
type Config struct {
	LibraryRoot     string        `yaml:"library_root"`
	RVersion        string        `yaml:"r_version"`
	Repo            string        `yaml:"repo"`
	VersionRepo     string        `yaml:"version_repo"`
	StagingDir      string        `yaml:"staging_dir"`
	StateDir        string        `yaml:"state_dir"`
	CollisionPolicy string        `yaml:"collision_policy"`
	Exclude         []string      `yaml:"exclude"`
	VersionHelpers  []string      `yaml:"version_helpers"`
	Timeout         time.Duration `yaml:"timeout"`
	Debug           bool          `yaml:"debug"`
	Scripts         ScriptsConfig `yaml:"scripts"`

	// Logger for custom logging
	Logger *log.Logger `yaml:"-"`
}

// ScriptsConfig holds the values substituted into generated scripts
type ScriptsConfig struct {
	HomePath    string `yaml:"home_path"`    // Mount home folder, e.g. /mnt/r_files_home
	MountPrefix string `yaml:"mount_prefix"` // Local fuse prefix, e.g. /dbfs
	Username    string `yaml:"username"`     // Cluster user for the .Rprofile init script
	LibDirName  string `yaml:"lib_dir_name"` // Library folder under the home path
	GitHubPAT   string `yaml:"github_pat"`   // Exported by the session profile when set
}

// envOverrides are read from RLIB_* environment variables
type envOverrides struct {
	LibraryRoot string `envconfig:"LIBRARY_ROOT"`
	RVersion    string `envconfig:"R_VERSION"`
	Repo        string `envconfig:"REPO"`
	StateDir    string `envconfig:"STATE_DIR"`
	StagingDir  string `envconfig:"STAGING_DIR"`
	Debug       *bool  `envconfig:"DEBUG"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LibraryRoot:     DefaultLibraryRoot,
		Repo:            DefaultRepo,
		VersionRepo:     DefaultVersionRepo,
		StagingDir:      os.TempDir(),
		StateDir:        getDefaultStateDir(),
		CollisionPolicy: "overwrite",
		Exclude:         []string{"**/00LOCK*"},
		VersionHelpers:  []string{"devtools", "withr"},
		Timeout:         10 * time.Minute,
		Debug:           false,
		Scripts: ScriptsConfig{
			HomePath:    "/mnt/r_files_home",
			MountPrefix: "/dbfs",
			LibDirName:  "rlib",
		},
	}
}

// LoadConfig loads configuration from file. Missing fields keep their
// defaults and a missing file yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("no config path: home directory unknown")
		}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ApplyEnv overrides fields from RLIB_* environment variables
func (c *Config) ApplyEnv() error {
	var env envOverrides
	if err := envconfig.Process("rlib", &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	if env.LibraryRoot != "" {
		c.LibraryRoot = env.LibraryRoot
	}
	if env.RVersion != "" {
		c.RVersion = env.RVersion
	}
	if env.Repo != "" {
		c.Repo = env.Repo
	}
	if env.StateDir != "" {
		c.StateDir = env.StateDir
	}
	if env.StagingDir != "" {
		c.StagingDir = env.StagingDir
	}
	if env.Debug != nil {
		c.Debug = *env.Debug
	}
	return nil
}

// DefaultConfigPath returns ~/.config/rlib/config.yaml, or "" without a home directory
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "rlib", "config.yaml")
}

func getDefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rlib")
	}

	return filepath.Join(home, ".rlib")
}
