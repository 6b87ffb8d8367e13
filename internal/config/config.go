package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// InvokeAIRoot is the InvokeAI data directory containing databases/ and models/.
	InvokeAIRoot string `toml:"invokeai_root"`
	// DatabasePath overrides the default {invokeai_root}/databases/invokeai.db location.
	DatabasePath string `toml:"database_path"`
	// ModelsDir overrides the default {invokeai_root}/models location.
	ModelsDir string `toml:"models_dir"`
	// ReviewDir receives folders moved aside by clean and dedupe operations.
	ReviewDir string `toml:"review_dir"`
	// ImportDir receives symlinks staged for external re-import.
	ImportDir string `toml:"import_dir"`
	LogDir    string `toml:"log_dir"`
}

// Scan contains filesystem scanner settings.
type Scan struct {
	// Workers bounds the number of identifier folders inspected concurrently.
	Workers int `toml:"workers"`
}

// Sweep contains mutation engine settings.
type Sweep struct {
	// Workers bounds the number of batch entries processed concurrently.
	Workers int `toml:"workers"`
	// LockTimeoutSeconds bounds how long a batch waits for the mutation lock.
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for modeltidy.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scan    Scan    `toml:"scan"`
	Sweep   Sweep   `toml:"sweep"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/modeltidy/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The bool reports whether a file
// was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("modeltidy.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// Database returns the resolved path of the model database.
func (c *Config) Database() string {
	if strings.TrimSpace(c.Paths.DatabasePath) != "" {
		return c.Paths.DatabasePath
	}
	return filepath.Join(c.Paths.InvokeAIRoot, "databases", "invokeai.db")
}

// Models returns the resolved path of the models directory.
func (c *Config) Models() string {
	if strings.TrimSpace(c.Paths.ModelsDir) != "" {
		return c.Paths.ModelsDir
	}
	return filepath.Join(c.Paths.InvokeAIRoot, "models")
}

// EnsureDirectories creates the directories modeltidy writes into. The models
// directory and database are deliberately left alone; they belong to InvokeAI.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ReviewDir, c.Paths.ImportDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// ExpandPath resolves ~ prefixes and returns an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
