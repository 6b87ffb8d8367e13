package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that the configuration is internally consistent. It does not
// require the InvokeAI root to exist; availability is checked at open time so
// read-only commands can report a clear error instead.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.InvokeAIRoot) == "" && strings.TrimSpace(c.Paths.DatabasePath) == "" {
		problems = append(problems, "paths.invokeai_root (or paths.database_path) is required")
	}
	if strings.TrimSpace(c.Paths.ReviewDir) == "" {
		problems = append(problems, "paths.review_dir is required")
	}
	if strings.TrimSpace(c.Paths.ImportDir) == "" {
		problems = append(problems, "paths.import_dir is required")
	}
	if c.Paths.ReviewDir != "" && c.Paths.ReviewDir == c.Models() {
		problems = append(problems, "paths.review_dir must not be the models directory")
	}
	if c.Paths.ImportDir != "" && c.Paths.ImportDir == c.Models() {
		problems = append(problems, "paths.import_dir must not be the models directory")
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
