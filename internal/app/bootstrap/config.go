// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/stratadrive/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
// Change this constant when forking stratadrive for a new project.
const EnvVarPrefix = "STRATADRIVE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: base_url, token, etc.
//   - Environment variables: STRATADRIVE_BASE_URL, STRATADRIVE_TOKEN, etc.
//   - Command-line flags: --base_url, --token, etc.
var appConfigKeys = []config.AppKey{
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Root URL of the remote content API"},
	{Name: "http_timeout", Default: "30s", Desc: "Transport-level timeout per request"},

	{Name: "token", Default: "", Desc: "Bearer token for the content API (takes precedence over token_file)"},
	{Name: "token_file", Default: "", Desc: "Path to a file holding the bearer token"},

	// Operation deadlines
	{Name: "timeout_mutate", Default: "10s", Desc: "Deadline for single mutations (rename, trash, share, ...)"},
	{Name: "timeout_list", Default: "15s", Desc: "Deadline for listing and search requests"},
	{Name: "timeout_batch", Default: "2m", Desc: "Deadline for a whole upload batch"},

	// Upload tuning
	{Name: "upload_concurrency", Default: 0, Desc: "Max in-flight uploads per batch (0 = unbounded)"},

	// View defaults
	{Name: "default_sort", Default: "name-asc", Desc: "Initial sort selector: name-asc, name-desc, date-asc, date-desc"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before the gateway or controllers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	sort, err := models.ParseSortOption(appValues.String("default_sort"))
	if err != nil {
		return nil, AppConfig{}, fmt.Errorf("default_sort: %w", err)
	}

	appCfg := AppConfig{
		BaseURL:     appValues.String("base_url"),
		HTTPTimeout: appValues.Duration("http_timeout", 30*time.Second),

		Token:     appValues.String("token"),
		TokenFile: appValues.String("token_file"),

		MutateTimeout: appValues.Duration("timeout_mutate", 10*time.Second),
		ListTimeout:   appValues.Duration("timeout_list", 15*time.Second),
		BatchTimeout:  appValues.Duration("timeout_batch", 2*time.Minute),

		UploadConcurrency: appValues.Int("upload_concurrency"),

		DefaultSort: sort,
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	u, err := url.Parse(appCfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		logger.Error("invalid base URL", zap.String("base_url", appCfg.BaseURL))
		return fmt.Errorf("invalid base_url %q: scheme and host required", appCfg.BaseURL)
	}

	if appCfg.Token == "" && appCfg.TokenFile == "" {
		return fmt.Errorf("no credentials: set %s_TOKEN or %s_TOKEN_FILE", EnvVarPrefix, EnvVarPrefix)
	}

	if appCfg.UploadConcurrency < 0 {
		return fmt.Errorf("upload_concurrency must not be negative, got %d", appCfg.UploadConcurrency)
	}

	return nil
}
