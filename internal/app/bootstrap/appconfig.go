// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/stratadrive/internal/domain/models"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like logging
// level and format. AppConfig is where everything specific to this
// client lives: the API endpoint, credentials, and operation tuning.
type AppConfig struct {
	// Remote content API configuration
	BaseURL     string        // Root URL of the content API (e.g., https://drive.example.com)
	HTTPTimeout time.Duration // Transport-level timeout per request (default: 30s)

	// Credentials. Token takes precedence; TokenFile is read once at
	// startup. One of the two must be set.
	Token     string // Bearer token for the content API
	TokenFile string // Path to a file holding the bearer token

	// Operation deadlines
	MutateTimeout time.Duration // Deadline for single mutations (default: 10s)
	ListTimeout   time.Duration // Deadline for listing and search (default: 15s)
	BatchTimeout  time.Duration // Deadline for a whole upload batch (default: 2m)

	// Upload tuning
	UploadConcurrency int // Max in-flight uploads per batch (0 = unbounded)

	// View defaults
	DefaultSort models.SortOption // Initial sort selector (default: name-asc)
}
