// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries everything specific to the training planner: where
// selections are kept, how the session cookie is signed, and how PDF exports
// are rendered.
type AppConfig struct {
	// Session cookie configuration (cookie selection store)
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: trainingplanner-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Selection persistence
	SelectionStore     string        // "cookie", "memory" or "mongo"
	SelectionRetention time.Duration // mongo only: untouched selections older than this are removed
	PruneOrphanCourses bool          // drop stored courses that no longer belong to a chosen competency

	// MongoDB connection configuration (mongo selection store only)
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Catalog
	CatalogDir string // directory of *.yaml catalogs; blank uses the embedded ones

	// PDF export
	ChromeBin           string        // Chrome/Chromium binary; blank lets rod locate or download one
	ChromeControlURL    string        // DevTools URL of an already running browser
	ExportTimeout       time.Duration // upper bound for one export
	ExportMaxConcurrent int           // Chrome renders allowed at once
	ExportCacheTTL      time.Duration // how long finished PDFs are reused; 0 disables
	ExportRateLimit     int           // PDF downloads per client IP per minute; 0 disables
}

// Selection store kinds.
const (
	StoreCookie = "cookie"
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)
