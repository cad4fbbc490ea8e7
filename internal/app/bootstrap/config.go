// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minSessionKeyLen is the shortest session key accepted in production.
const minSessionKeyLen = 32

// appConfigKeys defines the configuration keys for the training planner.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: selection_store, session_name, etc.
//   - Environment variables: TRAININGPLANNER_SELECTION_STORE, etc.
//   - Command-line flags: --selection_store, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "trainingplanner-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Selection persistence
	{Name: "selection_store", Default: StoreCookie, Desc: "Where selections are kept: 'cookie', 'memory' or 'mongo'"},
	{Name: "selection_retention", Default: "2160h", Desc: "Mongo store: remove selections untouched for this long (e.g., 2160h)"},
	{Name: "prune_orphan_courses", Default: false, Desc: "Drop stored courses that no longer belong to a chosen competency"},

	// MongoDB (mongo selection store only)
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "training_planner", Desc: "MongoDB database name"},

	// Catalog
	{Name: "catalog_dir", Default: "", Desc: "Directory of YAML competency catalogs (blank uses the built-in catalogs)"},

	// PDF export
	{Name: "chrome_bin", Default: "", Desc: "Chrome/Chromium binary used for PDF export"},
	{Name: "chrome_control_url", Default: "", Desc: "DevTools URL of a running Chrome to use instead of launching one"},
	{Name: "export_timeout", Default: "60s", Desc: "Upper bound for a single PDF export"},
	{Name: "export_max_concurrent", Default: 2, Desc: "Concurrent Chrome renders allowed"},
	{Name: "export_cache_ttl", Default: "10m", Desc: "How long a finished PDF is reused for an unchanged plan (0 disables)"},
	{Name: "export_rate_limit", Default: 10, Desc: "PDF downloads allowed per client IP per minute (0 disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TRAININGPLANNER_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TRAININGPLANNER", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		SelectionStore:     appValues.String("selection_store"),
		SelectionRetention: appValues.Duration("selection_retention", 90*24*time.Hour),
		PruneOrphanCourses: appValues.Bool("prune_orphan_courses"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),

		CatalogDir: appValues.String("catalog_dir"),

		ChromeBin:           appValues.String("chrome_bin"),
		ChromeControlURL:    appValues.String("chrome_control_url"),
		ExportTimeout:       appValues.Duration("export_timeout", 60*time.Second),
		ExportMaxConcurrent: appValues.Int("export_max_concurrent"),
		ExportCacheTTL:      appValues.Duration("export_cache_ttl", 10*time.Minute),
		ExportRateLimit:     appValues.Int("export_rate_limit"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.SelectionStore {
	case StoreCookie, StoreMemory:
	case StoreMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("selection_store=mongo requires mongo_database")
		}
		if appCfg.SelectionRetention <= 0 {
			return fmt.Errorf("selection_retention must be positive, got %s", appCfg.SelectionRetention)
		}
	default:
		return fmt.Errorf("unknown selection_store %q (want cookie, memory or mongo)", appCfg.SelectionStore)
	}

	if appCfg.ExportMaxConcurrent < 1 {
		return fmt.Errorf("export_max_concurrent must be at least 1, got %d", appCfg.ExportMaxConcurrent)
	}
	if appCfg.ExportTimeout <= 0 {
		return fmt.Errorf("export_timeout must be positive, got %s", appCfg.ExportTimeout)
	}
	if appCfg.ExportCacheTTL < 0 {
		return fmt.Errorf("export_cache_ttl must not be negative, got %s", appCfg.ExportCacheTTL)
	}

	if appCfg.ExportRateLimit < 0 {
		return fmt.Errorf("export_rate_limit must not be negative, got %d", appCfg.ExportRateLimit)
	}

	if coreCfg != nil && coreCfg.Env == "prod" && appCfg.SelectionStore == StoreCookie &&
		len(appCfg.SessionKey) < minSessionKeyLen {
		return fmt.Errorf("session_key must be at least %d characters in production", minSessionKeyLen)
	}

	return nil
}
