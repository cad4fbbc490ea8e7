package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/trainingplanner/internal/app/store/selections"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		SessionKey:          strings.Repeat("k", 40),
		SessionName:         "trainingplanner-session",
		SelectionStore:      StoreCookie,
		SelectionRetention:  90 * 24 * time.Hour,
		MongoURI:            "mongodb://localhost:27017",
		MongoDatabase:       "training_planner",
		ExportTimeout:       time.Minute,
		ExportMaxConcurrent: 2,
		ExportCacheTTL:      10 * time.Minute,
		ExportRateLimit:     10,
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "defaults", env: "dev", mutate: func(*AppConfig) {}},
		{name: "memory store", env: "dev", mutate: func(c *AppConfig) { c.SelectionStore = StoreMemory }},
		{name: "mongo store", env: "dev", mutate: func(c *AppConfig) { c.SelectionStore = StoreMongo }},
		{
			name:    "unknown store",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.SelectionStore = "redis" },
			wantErr: "unknown selection_store",
		},
		{
			name:    "mongo without valid uri",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.SelectionStore = StoreMongo; c.MongoURI = "postgres://localhost/planner" },
			wantErr: "invalid MongoDB URI",
		},
		{
			name:    "mongo without database",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.SelectionStore = StoreMongo; c.MongoDatabase = "" },
			wantErr: "mongo_database",
		},
		{
			name:    "zero concurrency",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.ExportMaxConcurrent = 0 },
			wantErr: "export_max_concurrent",
		},
		{
			name:    "zero timeout",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.ExportTimeout = 0 },
			wantErr: "export_timeout",
		},
		{
			name:    "negative cache ttl",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.ExportCacheTTL = -time.Second },
			wantErr: "export_cache_ttl",
		},
		{
			name:    "negative rate limit",
			env:     "dev",
			mutate:  func(c *AppConfig) { c.ExportRateLimit = -1 },
			wantErr: "export_rate_limit",
		},
		{
			name:    "short key in prod",
			env:     "prod",
			mutate:  func(c *AppConfig) { c.SessionKey = "short" },
			wantErr: "session_key",
		},
		{name: "short key in dev", env: "dev", mutate: func(c *AppConfig) { c.SessionKey = "short" }},
		{
			name:   "short key in prod with memory store",
			env:    "prod",
			mutate: func(c *AppConfig) { c.SessionKey = ""; c.SelectionStore = StoreMemory },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, testLogger())

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewSelectionBackend(t *testing.T) {
	tests := []struct {
		store string
		want  string
	}{
		{StoreCookie, "cookie"},
		{StoreMemory, "memory"},
	}
	for _, tt := range tests {
		cfg := validConfig()
		cfg.SelectionStore = tt.store
		b, err := newSelectionBackend(cfg, DBDeps{}, false, testLogger())
		if err != nil {
			t.Fatalf("%s: %v", tt.store, err)
		}
		if b.Name() != tt.want {
			t.Errorf("%s: Name() = %q, want %q", tt.store, b.Name(), tt.want)
		}
	}
}

func TestNewSelectionBackend_MongoNeedsDatabase(t *testing.T) {
	cfg := validConfig()
	cfg.SelectionStore = StoreMongo
	if _, err := newSelectionBackend(cfg, DBDeps{}, false, testLogger()); err == nil {
		t.Error("expected error without a connected database")
	}
}

func TestNewSelectionBackend_CookieNeedsKeyWhenSecure(t *testing.T) {
	cfg := validConfig()
	cfg.SessionKey = ""
	if _, err := newSelectionBackend(cfg, DBDeps{}, true, testLogger()); err == nil {
		t.Error("expected error for empty key with secure cookies")
	}
}

func TestStartup_BuildsServices(t *testing.T) {
	cfg := validConfig()
	cfg.SelectionStore = StoreMemory
	deps := DBDeps{Services: &Services{}}

	if err := Startup(t.Context(), &config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	t.Cleanup(func() { _ = Shutdown(t.Context(), &config.CoreConfig{Env: "dev"}, cfg, deps, testLogger()) })

	svc := deps.Services
	if svc.Catalogs == nil || len(svc.Catalogs.Roles()) != 2 {
		t.Errorf("catalogs not loaded")
	}
	if _, ok := svc.Selections.(*selections.MemoryBackend); !ok {
		t.Errorf("selections = %T, want *selections.MemoryBackend", svc.Selections)
	}
	if svc.Exporter == nil || svc.Rasterizer == nil || svc.Registry == nil {
		t.Error("export components not built")
	}
	if svc.ExportLimit == nil {
		t.Error("export rate limiter not built")
	}
	if svc.Cleanup != nil {
		t.Error("cleanup worker started without mongo")
	}
}
