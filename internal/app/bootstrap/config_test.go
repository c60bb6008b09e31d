package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/nurseryhome/internal/testutil"
	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		APIBaseURL:        "http://localhost:5000/api",
		LoginTimeout:      6 * time.Second,
		LoginMaxAttempts:  5,
		RosterConcurrency: 8,
		UploadPath:        "data/uploads",
		UploadMaxBytes:    10 << 20,
		AuditLogAuth:      "all",
		AuditLogAdmin:     "db",
	}
}

func TestValidateAppConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*AppConfig) {}},
		{name: "https backend", mutate: func(c *AppConfig) { c.APIBaseURL = "https://care.example.vn/api" }},
		{name: "blank backend", mutate: func(c *AppConfig) { c.APIBaseURL = "" }, wantErr: true},
		{name: "backend without scheme", mutate: func(c *AppConfig) { c.APIBaseURL = "localhost:5000" }, wantErr: true},
		{name: "ftp backend", mutate: func(c *AppConfig) { c.APIBaseURL = "ftp://files.example.vn" }, wantErr: true},
		{name: "zero concurrency", mutate: func(c *AppConfig) { c.RosterConcurrency = 0 }, wantErr: true},
		{name: "zero login timeout", mutate: func(c *AppConfig) { c.LoginTimeout = 0 }, wantErr: true},
		{name: "zero login attempts", mutate: func(c *AppConfig) { c.LoginMaxAttempts = 0 }, wantErr: true},
		{name: "zero upload size", mutate: func(c *AppConfig) { c.UploadMaxBytes = 0 }, wantErr: true},
		{name: "blank upload path", mutate: func(c *AppConfig) { c.UploadPath = " " }, wantErr: true},
		{name: "unknown audit mode", mutate: func(c *AppConfig) { c.AuditLogAdmin = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := validateAppConfig(cfg)
			if tt.wantErr && err == nil {
				t.Error("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = "postgres://localhost"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Error("expected error for non-mongo URI")
	}
}

func TestEnsureSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{NurseryHomeMongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Second run must be a no-op.
	if err := EnsureSchema(ctx, nil, validConfig(), deps, zap.NewNop()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}
}

func TestShutdown_EmptyDeps(t *testing.T) {
	if err := Shutdown(context.Background(), nil, AppConfig{}, DBDeps{}, zap.NewNop()); err != nil {
		t.Errorf("Shutdown with no connections: %v", err)
	}
}
