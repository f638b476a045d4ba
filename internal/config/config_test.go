package config

import (
	"testing"
	"time"
)

// setRequiredEnv sets the minimal environment a valid config needs.
func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("WEIGHTSYNC_PRIMARY.ENV", "test")

	t.Setenv("WEIGHTSYNC_SERVER.PORT", "8080")
	t.Setenv("WEIGHTSYNC_SERVER.READ_TIMEOUT", "10")
	t.Setenv("WEIGHTSYNC_SERVER.WRITE_TIMEOUT", "10")
	t.Setenv("WEIGHTSYNC_SERVER.IDLE_TIMEOUT", "60")
	t.Setenv("WEIGHTSYNC_SERVER.CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	t.Setenv("WEIGHTSYNC_MONDAY.API_URL", "https://api.monday.com/v2")
	t.Setenv("WEIGHTSYNC_MONDAY.TOKEN", "test-token")
	t.Setenv("WEIGHTSYNC_MONDAY.BOARD_ID", "123456789")
	t.Setenv("WEIGHTSYNC_MONDAY.STATUS_COLUMN_ID", "status")
	t.Setenv("WEIGHTSYNC_MONDAY.PRINTER_COLUMN_ID", "text")
	t.Setenv("WEIGHTSYNC_MONDAY.WEIGHT_COLUMN_ID", "numbers")
	t.Setenv("WEIGHTSYNC_MONDAY.REMAINING_COLUMN_ID", "numbers9")

	t.Setenv("WEIGHTSYNC_REDIS.ADDRESS", "localhost:6379")
}

func TestLoad(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Primary.Env != "test" {
		t.Errorf("Primary.Env = %q", cfg.Primary.Env)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q", cfg.Server.Port)
	}
	if cfg.Monday.BoardID != "123456789" {
		t.Errorf("Monday.BoardID = %q", cfg.Monday.BoardID)
	}
	if cfg.Monday.Token != "test-token" {
		t.Errorf("Monday.Token = %q", cfg.Monday.Token)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Monday.SyncStatus != DefaultSyncStatus {
		t.Errorf("SyncStatus = %q, want %q", cfg.Monday.SyncStatus, DefaultSyncStatus)
	}
	if cfg.Monday.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.Monday.RequestTimeout, DefaultRequestTimeout)
	}
	if cfg.Observability == nil {
		t.Fatal("Observability defaults not applied")
	}
	if cfg.Observability.ServiceName != "weightsync" {
		t.Errorf("ServiceName = %q, want weightsync", cfg.Observability.ServiceName)
	}
	if cfg.Observability.Environment != "test" {
		t.Errorf("Observability.Environment = %q, want test", cfg.Observability.Environment)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEIGHTSYNC_MONDAY.SYNC_STATUS", "In Production")
	t.Setenv("WEIGHTSYNC_MONDAY.REQUEST_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Monday.SyncStatus != "In Production" {
		t.Errorf("SyncStatus = %q", cfg.Monday.SyncStatus)
	}
	if cfg.Monday.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.Monday.RequestTimeout)
	}
}
