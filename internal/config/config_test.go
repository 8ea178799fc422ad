package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.StorageBackend != BackendMemory {
		t.Fatalf("expected memory backend by default, got %q", cfg.StorageBackend)
	}
	if cfg.SnapshotKey != "workouts" {
		t.Fatalf("expected default snapshot key")
	}
	if cfg.MapZoom != 13 {
		t.Fatalf("expected default zoom 13, got %d", cfg.MapZoom)
	}
	if cfg.SQLitePath != "mapty.db" {
		t.Fatalf("expected default sqlite path, got %q", cfg.SQLitePath)
	}
	if cfg.AuthEnabled() {
		t.Fatalf("expected auth disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("SNAPSHOT_KEY", "my-workouts")
	t.Setenv("MAP_ZOOM", "15")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("SQLITE_PATH", "/var/lib/mapty/mapty.db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OPERATOR_PASSWORD_HASH", "$2a$10$hash")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.StorageBackend != BackendRedis {
		t.Fatalf("expected override backend")
	}
	if cfg.SnapshotKey != "my-workouts" {
		t.Fatalf("expected override key")
	}
	if cfg.MapZoom != 15 {
		t.Fatalf("expected override zoom")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.SQLitePath != "/var/lib/mapty/mapty.db" {
		t.Fatalf("expected override sqlite path")
	}
	if !cfg.AuthEnabled() {
		t.Fatalf("expected auth enabled")
	}
}
