package config_test

import (
	"testing"

	"github.com/BrandonDHaskell/tictactoe/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()
	want := config.Defaults()
	if cfg != want {
		t.Errorf("expected defaults %+v, got %+v", want, cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TICTACTOE_HTTP_ADDR", ":9090")
	t.Setenv("TICTACTOE_GRPC_ADDR", " :9091 ")
	t.Setenv("TICTACTOE_ENV", "PROD")
	t.Setenv("TICTACTOE_AUDIT_SINK", "SQLite")
	t.Setenv("TICTACTOE_DB_PATH", "/tmp/ttt.db")
	t.Setenv("TICTACTOE_AUDIT_RETENTION_DAYS", "0")
	t.Setenv("TICTACTOE_PRUNE_INTERVAL_HOURS", "2")

	cfg := config.FromEnv()

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("expected http addr :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != ":9091" {
		t.Errorf("expected grpc addr :9091, got %q", cfg.GRPCAddr)
	}
	if cfg.Env != "prod" {
		t.Errorf("expected env prod, got %q", cfg.Env)
	}
	if cfg.AuditSink != config.SinkSQLite {
		t.Errorf("expected sqlite sink, got %q", cfg.AuditSink)
	}
	if cfg.DBPath != "/tmp/ttt.db" {
		t.Errorf("expected db path /tmp/ttt.db, got %q", cfg.DBPath)
	}
	if cfg.AuditRetentionDays != 0 {
		t.Errorf("expected retention 0, got %d", cfg.AuditRetentionDays)
	}
	if cfg.PruneIntervalHours != 2 {
		t.Errorf("expected interval 2, got %d", cfg.PruneIntervalHours)
	}
}

func TestFromEnv_UnknownValuesFailSoft(t *testing.T) {
	t.Setenv("TICTACTOE_ENV", "staging")
	t.Setenv("TICTACTOE_AUDIT_SINK", "kafka")
	t.Setenv("TICTACTOE_AUDIT_RETENTION_DAYS", "-3")

	cfg := config.FromEnv()

	if cfg.Env != "dev" {
		t.Errorf("expected env dev, got %q", cfg.Env)
	}
	if cfg.AuditSink != config.SinkMemory {
		t.Errorf("expected memory sink, got %q", cfg.AuditSink)
	}
	if cfg.AuditRetentionDays != 30 {
		t.Errorf("expected retention 30, got %d", cfg.AuditRetentionDays)
	}
}

func TestFromEnv_UnparseableFallsBackToDefaults(t *testing.T) {
	t.Setenv("TICTACTOE_HTTP_ADDR", ":7070")
	t.Setenv("TICTACTOE_PRUNE_INTERVAL_HOURS", "often")

	cfg := config.FromEnv()
	if cfg != config.Defaults() {
		t.Errorf("expected defaults on parse error, got %+v", cfg)
	}
}
