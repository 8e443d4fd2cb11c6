package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

const (
	SinkMemory = "memory"
	SinkSQLite = "sqlite"
)

type Config struct {
	HTTPAddr string `env:"TICTACTOE_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"TICTACTOE_GRPC_ADDR"` // empty disables the health server

	Env string `env:"TICTACTOE_ENV" envDefault:"dev"` // "dev" | "prod"

	// Audit export
	AuditSink string `env:"TICTACTOE_AUDIT_SINK" envDefault:"memory"` // "memory" | "sqlite"
	DBPath    string `env:"TICTACTOE_DB_PATH" envDefault:"./data/tictactoe.db"`

	// Audit export retention
	AuditRetentionDays int `env:"TICTACTOE_AUDIT_RETENTION_DAYS" envDefault:"30"` // 0 = keep forever
	PruneIntervalHours int `env:"TICTACTOE_PRUNE_INTERVAL_HOURS" envDefault:"6"`
}

func Defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		Env:                "dev",
		AuditSink:          SinkMemory,
		DBPath:             "./data/tictactoe.db",
		AuditRetentionDays: 30,
		PruneIntervalHours: 6,
	}
}

// FromEnv reads the TICTACTOE_* variables. A variable that fails to parse
// leaves every field at its default.
func FromEnv() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Defaults()
	}
	return cfg.normalize()
}

func (c Config) normalize() Config {
	d := Defaults()

	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != "dev" && c.Env != "prod" {
		// fail-soft: treat unknown as dev
		c.Env = "dev"
	}

	c.AuditSink = strings.ToLower(strings.TrimSpace(c.AuditSink))
	if c.AuditSink != SinkMemory && c.AuditSink != SinkSQLite {
		c.AuditSink = SinkMemory
	}

	if strings.TrimSpace(c.HTTPAddr) == "" {
		c.HTTPAddr = d.HTTPAddr
	}
	if strings.TrimSpace(c.DBPath) == "" {
		c.DBPath = d.DBPath
	}
	c.GRPCAddr = strings.TrimSpace(c.GRPCAddr)

	if c.AuditRetentionDays < 0 {
		c.AuditRetentionDays = d.AuditRetentionDays
	}
	if c.PruneIntervalHours <= 0 {
		c.PruneIntervalHours = d.PruneIntervalHours
	}
	return c
}
