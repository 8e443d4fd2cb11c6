package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/BrandonDHaskell/tictactoe/internal/tictactoe/store"
)

// AuditPruner applies a retention window to exported audit entries. The
// running session is exempt: its export keeps mirroring the recorder's
// trail for as long as the process lives, and only entries left behind by
// earlier sessions age out.
type AuditPruner struct {
	store     store.AuditPruneStore
	session   string
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	logger    *log.Logger
}

type PrunerConfig struct {
	// RetentionDays is how long exported entries of past sessions are
	// kept. 0 keeps them forever.
	RetentionDays int

	// IntervalHours is the pause between passes. Defaults to 6.
	IntervalHours int

	// KeepSessionID names the live session, whose entries are never pruned.
	KeepSessionID string

	// Now replaces time.Now when computing the cutoff.
	Now func() time.Time
}

func NewAuditPruner(s store.AuditPruneStore, cfg PrunerConfig, logger *log.Logger) *AuditPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &AuditPruner{
		store:     s,
		session:   cfg.KeepSessionID,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		now:       now,
		logger:    logger,
	}
}

// Enabled reports whether a retention window is configured.
func (p *AuditPruner) Enabled() bool { return p.retention > 0 }

// Cutoff is the oldest timestamp the window still keeps.
func (p *AuditPruner) Cutoff() time.Time {
	return p.now().UTC().Add(-p.retention)
}

// PruneOnce runs a single retention pass and reports how many entries it
// removed. It is a no-op when retention is disabled.
func (p *AuditPruner) PruneOnce(ctx context.Context) (int64, error) {
	if !p.Enabled() {
		return 0, nil
	}

	cutoff := p.Cutoff()
	n, err := p.store.PruneOlderThan(ctx, cutoff, p.session)
	if err != nil {
		return 0, fmt.Errorf("prune audit export before %s: %w",
			cutoff.Format(store.TimestampLayout), err)
	}
	if n > 0 {
		p.logger.Printf("audit prune: removed %d entries of past sessions older than %s",
			n, cutoff.Format(time.RFC3339))
	}
	return n, nil
}

// Run prunes immediately and then after every interval until ctx is done.
// It returns at once when retention is disabled.
func (p *AuditPruner) Run(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Printf("audit pruner disabled (retention=0)")
		return
	}
	p.logger.Printf("audit pruner running (retention=%s, interval=%s, keep session=%s)",
		p.retention, p.interval, p.session)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		if _, err := p.PruneOnce(ctx); err != nil && ctx.Err() == nil {
			p.logger.Printf("audit pruner: %v", err)
		}
		timer.Reset(p.interval)
	}
}
