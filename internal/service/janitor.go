package service

import (
	"context"
	"time"

	"github.com/avolkov/authd/internal/logger"
	"github.com/avolkov/authd/internal/model"
)

const sweepTimeout = 30 * time.Second

// Janitor periodically hard-deletes revoked refresh tokens past the
// retention horizon. It runs independently of request handling and only
// ever touches rows already revoked, so it cannot race with an in-flight
// rotation or validation of an active session.
type Janitor struct {
	store     model.RefreshTokenStore
	interval  time.Duration
	retention time.Duration
	logger    *logger.Logger
}

func NewJanitor(store model.RefreshTokenStore, interval, retention time.Duration, logger *logger.Logger) *Janitor {
	return &Janitor{
		store:     store,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Run sweeps on a ticker until the context is canceled. Sweep failures are
// logged and never propagate.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep runs a single purge pass with a bounded timeout.
func (j *Janitor) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	deleted, err := j.store.PurgeExpiredRevoked(ctx, j.retention)
	if err != nil {
		j.logger.Error("Janitor: sweep failed", "error", err.Error())
		return
	}
	if deleted > 0 {
		j.logger.Info("Janitor: purged revoked refresh tokens", "count", deleted)
	}
}
