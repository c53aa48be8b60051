package background

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// RevocationPruner defines the ledger operation the cleanup loop needs.
type RevocationPruner interface {
	DeleteRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupManager periodically prunes ledger entries older than the retention
// window. Pruning is housekeeping; token validation never depends on it.
type CleanupManager struct {
	pruner    RevocationPruner
	logger    *slog.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	running   atomic.Bool
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(pruner RevocationPruner, logger *slog.Logger, interval, retention time.Duration) *CleanupManager {
	return &CleanupManager{
		pruner:    pruner,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic pruning task. Blocks until Stop is called or the
// context is cancelled; run it in its own goroutine.
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.RunOnce(ctx)

	for {
		select {
		case <-ticker.C:
			cm.RunOnce(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// RunOnce executes a single pruning pass. If a previous pass is still in
// flight the call is skipped rather than stacked.
func (cm *CleanupManager) RunOnce(ctx context.Context) {
	if !cm.running.CompareAndSwap(false, true) {
		cm.logger.Warn("revocation prune still running, skipping this cycle")
		return
	}
	defer cm.running.Store(false)

	pruneCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-cm.retention)
	rowsDeleted, err := cm.pruner.DeleteRevokedBefore(pruneCtx, cutoff)
	if err != nil {
		cm.logger.Error("failed to prune revocation ledger", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("revocation ledger pruned",
			slog.Int64("rows_deleted", rowsDeleted),
			slog.Time("cutoff", cutoff))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
