package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/formacentre/payroll-backend-go/internal/domain/auth"
)

// RegisterTokenCleanup schedules a daily purge of expired refresh tokens.
// Revoked but unexpired tokens are kept so reuse attempts stay detectable.
func RegisterTokenCleanup(s *Scheduler, tokens auth.RefreshTokenRepository) {
	s.AddJob("refresh-token-cleanup", 24*time.Hour, func(ctx context.Context) error {
		deleted, err := tokens.DeleteExpired(ctx)
		if err != nil {
			return err
		}
		if deleted > 0 {
			slog.Info("Expired refresh tokens purged", "count", deleted)
		}
		return nil
	})
}
