package crontab

import (
	"context"
	"fmt"
	"time"

	"venturedesk/ai-api/internal/config"
	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/infrastructure/logger"
	"venturedesk/ai-api/internal/infrastructure/metrics"
	"venturedesk/ai-api/internal/utils/platformerrors"

	"github.com/mileusna/crontab"
)

const (
	DefaultRevalidateInterval = 30               // in minutes
	CronJobTimeout            = 10 * time.Minute // Timeout for each cron job execution
)

type Crontab struct {
	ctab     *crontab.Crontab
	resolver *aigateway.Resolver
}

func NewCrontab(resolver *aigateway.Resolver) *Crontab {
	return &Crontab{
		ctab:     crontab.New(),
		resolver: resolver,
	}
}

func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()

	cfg := config.GetGlobal()
	interval := DefaultRevalidateInterval
	if cfg != nil {
		interval = cfg.HealthRecheckIntervalMinutes
	}

	if interval > 0 {
		cronExpr := fmt.Sprintf("*/%d * * * *", interval)
		if err := c.ctab.AddJob(cronExpr, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.revalidateAdapters(jobCtx)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add adapter revalidation job")
		}
		log.Warn().Msgf("Adapter revalidation scheduled: every %d minute(s)", interval)
	}

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

// revalidateAdapters re-probes cached BYOK adapters so a key revoked at the
// vendor stops being served within one sweep interval.
func (c *Crontab) revalidateAdapters(ctx context.Context) {
	log := logger.GetLogger()

	evicted := c.resolver.Revalidate(ctx)
	size := c.resolver.CacheSize()
	metrics.SetAdapterCacheSize(size)

	if evicted > 0 {
		log.Warn().
			Int("evicted", evicted).
			Int("cache_size", size).
			Msg("revalidation sweep evicted unhealthy adapters")
		return
	}
	log.Debug().Int("cache_size", size).Msg("revalidation sweep completed")
}
