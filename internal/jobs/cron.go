package jobs

import (
	"context"
	"time"

	"github.com/example/mr-pulse/internal/config"
	"github.com/example/mr-pulse/internal/domain"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type refresher interface {
	GetOrRefresh(ctx context.Context) *domain.Snapshot
}

// Cron keeps the snapshot warm on a schedule so rework alerts fire even
// when nothing is scraping. With no schedule configured it does nothing.
type Cron struct {
	cfg   config.Config
	log   zerolog.Logger
	cache refresher
	c     *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, cache refresher) *Cron {
	c := cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
	cr := &Cron{cfg: cfg, log: log, cache: cache, c: c}
	if cfg.RefreshCron != "" {
		if _, err := c.AddFunc(cfg.RefreshCron, cr.refresh); err != nil {
			log.Error().Err(err).Str("spec", cfg.RefreshCron).Msg("cron: bad refresh spec")
		}
	}
	return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

func (cr *Cron) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	cr.log.Info().Msg("cron: refreshing snapshot")
	cr.cache.GetOrRefresh(ctx)
}
