/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/mr-pulse/internal/adapters/gitlab"
	"github.com/example/mr-pulse/internal/adapters/mail"
	"github.com/example/mr-pulse/internal/config"
	httpapi "github.com/example/mr-pulse/internal/http"
	"github.com/example/mr-pulse/internal/jobs"
	"github.com/example/mr-pulse/internal/logger"
	"github.com/example/mr-pulse/internal/metrics"
	"github.com/example/mr-pulse/internal/services"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.GitLabToken == "" {
		log.Fatal().Msg("GITLAB_TOKEN is not set")
	}

	// Adapters
	gl := gitlab.NewClient(cfg, log)
	mc := mail.NewClient(cfg, log)

	// Services
	collector := services.NewCollector(cfg, log, gl)
	notifier := services.NewNotifier(mc, log)
	cache := services.NewCache(cfg.CacheTTL, collector, notifier, log)

	// Exposition
	reg := prometheus.NewRegistry()
	reg.MustRegister(metrics.NewSnapshotCollector(cache))
	promHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	router := httpapi.NewRouter(cfg, log, promHandler)

	// Optional background refresh
	cr := jobs.NewCron(cfg, log, cache)
	cr.Start()
	defer cr.Stop()

	log.Info().
		Str("gitlab", cfg.GitLabURL).
		Strs("repositories", cfg.Repositories).
		Str("addr", cfg.HTTPAddr).
		Msg("gitlab exporter starting")

	errCh := make(chan error, 1)
	go func() { errCh <- router.Run(cfg.HTTPAddr) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info().Msg("shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	time.Sleep(500 * time.Millisecond)
}
