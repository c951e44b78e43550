/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/mr-pulse/internal/config"
	"github.com/rs/zerolog"
)

func NewRouter(cfg config.Config, log zerolog.Logger, metrics http.Handler) *gin.Engine {
	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		c.Next()
		log.Info().Str("m", c.Request.Method).Str("p", c.FullPath()).Int("s", c.Writer.Status()).Msg("http")
	})

	h := NewHandlers(cfg, log)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics))

	return r
}
