/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/mr-pulse/internal/config"
	"github.com/rs/zerolog"
)

type Handlers struct {
	cfg config.Config
	log zerolog.Logger
}

func NewHandlers(cfg config.Config, log zerolog.Logger) *Handlers {
	return &Handlers{cfg: cfg, log: log}
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
