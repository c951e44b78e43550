/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/mr-pulse/internal/domain"
	"github.com/rs/zerolog"
)

type mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// Notifier alerts the configured person when new rework lands on them.
type Notifier struct {
	mail mailer
	log  zerolog.Logger
}

func NewNotifier(mail mailer, log zerolog.Logger) *Notifier {
	return &Notifier{mail: mail, log: log}
}

// MaybeNotify fires one alert when the rework-assigned-to-me count strictly
// exceeds the last notified count; a steady or shrinking count stays quiet.
// Delivery is best-effort: the returned count is len(items) regardless of
// transport outcome, so a failed send is not re-attempted for the same set.
func (n *Notifier) MaybeNotify(ctx context.Context, items []domain.ReworkItem, lastNotified int) (bool, int) {
	count := len(items)
	if count <= lastNotified {
		return false, count
	}

	b := &strings.Builder{}
	b.WriteString("You have been assigned REWORK on the following MRs:\n\n")
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n  %s\n  Project: %s\n\n", it.Title, it.URL, it.Project)
	}
	if err := n.mail.Send(ctx, "GitLab: Rework Assigned to You", b.String()); err != nil {
		n.log.Error().Err(err).Int("count", count).Msg("rework alert mail failed")
	} else {
		n.log.Info().Int("count", count).Msg("rework alert sent")
	}
	return true, count
}
