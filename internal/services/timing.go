/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
	"time"

	"github.com/example/mr-pulse/internal/config"
	"github.com/example/mr-pulse/internal/domain"
)

// ReduceTiming derives workflow durations for one MR from its label-event
// feed. Events are scanned in feed order; the first "add" per watched label
// wins and a later "remove" never clears it ("has this MR ever entered this
// state"). A nil result field means no data, which renders differently from
// a zero measurement.
func ReduceTiming(createdAt time.Time, events []domain.LabelEvent, labels config.WatchedLabels, now time.Time) domain.Timing {
	var reworkAt, inReviewAt, doneAt time.Time
	for _, ev := range events {
		if ev.Action != "add" || ev.Label == nil {
			continue
		}
		switch ev.Label.Name {
		case labels.Rework:
			if reworkAt.IsZero() {
				reworkAt = ev.CreatedAt
			}
		case labels.InReview:
			if inReviewAt.IsZero() {
				inReviewAt = ev.CreatedAt
			}
		case labels.ReworkDone:
			if doneAt.IsZero() {
				doneAt = ev.CreatedAt
			}
		}
	}

	var t domain.Timing
	if !reworkAt.IsZero() && !doneAt.IsZero() {
		t.InRework = hoursBetween(reworkAt, doneAt)
	}
	if !inReviewAt.IsZero() {
		if !doneAt.IsZero() {
			t.InReview = hoursBetween(inReviewAt, doneAt)
		} else {
			// Open-ended: review still in progress, measure against now.
			t.InReview = hoursBetween(inReviewAt, now)
		}
	}
	if !doneAt.IsZero() && !createdAt.IsZero() {
		t.ToComplete = hoursBetween(createdAt, doneAt)
	}
	return t
}

// hoursBetween returns the span from..to in fractional hours, or nil when
// the inputs are out of order. Negative durations must never reach the
// exposition surface.
func hoursBetween(from, to time.Time) *float64 {
	h := to.Sub(from).Hours()
	if h < 0 {
		return nil
	}
	return &h
}
