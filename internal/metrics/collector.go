/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package metrics

import (
	"context"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/example/mr-pulse/internal/domain"
)

// maxTitleRunes bounds the title label so dashboards stay readable.
const maxTitleRunes = 50

type snapshotSource interface {
	GetOrRefresh(ctx context.Context) *domain.Snapshot
}

var (
	branchLabels = []string{"project", "branch", "target", "title"}

	descTotal      = prom.NewDesc("gitlab_merge_requests_total", "Total merge requests by project", []string{"project"}, nil)
	descRework     = prom.NewDesc("gitlab_rework_mrs", "MRs with rework label", []string{"project"}, nil)
	descReworkMine = prom.NewDesc("gitlab_rework_assigned_to_me", "MRs with rework assigned to me", []string{"project"}, nil)
	descInReview   = prom.NewDesc("gitlab_in_review_mrs", "MRs in review", []string{"project"}, nil)
	descReworkDone = prom.NewDesc("gitlab_rework_done_mrs", "MRs with rework done", []string{"project"}, nil)

	descInfo           = prom.NewDesc("gitlab_mr_info", "MR information with branch labels", branchLabels, nil)
	descTimeInRework   = prom.NewDesc("gitlab_mr_time_in_rework_hours", "Time spent in rework per MR (hours)", branchLabels, nil)
	descTimeInReview   = prom.NewDesc("gitlab_mr_time_in_review_hours", "Time spent in review per MR (hours)", branchLabels, nil)
	descTimeToComplete = prom.NewDesc("gitlab_mr_time_to_complete_hours", "Time to complete MR (hours)", branchLabels, nil)
)

// SnapshotCollector exposes the cached aggregate as Prometheus gauges. Each
// scrape pulls the snapshot through the cache, so within the freshness
// window repeated scrapes render the same data with no upstream calls.
type SnapshotCollector struct {
	source snapshotSource
}

func NewSnapshotCollector(source snapshotSource) *SnapshotCollector {
	return &SnapshotCollector{source: source}
}

func (s *SnapshotCollector) Describe(ch chan<- *prom.Desc) {
	ch <- descTotal
	ch <- descRework
	ch <- descReworkMine
	ch <- descInReview
	ch <- descReworkDone
	ch <- descInfo
	ch <- descTimeInRework
	ch <- descTimeInReview
	ch <- descTimeToComplete
}

func (s *SnapshotCollector) Collect(ch chan<- prom.Metric) {
	snap := s.source.GetOrRefresh(context.Background())
	if snap == nil {
		return
	}

	for _, p := range snap.Projects {
		ch <- prom.MustNewConstMetric(descTotal, prom.GaugeValue, float64(p.Total), p.Name)
		ch <- prom.MustNewConstMetric(descRework, prom.GaugeValue, float64(p.Rework), p.Name)
		ch <- prom.MustNewConstMetric(descReworkMine, prom.GaugeValue, float64(p.ReworkMine), p.Name)
		ch <- prom.MustNewConstMetric(descInReview, prom.GaugeValue, float64(p.InReview), p.Name)
		ch <- prom.MustNewConstMetric(descReworkDone, prom.GaugeValue, float64(p.ReworkDone), p.Name)
	}

	for _, b := range snap.Branches {
		lv := []string{b.Project, b.Branch, b.TargetBranch, truncate(b.Title, maxTitleRunes)}
		// Info series is always present so every open MR is visible even
		// when no timing data exists for it.
		ch <- prom.MustNewConstMetric(descInfo, prom.GaugeValue, 1, lv...)
		emitPositive(ch, descTimeInRework, b.Timing.InRework, lv)
		emitPositive(ch, descTimeInReview, b.Timing.InReview, lv)
		emitPositive(ch, descTimeToComplete, b.Timing.ToComplete, lv)
	}
}

// emitPositive skips absent and exactly-zero durations: a missing series
// means "no timing data", never zero.
func emitPositive(ch chan<- prom.Metric, desc *prom.Desc, v *float64, lv []string) {
	if v == nil || *v <= 0 {
		return
	}
	ch <- prom.MustNewConstMetric(desc, prom.GaugeValue, *v, lv...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
