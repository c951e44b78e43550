/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
	"context"
	"time"

	"github.com/example/mr-pulse/internal/config"
	"github.com/example/mr-pulse/internal/domain"
	"github.com/rs/zerolog"
)

// gitlabAPI is the slice of the GitLab client the collector needs.
type gitlabAPI interface {
	SearchProjects(ctx context.Context, name string) ([]domain.Project, error)
	OpenMergeRequests(ctx context.Context, projectID int64) ([]domain.MergeRequest, error)
	LabelEvents(ctx context.Context, projectID, mrIID int64) ([]domain.LabelEvent, error)
}

type Collector struct {
	cfg config.Config
	log zerolog.Logger
	gl  gitlabAPI
	now func() time.Time
}

func NewCollector(cfg config.Config, log zerolog.Logger, gl gitlabAPI) *Collector {
	return &Collector{cfg: cfg, log: log, gl: gl, now: time.Now}
}

// Collect runs one full collection cycle. It never fails: any single
// upstream error degrades to empty data at its own scope and the cycle
// moves on, so one flaky call cannot blank out unrelated projects.
func (c *Collector) Collect(ctx context.Context) *domain.Snapshot {
	snap := &domain.Snapshot{}
	identity := c.cfg.Identity()

	for _, p := range c.resolveProjects(ctx) {
		stats := domain.ProjectStats{Name: p.PathWithNamespace}
		if stats.Name == "" {
			stats.Name = "unknown"
		}

		mrs, err := c.gl.OpenMergeRequests(ctx, p.ID)
		if err != nil {
			c.log.Error().Err(err).Str("project", stats.Name).Msg("list merge requests failed")
		}

		for _, mr := range mrs {
			stats.Total++

			events, err := c.gl.LabelEvents(ctx, p.ID, mr.IID)
			if err != nil {
				c.log.Error().Err(err).Str("project", stats.Name).Int64("mr", mr.IID).Msg("label events failed")
				events = nil
			}
			timing := ReduceTiming(mr.CreatedAt, events, c.cfg.Labels, c.now())

			rec := domain.BranchRecord{
				Project:       stats.Name,
				Branch:        branchOr(mr.SourceBranch, "unknown"),
				TargetBranch:  branchOr(mr.TargetBranch, "main"),
				Title:         mr.Title,
				HasRework:     hasLabel(mr.Labels, c.cfg.Labels.Rework),
				HasInReview:   hasLabel(mr.Labels, c.cfg.Labels.InReview),
				HasReworkDone: hasLabel(mr.Labels, c.cfg.Labels.ReworkDone),
				Timing:        timing,
			}
			snap.Branches = append(snap.Branches, rec)

			if rec.HasRework {
				stats.Rework++
				if identity != "" && assignedTo(mr.Assignees, identity) {
					stats.ReworkMine++
					snap.ReworkMine = append(snap.ReworkMine, domain.ReworkItem{
						Title:   mr.Title,
						URL:     mr.WebURL,
						Project: stats.Name,
					})
				}
			}
			if rec.HasInReview {
				stats.InReview++
			}
			if rec.HasReworkDone {
				stats.ReworkDone++
			}
		}

		snap.Projects = append(snap.Projects, stats)
	}

	return snap
}

// resolveProjects maps each configured repository name to a project by
// exact match on path or name, first upstream hit wins. Misses are logged
// and skipped.
func (c *Collector) resolveProjects(ctx context.Context) []domain.Project {
	var out []domain.Project
	for _, name := range c.cfg.Repositories {
		results, err := c.gl.SearchProjects(ctx, name)
		if err != nil {
			c.log.Error().Err(err).Str("repo", name).Msg("project search failed")
			continue
		}
		found := false
		for _, p := range results {
			if p.Path == name || p.Name == name {
				c.log.Info().Str("project", p.PathWithNamespace).Msg("project resolved")
				out = append(out, p)
				found = true
				break
			}
		}
		if !found {
			c.log.Warn().Str("repo", name).Msg("repository not accessible")
		}
	}
	return out
}

func hasLabel(labels []string, name string) bool {
	for _, l := range labels {
		if l == name {
			return true
		}
	}
	return false
}

func assignedTo(assignees []domain.User, username string) bool {
	for _, a := range assignees {
		if a.Username == username {
			return true
		}
	}
	return false
}

func branchOr(b, def string) string {
	if b == "" {
		return def
	}
	return b
}
