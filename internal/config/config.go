/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// WatchedLabels are the three label names marking workflow states.
type WatchedLabels struct {
	Rework     string
	InReview   string
	ReworkDone string
}

type Config struct {
	AppEnv   string
	HTTPAddr string

	GitLabURL   string
	GitLabToken string

	Repositories []string
	Labels       WatchedLabels

	// Email doubles as alert recipient and "assigned to me" identity:
	// the local part is matched against MR assignee usernames.
	Email        string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	CacheTTL    time.Duration
	HTTPTimeout time.Duration
	RefreshCron string

	MonitorFile string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoi(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseStrings(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func Load() Config {
	cfg := Config{
		AppEnv:   getenv("APP_ENV", "dev"),
		HTTPAddr: getenv("HTTP_ADDR", ":9200"),

		GitLabURL:   getenv("GITLAB_URL", "https://gitlab.com"),
		GitLabToken: getenv("GITLAB_TOKEN", ""),

		Repositories: parseStrings(getenv("REPOSITORIES", "")),
		Labels: WatchedLabels{
			Rework:     getenv("LABEL_REWORK", "rework"),
			InReview:   getenv("LABEL_IN_REVIEW", "in_review"),
			ReworkDone: getenv("LABEL_REWORK_DONE", "rework_done"),
		},

		Email:        getenv("YOUR_EMAIL", ""),
		SMTPHost:     getenv("SMTP_HOST", "localhost"),
		SMTPPort:     atoi("SMTP_PORT", 587),
		SMTPUser:     getenv("SMTP_USER", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),

		CacheTTL:    dur("CACHE_TTL", 10*time.Second),
		HTTPTimeout: dur("HTTP_TIMEOUT", 10*time.Second),
		RefreshCron: getenv("REFRESH_CRON", ""),

		MonitorFile: getenv("MONITOR_FILE", "monitor.yaml"),
	}

	// Optional: repositories and label names from a YAML file; non-empty
	// values win over env.
	if data, err := os.ReadFile(cfg.MonitorFile); err == nil {
		var mf struct {
			Repositories []string `yaml:"repositories"`
			Labels       struct {
				Rework     string `yaml:"rework"`
				InReview   string `yaml:"in_review"`
				ReworkDone string `yaml:"rework_done"`
			} `yaml:"labels"`
		}
		if err := yaml.Unmarshal(data, &mf); err == nil {
			if len(mf.Repositories) > 0 {
				cfg.Repositories = mf.Repositories
			}
			if mf.Labels.Rework != "" {
				cfg.Labels.Rework = mf.Labels.Rework
			}
			if mf.Labels.InReview != "" {
				cfg.Labels.InReview = mf.Labels.InReview
			}
			if mf.Labels.ReworkDone != "" {
				cfg.Labels.ReworkDone = mf.Labels.ReworkDone
			}
		}
	}

	return cfg
}

// Identity is the username compared against MR assignees, derived from the
// configured email's local part.
func (c Config) Identity() string {
	if c.Email == "" {
		return ""
	}
	return strings.SplitN(c.Email, "@", 2)[0]
}

// MailConfigured reports whether the alert transport has enough settings to
// attempt delivery.
func (c Config) MailConfigured() bool {
	return c.SMTPUser != "" && c.SMTPPassword != "" && c.Email != ""
}
