package domain

import "time"

type Project struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Path              string `json:"path"`
	PathWithNamespace string `json:"path_with_namespace"`
}

type User struct {
	Username string `json:"username"`
}

type MergeRequest struct {
	IID          int64     `json:"iid"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	SourceBranch string    `json:"source_branch"`
	TargetBranch string    `json:"target_branch"`
	Labels       []string  `json:"labels"`
	Assignees    []User    `json:"assignees"`
	WebURL       string    `json:"web_url"`
}

type LabelRef struct {
	Name string `json:"name"`
}

// LabelEvent is one entry of an MR's resource_label_events feed.
// Label may be null when the label was deleted upstream.
type LabelEvent struct {
	CreatedAt time.Time `json:"created_at"`
	Action    string    `json:"action"` // "add" or "remove"
	Label     *LabelRef `json:"label"`
}

// Timing holds derived workflow durations in fractional hours.
// A nil value means "no data", which is distinct from a zero measurement.
type Timing struct {
	InRework   *float64
	InReview   *float64
	ToComplete *float64
}

type ProjectStats struct {
	Name       string
	Total      int
	Rework     int
	ReworkMine int
	InReview   int
	ReworkDone int
}

// BranchRecord is one open MR as it appears on the exposition surface.
// Emitted for every open MR, flagged or not.
type BranchRecord struct {
	Project       string
	Branch        string
	TargetBranch  string
	Title         string
	HasRework     bool
	HasInReview   bool
	HasReworkDone bool
	Timing        Timing
}

type ReworkItem struct {
	Title   string
	URL     string
	Project string
}

// Snapshot is one complete collection cycle. It is replaced wholesale on
// refresh and never mutated in place.
type Snapshot struct {
	Projects   []ProjectStats
	Branches   []BranchRecord
	ReworkMine []ReworkItem
}
