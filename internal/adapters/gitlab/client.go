/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package gitlab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/example/mr-pulse/internal/config"
	"github.com/example/mr-pulse/internal/domain"
	"github.com/rs/zerolog"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.GitLabURL,
		token:   cfg.GitLabToken,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log,
	}
}

func (c *Client) apiURL(path string, q url.Values) string {
	base := strings.TrimRight(c.baseURL, "/")
	u := base + "/api/v4/" + strings.TrimLeft(path, "/")
	if len(q) > 0 {
		u = u + "?" + q.Encode()
	}
	return u
}

// doJSON performs an authenticated GET and decodes the response into out,
// which must be a pointer. Non-2xx statuses and decode failures are errors.
func (c *Client) doJSON(ctx context.Context, u string, out any) error {
	if c.baseURL == "" {
		return errors.New("gitlab: empty baseURL")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("PRIVATE-TOKEN", c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("gitlab api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SearchProjects lists accessible projects matching name, in upstream order.
func (c *Client) SearchProjects(ctx context.Context, name string) ([]domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("gitlab: empty project name")
	}
	q := url.Values{}
	q.Set("search", name)
	q.Set("membership", "true")
	var out []domain.Project
	if err := c.doJSON(ctx, c.apiURL("projects", q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OpenMergeRequests lists open MRs for a project, one page of up to 100.
func (c *Client) OpenMergeRequests(ctx context.Context, projectID int64) ([]domain.MergeRequest, error) {
	if projectID <= 0 {
		return nil, errors.New("gitlab: invalid project id")
	}
	q := url.Values{}
	q.Set("state", "opened")
	q.Set("per_page", "100")
	path := "projects/" + strconv.FormatInt(projectID, 10) + "/merge_requests"
	var out []domain.MergeRequest
	if err := c.doJSON(ctx, c.apiURL(path, q), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LabelEvents returns the label-change feed for one MR in upstream order.
func (c *Client) LabelEvents(ctx context.Context, projectID, mrIID int64) ([]domain.LabelEvent, error) {
	if projectID <= 0 || mrIID <= 0 {
		return nil, errors.New("gitlab: invalid project or mr id")
	}
	path := "projects/" + strconv.FormatInt(projectID, 10) +
		"/merge_requests/" + strconv.FormatInt(mrIID, 10) + "/resource_label_events"
	var out []domain.LabelEvent
	if err := c.doJSON(ctx, c.apiURL(path, nil), &out); err != nil {
		return nil, err
	}
	return out, nil
}
