package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mr-pulse/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := config.Config{GitLabURL: srv.URL, GitLabToken: "tok", HTTPTimeout: 2 * time.Second}
	return NewClient(cfg, zerolog.Nop())
}

func TestClient_SendsPrivateTokenAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.Header.Get("PRIVATE-TOKEN"))
		assert.Equal(t, "/api/v4/projects", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("membership"))
		assert.Equal(t, "app", r.URL.Query().Get("search"))
		fmt.Fprint(w, `[{"id":1,"name":"app","path":"app","path_with_namespace":"g/app"}]`)
	})

	projects, err := c.SearchProjects(context.Background(), "app")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(1), projects[0].ID)
	assert.Equal(t, "g/app", projects[0].PathWithNamespace)
}

func TestClient_NonSuccessStatusIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := c.OpenMergeRequests(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
}

func TestClient_DecodeFailureIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"a list"`)
	})

	_, err := c.LabelEvents(context.Background(), 1, 2)
	assert.Error(t, err)
}

func TestClient_LabelEventsPathAndShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v4/projects/7/merge_requests/3/resource_label_events", r.URL.Path)
		fmt.Fprint(w, `[
			{"created_at":"2025-03-01T09:00:00Z","action":"add","label":{"name":"rework"}},
			{"created_at":"2025-03-01T10:00:00Z","action":"remove","label":null}
		]`)
	})

	events, err := c.LabelEvents(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "add", events[0].Action)
	require.NotNil(t, events[0].Label)
	assert.Equal(t, "rework", events[0].Label.Name)
	assert.Nil(t, events[1].Label)
}

func TestClient_RejectsInvalidIdentifiers(t *testing.T) {
	c := NewClient(config.Config{GitLabURL: "http://unused", HTTPTimeout: time.Second}, zerolog.Nop())
	_, err := c.SearchProjects(context.Background(), " ")
	assert.Error(t, err)
	_, err = c.OpenMergeRequests(context.Background(), 0)
	assert.Error(t, err)
	_, err = c.LabelEvents(context.Background(), 1, 0)
	assert.Error(t, err)
}
