package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mr-pulse/internal/domain"
)

type fakeMailer struct {
	subjects []string
	bodies   []string
	ctxs     []context.Context
	err      error
}

func (m *fakeMailer) Send(ctx context.Context, subject, body string) error {
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	m.ctxs = append(m.ctxs, ctx)
	return m.err
}

func itemsOf(n int) []domain.ReworkItem {
	out := make([]domain.ReworkItem, n)
	for i := range out {
		out[i] = domain.ReworkItem{Title: "MR", URL: "https://git.example.com/mr", Project: "g/app"}
	}
	return out
}

func TestNotifier_FiresOnlyOnStrictIncrease(t *testing.T) {
	m := &fakeMailer{}
	n := NewNotifier(m, zerolog.Nop())
	ctx := context.Background()

	last := 0
	var fired []bool
	for _, count := range []int{2, 2, 1, 3} {
		var ok bool
		ok, last = n.MaybeNotify(ctx, itemsOf(count), last)
		fired = append(fired, ok)
	}

	assert.Equal(t, []bool{true, false, false, true}, fired)
	assert.Len(t, m.subjects, 2)
	assert.Equal(t, 3, last)
}

func TestNotifier_CountAdvancesEvenWhenTransportFails(t *testing.T) {
	m := &fakeMailer{err: errors.New("smtp down")}
	n := NewNotifier(m, zerolog.Nop())

	ok, last := n.MaybeNotify(context.Background(), itemsOf(2), 0)
	assert.True(t, ok)
	assert.Equal(t, 2, last)

	// Same set again: the failed send is not retried.
	ok, last = n.MaybeNotify(context.Background(), itemsOf(2), last)
	assert.False(t, ok)
	assert.Equal(t, 2, last)
	assert.Len(t, m.subjects, 1)
}

func TestNotifier_MessageListsEveryCurrentItem(t *testing.T) {
	m := &fakeMailer{}
	n := NewNotifier(m, zerolog.Nop())

	items := []domain.ReworkItem{
		{Title: "Fix login flow", URL: "https://git.example.com/g/app/-/merge_requests/7", Project: "g/app"},
		{Title: "Rework payments", URL: "https://git.example.com/g/pay/-/merge_requests/3", Project: "g/pay"},
	}
	ok, last := n.MaybeNotify(context.Background(), items, 0)
	require.True(t, ok)
	assert.Equal(t, 2, last)

	require.Len(t, m.bodies, 1)
	body := m.bodies[0]
	assert.Contains(t, body, "Fix login flow")
	assert.Contains(t, body, "https://git.example.com/g/pay/-/merge_requests/3")
	assert.Contains(t, body, "Project: g/app")
}

func TestNotifier_CallerContextReachesTransport(t *testing.T) {
	m := &fakeMailer{}
	n := NewNotifier(m, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ok, _ := n.MaybeNotify(ctx, itemsOf(1), 0)
	require.True(t, ok)

	require.Len(t, m.ctxs, 1)
	_, hasDeadline := m.ctxs[0].Deadline()
	assert.True(t, hasDeadline, "send must inherit the caller's deadline")
}

func TestNotifier_ShrinkingCountStaysQuietButTracks(t *testing.T) {
	m := &fakeMailer{}
	n := NewNotifier(m, zerolog.Nop())

	ok, last := n.MaybeNotify(context.Background(), itemsOf(0), 5)
	assert.False(t, ok)
	assert.Equal(t, 0, last)
	assert.Empty(t, m.subjects)
}
