package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/LJTian/InspireFeed/internal/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakePinger struct {
	mu    sync.Mutex
	calls []string
	down  map[string]bool
	delay time.Duration
}

func (f *fakePinger) Ping(_ context.Context, url string) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if f.down[url] {
		return errors.New("connection refused")
	}
	return nil
}

func TestRunOnceRecordsEveryTarget(t *testing.T) {
	p := &fakePinger{down: map[string]bool{"http://reddit": true}}
	targets := []collector.Endpoint{
		{Name: "reddit", URL: "http://reddit"},
		{Name: "hackernews", URL: "http://hn"},
		{Name: "gutendex", URL: "http://gut"},
	}

	s, err := New("", p, targets, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Results())

	s.RunOnce()

	res := s.Results()
	require.Len(t, res, 3)
	assert.Equal(t, []string{"gutendex", "hackernews", "reddit"}, []string{res[0].Source, res[1].Source, res[2].Source})
	assert.True(t, res[0].Up)
	assert.True(t, res[1].Up)
	assert.False(t, res[2].Up)
	assert.Equal(t, "connection refused", res[2].Error)
	assert.False(t, res[2].CheckedAt.IsZero())
	assert.Len(t, p.calls, 3)
}

func TestNewRejectsBadSpec(t *testing.T) {
	_, err := New("not a cron spec", &fakePinger{}, nil, nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s, err := New("*/10 * * * *", &fakePinger{}, []collector.Endpoint{{Name: "hn", URL: "http://hn"}}, nil)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}

func TestStopWaitsForStartupRound(t *testing.T) {
	p := &fakePinger{delay: 100 * time.Millisecond}
	s, err := New("*/10 * * * *", p, []collector.Endpoint{{Name: "hn", URL: "http://hn"}}, nil)
	require.NoError(t, err)

	s.Start()
	s.Stop()

	// Stop 返回时启动那一轮已经写完结果
	res := s.Results()
	require.Len(t, res, 1)
	assert.True(t, res[0].Up)
	p.mu.Lock()
	assert.Len(t, p.calls, 1)
	p.mu.Unlock()
}
