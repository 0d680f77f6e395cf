package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
)

// recordingRepository collects access logs and optionally blocks or fails writes.
type recordingRepository struct {
	mu      sync.Mutex
	logs    []*apikeyDomain.AccessLog
	err     error
	block   chan struct{}
	written chan struct{}
}

func newRecordingRepository() *recordingRepository {
	return &recordingRepository{written: make(chan struct{}, 100)}
}

func (r *recordingRepository) Create(ctx context.Context, accessLog *apikeyDomain.AccessLog) error {
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, accessLog)
	r.written <- struct{}{}
	return nil
}

func (r *recordingRepository) DeleteOlderThan(context.Context, time.Time, bool) (int64, error) {
	return 0, nil
}

func (r *recordingRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.logs)
}

func newEntry() *apikeyDomain.AccessLog {
	return &apikeyDomain.AccessLog{
		APIKeyID:     uuid.New(),
		OwnerID:      uuid.New(),
		Endpoint:     "/v1/protected/data",
		Method:       "GET",
		IPAddress:    "127.0.0.1",
		UserAgent:    "unknown",
		StatusCode:   200,
		ResponseTime: 3 * time.Millisecond,
	}
}

func TestAccessRecorder_RecordAndPersist(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newRecordingRepository()
	recorder := NewAccessRecorder(repo, 10, 2, time.Second, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- recorder.Start(ctx) }()

	entry := newEntry()
	recorder.Record(entry)

	select {
	case <-repo.written:
	case <-time.After(2 * time.Second):
		t.Fatal("access log was not written")
	}

	cancel()
	require.NoError(t, <-done)

	require.Equal(t, 1, repo.count())
	assert.NotEqual(t, uuid.Nil, repo.logs[0].ID)
	assert.False(t, repo.logs[0].CreatedAt.IsZero())
}

func TestAccessRecorder_DrainsOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newRecordingRepository()
	recorder := NewAccessRecorder(repo, 10, 1, time.Second, nil, discardLogger())

	for i := 0; i < 5; i++ {
		recorder.Record(newEntry())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, recorder.Start(ctx))

	assert.Equal(t, 5, repo.count())
}

func TestAccessRecorder_DropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newRecordingRepository()
	recorder := NewAccessRecorder(repo, 2, 1, time.Second, nil, discardLogger())

	start := time.Now()
	for i := 0; i < 10; i++ {
		recorder.Record(newEntry())
	}
	assert.Less(t, time.Since(start), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, recorder.Start(ctx))

	assert.Equal(t, 2, repo.count())
}

func TestAccessRecorder_WriteFailuresAreSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newRecordingRepository()
	repo.err = errors.New("insert failed")
	recorder := NewAccessRecorder(repo, 4, 1, time.Second, nil, discardLogger())

	recorder.Record(newEntry())
	recorder.Record(newEntry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, recorder.Start(ctx))
	assert.Equal(t, 0, repo.count())
}

func TestAccessRecorder_WriteTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := newRecordingRepository()
	repo.block = make(chan struct{})
	recorder := NewAccessRecorder(repo, 4, 1, 20*time.Millisecond, nil, discardLogger())

	recorder.Record(newEntry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	require.NoError(t, recorder.Start(ctx))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, repo.count())
}

// outcomeMetrics counts access_log_record statuses.
type outcomeMetrics struct {
	mu       sync.Mutex
	statuses map[string]int
}

func (o *outcomeMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	if domain != "apikey" || operation != "access_log_record" {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.statuses == nil {
		o.statuses = map[string]int{}
	}
	o.statuses[status]++
}

func (o *outcomeMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}

func (o *outcomeMetrics) count(status string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.statuses[status]
}

func TestAccessRecorder_ReportsOutcomes(t *testing.T) {
	defer goleak.VerifyNone(t)

	outcomes := &outcomeMetrics{}
	recorder := NewAccessRecorder(newRecordingRepository(), 2, 1, time.Second, outcomes, discardLogger())
	for i := 0; i < 3; i++ {
		recorder.Record(newEntry())
	}

	failing := newRecordingRepository()
	failing.err = errors.New("insert failed")
	failingRecorder := NewAccessRecorder(failing, 2, 1, time.Second, outcomes, discardLogger())
	failingRecorder.Record(newEntry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, recorder.Start(ctx))
	require.NoError(t, failingRecorder.Start(ctx))

	assert.Equal(t, 2, outcomes.count(accessLogWritten))
	assert.Equal(t, 1, outcomes.count(accessLogDropped))
	assert.Equal(t, 1, outcomes.count(accessLogFailed))
}
