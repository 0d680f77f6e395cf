package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apikeyDomain "github.com/allisson/apikeys/internal/apikey/domain"
	"github.com/allisson/apikeys/internal/metrics"
)

// Access log outcomes reported as the status of the access_log_record operation.
const (
	accessLogWritten = "written"
	accessLogDropped = "dropped"
	accessLogFailed  = "failed"
)

// AccessRecorder persists access logs asynchronously on a bounded queue.
//
// Record never blocks and never fails: when the queue is full the entry is dropped and a
// warning is logged. Workers started by Start write entries with a per-entry timeout and
// drain the queue before exiting. Every entry is counted as written, dropped or failed.
type AccessRecorder struct {
	repo         AccessLogRepository
	queue        chan *apikeyDomain.AccessLog
	workers      int
	writeTimeout time.Duration
	metrics      metrics.BusinessMetrics
	logger       *slog.Logger
}

// NewAccessRecorder creates an AccessRecorder with the given queue capacity and worker count.
// A nil businessMetrics disables outcome metrics.
func NewAccessRecorder(
	repo AccessLogRepository,
	bufferSize int,
	workers int,
	writeTimeout time.Duration,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *AccessRecorder {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	if businessMetrics == nil {
		businessMetrics = metrics.NewNoOpBusinessMetrics()
	}
	return &AccessRecorder{
		repo:         repo,
		queue:        make(chan *apikeyDomain.AccessLog, bufferSize),
		workers:      workers,
		writeTimeout: writeTimeout,
		metrics:      businessMetrics,
		logger:       logger,
	}
}

// Record enqueues entry for persistence without blocking.
func (r *AccessRecorder) Record(entry *apikeyDomain.AccessLog) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.Must(uuid.NewV7())
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	select {
	case r.queue <- entry:
	default:
		r.metrics.RecordOperation(context.Background(), "apikey", "access_log_record", accessLogDropped)
		r.logger.Warn("access log queue full, dropping entry",
			slog.String("api_key_id", entry.APIKeyID.String()),
			slog.String("endpoint", entry.Endpoint),
		)
	}
}

// Start runs the workers until ctx is cancelled and the queue has been drained.
func (r *AccessRecorder) Start(ctx context.Context) error {
	var g errgroup.Group
	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			r.work(ctx)
			return nil
		})
	}
	return g.Wait()
}

func (r *AccessRecorder) work(ctx context.Context) {
	for {
		select {
		case entry := <-r.queue:
			r.write(ctx, entry)
		case <-ctx.Done():
			r.drain(ctx)
			return
		}
	}
}

func (r *AccessRecorder) drain(ctx context.Context) {
	for {
		select {
		case entry := <-r.queue:
			r.write(ctx, entry)
		default:
			return
		}
	}
}

// write persists one entry. Writes outlive cancellation of ctx so queued entries survive shutdown.
func (r *AccessRecorder) write(ctx context.Context, entry *apikeyDomain.AccessLog) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()

	if err := r.repo.Create(writeCtx, entry); err != nil {
		r.metrics.RecordOperation(writeCtx, "apikey", "access_log_record", accessLogFailed)
		r.logger.Error("failed to record access log",
			slog.String("api_key_id", entry.APIKeyID.String()),
			slog.String("endpoint", entry.Endpoint),
			slog.Any("error", err),
		)
		return
	}
	r.metrics.RecordOperation(writeCtx, "apikey", "access_log_record", accessLogWritten)
}
