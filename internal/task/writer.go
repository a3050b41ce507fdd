package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/scry-srs/internal/platform/logger"
)

// WriterConfig holds configuration options for the writer
type WriterConfig struct {
	// QueueSize is the buffer of the job channel.
	// If zero or negative, defaults to 64.
	QueueSize int
}

// DefaultWriterConfig returns a WriterConfig with reasonable defaults
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{QueueSize: 64}
}

// Writer owns every mutation in the process. Jobs are executed one at a
// time, in submission order, by a single goroutine.
type Writer struct {
	requests chan *request

	// closing is closed first by Stop so submitters blocked on a full
	// queue release mu.
	closing   chan struct{}
	closeOnce sync.Once

	// mu guards closed and orders Stop after in-flight submissions.
	mu     sync.RWMutex
	closed bool

	wg       sync.WaitGroup
	started  bool
	logger   *slog.Logger
	observer JobObserver
}

var _ Executor = (*Writer)(nil)

// NewWriter creates a writer. Call Start before submitting jobs.
func NewWriter(config WriterConfig, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	size := config.QueueSize
	if size <= 0 {
		size = DefaultWriterConfig().QueueSize
		log.Warn("invalid writer queue size specified, using default",
			"specified_size", config.QueueSize,
			"default_size", size)
	}

	return &Writer{
		requests: make(chan *request, size),
		closing:  make(chan struct{}),
		logger:   log.With(slog.String("component", "writer")),
	}
}

// SetObserver installs a JobObserver. It must be called before Start.
func (w *Writer) SetObserver(observer JobObserver) {
	w.observer = observer
}

// Start launches the writer goroutine.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true

	w.wg.Add(1)
	go w.loop()
	w.logger.Info("writer started", slog.Int("queue_cap", cap(w.requests)))
}

// Stop rejects new jobs, drains the queue and waits for the goroutine to exit.
func (w *Writer) Stop() {
	w.closeOnce.Do(func() { close(w.closing) })

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.requests)
	started := w.started
	w.mu.Unlock()

	if !started {
		// Nothing will drain the queue; fail whatever was buffered.
		for req := range w.requests {
			req.done <- ErrWriterClosed
		}
		return
	}
	w.wg.Wait()
	w.logger.Info("writer stopped")
}

// Do submits job and waits for its result.
//
// ctx bounds only the wait for a queue slot. Once the job is queued it
// always runs and Do always returns its error.
func (w *Writer) Do(ctx context.Context, name string, job Job) error {
	req := &request{
		name: name,
		job:  job,
		ctx:  context.WithoutCancel(ctx),
		done: make(chan error, 1),
	}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return ErrWriterClosed
	}
	select {
	case w.requests <- req:
		w.mu.RUnlock()
	case <-ctx.Done():
		w.mu.RUnlock()
		return ctx.Err()
	case <-w.closing:
		w.mu.RUnlock()
		return ErrWriterClosed
	}

	return <-req.done
}

func (w *Writer) loop() {
	defer w.wg.Done()
	for req := range w.requests {
		req.done <- w.run(req)
	}
}

func (w *Writer) run(req *request) (err error) {
	log := logger.FromContextOrDefault(req.ctx, w.logger).With(slog.String("job", req.name))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrJobPanicked, req.name, r)
		}
		elapsed := time.Since(start)
		if err != nil {
			log.Error("writer job failed",
				slog.String("error", err.Error()),
				slog.Duration("duration", elapsed))
		} else {
			log.Debug("writer job completed", slog.Duration("duration", elapsed))
		}
		if w.observer != nil {
			w.observer.ObserveJob(req.name, elapsed, err)
		}
	}()

	return req.job(req.ctx)
}
