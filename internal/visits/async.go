package visits

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const defaultQueueSize = 512

// AsyncLogger decouples visit writes from the request path. Log enqueues and
// returns immediately; a full queue drops the write with an error rather than
// blocking a handler.
type AsyncLogger struct {
	sink    *SQLiteLogger
	onError func(error)

	queue   chan Visit
	closed  bool
	mu      sync.RWMutex
	once    sync.Once
	wg      sync.WaitGroup
	pending sync.WaitGroup
}

func NewAsyncLogger(sink *SQLiteLogger, queueSize int, onError func(error)) *AsyncLogger {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	l := &AsyncLogger{
		sink:    sink,
		onError: onError,
		queue:   make(chan Visit, queueSize),
	}
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *AsyncLogger) run() {
	defer l.wg.Done()
	for visit := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
		err := l.sink.Log(ctx, visit)
		cancel()
		if err != nil && l.onError != nil {
			l.onError(err)
		}
		l.pending.Done()
	}
}

func (l *AsyncLogger) Log(_ context.Context, visit Visit) error {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return fmt.Errorf("visit logger is closed")
	}
	l.pending.Add(1)
	select {
	case l.queue <- visit:
		l.mu.RUnlock()
		return nil
	default:
		l.pending.Done()
		l.mu.RUnlock()
		return fmt.Errorf("visit log queue is full")
	}
}

func (l *AsyncLogger) Summarize(ctx context.Context, recentLimit int) (Summary, error) {
	return l.sink.Summarize(ctx, recentLimit)
}

func (l *AsyncLogger) Close(ctx context.Context) error {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		close(l.queue)
		l.mu.Unlock()
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.wg.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitIdle blocks until every enqueued visit has been flushed to the sink.
func (l *AsyncLogger) WaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.pending.Wait()
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
