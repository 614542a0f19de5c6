// Package pipeline runs extraction jobs through a buffered queue and an
// autoscaling worker pool.
package pipeline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Queue buffers message IDs between the ingester and the workers. A broker
// goroutine drains the backlog into the bounded output channel. Over the
// high watermark the oldest backlog entry is dropped so ingestion never
// blocks; dropped messages stay pending in storage.
type Queue struct {
	mu           sync.Mutex
	backlog      []int
	notify       chan struct{}
	out          chan int
	shuttingDown atomic.Bool
	log          *zap.Logger

	enqueued  atomic.Uint64
	processed atomic.Uint64
	dropped   atomic.Uint64
}

// NewQueue creates a Queue with a buffered output channel.
func NewQueue(outBuffer int, log *zap.Logger) *Queue {
	if outBuffer <= 0 {
		outBuffer = 64
	}
	return &Queue{
		notify: make(chan struct{}, 1),
		out:    make(chan int, outBuffer),
		log:    log,
	}
}

// Start runs the broker loop.
func (q *Queue) Start(ctx context.Context, highWatermark int) {
	go q.broker(ctx, highWatermark)
}

func (q *Queue) broker(ctx context.Context, highWatermark int) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.flushOnce()
		if highWatermark > 0 {
			q.dropOldest(highWatermark)
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

func (q *Queue) flushOnce() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.backlog) > 0 && len(q.out) < cap(q.out) {
		item := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.out <- item
	}
}

func (q *Queue) dropOldest(highWatermark int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.backlog) > highWatermark {
		id := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.dropped.Add(1)
		q.log.Warn("queue over high watermark, dropping oldest job",
			zap.Int("message_id", id), zap.Int("high_watermark", highWatermark))
	}
}

// Enqueue appends a message ID to the backlog and notifies the broker.
func (q *Queue) Enqueue(messageID int) bool {
	if q.shuttingDown.Load() {
		return false
	}
	q.enqueued.Add(1)
	q.mu.Lock()
	q.backlog = append(q.backlog, messageID)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Out exposes the output channel of message IDs.
func (q *Queue) Out() <-chan int { return q.out }

// BacklogSize returns enqueued-but-not-yet-output jobs.
func (q *Queue) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// Depth returns backlog plus buffered output jobs.
func (q *Queue) Depth() int {
	q.mu.Lock()
	bl := len(q.backlog)
	q.mu.Unlock()
	return bl + len(q.out)
}

// MarkProcessed increases the processed counter.
func (q *Queue) MarkProcessed() { q.processed.Add(1) }

// Metrics returns counters and sizes for observability.
func (q *Queue) Metrics() (enq, proc, dropped uint64, backlog, depth int) {
	return q.enqueued.Load(), q.processed.Load(), q.dropped.Load(), q.BacklogSize(), q.Depth()
}

// CloseIntake disallows future enqueues.
func (q *Queue) CloseIntake() { q.shuttingDown.Store(true) }

// IsShuttingDown reports whether intake has been closed.
func (q *Queue) IsShuttingDown() bool { return q.shuttingDown.Load() }
