package service

import (
	"context"
	"sync"
	"time"
)

// Scheduler defers one-shot callbacks onto a single-threaded queue.
// Callbacks must call Alive before touching state owned by the loop.
type Scheduler interface {
	After(d time.Duration, fn func())
	Alive() bool
}

// EventLoop runs tasks one at a time, in submission order, on a single
// goroutine. State owned by a loop may only be touched from its tasks.
type EventLoop struct {
	tasks   chan func()
	done    chan struct{}
	stopped chan struct{}

	mu     sync.Mutex
	closed bool
	timers map[*time.Timer]struct{}
}

// NewEventLoop starts a loop with the given queue capacity
func NewEventLoop(queueSize int) *EventLoop {
	if queueSize < 1 {
		queueSize = 1
	}
	l := &EventLoop{
		tasks:   make(chan func(), queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		timers:  make(map[*time.Timer]struct{}),
	}
	go l.run()
	return l
}

func (l *EventLoop) run() {
	defer close(l.stopped)
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post enqueues fn. It reports false if the loop was closed first.
func (l *EventLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// After schedules fn to run on the loop once d has elapsed
func (l *EventLoop) After(d time.Duration, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, t)
		l.mu.Unlock()

		l.Post(fn)
	})
	l.timers[t] = struct{}{}
}

// Do runs fn on the loop and waits for it to return. It must not be
// called from a loop task.
func (l *EventLoop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Alive reports whether the loop still accepts work
func (l *EventLoop) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.closed
}

// Pending returns the number of armed timers
func (l *EventLoop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Close stops all timers, discards queued tasks and waits for the loop
// goroutine to exit. It is safe to call more than once.
func (l *EventLoop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.stopped
		return
	}
	l.closed = true
	for t := range l.timers {
		t.Stop()
	}
	l.timers = make(map[*time.Timer]struct{})
	close(l.done)
	l.mu.Unlock()

	<-l.stopped
}
