// ABOUTME: Unbounded FIFO command queue
// ABOUTME: Lets any number of producers enqueue without blocking on the actor
package spot

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Send after Close
var ErrQueueClosed = errors.New("command queue closed")

// CommandQueue is an unbounded multi-producer FIFO feeding one consumer.
// Commands already queued when Close is called are still delivered, after
// which the Receive channel is closed.
type CommandQueue struct {
	mu     sync.Mutex
	items  []Command
	closed bool
	notify chan struct{}
	out    chan Command
}

// NewCommandQueue creates a queue and starts its delivery goroutine
func NewCommandQueue() *CommandQueue {
	q := &CommandQueue{
		notify: make(chan struct{}, 1),
		out:    make(chan Command),
	}
	go q.pump()
	return q
}

// Send enqueues cmd without blocking
func (q *CommandQueue) Send(cmd Command) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, cmd)
	q.mu.Unlock()
	q.wake()
	return nil
}

// Close stops accepting commands. Safe to call repeatedly.
func (q *CommandQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

// Receive returns the consumer side of the queue
func (q *CommandQueue) Receive() <-chan Command {
	return q.out
}

func (q *CommandQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *CommandQueue) pump() {
	defer close(q.out)
	for {
		q.mu.Lock()
		if len(q.items) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.notify
			continue
		}
		cmd := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		q.out <- cmd
	}
}
