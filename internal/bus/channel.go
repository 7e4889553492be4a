package bus

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Listener handles messages of one channel on the publisher's goroutine.
type Listener[T any] interface {
	OnMessage(ctx context.Context, ch *Channel[T], msg T)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc[T any] func(ctx context.Context, ch *Channel[T], msg T)

// OnMessage calls f.
func (f ListenerFunc[T]) OnMessage(ctx context.Context, ch *Channel[T], msg T) {
	f(ctx, ch, msg)
}

// Channel is a named stream of messages of type T.
type Channel[T any] struct {
	// name identifies the channel in logs and errors.
	name string
	// publishing is a one-slot semaphore serializing Publish calls.
	publishing chan struct{}

	// mu protects the observer lists.
	mu          sync.RWMutex
	listeners   []Listener[T]
	subscribers []*Subscriber
}

// NewChannel creates a channel with no observers.
func NewChannel[T any](name string) *Channel[T] {
	return &Channel[T]{
		name:       name,
		publishing: make(chan struct{}, 1),
	}
}

// Name returns the channel name.
func (c *Channel[T]) Name() string {
	return c.name
}

// String implements fmt.Stringer.
func (c *Channel[T]) String() string {
	return c.name
}

// AddListener registers l for the lifetime of the channel.
// Listeners run in registration order.
func (c *Channel[T]) AddListener(l Listener[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listeners = append(c.listeners, l)
}

// Subscribe attaches the subscriber mailbox to the channel.
// Subscribing twice has no effect.
func (c *Channel[T]) Subscribe(s *Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.Contains(c.subscribers, s) {
		return
	}

	c.subscribers = append(c.subscribers, s)
}

// Observers returns the number of listeners and subscribers.
func (c *Channel[T]) Observers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.listeners) + len(c.subscribers)
}

// Publish delivers msg to every listener and subscriber.
//
// Listeners are called first, synchronously. Subscribers then receive an
// envelope in their mailbox. The whole call, including waiting for another
// publisher on the same channel, is bounded by timeout. Messages already
// delivered stay delivered when a later subscriber fails.
func (c *Channel[T]) Publish(ctx context.Context, msg T, timeout time.Duration) error {
	expired, stop := deadline(timeout)
	defer stop()

	if err := c.lock(ctx, timeout, expired); err != nil {
		return fmt.Errorf("publish on %s: %w", c.name, err)
	}
	defer c.unlock()

	// Copy under the read lock so observers can be added while we deliver.
	c.mu.RLock()
	listeners := slices.Clone(c.listeners)
	subscribers := slices.Clone(c.subscribers)
	c.mu.RUnlock()

	for _, l := range listeners {
		l.OnMessage(ctx, c, msg)
	}

	env := Envelope{
		Channel: c,
		Message: msg,
	}

	for _, s := range subscribers {
		if err := s.deliver(ctx, env, timeout, expired); err != nil {
			return fmt.Errorf("publish on %s to %s: %w", c.name, s.name, err)
		}
	}

	return nil
}

func (c *Channel[T]) lock(ctx context.Context, timeout time.Duration, expired <-chan time.Time) error {
	if timeout == NoWait {
		select {
		case c.publishing <- struct{}{}:
			return nil
		default:
			return ErrTimeout
		}
	}

	select {
	case c.publishing <- struct{}{}:
		return nil
	case <-expired:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Channel[T]) unlock() {
	<-c.publishing
}
