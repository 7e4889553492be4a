package bus

import (
	"context"
	"fmt"
	"time"
)

// Subscriber is a pull-style consumer with a bounded mailbox.
type Subscriber struct {
	name    string
	mailbox chan Envelope
}

// NewSubscriber creates a subscriber whose mailbox holds queueSize envelopes.
// Sizes below one are raised to one.
func NewSubscriber(name string, queueSize int) *Subscriber {
	if queueSize < 1 {
		queueSize = 1
	}

	return &Subscriber{
		name:    name,
		mailbox: make(chan Envelope, queueSize),
	}
}

// Name returns the subscriber name.
func (s *Subscriber) Name() string {
	return s.name
}

// Pending returns the number of envelopes waiting in the mailbox.
func (s *Subscriber) Pending() int {
	return len(s.mailbox)
}

// WaitNext blocks until an envelope arrives, the timeout elapses or ctx is done.
// WaitForever blocks without a deadline.
func (s *Subscriber) WaitNext(ctx context.Context, timeout time.Duration) (Envelope, error) {
	if timeout == NoWait {
		select {
		case env := <-s.mailbox:
			return env, nil
		default:
			return Envelope{}, ErrTimeout
		}
	}

	expired, stop := deadline(timeout)
	defer stop()

	select {
	case env := <-s.mailbox:
		return env, nil
	case <-expired:
		return Envelope{}, ErrTimeout
	case <-ctx.Done():
		return Envelope{}, ctx.Err()
	}
}

func (s *Subscriber) deliver(ctx context.Context, env Envelope, timeout time.Duration, expired <-chan time.Time) error {
	select {
	case s.mailbox <- env:
		return nil
	default:
	}

	if timeout == NoWait {
		return ErrChannelFull
	}

	select {
	case s.mailbox <- env:
		return nil
	case <-expired:
		return fmt.Errorf("%w: %w", ErrChannelFull, ErrTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
