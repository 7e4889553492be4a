package bus

import (
	"errors"
	"time"
)

const (
	// WaitForever disables the timeout of Publish and WaitNext.
	WaitForever time.Duration = -1
	// NoWait makes Publish and WaitNext fail at once instead of blocking.
	NoWait time.Duration = 0
)

var (
	// ErrTimeout is returned when an operation did not complete within its timeout.
	ErrTimeout = errors.New("bus: timed out")
	// ErrChannelFull is returned when a subscriber mailbox had no room for a message.
	ErrChannelFull = errors.New("bus: subscriber mailbox full")
)

// Identity names a channel. Envelopes compare identities to find their source.
type Identity interface {
	Name() string
}

// Envelope is a message together with the channel it was published on.
type Envelope struct {
	Channel Identity
	Message any
}

// From reports whether the envelope was published on ch.
func (e Envelope) From(ch Identity) bool {
	return e.Channel == ch
}

// MessageOf returns the typed message carried by the envelope.
func MessageOf[T any](e Envelope) (T, bool) {
	msg, ok := e.Message.(T)

	return msg, ok
}

// deadline returns the channel that fires when timeout elapses.
// It is nil for WaitForever, so selecting on it blocks forever.
func deadline(timeout time.Duration) (<-chan time.Time, func()) {
	if timeout <= 0 {
		return nil, func() {}
	}

	timer := time.NewTimer(timeout)

	return timer.C, func() { timer.Stop() }
}
