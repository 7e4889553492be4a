package node

import (
	"context"
	"sync"

	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/metrics"
)

// faultLatch records the first unrecoverable error and stops the node.
type faultLatch struct {
	cancel  context.CancelCauseFunc
	metrics *metrics.Metrics

	mu  sync.Mutex
	err error
}

func newFaultLatch(cancel context.CancelCauseFunc, m *metrics.Metrics) *faultLatch {
	return &faultLatch{
		cancel:  cancel,
		metrics: m,
	}
}

// Fault stops the node. Only the first fault is kept; later ones are logged.
func (f *faultLatch) Fault(ctx context.Context, err error) {
	f.metrics.Fault()

	f.mu.Lock()
	first := f.err == nil
	if first {
		f.err = err
	}
	f.mu.Unlock()

	if !first {
		logger.WarnKV(ctx, "Fault while stopping", "error", err)

		return
	}

	logger.ErrorKV(ctx, "Fatal fault, stopping node", "error", err)
	f.cancel(err)
}

// Err returns the first fault.
func (f *faultLatch) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.err
}
