package node

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readHeaderTimeout = 5 * time.Second

// listenMetrics opens the metrics listener. It returns nil when metrics are disabled.
func listenMetrics(ctx context.Context, lc *net.ListenConfig, address string) (net.Listener, error) {
	if address == "" {
		return nil, nil //nolint:nilnil // Disabled is not an error.
	}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen metrics on %s: %w", address, err)
	}

	return lis, nil
}

// newMetricsServer serves the registry on /metrics.
func newMetricsServer(registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func closeListener(lis net.Listener) error {
	if lis == nil {
		return nil
	}

	return lis.Close()
}
