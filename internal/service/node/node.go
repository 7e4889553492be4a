package node

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/oshokin/soil-node/internal/api/grpc/pump"
	"github.com/oshokin/soil-node/internal/channels"
	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/logger"
	"github.com/oshokin/soil-node/internal/metrics"
	pb "github.com/oshokin/soil-node/internal/pb/v1"
	"github.com/oshokin/soil-node/internal/service/sampler"
	"github.com/oshokin/soil-node/internal/service/trigger"
	"github.com/oshokin/soil-node/internal/service/waterswitch"
)

// Options controls the soil-node process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// SkipInstanceCheck allows several nodes in one host, e.g. in tests.
	SkipInstanceCheck bool
	// Ready, when set, is called with the bound addresses once the node serves requests.
	Ready func(Addresses)
}

// Addresses are the endpoints the node listens on.
type Addresses struct {
	// GRPC is the control API address.
	GRPC string
	// Metrics is the Prometheus endpoint address, empty when disabled.
	Metrics string
}

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// shutdownTimeout bounds the metrics server shutdown.
const shutdownTimeout = 5 * time.Second

// Run starts the node and blocks until ctx is cancelled or a fault occurs.
// A fault is returned as the error.
//
//nolint:funlen // Linear wiring of the node components.
func Run(ctx context.Context, opts *Options) error {
	// Load configuration first to get node settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Every component logs through the node logger carried by ctx.
	ctx, closeLog := applyLogSettings(ctx, settings.Log)
	defer func() {
		_ = closeLog() //nolint:errcheck // Nothing left to report the failure to.
	}()

	// The ADC and the pump pin must have a single owner.
	if !opts.SkipInstanceCheck {
		if err = ensureSingleInstance(); err != nil {
			return err
		}
	}

	// Determine listen address: CLI argument overrides config port extraction.
	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	nodeMetrics := metrics.New(registry)
	nodeChannels := channels.New()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	faults := newFaultLatch(cancel, nodeMetrics)
	sensorDriver, actuatorDriver := newDrivers(settings)

	smp := sampler.New(sensorDriver, nodeChannels, sampler.Options{
		Samples:         settings.Sensor.Samples,
		DryRaw:          settings.Sensor.DryRaw,
		WetRaw:          settings.Sensor.WetRaw,
		PublishTimeout:  settings.Bus.PublishTimeout,
		QueueSize:       settings.Bus.QueueSize,
		ResolveAttempts: settings.Sensor.ResolveAttempts,
		Channel:         settings.Sensor.Channel,
	}, faults.Fault, nodeMetrics)

	nodeChannels.WaterSwitch.AddListener(waterswitch.New(actuatorDriver, settings.Actuator.Pin, nodeMetrics))

	api := pump.NewServer(nodeChannels, settings.Bus.PublishTimeout)

	smp.Start(runCtx)

	// Setup TCP listeners before anything can publish a trigger.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(runCtx, "tcp", listenAddress)
	if err != nil {
		return multierr.Append(fmt.Errorf("listen on %s: %w", listenAddress, err), smp.Close())
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(loggerInterceptor(ctx)))
	pb.RegisterPumpServiceServer(grpcServer, api)

	addresses := Addresses{GRPC: lis.Addr().String()}

	var metricsServer *http.Server

	metricsListener, err := listenMetrics(runCtx, &lc, settings.MetricsAddress)
	if err != nil {
		return multierr.Combine(err, lis.Close(), smp.Close())
	}

	if metricsListener != nil {
		metricsServer = newMetricsServer(registry)
		addresses.Metrics = metricsListener.Addr().String()
	}

	source := trigger.New(nodeChannels.Trigger, settings.Trigger.Interval, settings.Bus.PublishTimeout)
	if err = source.Start(runCtx); err != nil {
		return multierr.Combine(err, lis.Close(), closeListener(metricsListener), smp.Close())
	}

	logger.InfoKV(ctx, "Soil node listening",
		"listen_address", addresses.GRPC,
		"metrics_address", addresses.Metrics,
		"sensor_driver", settings.Sensor.Driver,
		"actuator_driver", settings.Actuator.Driver,
	)

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return smp.Run(groupCtx)
	})

	group.Go(func() error {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}

		return nil
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Serve(metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve metrics: %w", err)
			}

			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info(ctx, "Shutting down soil node")

		return shutdown(source, grpcServer, metricsServer)
	})

	if opts.Ready != nil {
		opts.Ready(addresses)
	}

	err = multierr.Append(group.Wait(), smp.Close())

	logger.Info(ctx, "Soil node stopped")

	if fault := faults.Err(); fault != nil {
		return multierr.Append(fault, err)
	}

	return err
}

// shutdown stops the trigger source first so nothing new enters the bus.
func shutdown(source *trigger.Source, grpcServer *grpc.Server, metricsServer *http.Server) error {
	err := source.Shutdown()

	grpcServer.GracefulStop()

	if metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err = multierr.Append(err, metricsServer.Shutdown(ctx))
	}

	return err
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
// Returns appropriate listen address (e.g., ":8080" for port-only binding).
func resolveListenAddress(configAddr, override string) (string, error) {
	// Use override address if provided (e.g., ":9090", "0.0.0.0:8080").
	if override != "" {
		return override, nil
	}

	// Extract port from config address (e.g., "node.local:7070" -> ":7070").
	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	_, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Return port-only listen address to bind on all interfaces.
	return ":" + port, nil
}

// applyLogSettings sets the shared level and returns a context carrying the
// node logger, teed to the rotated file when one is configured. The returned
// function closes that file.
func applyLogSettings(ctx context.Context, settings config.LogConfig) (context.Context, func() error) {
	if lvl, ok := logger.ParseLogLevel(settings.Level); ok {
		logger.SetLevel(lvl)
	}

	if settings.File == "" {
		return logger.WithName(ctx, "soil-node"), func() error { return nil }
	}

	nodeLogger, closeFile := logger.NewWithFile(nil, logger.FileOptions{Path: settings.File})
	ctx = logger.ToContext(ctx, nodeLogger.Named("soil-node"))
	logger.InfoKV(ctx, "Logging to file", "path", settings.File)

	return ctx, closeFile
}

// loggerInterceptor hands the node logger to every gRPC handler.
func loggerInterceptor(ctx context.Context) grpc.UnaryServerInterceptor {
	nodeLogger := logger.FromContext(ctx)

	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(logger.ToContext(ctx, nodeLogger), req)
	}
}
