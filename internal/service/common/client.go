//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/soil-node/internal/api/grpc/pump"
	"github.com/oshokin/soil-node/internal/config"
	"github.com/oshokin/soil-node/internal/domain/soil"
	pb "github.com/oshokin/soil-node/internal/pb/v1"
)

// Client wraps the gRPC PumpService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the node.
	conn *grpc.ClientConn
	// api is the PumpService client stub.
	api pb.PumpServiceClient
	// actor is sent with every call for the node's audit log.
	actor Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sets the identity reported to the node.
func WithActor(actor Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the soil node.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial soil node: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         pb.NewPumpServiceClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// SetSwitch asks the node to switch the pump and returns when it was applied.
func (c *Client) SetSwitch(ctx context.Context, cmd soil.SwitchCommand) (time.Time, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	applied, err := c.api.SetSwitch(callCtx, wrapperspb.String(cmd.String()))
	if err != nil {
		return time.Time{}, fmt.Errorf("set switch %s: %w", cmd, err)
	}

	return applied.AsTime(), nil
}

// TriggerSample asks the node for an immediate acquisition cycle.
func (c *Client) TriggerSample(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.TriggerSample(callCtx, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("trigger sample: %w", err)
	}

	return nil
}

// GetReading returns the last payload published by the node and its sequence
// number. Later readings have larger numbers.
func (c *Client) GetReading(ctx context.Context) (string, uint64, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	var header metadata.MD

	reading, err := c.api.GetReading(callCtx, new(emptypb.Empty), grpc.Header(&header))
	if err != nil {
		return "", 0, fmt.Errorf("get reading: %w", err)
	}

	return reading.GetValue(), pump.ReadingSeq(header), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor travels
// in the outgoing metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.actor != (Actor{}) {
		ctx = pump.WithActor(ctx, c.actor.String())
	}

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
