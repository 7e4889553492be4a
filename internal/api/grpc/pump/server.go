package pump

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/soil-node/internal/bus"
	"github.com/oshokin/soil-node/internal/channels"
	"github.com/oshokin/soil-node/internal/domain/soil"
	"github.com/oshokin/soil-node/internal/logger"
	pb "github.com/oshokin/soil-node/internal/pb/v1"
)

// ReadingSeqMetadataKey is the GetReading response header numbering the
// published readings from 1, so callers can tell a fresh reading from a
// repeated value.
const ReadingSeqMetadataKey = "x-reading-seq"

// reading is a payload with its position in the payload stream.
type reading struct {
	payload soil.Payload
	seq     uint64
}

// Server implements PumpService on top of the node channels.
type Server struct {
	pb.UnimplementedPumpServiceServer

	// channels are the bus channels requests are published on.
	channels *channels.Channels
	// publishTimeout bounds every publish made on behalf of a request.
	publishTimeout time.Duration
	// last is the most recent payload seen on the payload channel.
	last atomic.Pointer[reading]
}

var (
	_ pb.PumpServiceServer       = (*Server)(nil)
	_ bus.Listener[soil.Payload] = (*Server)(nil)
)

// NewServer creates the API server and registers it as a payload listener.
func NewServer(ch *channels.Channels, publishTimeout time.Duration) *Server {
	s := &Server{
		channels:       ch,
		publishTimeout: publishTimeout,
	}

	ch.Payload.AddListener(s)

	return s
}

// OnMessage remembers the last published payload.
// Publishes on one channel are serialized, so the sequence never repeats.
func (s *Server) OnMessage(_ context.Context, _ *bus.Channel[soil.Payload], payload soil.Payload) {
	next := &reading{payload: payload, seq: 1}
	if prev := s.last.Load(); prev != nil {
		next.seq = prev.seq + 1
	}

	s.last.Store(next)
}

// SetSwitch publishes the pump command. The water switch listener has run by
// the time the response is sent.
func (s *Server) SetSwitch(ctx context.Context, req *wrapperspb.StringValue) (*timestamppb.Timestamp, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "command is required")
	}

	cmd, err := soil.ParseSwitchCommand(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx = logger.WithKV(logger.WithName(ctx, "pump-api"), "actor", ActorFromContext(ctx))
	logger.InfoKV(ctx, "Switch requested", "command", cmd)

	if err = s.channels.WaterSwitch.Publish(ctx, cmd, s.publishTimeout); err != nil {
		logger.ErrorKV(ctx, "Switch command not delivered", "error", err)

		return nil, publishStatus(err)
	}

	return timestamppb.Now(), nil
}

// TriggerSample asks the sampler for an immediate cycle.
func (s *Server) TriggerSample(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	ctx = logger.WithKV(logger.WithName(ctx, "pump-api"), "actor", ActorFromContext(ctx))
	logger.Info(ctx, "Sample requested")

	if err := s.channels.Trigger.Publish(ctx, soil.Trigger{}, s.publishTimeout); err != nil {
		logger.WarnKV(ctx, "Trigger not delivered", "error", err)

		return nil, publishStatus(err)
	}

	return new(emptypb.Empty), nil
}

// GetReading returns the last payload published by the sampler. Its sequence
// number is sent in the ReadingSeqMetadataKey header.
func (s *Server) GetReading(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	last := s.last.Load()
	if last == nil {
		return nil, status.Error(codes.NotFound, "no reading published yet")
	}

	// Fails only without a server stream, i.e. on direct calls.
	_ = grpc.SetHeader(ctx, metadata.Pairs(ReadingSeqMetadataKey, strconv.FormatUint(last.seq, 10))) //nolint:errcheck

	return wrapperspb.String(last.payload.String()), nil
}

// ReadingSeq returns the sequence number carried by a GetReading header,
// or 0 when there is none.
func ReadingSeq(header metadata.MD) uint64 {
	values := header.Get(ReadingSeqMetadataKey)
	if len(values) == 0 {
		return 0
	}

	seq, err := strconv.ParseUint(values[0], 10, 64)
	if err != nil {
		return 0
	}

	return seq
}

// publishStatus maps a bus error to a gRPC status.
func publishStatus(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}
