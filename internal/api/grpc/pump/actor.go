package pump

import (
	"context"
	"strings"

	"google.golang.org/grpc/metadata"
)

// ActorMetadataKey carries the caller identity, e.g. "o.shokin@greenhouse".
const ActorMetadataKey = "x-actor"

// unknownActor is logged when a request carries no identity.
const unknownActor = "<unknown>"

// WithActor attaches the caller identity to outgoing requests.
func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx, ActorMetadataKey, actor)
}

// ActorFromContext returns the caller identity of an incoming request.
func ActorFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return unknownActor
	}

	values := md.Get(ActorMetadataKey)
	if len(values) == 0 || strings.TrimSpace(values[0]) == "" {
		return unknownActor
	}

	return values[0]
}
