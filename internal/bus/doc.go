// Package bus is a typed publish/subscribe fabric for in-process events.
//
// Each Channel carries a single message type. Consumers attach in two ways:
//
//   - listeners are invoked synchronously on the publisher's goroutine and
//     have finished by the time Publish returns;
//   - subscribers own a bounded mailbox and pull envelopes with WaitNext.
//     One subscriber may be attached to several channels and tells them
//     apart by Envelope.Channel.
//
// Publishing is multicast: every listener and every subscriber sees every
// message. Publishes on one channel are serialized, so each subscriber sees
// a publisher's messages in order. There is no ordering across channels.
//
// A full mailbox blocks the publisher for at most the given timeout:
//
//	trigger := bus.NewChannel[soil.Trigger]("trigger")
//	sampler := bus.NewSubscriber("sampler", 4)
//	trigger.Subscribe(sampler)
//
//	if err := trigger.Publish(ctx, soil.Trigger{}, time.Second); err != nil {
//		// errors.Is(err, bus.ErrTimeout) when the sampler is not draining.
//	}
//
//	env, err := sampler.WaitNext(ctx, bus.WaitForever)
package bus
