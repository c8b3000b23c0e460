package eventbus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewInProcessBus builds an event bus over an in-memory gochannel pubsub.
// The handoff protocol has no broker; the bus only decouples the scanner
// from the runner inside the orchestrator process.
func NewInProcessBus(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 256,
			Persistent:          false,
		},
		watermill.NewSlogLogger(logger),
	)

	return NewWatermillEventBus(pubSub, pubSub)
}

// NewTestBus builds a deterministic bus for tests: publishes block until
// the subscriber acknowledged the message.
func NewTestBus(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            16,
			Persistent:                     true,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(logger),
	)

	return NewWatermillEventBus(pubSub, pubSub)
}
