package channel

import (
	"context"
	"errors"
)

var ErrNotReady = errors.New("chat client is not ready")

// Fetcher looks up a destination channel by id.
type Fetcher interface {
	FetchChannel(ctx context.Context, id string) (Channel, error)
}

type Sender interface {
	Send(ctx context.Context, ch Channel, msg Message) error
}

// Client is the chat-platform collaborator the notifier depends on.
type Client interface {
	Fetcher
	Sender
	IsTextCapable(ch Channel) bool
}

type ReadyChecker interface {
	Ready() bool
}

// InboundHandler turns an inbound message into an optional reply.
type InboundHandler func(ctx context.Context, msg InboundMessage) (string, bool)
