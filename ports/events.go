package ports

import (
	"context"

	"github.com/Sandipan3/hackoasis-backend/core"
)

// EventPublisher publishes events to notify other instances
type EventPublisher interface {
	PublishLogin(ctx context.Context, address core.Address, subject string) error
}
