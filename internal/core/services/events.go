package services

import (
	"ERecyclo/internal/core/ports"
	"context"

	"github.com/rs/zerolog"
)

// publish never fails the caller; the state change is already committed.
func publish(ctx context.Context, bus ports.EventBus, log *zerolog.Logger, topic string, data interface{}) {
	if err := bus.Publish(ctx, topic, data); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to publish event")
	}
}
