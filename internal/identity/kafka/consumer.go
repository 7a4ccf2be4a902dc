// Package kafka adapts the identity provider's lifecycle topic into
// identity.Event deliveries. Records are JSON {"event": "...", "user_id": "..."}
// keyed by user ID; the topic is at-least-once and unordered, which the
// coordinator's get-or-create semantics absorb.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"pulseboard/internal/identity"
)

// Consumer polls the lifecycle topic and dispatches events to subscribers.
type Consumer struct {
	client   *kgo.Client
	logger   *slog.Logger
	handlers []identity.Handler
}

func NewConsumer(client *kgo.Client, logger *slog.Logger) *Consumer {
	return &Consumer{client: client, logger: logger}
}

// Subscribe registers a handler. Call before Run; the consumer does not lock
// the handler list once polling starts.
func (c *Consumer) Subscribe(handler identity.Handler) {
	c.handlers = append(c.handlers, handler)
}

// Run polls until ctx is cancelled. Offsets are committed only after every
// handler accepted the batch, so a crash replays events rather than losing
// them; handlers are idempotent by contract.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "lifecycle fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var handleErr error
		fetches.EachRecord(func(record *kgo.Record) {
			if handleErr != nil {
				return
			}
			handleErr = c.dispatch(ctx, record)
		})
		if handleErr != nil {
			return handleErr
		}

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.logger.WarnContext(ctx, "lifecycle offset commit failed", "error", err)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, record *kgo.Record) error {
	var event identity.Event
	if err := json.Unmarshal(record.Value, &event); err != nil {
		// Malformed records are logged and skipped; retrying cannot fix them.
		c.logger.WarnContext(ctx, "dropping malformed lifecycle record",
			"offset", record.Offset,
			"error", err,
		)
		return nil
	}
	if event.UserID.IsNil() {
		c.logger.WarnContext(ctx, "dropping lifecycle record without user id",
			"offset", record.Offset,
		)
		return nil
	}

	for _, h := range c.handlers {
		if err := h.HandleIdentityEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (c *Consumer) Close() {
	c.client.Close()
}
