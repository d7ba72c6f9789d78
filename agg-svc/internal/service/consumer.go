package service

import (
	"context"
	"encoding/json"
	"time"

	"bistro-backend/agg-svc/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const readBackoff = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

// Start reads until ctx is cancelled. Offsets are committed after each
// message is handled, so a crash replays at most the in-flight message and
// the store's dedup markers absorb the replay.
func (c *Consumer) Start(ctx context.Context) {
	zap.L().Info("starting aggregation consumer")
	for {
		message, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				zap.L().Info("aggregation consumer stopped")
				return
			}
			zap.L().Warn("error reading message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(readBackoff):
			}
			continue
		}

		c.handle(ctx, message)

		if err := c.Reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			zap.L().Warn("error committing offset",
				zap.Int("partition", message.Partition),
				zap.Int64("offset", message.Offset),
				zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, message kafka.Message) {
	var evt domain.Event
	if err := json.Unmarshal(message.Value, &evt); err != nil {
		zap.L().Warn("error unmarshaling message",
			zap.ByteString("key", message.Key),
			zap.Error(err))
		return
	}

	if err := c.Process(ctx, evt); err != nil {
		zap.L().Error("error processing event",
			zap.String("type", evt.Type),
			zap.String("dedup_key", evt.DedupKey()),
			zap.Error(err))
	}
}

// Process applies one event to the counters. Unknown types and replays of
// already applied events are ignored.
func (c *Consumer) Process(ctx context.Context, evt domain.Event) error {
	switch evt.Type {
	case domain.EventOrderPlaced, domain.EventOrderStatusChanged,
		domain.EventBookingCreated, domain.EventBookingStatusChanged:
	default:
		zap.L().Debug("ignoring event", zap.String("type", evt.Type))
		return nil
	}

	key := evt.DedupKey()
	seen, err := c.Store.Seen(ctx, key)
	if err != nil {
		return err
	}
	if seen {
		zap.L().Info("skipping replayed event", zap.String("dedup_key", key))
		return nil
	}

	switch evt.Type {
	case domain.EventOrderPlaced:
		err = c.Store.RecordOrderPlaced(ctx, key, evt.Day(), evt.Items)
	case domain.EventOrderStatusChanged:
		if evt.Status == "" {
			return nil
		}
		err = c.Store.RecordOrderStatusChange(ctx, key, evt.PreviousStatus, evt.Status)
	case domain.EventBookingCreated:
		err = c.Store.RecordBooking(ctx, key, evt.Day(), 1)
	case domain.EventBookingStatusChanged:
		if evt.Status != domain.BookingCancelled || evt.PreviousStatus == domain.BookingCancelled {
			return nil
		}
		err = c.Store.RecordBooking(ctx, key, evt.Day(), -1)
	}
	if err != nil {
		return err
	}

	zap.L().Info("event aggregated",
		zap.String("type", evt.Type),
		zap.Int64("order_id", evt.OrderID),
		zap.Int64("booking_id", evt.BookingID))
	return nil
}
