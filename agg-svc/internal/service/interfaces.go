package service

import (
	"context"

	"bistro-backend/agg-svc/internal/domain"
	"bistro-backend/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type StoreInterface interface {
	Seen(ctx context.Context, dedupKey string) (bool, error)
	RecordOrderPlaced(ctx context.Context, dedupKey, day string, items []domain.EventItem) error
	RecordOrderStatusChange(ctx context.Context, dedupKey, from, to string) error
	RecordBooking(ctx context.Context, dedupKey, date string, delta int64) error
}

// MessageReader is the part of *kafka.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	Process(ctx context.Context, evt domain.Event) error
}

var (
	_ StoreInterface    = (*storage.Store)(nil)
	_ MessageReader     = (*kafka.Reader)(nil)
	_ ConsumerInterface = (*Consumer)(nil)
)
