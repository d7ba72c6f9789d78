package tests

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"bistro-backend/agg-svc/internal/domain"
	"bistro-backend/agg-svc/internal/mocks"
	"bistro-backend/agg-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConsumer_Process(t *testing.T) {
	ctx := context.Background()
	items := []domain.EventItem{{MenuItemID: 3, Name: "Soup", Quantity: 2}}

	tests := []struct {
		name           string
		event          domain.Event
		setupMockStore func(*mocks.StoreInterface)
		expectError    bool
	}{
		{
			name:  "order_placed",
			event: domain.Event{Type: domain.EventOrderPlaced, OrderID: 5, Status: "Pending", Items: items, Date: "2024-06-01"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, "order:5:order_placed:Pending").Return(false, nil).Once()
				mockStore.On("RecordOrderPlaced", ctx, "order:5:order_placed:Pending", "2024-06-01", items).Return(nil).Once()
			},
		},
		{
			name:  "order_placed_day_from_timestamp",
			event: domain.Event{Type: domain.EventOrderPlaced, OrderID: 6, Status: "Pending", Timestamp: time.Date(2024, 6, 2, 23, 0, 0, 0, time.UTC)},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, mock.Anything).Return(false, nil).Once()
				mockStore.On("RecordOrderPlaced", ctx, mock.Anything, "2024-06-02", []domain.EventItem(nil)).Return(nil).Once()
			},
		},
		{
			name:  "order_status_changed",
			event: domain.Event{Type: domain.EventOrderStatusChanged, OrderID: 5, Status: "Preparing", PreviousStatus: "Pending"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, "order:5:order_status_changed:Preparing").Return(false, nil).Once()
				mockStore.On("RecordOrderStatusChange", ctx, "order:5:order_status_changed:Preparing", "Pending", "Preparing").Return(nil).Once()
			},
		},
		{
			name:  "booking_created",
			event: domain.Event{Type: domain.EventBookingCreated, BookingID: 9, Status: "Pending", Date: "2024-06-01"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, "booking:9:booking_created:Pending").Return(false, nil).Once()
				mockStore.On("RecordBooking", ctx, "booking:9:booking_created:Pending", "2024-06-01", int64(1)).Return(nil).Once()
			},
		},
		{
			name:  "booking_cancelled",
			event: domain.Event{Type: domain.EventBookingStatusChanged, BookingID: 9, Status: "Cancelled", PreviousStatus: "Pending", Date: "2024-06-01"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, mock.Anything).Return(false, nil).Once()
				mockStore.On("RecordBooking", ctx, "booking:9:booking_status_changed:Cancelled", "2024-06-01", int64(-1)).Return(nil).Once()
			},
		},
		{
			name:  "booking_approved_keeps_count",
			event: domain.Event{Type: domain.EventBookingStatusChanged, BookingID: 9, Status: "Approved", PreviousStatus: "Pending", Date: "2024-06-01"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, mock.Anything).Return(false, nil).Once()
			},
		},
		{
			name:  "replayed_event",
			event: domain.Event{Type: domain.EventBookingCreated, BookingID: 9, Status: "Pending", Date: "2024-06-01"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, "booking:9:booking_created:Pending").Return(true, nil).Once()
			},
		},
		{
			name:           "unknown_type",
			event:          domain.Event{Type: "loyalty_points_awarded", OrderID: 1},
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:  "store_error",
			event: domain.Event{Type: domain.EventOrderStatusChanged, OrderID: 5, Status: "Delivered", PreviousStatus: "Preparing"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, mock.Anything).Return(false, nil).Once()
				mockStore.On("RecordOrderStatusChange", ctx, mock.Anything, "Preparing", "Delivered").Return(errors.New("redis error")).Once()
			},
			expectError: true,
		},
		{
			name:  "seen_error",
			event: domain.Event{Type: domain.EventOrderPlaced, OrderID: 5, Status: "Pending"},
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("Seen", ctx, mock.Anything).Return(false, errors.New("redis error")).Once()
			},
			expectError: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &service.Consumer{
				Store: mockStore,
			}

			err := consumer.Process(ctx, testCase.event)
			if testCase.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// fakeReader serves queued messages, then blocks until the context ends.
type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
	drained   chan struct{}
}

func newFakeReader(messages ...kafka.Message) *fakeReader {
	return &fakeReader{messages: messages, drained: make(chan struct{})}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	if len(r.messages) == 0 {
		select {
		case <-r.drained:
		default:
			close(r.drained)
		}
	}
	return nil
}

func TestConsumer_StartCommitsEveryMessage(t *testing.T) {
	placed, err := json.Marshal(domain.Event{Type: domain.EventBookingCreated, BookingID: 1, Status: "Pending", Date: "2024-06-01"})
	require.NoError(t, err)

	reader := newFakeReader(
		kafka.Message{Offset: 1, Value: placed},
		kafka.Message{Offset: 2, Value: []byte("not json")},
		kafka.Message{Offset: 3, Value: []byte(`{"type":"loyalty_points_awarded"}`)},
	)
	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("Seen", mock.Anything, "booking:1:booking_created:Pending").Return(false, nil).Once()
	mockStore.On("RecordBooking", mock.Anything, "booking:1:booking_created:Pending", "2024-06-01", int64(1)).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.NewConsumer(reader, mockStore).Start(ctx)
		close(done)
	}()

	select {
	case <-reader.drained:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain the reader")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

func TestEvent_Day(t *testing.T) {
	emitted := time.Date(2024, 6, 2, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     string
		expected string
	}{
		{name: "iso_date", date: "2024-06-01", expected: "2024-06-01"},
		{name: "written_date", date: "June 1, 2024", expected: "2024-06-01"},
		{name: "free_text", date: "next friday", expected: "2024-06-02"},
		{name: "no_date", date: "", expected: "2024-06-02"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			evt := domain.Event{Type: domain.EventBookingCreated, Date: testCase.date, Timestamp: emitted}
			assert.Equal(t, testCase.expected, evt.Day())
		})
	}
}
