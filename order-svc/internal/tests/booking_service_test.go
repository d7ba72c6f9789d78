package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bistro-backend/order-svc/internal/domain"
	"bistro-backend/order-svc/internal/mocks"
	"bistro-backend/order-svc/internal/service"
	"bistro-backend/order-svc/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bookingRequest(date, clock string) domain.BookingRequest {
	return domain.BookingRequest{
		Name:           "Ada",
		Phone:          "+1 555 0100",
		NumberOfPeople: 4,
		Date:           date,
		Time:           clock,
		Note:           "window seat",
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		req           domain.BookingRequest
		expectedError error
		wantDate      string
		wantTime      string
	}{
		{name: "success", req: bookingRequest("2024-06-01", "19:30"), wantDate: "2024-06-01", wantTime: "19:30"},
		{name: "free_text_kept_verbatim", req: bookingRequest("  Friday next week ", " after 7 "), wantDate: "Friday next week", wantTime: "after 7"},
		{name: "written_date_not_rewritten", req: bookingRequest("June 1, 2024", "9:05"), wantDate: "June 1, 2024", wantTime: "9:05"},
		{name: "missing_name", req: func() domain.BookingRequest { r := bookingRequest("2024-06-01", "19:30"); r.Name = " "; return r }(), expectedError: domain.ErrMissingFields},
		{name: "missing_people", req: func() domain.BookingRequest { r := bookingRequest("2024-06-01", "19:30"); r.NumberOfPeople = 0; return r }(), expectedError: domain.ErrMissingFields},
		{name: "negative_people", req: func() domain.BookingRequest { r := bookingRequest("2024-06-01", "19:30"); r.NumberOfPeople = -2; return r }(), expectedError: domain.ErrValidation},
		{name: "blank_date", req: bookingRequest("   ", "19:30"), expectedError: domain.ErrMissingFields},
		{name: "blank_time", req: bookingRequest("2024-06-01", "\t"), expectedError: domain.ErrMissingFields},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc := service.NewBookingService(storage.NewMemoryStore(), nil)

			b, err := svc.CreateBooking(ctx, "u1", testCase.req)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, b.ID)
			assert.Equal(t, domain.BookingPending, b.Status)
			assert.Equal(t, testCase.wantDate, b.Date)
			assert.Equal(t, testCase.wantTime, b.Time)
			assert.Equal(t, "u1", b.UserID)
		})
	}
}

func TestBookingService_SlotExclusivity(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := service.NewBookingService(store, nil)
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, "u1", bookingRequest("2024-06-01", "19:30"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, "u2", bookingRequest(" 2024-06-01 ", "19:30 "))
	assert.ErrorIs(t, err, domain.ErrSlotTaken, "surrounding whitespace names the same slot")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.CreateBooking(ctx, "u2", bookingRequest("June 1, 2024", "19:30"))
	assert.NoError(t, err, "a differently written date is a different slot")

	_, err = svc.CreateBooking(ctx, "u2", bookingRequest("2024-06-01", "20:00"))
	assert.NoError(t, err, "a different time is a different slot")

	_, err = svc.UpdateStatus(ctx, first.ID, "Approved")
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, "u2", bookingRequest("2024-06-01", "19:30"))
	assert.ErrorIs(t, err, domain.ErrSlotTaken, "an approved booking still holds its slot")

	other, err := svc.CreateBooking(ctx, "u3", bookingRequest("2024-06-02", "19:30"))
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, other.ID, "Cancelled")
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, "u4", bookingRequest("2024-06-02", "19:30"))
	assert.NoError(t, err, "a cancelled booking frees its slot")
}

func TestBookingService_ConcurrentCreateOneWinner(t *testing.T) {
	svc := service.NewBookingService(storage.NewMemoryStore(), nil)
	ctx := context.Background()

	const workers = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
		losers  int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, "u1", bookingRequest("2024-06-01", "19:30"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.Is(err, domain.ErrSlotTaken):
				losers++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, workers-1, losers)
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		path          []string
		expectedError error
		finalStatus   domain.BookingStatus
	}{
		{name: "approve", path: []string{"Approved"}, finalStatus: domain.BookingApproved},
		{name: "cancel", path: []string{"Cancelled"}, finalStatus: domain.BookingCancelled},
		{name: "approved_is_terminal", path: []string{"Approved", "Cancelled"}, expectedError: domain.ErrIllegalTransition, finalStatus: domain.BookingApproved},
		{name: "cancelled_is_terminal", path: []string{"Cancelled", "Approved"}, expectedError: domain.ErrIllegalTransition, finalStatus: domain.BookingCancelled},
		{name: "back_to_pending", path: []string{"Pending"}, expectedError: domain.ErrIllegalTransition, finalStatus: domain.BookingPending},
		{name: "unknown_status", path: []string{"Confirmed"}, expectedError: domain.ErrInvalidStatus, finalStatus: domain.BookingPending},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			store := storage.NewMemoryStore()
			svc := service.NewBookingService(store, nil)
			b, err := svc.CreateBooking(ctx, "u1", bookingRequest("2024-06-01", "19:30"))
			require.NoError(t, err)

			var lastErr error
			for _, status := range testCase.path {
				_, lastErr = svc.UpdateStatus(ctx, b.ID, status)
			}

			if testCase.expectedError != nil {
				assert.ErrorIs(t, lastErr, testCase.expectedError)
			} else {
				assert.NoError(t, lastErr)
			}

			stored, err := store.GetBooking(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, testCase.finalStatus, stored.Status)
		})
	}

	t.Run("missing_booking", func(t *testing.T) {
		svc := service.NewBookingService(storage.NewMemoryStore(), nil)
		_, err := svc.UpdateStatus(ctx, 99, "Approved")
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}

func TestBookingService_PublishesEvents(t *testing.T) {
	repository := mocks.NewBookingRepository(t)
	publisher := mocks.NewEventPublisher(t)
	svc := service.NewBookingService(repository, publisher)
	ctx := context.Background()

	repository.On("CreateBooking", ctx, mock.AnythingOfType("*domain.Booking")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Booking).ID = 11 }).
		Return(nil).Once()
	publisher.On("Publish", ctx, mock.MatchedBy(func(evt domain.Event) bool {
		return evt.Type == domain.EventBookingCreated && evt.BookingID == 11 && evt.Date == "2024-06-01"
	})).Return(nil).Once()

	b, err := svc.CreateBooking(ctx, "u1", bookingRequest("2024-06-01", "19:30"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), b.ID)

	repository.On("GetBooking", ctx, int64(11)).Return(&domain.Booking{ID: 11, UserID: "u1", Date: "2024-06-01", Status: domain.BookingPending}, nil).Once()
	repository.On("TransitionBookingStatus", ctx, int64(11), domain.BookingPending, domain.BookingCancelled).Return(true, nil).Once()
	repository.On("GetBooking", ctx, int64(11)).Return(&domain.Booking{ID: 11, UserID: "u1", Date: "2024-06-01", Status: domain.BookingCancelled}, nil).Once()
	publisher.On("Publish", ctx, mock.MatchedBy(func(evt domain.Event) bool {
		return evt.Type == domain.EventBookingStatusChanged &&
			evt.Status == "Cancelled" && evt.PreviousStatus == "Pending"
	})).Return(nil).Once()

	updated, err := svc.UpdateStatus(ctx, 11, "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, updated.Status)
}
