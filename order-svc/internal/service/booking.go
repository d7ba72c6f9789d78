package service

import (
	"context"
	"strings"
	"time"

	"bistro-backend/order-svc/internal/domain"

	"go.uber.org/zap"
)

type BookingService struct {
	bookings  BookingRepository
	publisher EventPublisher
}

func NewBookingService(bookings BookingRepository, publisher EventPublisher) *BookingService {
	return &BookingService{bookings: bookings, publisher: publisher}
}

// CreateBooking reserves a (date, time) slot. Date and time are free text and
// a slot is the exact trimmed pair. At most one non-cancelled booking can hold
// a slot; the check and the insert are a single atomic step in the repository.
func (s *BookingService) CreateBooking(ctx context.Context, userID string, req domain.BookingRequest) (*domain.Booking, error) {
	b := &domain.Booking{
		UserID:         userID,
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		NumberOfPeople: req.NumberOfPeople,
		Note:           strings.TrimSpace(req.Note),
		Status:         domain.BookingPending,
		Date:           strings.TrimSpace(req.Date),
		Time:           strings.TrimSpace(req.Time),
	}
	if b.Name == "" || b.Phone == "" || b.Date == "" || b.Time == "" || req.NumberOfPeople == 0 {
		return nil, domain.ErrMissingFields
	}
	if req.NumberOfPeople < 0 {
		return nil, domain.Validationf("number of people must be at least 1")
	}

	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	zap.L().Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.String("date", b.Date),
		zap.String("time", b.Time))
	publishEvent(ctx, s.publisher, domain.Event{
		Type:      domain.EventBookingCreated,
		BookingID: b.ID,
		UserID:    b.UserID,
		Status:    string(b.Status),
		Date:      b.Date,
		Timestamp: time.Now().UTC(),
	})
	return b, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListBookingsByUser(ctx, userID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListBookings(ctx)
}

func (s *BookingService) UpdateStatus(ctx context.Context, bookingID int64, status string) (*domain.Booking, error) {
	next := domain.BookingStatus(strings.TrimSpace(status))

	previous, err := advanceStatus(ctx, next,
		func(ctx context.Context) (domain.BookingStatus, error) {
			b, err := s.bookings.GetBooking(ctx, bookingID)
			if err != nil {
				return "", err
			}
			return b.Status, nil
		},
		func(ctx context.Context, from, to domain.BookingStatus) (bool, error) {
			return s.bookings.TransitionBookingStatus(ctx, bookingID, from, to)
		})
	if err != nil {
		return nil, err
	}

	b, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	zap.L().Info("booking status changed",
		zap.Int64("booking_id", bookingID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)))
	publishEvent(ctx, s.publisher, domain.Event{
		Type:           domain.EventBookingStatusChanged,
		BookingID:      b.ID,
		UserID:         b.UserID,
		Status:         string(next),
		PreviousStatus: string(previous),
		Date:           b.Date,
		Timestamp:      time.Now().UTC(),
	})
	return b, nil
}
