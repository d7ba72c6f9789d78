package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bistro-backend/order-svc/internal/domain"
)

const bookingColumns = "id, user_id, name, phone, number_of_people, date, time, note, status, created_at, updated_at"

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.Name, &b.Phone, &b.NumberOfPeople, &b.Date, &b.Time, &b.Note,
		&b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// CreateBooking relies on the bookings_active_slot partial unique index: two
// racing inserts for one slot cannot both commit.
func (r *PostgresRepository) CreateBooking(ctx context.Context, b *domain.Booking) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, name, phone, number_of_people, date, time, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		b.UserID, b.Name, b.Phone, b.NumberOfPeople, b.Date, b.Time, b.Note, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err, "bookings_active_slot") {
		return domain.ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var b domain.Booking
	err := scanBooking(r.DB.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = $1", bookingID), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query booking: %w", err)
	}
	return &b, nil
}

func (r *PostgresRepository) ListBookingsByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return r.listBookings(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC", userID)
}

func (r *PostgresRepository) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return r.listBookings(ctx, "SELECT "+bookingColumns+" FROM bookings ORDER BY created_at DESC, id DESC")
}

func (r *PostgresRepository) listBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// TransitionBookingStatus sets the status only if it still equals from.
// Re-activating a slot is impossible because Cancelled is terminal, so the
// update never collides with bookings_active_slot.
func (r *PostgresRepository) TransitionBookingStatus(ctx context.Context, bookingID int64, from, to domain.BookingStatus) (bool, error) {
	result, err := r.DB.ExecContext(ctx,
		"UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3", to, bookingID, from)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	return n == 1, nil
}
