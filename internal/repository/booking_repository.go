package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
	"github.com/fairyhunter13/experience-booking/pkg/database"
)

// bookingReferenceConstraint is the unique constraint on booking_reference.
const bookingReferenceConstraint = "bookings_booking_reference_key"

// BookingRepository provides data access for bookings using pgx.
type BookingRepository struct {
	pool database.TxQuerier
}

// NewBookingRepository creates a new BookingRepository with the given pool.
func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// NewBookingRepositoryWithPool creates a new BookingRepository with a custom pool interface.
// This is primarily used for testing.
func NewBookingRepositoryWithPool(pool database.TxQuerier) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Insert inserts a booking within a transaction and fills in CreatedAt.
// A taken reference is skipped with ON CONFLICT so the transaction stays
// usable for another attempt.
// Returns service.ErrReferenceCollision if the reference is already used.
func (r *BookingRepository) Insert(ctx context.Context, tx database.TxQuerier, b *model.Booking) error {
	query := `INSERT INTO bookings (
			id, experience_id, slot_id, full_name, email, quantity,
			subtotal, discount, taxes, total, booking_reference, promo_code, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (booking_reference) DO NOTHING
		RETURNING created_at`

	err := tx.QueryRow(ctx, query,
		b.ID, b.ExperienceID, b.SlotID, b.FullName, b.Email, b.Quantity,
		b.Subtotal, b.Discount, b.Taxes, b.Total, b.BookingReference, b.PromoCode, b.Status,
	).Scan(&b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || database.IsUniqueViolation(err, bookingReferenceConstraint) {
			return service.ErrReferenceCollision
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// GetByReference retrieves a booking by its reference.
// Returns nil, nil if the booking is not found (service layer handles this).
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	query := `SELECT id, experience_id, slot_id, full_name, email, quantity,
			subtotal, discount, taxes, total, booking_reference, promo_code, status, created_at
		FROM bookings WHERE booking_reference = $1`

	var b model.Booking
	err := r.pool.QueryRow(ctx, query, reference).Scan(
		&b.ID,
		&b.ExperienceID,
		&b.SlotID,
		&b.FullName,
		&b.Email,
		&b.Quantity,
		&b.Subtotal,
		&b.Discount,
		&b.Taxes,
		&b.Total,
		&b.BookingReference,
		&b.PromoCode,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by reference %s: %w", reference, err)
	}
	return &b, nil
}
