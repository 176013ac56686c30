package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/experience-booking/internal/model"
	appvalidator "github.com/fairyhunter13/experience-booking/internal/validator"
	"github.com/fairyhunter13/experience-booking/pkg/database"
)

// ExperienceRepositoryInterface defines the catalog store.
type ExperienceRepositoryInterface interface {
	Insert(ctx context.Context, experience *model.Experience) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Experience, error)
	GetByIDTx(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Experience, error)
	Search(ctx context.Context, query string) ([]model.Experience, error)
}

// SlotRepositoryInterface defines the inventory store.
type SlotRepositoryInterface interface {
	Insert(ctx context.Context, slot *model.Slot) error
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Slot, error)
	UpdateAvailability(ctx context.Context, tx database.TxQuerier, id uuid.UUID, expected, available int) error
	ListByExperience(ctx context.Context, experienceID uuid.UUID, from, to time.Time) ([]model.Slot, error)
}

// PromoRepositoryInterface defines the promotion store.
type PromoRepositoryInterface interface {
	Insert(ctx context.Context, promo *model.PromoCode) error
	FindActiveByCode(ctx context.Context, code string) (*model.PromoCode, error)
	FindActiveByCodeTx(ctx context.Context, tx database.TxQuerier, code string) (*model.PromoCode, error)
}

// BookingRepositoryInterface defines the booking store.
type BookingRepositoryInterface interface {
	Insert(ctx context.Context, tx database.TxQuerier, booking *model.Booking) error
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
}

// BookingOptions tunes the booking transaction.
type BookingOptions struct {
	TaxRate           decimal.Decimal
	ReferenceAttempts int
	TxTimeout         time.Duration
	TxRetries         int
	// MaxQuantity caps spots per booking. Zero means no cap.
	MaxQuantity int
}

// DefaultBookingOptions mirrors the configuration defaults.
func DefaultBookingOptions() BookingOptions {
	return BookingOptions{
		TaxRate:           DefaultTaxRate,
		ReferenceAttempts: 3,
		TxTimeout:         5 * time.Second,
		TxRetries:         3,
	}
}

// CreateBookingInput is a booking request after transport decoding.
// Quantity must already be defaulted by the caller.
type CreateBookingInput struct {
	ExperienceID uuid.UUID
	SlotID       uuid.UUID
	FullName     string
	Email        string
	Quantity     int
	PromoCode    string
}

// BookingService creates bookings. It owns no state shared between requests;
// all coordination happens through the database transaction.
type BookingService struct {
	pool        database.TxBeginner
	experiences ExperienceRepositoryInterface
	slots       SlotRepositoryInterface
	promos      PromoRepositoryInterface
	bookings    BookingRepositoryInterface
	references  *ReferenceGenerator
	validate    *validator.Validate
	opts        BookingOptions
}

// NewBookingService creates a BookingService on the given pool.
func NewBookingService(
	pool *pgxpool.Pool,
	experiences ExperienceRepositoryInterface,
	slots SlotRepositoryInterface,
	promos PromoRepositoryInterface,
	bookings BookingRepositoryInterface,
	references *ReferenceGenerator,
	opts BookingOptions,
) *BookingService {
	return NewBookingServiceWithTxBeginner(pool, experiences, slots, promos, bookings, references, opts)
}

// NewBookingServiceWithTxBeginner creates a BookingService with a custom TxBeginner.
// Primarily used for testing.
func NewBookingServiceWithTxBeginner(
	pool database.TxBeginner,
	experiences ExperienceRepositoryInterface,
	slots SlotRepositoryInterface,
	promos PromoRepositoryInterface,
	bookings BookingRepositoryInterface,
	references *ReferenceGenerator,
	opts BookingOptions,
) *BookingService {
	if references == nil {
		references = NewReferenceGenerator(DefaultReferencePrefix)
	}
	if opts.ReferenceAttempts < 1 {
		opts.ReferenceAttempts = 1
	}
	return &BookingService{
		pool:        pool,
		experiences: experiences,
		slots:       slots,
		promos:      promos,
		bookings:    bookings,
		references:  references,
		validate:    appvalidator.New(),
		opts:        opts,
	}
}

// CreateBooking books in.Quantity spots on a slot in one transaction.
//
// The slot row is locked (SELECT FOR UPDATE) before its availability is read,
// so concurrent bookings of the same slot are serialized and the last spot
// can only be sold once. Nothing is written unless every step succeeds.
// Returns:
//   - ErrInvalidInput for malformed input (no transaction is opened)
//   - ErrSlotNotFound / ErrExperienceNotFound for unknown records
//   - ErrInsufficientCapacity if the slot has fewer spots than requested
//   - ErrReferenceCollision if no unique reference was found
//   - ErrPersistence for storage failures
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (*model.Booking, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}
	promoCode := normalizePromoCode(in.PromoCode)

	var booking *model.Booking
	err := database.RunInTx(ctx, s.pool, database.TxOptions{
		IsoLevel:    pgx.ReadCommitted,
		Timeout:     s.opts.TxTimeout,
		MaxAttempts: s.opts.TxRetries,
	}, func(ctx context.Context, tx pgx.Tx) error {
		b, err := s.book(ctx, tx, in, promoCode)
		if err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return booking, nil
}

func (s *BookingService) book(ctx context.Context, tx pgx.Tx, in CreateBookingInput, promoCode string) (*model.Booking, error) {
	// 1. Lock the slot row
	slot, err := s.slots.GetForUpdate(ctx, tx, in.SlotID)
	if err != nil {
		return nil, fmt.Errorf("lock slot: %w", err)
	}

	// 2. Read the experience in the same transaction
	experience, err := s.experiences.GetByIDTx(ctx, tx, in.ExperienceID)
	if err != nil {
		return nil, fmt.Errorf("get experience: %w", err)
	}
	if slot.ExperienceID != experience.ID {
		return nil, fmt.Errorf("%w: slot belongs to another experience", ErrSlotNotFound)
	}

	// 3. Check capacity
	if slot.AvailableSpots < in.Quantity {
		return nil, ErrInsufficientCapacity
	}

	// 4. Price, with the promo read under the same snapshot
	var promo *model.PromoCode
	if promoCode != "" {
		promo, err = s.promos.FindActiveByCodeTx(ctx, tx, promoCode)
		if err != nil {
			return nil, fmt.Errorf("find promo code: %w", err)
		}
	}
	price := ComputePrice(experience.Price, in.Quantity, promo, s.opts.TaxRate)

	booking := &model.Booking{
		ID:           uuid.New(),
		ExperienceID: experience.ID,
		SlotID:       slot.ID,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Quantity:     in.Quantity,
		Subtotal:     price.Subtotal,
		Discount:     price.Discount,
		Taxes:        price.Taxes,
		Total:        price.Total,
		Status:       model.BookingStatusConfirmed,
	}
	if promo != nil {
		applied := promo.Code
		booking.PromoCode = &applied
	}

	// 5. Insert the booking under a unique reference
	if err := s.insertWithReference(ctx, tx, booking); err != nil {
		return nil, err
	}

	// 6. Decrement availability
	remaining := slot.AvailableSpots - in.Quantity
	if err := s.slots.UpdateAvailability(ctx, tx, slot.ID, slot.AvailableSpots, remaining); err != nil {
		return nil, fmt.Errorf("update slot availability: %w", err)
	}

	return booking, nil
}

// insertWithReference draws references until the insert succeeds or the
// attempt budget is spent.
func (s *BookingService) insertWithReference(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	for attempt := 1; attempt <= s.opts.ReferenceAttempts; attempt++ {
		ref, err := s.references.Generate()
		if err != nil {
			return fmt.Errorf("generate booking reference: %w", err)
		}
		booking.BookingReference = ref

		err = s.bookings.Insert(ctx, tx, booking)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrReferenceCollision) {
			return fmt.Errorf("insert booking: %w", err)
		}
		log.Warn().
			Str("booking_reference", ref).
			Int("attempt", attempt).
			Int("max_attempts", s.opts.ReferenceAttempts).
			Msg("booking reference collision, regenerating")
	}
	return ErrReferenceCollision
}

// GetBooking retrieves a booking by its reference.
// Returns ErrBookingNotFound if no booking has that reference.
func (s *BookingService) GetBooking(ctx context.Context, reference string) (*model.Booking, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, ErrInvalidInput
	}

	booking, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: get booking: %w", ErrPersistence, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) validateInput(in CreateBookingInput) error {
	if in.ExperienceID == uuid.Nil {
		return fmt.Errorf("%w: experienceId is required", ErrInvalidInput)
	}
	if in.SlotID == uuid.Nil {
		return fmt.Errorf("%w: slotId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.FullName) == "" {
		return fmt.Errorf("%w: fullName is required", ErrInvalidInput)
	}
	if err := s.validate.Var(strings.TrimSpace(in.Email), "required,email"); err != nil {
		return fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if in.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	if s.opts.MaxQuantity > 0 && in.Quantity > s.opts.MaxQuantity {
		return fmt.Errorf("%w: quantity must be at most %d", ErrInvalidInput, s.opts.MaxQuantity)
	}
	return nil
}

func normalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
