package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when request data is missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is the kind shared by every "record does not exist" error
	ErrNotFound = errors.New("not found")

	// ErrExperienceNotFound is returned when an experience cannot be found
	ErrExperienceNotFound = fmt.Errorf("experience %w", ErrNotFound)

	// ErrSlotNotFound is returned when a slot cannot be found or belongs to another experience
	ErrSlotNotFound = fmt.Errorf("slot %w", ErrNotFound)

	// ErrBookingNotFound is returned when no booking has the requested reference
	ErrBookingNotFound = fmt.Errorf("booking %w", ErrNotFound)

	// ErrPromoNotFound is returned when a promo code is unknown or inactive
	ErrPromoNotFound = errors.New("invalid or expired promo code")

	// ErrInsufficientCapacity is returned when a slot has fewer spots than requested
	ErrInsufficientCapacity = errors.New("not enough spots available")

	// ErrReferenceCollision is returned when no unique booking reference could be generated
	ErrReferenceCollision = errors.New("booking reference collision")

	// ErrStaleSlot is returned when a slot changed between lock and update
	ErrStaleSlot = errors.New("slot availability changed concurrently")

	// ErrExperienceExists is returned when inserting an experience whose id is taken
	ErrExperienceExists = errors.New("experience already exists")

	// ErrPromoExists is returned when inserting a promo code that already exists
	ErrPromoExists = errors.New("promo code already exists")

	// ErrPersistence marks storage failures. The operation was rolled back and
	// may be retried as a whole.
	ErrPersistence = errors.New("persistence failure")
)

// domainErrors are surfaced to callers unchanged; anything else coming out of
// a transaction is reported as ErrPersistence.
var domainErrors = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrInsufficientCapacity,
	ErrReferenceCollision,
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// ErrorKind returns the machine-readable kind of err for API responses.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPromoNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientCapacity):
		return "insufficient_capacity"
	case errors.Is(err, ErrReferenceCollision):
		return "reference_collision"
	default:
		return "persistence_failure"
	}
}
