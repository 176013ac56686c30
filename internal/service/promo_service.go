package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/experience-booking/internal/model"
	appvalidator "github.com/fairyhunter13/experience-booking/internal/validator"
)

// PromoService validates promo codes outside of a booking. Unlike the booking
// path, an unknown or inactive code is reported as ErrPromoNotFound.
type PromoService struct {
	promos   PromoRepositoryInterface
	validate *validator.Validate
}

// NewPromoService creates a new PromoService.
func NewPromoService(promos PromoRepositoryInterface) *PromoService {
	return &PromoService{promos: promos, validate: appvalidator.New()}
}

// ValidatePromo looks up an active code and computes the discount it would
// grant on amount, using the same formula as CreateBooking.
func (s *PromoService) ValidatePromo(ctx context.Context, code string, amount int64) (*model.ValidatePromoResponse, error) {
	code = normalizePromoCode(code)
	if code == "" || amount < 0 {
		return nil, ErrInvalidInput
	}

	promo, err := s.promos.FindActiveByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: find promo code: %w", ErrPersistence, err)
	}
	if promo == nil {
		return nil, ErrPromoNotFound
	}

	return &model.ValidatePromoResponse{
		Valid:          true,
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountValue:  promo.DiscountValue,
		DiscountAmount: ComputeDiscount(amount, promo),
	}, nil
}

// CreatePromo registers a new promo code. Codes are stored uppercased.
// Returns ErrPromoExists if the code is taken.
func (s *PromoService) CreatePromo(ctx context.Context, promo *model.PromoCode) error {
	if promo == nil {
		return ErrInvalidInput
	}
	promo.Code = normalizePromoCode(promo.Code)
	if err := s.validate.Struct(promo); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.promos.Insert(ctx, promo)
}
