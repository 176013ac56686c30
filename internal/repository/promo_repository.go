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

// PromoRepository provides data access for promo codes using pgx.
type PromoRepository struct {
	pool database.TxQuerier
}

// NewPromoRepository creates a new PromoRepository with the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// NewPromoRepositoryWithPool creates a new PromoRepository with a custom pool interface.
// This is primarily used for testing.
func NewPromoRepositoryWithPool(pool database.TxQuerier) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// Insert inserts a new promo code. The code must already be uppercased.
// Returns service.ErrPromoExists if the code is taken.
func (r *PromoRepository) Insert(ctx context.Context, p *model.PromoCode) error {
	query := `INSERT INTO promo_codes (code, discount_type, discount_value, active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		p.Code, string(p.DiscountType), p.DiscountValue, p.Active,
	).Scan(&p.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return service.ErrPromoExists
		}
		return fmt.Errorf("insert promo code: %w", err)
	}
	return nil
}

// FindActiveByCode looks up an active promo code, ignoring case.
// Returns nil, nil if no active code matches.
func (r *PromoRepository) FindActiveByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	return r.FindActiveByCodeTx(ctx, r.pool, code)
}

// FindActiveByCodeTx is FindActiveByCode inside tx.
func (r *PromoRepository) FindActiveByCodeTx(ctx context.Context, tx database.TxQuerier, code string) (*model.PromoCode, error) {
	query := `SELECT code, discount_type, discount_value, active, created_at
		FROM promo_codes WHERE code = UPPER($1) AND active`

	var p model.PromoCode
	var discountType string
	err := tx.QueryRow(ctx, query, code).Scan(
		&p.Code,
		&discountType,
		&p.DiscountValue,
		&p.Active,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find promo code %s: %w", code, err)
	}
	p.DiscountType = model.DiscountType(discountType)
	return &p, nil
}
