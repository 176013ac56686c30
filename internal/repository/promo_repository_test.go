package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
)

func TestPromoRepository_Insert(t *testing.T) {
	mock := &mockQuerier{queryRowFn: rowOf(time.Now())}
	repo := NewPromoRepositoryWithPool(mock)

	p := &model.PromoCode{Code: "SAVE10", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true}
	err := repo.Insert(context.Background(), p)

	require.NoError(t, err)
	assert.Contains(t, mock.lastSQL, "INSERT INTO promo_codes")
	assert.Equal(t, "SAVE10", mock.lastArgs[0])
	assert.Equal(t, "percentage", mock.lastArgs[1])
	assert.Equal(t, true, mock.lastArgs[3])
}

func TestPromoRepository_Insert_Duplicate(t *testing.T) {
	mock := &mockQuerier{queryRowFn: rowErr(&pgconn.PgError{Code: "23505", ConstraintName: "promo_codes_pkey"})}
	repo := NewPromoRepositoryWithPool(mock)

	err := repo.Insert(context.Background(), &model.PromoCode{Code: "SAVE10", DiscountType: model.DiscountPercentage})

	assert.ErrorIs(t, err, service.ErrPromoExists)
}

func TestPromoRepository_FindActiveByCode(t *testing.T) {
	mock := &mockQuerier{queryRowFn: rowOf("WELCOME20", "percentage", decimal.NewFromInt(20), true, time.Now())}
	repo := NewPromoRepositoryWithPool(mock)

	p, err := repo.FindActiveByCode(context.Background(), "welcome20")

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "WELCOME20", p.Code)
	assert.Equal(t, model.DiscountPercentage, p.DiscountType)
	assert.True(t, decimal.NewFromInt(20).Equal(p.DiscountValue))
	assert.Contains(t, mock.lastSQL, "UPPER($1)")
	assert.Contains(t, mock.lastSQL, "AND active")
	assert.Equal(t, "welcome20", mock.lastArgs[0])
}

func TestPromoRepository_FindActiveByCode_NotFound(t *testing.T) {
	repo := NewPromoRepositoryWithPool(&mockQuerier{queryRowFn: rowErr(pgx.ErrNoRows)})

	p, err := repo.FindActiveByCode(context.Background(), "NOPE")

	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestPromoRepository_FindActiveByCodeTx_UsesTx(t *testing.T) {
	pool := &mockQuerier{}
	tx := &mockQuerier{queryRowFn: rowOf("FLAT100", "fixed", decimal.NewFromInt(100), true, time.Now())}
	repo := NewPromoRepositoryWithPool(pool)

	p, err := repo.FindActiveByCodeTx(context.Background(), tx, "FLAT100")

	require.NoError(t, err)
	assert.Equal(t, model.DiscountFixed, p.DiscountType)
	assert.Empty(t, pool.lastSQL)
}

func TestPromoRepository_FindActiveByCode_DatabaseError(t *testing.T) {
	dbErr := errors.New("connection refused")
	repo := NewPromoRepositoryWithPool(&mockQuerier{queryRowFn: rowErr(dbErr)})

	_, err := repo.FindActiveByCode(context.Background(), "SAVE10")

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "find promo code")
}
