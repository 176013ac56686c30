package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
	"github.com/fairyhunter13/experience-booking/pkg/database"
)

const slotColumns = `id, experience_id, slot_date, time_label, total_spots, available_spots, created_at`

// SlotRepository provides data access for slots using pgx.
type SlotRepository struct {
	pool database.TxQuerier
}

// NewSlotRepository creates a new SlotRepository with the given pool.
func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// NewSlotRepositoryWithPool creates a new SlotRepository with a custom pool interface.
// This is primarily used for testing.
func NewSlotRepositoryWithPool(pool database.TxQuerier) *SlotRepository {
	return &SlotRepository{pool: pool}
}

// Insert inserts a new slot.
func (r *SlotRepository) Insert(ctx context.Context, s *model.Slot) error {
	query := `INSERT INTO slots (id, experience_id, slot_date, time_label, total_spots, available_spots)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		s.ID, s.ExperienceID, s.Date, s.Time, s.TotalSpots, s.AvailableSpots,
	).Scan(&s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

// GetForUpdate retrieves a slot with a row lock (SELECT FOR UPDATE).
// The lock is held until tx completes, so concurrent bookings of the same
// slot queue behind each other.
// Returns service.ErrSlotNotFound if the slot doesn't exist.
func (r *SlotRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots WHERE id = $1 FOR UPDATE`

	var s model.Slot
	err := tx.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.ExperienceID,
		&s.Date,
		&s.Time,
		&s.TotalSpots,
		&s.AvailableSpots,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot for update %s: %w", id, err)
	}
	return &s, nil
}

// UpdateAvailability sets available_spots to available, provided it still
// equals expected. Must be called within a transaction after locking the row.
// Returns service.ErrStaleSlot if the row changed or vanished, and
// service.ErrInsufficientCapacity if the new value breaks the range check.
func (r *SlotRepository) UpdateAvailability(ctx context.Context, tx database.TxQuerier, id uuid.UUID, expected, available int) error {
	query := `UPDATE slots SET available_spots = $2 WHERE id = $1 AND available_spots = $3`

	tag, err := tx.Exec(ctx, query, id, available, expected)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == database.CodeCheckViolation {
			return service.ErrInsufficientCapacity
		}
		return fmt.Errorf("update availability for %s: %w", id, err)
	}
	if tag.RowsAffected() != 1 {
		return service.ErrStaleSlot
	}
	return nil
}

// ListByExperience lists an experience's slots dated within [from, to],
// ordered by date then time label.
// On success, returns an empty slice (not nil) when no slots exist.
func (r *SlotRepository) ListByExperience(ctx context.Context, experienceID uuid.UUID, from, to time.Time) ([]model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM slots
		WHERE experience_id = $1 AND slot_date >= $2 AND slot_date <= $3
		ORDER BY slot_date, time_label`

	rows, err := r.pool.Query(ctx, query, experienceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list slots for experience %s: %w", experienceID, err)
	}
	defer rows.Close()

	slots := []model.Slot{}
	for rows.Next() {
		var s model.Slot
		if err := rows.Scan(
			&s.ID,
			&s.ExperienceID,
			&s.Date,
			&s.Time,
			&s.TotalSpots,
			&s.AvailableSpots,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot rows: %w", err)
	}
	return slots, nil
}
