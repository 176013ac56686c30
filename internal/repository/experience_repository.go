package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
	"github.com/fairyhunter13/experience-booking/pkg/database"
)

const experienceColumns = `id, title, location, description, price, image_url, about, created_at`

// ExperienceRepository provides data access for experiences using pgx.
type ExperienceRepository struct {
	pool database.TxQuerier
}

// NewExperienceRepository creates a new ExperienceRepository with the given pool.
func NewExperienceRepository(pool *pgxpool.Pool) *ExperienceRepository {
	return &ExperienceRepository{pool: pool}
}

// NewExperienceRepositoryWithPool creates a new ExperienceRepository with a custom pool interface.
// This is primarily used for testing.
func NewExperienceRepositoryWithPool(pool database.TxQuerier) *ExperienceRepository {
	return &ExperienceRepository{pool: pool}
}

// Insert inserts a new experience.
// Returns service.ErrExperienceExists if the id is already taken.
func (r *ExperienceRepository) Insert(ctx context.Context, e *model.Experience) error {
	query := `INSERT INTO experiences (id, title, location, description, price, image_url, about)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		e.ID, e.Title, e.Location, e.Description, e.Price, e.ImageURL, e.About,
	).Scan(&e.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return service.ErrExperienceExists
		}
		return fmt.Errorf("insert experience: %w", err)
	}
	return nil
}

// GetByID retrieves an experience outside of any transaction.
// Returns nil, nil if the experience is not found (service layer handles this).
func (r *ExperienceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Experience, error) {
	e, err := r.get(ctx, r.pool, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get experience %s: %w", id, err)
	}
	return e, nil
}

// GetByIDTx retrieves an experience inside tx.
// Returns service.ErrExperienceNotFound if the experience doesn't exist.
func (r *ExperienceRepository) GetByIDTx(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.Experience, error) {
	e, err := r.get(ctx, tx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrExperienceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get experience %s: %w", id, err)
	}
	return e, nil
}

func (r *ExperienceRepository) get(ctx context.Context, q database.TxQuerier, id uuid.UUID) (*model.Experience, error) {
	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE id = $1`

	var e model.Experience
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Title,
		&e.Location,
		&e.Description,
		&e.Price,
		&e.ImageURL,
		&e.About,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Search lists experiences whose title, location or description contains
// query, case-insensitively. An empty query lists everything.
// On success, returns an empty slice (not nil) when nothing matches.
func (r *ExperienceRepository) Search(ctx context.Context, query string) ([]model.Experience, error) {
	sql := `SELECT ` + experienceColumns + ` FROM experiences
		WHERE $1::text = ''
		   OR title ILIKE '%' || $1::text || '%'
		   OR location ILIKE '%' || $1::text || '%'
		   OR description ILIKE '%' || $1::text || '%'
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, sql, escapeLike(query))
	if err != nil {
		return nil, fmt.Errorf("search experiences: %w", err)
	}
	defer rows.Close()

	experiences := []model.Experience{}
	for rows.Next() {
		var e model.Experience
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Location,
			&e.Description,
			&e.Price,
			&e.ImageURL,
			&e.About,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		experiences = append(experiences, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate experience rows: %w", err)
	}
	return experiences, nil
}
