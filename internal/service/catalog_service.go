package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/experience-booking/internal/model"
)

// SlotWindow is how far ahead experience details list slots.
const SlotWindow = 7 * 24 * time.Hour

// CatalogService serves experience and slot reads and the seeding writes.
type CatalogService struct {
	experiences ExperienceRepositoryInterface
	slots       SlotRepositoryInterface
	now         func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(experiences ExperienceRepositoryInterface, slots SlotRepositoryInterface) *CatalogService {
	return &CatalogService{experiences: experiences, slots: slots, now: time.Now}
}

// ListExperiences returns all experiences, optionally filtered by a
// case-insensitive match on title, location or description.
// On success the slice is never nil.
func (s *CatalogService) ListExperiences(ctx context.Context, search string) ([]model.Experience, error) {
	experiences, err := s.experiences.Search(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, fmt.Errorf("%w: search experiences: %w", ErrPersistence, err)
	}
	if experiences == nil {
		experiences = []model.Experience{}
	}
	return experiences, nil
}

// GetExperience returns an experience with its slots from today through the
// next seven days.
// Returns ErrExperienceNotFound if the experience doesn't exist.
func (s *CatalogService) GetExperience(ctx context.Context, id uuid.UUID) (*model.ExperienceDetail, error) {
	experience, err := s.experiences.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get experience: %w", ErrPersistence, err)
	}
	if experience == nil {
		return nil, ErrExperienceNotFound
	}

	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	slots, err := s.slots.ListByExperience(ctx, id, from, from.Add(SlotWindow))
	if err != nil {
		return nil, fmt.Errorf("%w: list slots: %w", ErrPersistence, err)
	}
	if slots == nil {
		slots = []model.Slot{}
	}

	return &model.ExperienceDetail{Experience: *experience, Slots: slots}, nil
}

// CreateExperience adds an experience to the catalog, assigning an id if
// none is set.
func (s *CatalogService) CreateExperience(ctx context.Context, experience *model.Experience) error {
	if experience == nil || strings.TrimSpace(experience.Title) == "" || experience.Price <= 0 {
		return ErrInvalidInput
	}
	if experience.ID == uuid.Nil {
		experience.ID = uuid.New()
	}
	return s.experiences.Insert(ctx, experience)
}

// CreateSlot adds a slot. AvailableSpots left at zero means fully available.
func (s *CatalogService) CreateSlot(ctx context.Context, slot *model.Slot) error {
	if slot == nil || slot.ExperienceID == uuid.Nil || slot.TotalSpots < 1 || strings.TrimSpace(slot.Time) == "" {
		return ErrInvalidInput
	}
	if slot.AvailableSpots == 0 {
		slot.AvailableSpots = slot.TotalSpots
	}
	if slot.AvailableSpots < 0 || slot.AvailableSpots > slot.TotalSpots {
		return fmt.Errorf("%w: available spots out of range", ErrInvalidInput)
	}
	if slot.ID == uuid.Nil {
		slot.ID = uuid.New()
	}
	return s.slots.Insert(ctx, slot)
}
