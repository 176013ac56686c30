package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/experience-booking/internal/model"
)

func TestCatalogService_ListExperiences_TrimsSearch(t *testing.T) {
	var captured string
	exps := &mockExperienceRepository{
		searchFn: func(ctx context.Context, query string) ([]model.Experience, error) {
			captured = query
			return []model.Experience{{ID: kayakingID, Title: "Kayaking"}}, nil
		},
	}
	svc := NewCatalogService(exps, &mockSlotRepository{})

	got, err := svc.ListExperiences(context.Background(), "  kayak ")

	require.NoError(t, err)
	assert.Equal(t, "kayak", captured)
	assert.Len(t, got, 1)
}

func TestCatalogService_ListExperiences_EmptyNotNil(t *testing.T) {
	svc := NewCatalogService(&mockExperienceRepository{}, &mockSlotRepository{})

	got, err := svc.ListExperiences(context.Background(), "")

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalogService_ListExperiences_Error(t *testing.T) {
	exps := &mockExperienceRepository{
		searchFn: func(ctx context.Context, query string) ([]model.Experience, error) {
			return nil, errors.New("database error")
		},
	}
	svc := NewCatalogService(exps, &mockSlotRepository{})

	_, err := svc.ListExperiences(context.Background(), "")

	assert.ErrorIs(t, err, ErrPersistence)
}

func TestCatalogService_GetExperience_SlotWindow(t *testing.T) {
	exps := &mockExperienceRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Experience, error) {
			return &model.Experience{ID: id, Title: "Kayaking", Price: 999}, nil
		},
	}
	var from, to time.Time
	slots := &mockSlotRepository{
		listFn: func(ctx context.Context, experienceID uuid.UUID, f, tt time.Time) ([]model.Slot, error) {
			from, to = f, tt
			return []model.Slot{{ID: morningID, ExperienceID: experienceID, TotalSpots: 10, AvailableSpots: 7}}, nil
		},
	}
	svc := NewCatalogService(exps, slots)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC) }

	detail, err := svc.GetExperience(context.Background(), kayakingID)

	require.NoError(t, err)
	assert.Equal(t, "Kayaking", detail.Title)
	assert.Len(t, detail.Slots, 1)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 21, 0, 0, 0, 0, time.UTC), to)
}

func TestCatalogService_GetExperience_NoSlots(t *testing.T) {
	exps := &mockExperienceRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Experience, error) {
			return &model.Experience{ID: id}, nil
		},
	}
	svc := NewCatalogService(exps, &mockSlotRepository{})

	detail, err := svc.GetExperience(context.Background(), kayakingID)

	require.NoError(t, err)
	assert.NotNil(t, detail.Slots)
}

func TestCatalogService_GetExperience_NotFound(t *testing.T) {
	svc := NewCatalogService(&mockExperienceRepository{}, &mockSlotRepository{})

	_, err := svc.GetExperience(context.Background(), uuid.New())

	assert.ErrorIs(t, err, ErrExperienceNotFound)
}

func TestCatalogService_CreateExperience(t *testing.T) {
	var captured *model.Experience
	exps := &mockExperienceRepository{
		insertFn: func(ctx context.Context, experience *model.Experience) error {
			captured = experience
			return nil
		},
	}
	svc := NewCatalogService(exps, &mockSlotRepository{})

	err := svc.CreateExperience(context.Background(), &model.Experience{Title: "Coffee Trail", Location: "Coorg", Price: 1299})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, captured.ID)

	assert.ErrorIs(t, svc.CreateExperience(context.Background(), &model.Experience{Title: " ", Price: 10}), ErrInvalidInput)
	assert.ErrorIs(t, svc.CreateExperience(context.Background(), &model.Experience{Title: "Free", Price: 0}), ErrInvalidInput)
}

func TestCatalogService_CreateSlot(t *testing.T) {
	var captured *model.Slot
	slots := &mockSlotRepository{
		insertFn: func(ctx context.Context, slot *model.Slot) error {
			captured = slot
			return nil
		},
	}
	svc := NewCatalogService(&mockExperienceRepository{}, slots)

	err := svc.CreateSlot(context.Background(), &model.Slot{ExperienceID: kayakingID, Time: "9:00 am - 1 pm", TotalSpots: 10})

	require.NoError(t, err)
	assert.Equal(t, 10, captured.AvailableSpots)
	assert.NotEqual(t, uuid.Nil, captured.ID)
}

func TestCatalogService_CreateSlot_Invalid(t *testing.T) {
	svc := NewCatalogService(&mockExperienceRepository{}, &mockSlotRepository{})

	tests := []struct {
		name string
		slot *model.Slot
	}{
		{"nil", nil},
		{"no experience", &model.Slot{Time: "9:00 am", TotalSpots: 10}},
		{"no capacity", &model.Slot{ExperienceID: kayakingID, Time: "9:00 am", TotalSpots: 0}},
		{"blank time", &model.Slot{ExperienceID: kayakingID, Time: " ", TotalSpots: 10}},
		{"available above total", &model.Slot{ExperienceID: kayakingID, Time: "9:00 am", TotalSpots: 10, AvailableSpots: 11}},
		{"negative available", &model.Slot{ExperienceID: kayakingID, Time: "9:00 am", TotalSpots: 10, AvailableSpots: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.CreateSlot(context.Background(), tt.slot), ErrInvalidInput)
		})
	}
}
