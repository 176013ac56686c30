// Package seed loads the demo catalog: experiences, a week of slots per
// experience and the launch promo codes.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/experience-booking/internal/model"
)

const (
	days       = 7
	totalSpots = 10
	// Seeded slots start with 6 to 10 spots available.
	minAvailable = 6
)

// TimeLabels are the daily departures created for every experience.
var TimeLabels = []string{"07:00 am - 1pm", "9:00 am - 1 pm", "11:00 am - 3 pm", "1:00 pm -later"}

const blurb = "Curated small-group experience. Certified guide. Safety first with gear included."

// Experiences is the demo catalog.
var Experiences = []model.Experience{
	{
		Title:       "Kayaking",
		Location:    "Udupi",
		Description: blurb,
		Price:       999,
		ImageURL:    "https://images.unsplash.com/photo-1544551763-46a013bb70d5?w=800&auto=format&fit=crop",
		About:       "Scenic routes, trained guides, and safety briefing. Helmet and life jackets along with an expert will accompany you. Minimum age 10.",
	},
	{
		Title:       "Nandi Hills Sunrise",
		Location:    "Bangalore",
		Description: blurb,
		Price:       899,
		ImageURL:    "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&auto=format&fit=crop",
		About:       "Early morning trek to watch the sunrise from Nandi Hills.",
	},
	{
		Title:       "Coffee Trail",
		Location:    "Coorg",
		Description: blurb,
		Price:       1299,
		ImageURL:    "https://images.unsplash.com/photo-1447933601403-0c6688de566e?w=800&auto=format&fit=crop",
		About:       "Walk the coffee plantations and follow the bean from plant to cup.",
	},
	{
		Title:       "Kayaking",
		Location:    "Udupi, Karnataka",
		Description: blurb,
		Price:       999,
		ImageURL:    "https://images.unsplash.com/photo-1502680390469-be75c86b636f?w=800&auto=format&fit=crop",
		About:       "Paddle through quiet backwaters with a guide and full safety kit.",
	},
	{
		Title:       "Boat Cruise",
		Location:    "Gundlupet",
		Description: blurb,
		Price:       999,
		ImageURL:    "https://images.unsplash.com/photo-1544551763-77ef2d0cfc6c?w=800&auto=format&fit=crop",
		About:       "Relaxed boat ride with scenic views and wildlife spotting.",
	},
	{
		Title:       "Bunjee Jumping",
		Location:    "Mysore",
		Description: blurb,
		Price:       999,
		ImageURL:    "https://images.unsplash.com/photo-1534367507873-d2d7e24c797f?w=800&auto=format&fit=crop",
		About:       "Bungee jumping with professional safety crew.",
	},
	{
		Title:       "Coffee Trail",
		Location:    "Coorg",
		Description: blurb,
		Price:       1299,
		ImageURL:    "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=800&auto=format&fit=crop",
		About:       "Learn how coffee is grown, picked and roasted in the estates of Coorg.",
	},
}

// PromoCodes are the launch promotions.
var PromoCodes = []model.PromoCode{
	{Code: "SAVE10", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), Active: true},
	{Code: "FLAT100", DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(100), Active: true},
	{Code: "WELCOME20", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(20), Active: true},
}

// CatalogWriter creates experiences and slots.
type CatalogWriter interface {
	CreateExperience(ctx context.Context, experience *model.Experience) error
	CreateSlot(ctx context.Context, slot *model.Slot) error
}

// PromoWriter creates promo codes.
type PromoWriter interface {
	CreatePromo(ctx context.Context, promo *model.PromoCode) error
}

// Result counts what Run created.
type Result struct {
	Experiences int
	Slots       int
	PromoCodes  int
}

// Seeder writes the demo data through the service layer.
type Seeder struct {
	catalog CatalogWriter
	promos  PromoWriter
	now     func() time.Time
	spots   func() int
}

// New creates a Seeder. Slot availability is drawn at random.
func New(catalog CatalogWriter, promos PromoWriter) *Seeder {
	return &Seeder{
		catalog: catalog,
		promos:  promos,
		now:     time.Now,
		spots:   func() int { return minAvailable + rand.Intn(totalSpots-minAvailable+1) },
	}
}

// Run creates every experience with days × len(TimeLabels) slots starting
// today (UTC), then the promo codes.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var res Result

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for i := range Experiences {
		e := Experiences[i]
		if err := s.catalog.CreateExperience(ctx, &e); err != nil {
			return res, fmt.Errorf("create experience %q: %w", e.Title, err)
		}
		res.Experiences++

		for day := 0; day < days; day++ {
			for _, label := range TimeLabels {
				slot := &model.Slot{
					ExperienceID:   e.ID,
					Date:           today.AddDate(0, 0, day),
					Time:           label,
					TotalSpots:     totalSpots,
					AvailableSpots: s.spots(),
				}
				if err := s.catalog.CreateSlot(ctx, slot); err != nil {
					return res, fmt.Errorf("create slot for %q: %w", e.Title, err)
				}
				res.Slots++
			}
		}
		log.Debug().Str("experience_id", e.ID.String()).Str("title", e.Title).Msg("experience seeded")
	}

	for i := range PromoCodes {
		p := PromoCodes[i]
		if err := s.promos.CreatePromo(ctx, &p); err != nil {
			return res, fmt.Errorf("create promo code %s: %w", p.Code, err)
		}
		res.PromoCodes++
	}

	return res, nil
}
