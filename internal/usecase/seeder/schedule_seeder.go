package seeder

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/simaogato/vehiclecompare-backend/internal/domain"
)

// Names of the built-in tax schedules
const (
	ScheduleSpainSavings2024 = "es-savings-2024"
	ScheduleFlat19           = "flat-19"
)

// DefaultScheduleName is used when a request names no schedule and passes no brackets
const DefaultScheduleName = ScheduleSpainSavings2024

// BuiltinSchedules returns fresh copies of the schedules seeded at startup
func BuiltinSchedules() []domain.TaxSchedule {
	return []domain.TaxSchedule{
		{
			Name:     ScheduleSpainSavings2024,
			Brackets: domain.DefaultBrackets(),
		},
		{
			Name:     ScheduleFlat19,
			Brackets: domain.FlatBrackets(decimal.RequireFromString("0.19")),
		},
	}
}

// ScheduleSeeder handles seeding of the built-in tax schedules
type ScheduleSeeder struct {
	repo domain.TaxScheduleRepository
}

// NewScheduleSeeder creates a new ScheduleSeeder instance
func NewScheduleSeeder(repo domain.TaxScheduleRepository) *ScheduleSeeder {
	return &ScheduleSeeder{
		repo: repo,
	}
}

// Seed ensures all built-in schedules exist in the catalog.
// A schedule that already exists is left untouched.
func (s *ScheduleSeeder) Seed(ctx context.Context) error {
	for _, schedule := range BuiltinSchedules() {
		if _, err := s.repo.Get(ctx, schedule.Name); err == nil {
			continue
		}

		if err := schedule.Validate(); err != nil {
			return err
		}

		if err := s.repo.Save(ctx, &schedule); err != nil {
			return err
		}
	}

	return nil
}
