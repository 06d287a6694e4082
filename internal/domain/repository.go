package domain

import "context"

// TaxScheduleRepository defines the interface for looking up named bracket schedules
type TaxScheduleRepository interface {
	// Get retrieves a schedule by name.
	// Returns an error wrapping ErrScheduleNotFound if the name is unknown.
	Get(ctx context.Context, name string) (*TaxSchedule, error)

	// Save validates and stores a schedule, replacing any schedule with the same name
	Save(ctx context.Context, schedule *TaxSchedule) error

	// List returns all schedules ordered by name
	List(ctx context.Context) ([]*TaxSchedule, error)
}
