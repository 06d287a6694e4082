package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/simaogato/vehiclecompare-backend/internal/domain"
)

// taxScheduleRepository implements domain.TaxScheduleRepository in process memory
type taxScheduleRepository struct {
	mu        sync.RWMutex
	schedules map[string]domain.TaxSchedule
}

// NewTaxScheduleRepository creates an empty schedule catalog
func NewTaxScheduleRepository() domain.TaxScheduleRepository {
	return &taxScheduleRepository{schedules: map[string]domain.TaxSchedule{}}
}

// Get retrieves a copy of the schedule stored under name
func (r *taxScheduleRepository) Get(ctx context.Context, name string) (*domain.TaxSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrScheduleNotFound, name)
	}

	return cloneSchedule(s), nil
}

// Save validates the schedule and stores a copy, replacing any previous entry
func (r *taxScheduleRepository) Save(ctx context.Context, schedule *domain.TaxSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.schedules[schedule.Name] = *cloneSchedule(*schedule)
	return nil
}

// List returns copies of all schedules ordered by name
func (r *taxScheduleRepository) List(ctx context.Context) ([]*domain.TaxSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.TaxSchedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, cloneSchedule(s))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func cloneSchedule(s domain.TaxSchedule) *domain.TaxSchedule {
	return &domain.TaxSchedule{
		Name:     s.Name,
		Brackets: domain.CopyBrackets(s.Brackets),
	}
}
