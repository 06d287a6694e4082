package comparison

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/simaogato/vehiclecompare-backend/internal/domain"
	"github.com/simaogato/vehiclecompare-backend/internal/observability"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/simulator"
	"golang.org/x/sync/errgroup"
)

// ComparisonService runs the ETF and the fund through the simulator and lines them up
type ComparisonService struct {
	Metrics *observability.Metrics // optional
}

// NewComparisonService creates a new ComparisonService instance.
// metrics may be nil.
func NewComparisonService(metrics *observability.Metrics) *ComparisonService {
	return &ComparisonService{Metrics: metrics}
}

// Compare simulates both vehicles and computes the per-year difference.
// Logic:
//  1. Validate the whole input before simulating anything
//  2. Simulate ETF and fund concurrently; the runs share no state
//  3. Difference = ETF - fund, per year and on the net final value
func (s *ComparisonService) Compare(ctx context.Context, input domain.ComparisonInput) (*domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		if errors.Is(err, domain.ErrInvalidConfiguration) {
			s.Metrics.ObserveInvalidConfiguration()
		}
		return nil, err
	}

	var etf, fund *domain.SimulationResult
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		etf, err = s.simulate(gctx, input.Config(domain.VehicleETF, input.ETF), input.Brackets)
		return err
	})
	g.Go(func() error {
		var err error
		fund, err = s.simulate(gctx, input.Config(domain.VehicleFund, input.Fund), input.Brackets)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	deltas := make([]domain.YearDelta, len(etf.Records))
	for i := range etf.Records {
		deltas[i] = domain.YearDelta{
			Year:       etf.Records[i].Year,
			ETFValue:   etf.Records[i].Value,
			FundValue:  fund.Records[i].Value,
			Difference: etf.Records[i].Value.Sub(fund.Records[i].Value),
		}
	}

	s.Metrics.ObserveComparison()

	return &domain.ComparisonResult{
		RunID:         uuid.New(),
		ETF:           etf,
		Fund:          fund,
		Deltas:        deltas,
		NetDifference: etf.NetFinalValue.Sub(fund.NetFinalValue),
	}, nil
}

// Simulate runs a single vehicle, recording metrics
func (s *ComparisonService) Simulate(ctx context.Context, cfg domain.VehicleConfig, brackets []domain.TaxBracket) (*domain.SimulationResult, error) {
	result, err := s.simulate(ctx, cfg, brackets)
	if errors.Is(err, domain.ErrInvalidConfiguration) {
		s.Metrics.ObserveInvalidConfiguration()
	}
	return result, err
}

func (s *ComparisonService) simulate(ctx context.Context, cfg domain.VehicleConfig, brackets []domain.TaxBracket) (*domain.SimulationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := simulator.Simulate(cfg, brackets)
	if err != nil {
		return nil, err
	}

	s.Metrics.ObserveSimulation(vehicleLabel(cfg.Name), cfg.Horizon)
	return result, nil
}

// vehicleLabel keeps metric label cardinality bounded
func vehicleLabel(name string) string {
	switch name {
	case domain.VehicleETF, domain.VehicleFund:
		return name
	default:
		return "CUSTOM"
	}
}
