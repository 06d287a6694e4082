package grpc

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/vehiclecompare-backend/internal/domain"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/taxengine"
)

// Comparer is the use case behind Compare and Simulate
type Comparer interface {
	Compare(ctx context.Context, input domain.ComparisonInput) (*domain.ComparisonResult, error)
	Simulate(ctx context.Context, cfg domain.VehicleConfig, brackets []domain.TaxBracket) (*domain.SimulationResult, error)
}

// Server implements the ComparisonService gRPC server
type Server struct {
	UnimplementedComparisonServiceServer

	Comparer        Comparer
	ScheduleRepo    domain.TaxScheduleRepository
	DefaultSchedule string // Used when a request names no schedule and passes no brackets
}

// NewServer creates a new gRPC server instance
func NewServer(comparer Comparer, scheduleRepo domain.TaxScheduleRepository, defaultSchedule string) *Server {
	return &Server{
		Comparer:        comparer,
		ScheduleRepo:    scheduleRepo,
		DefaultSchedule: defaultSchedule,
	}
}

// Compare handles the Compare RPC
func (s *Server) Compare(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	input, err := DecodeComparisonInput(req)
	if err != nil {
		return nil, mapError(err)
	}

	input.Brackets, err = s.resolveBrackets(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.Comparer.Compare(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := EncodeComparison(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

// Simulate handles the Simulate RPC
func (s *Server) Simulate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	cfg, err := DecodeVehicleConfig(req)
	if err != nil {
		return nil, mapError(err)
	}

	brackets, err := s.resolveBrackets(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	result, err := s.Comparer.Simulate(ctx, cfg, brackets)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := EncodeSimulation(result)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

// TaxOwed handles the TaxOwed RPC
func (s *Server) TaxOwed(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	gain, err := decimalField(req.GetFields(), fieldGain)
	if err != nil {
		return nil, mapError(err)
	}

	brackets, err := s.resolveBrackets(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}

	rate, err := taxengine.MarginalRate(gain, brackets)
	if err != nil {
		return nil, mapError(err)
	}

	tax, err := taxengine.TaxOwed(gain, brackets)
	if err != nil {
		return nil, mapError(err)
	}

	effective := decimal.Zero
	if gain.IsPositive() {
		effective = tax.DivRound(gain, 6)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		fieldGain:        gain.String(),
		"tax":            tax.String(),
		"marginal_rate":  rate.String(),
		"effective_rate": effective.String(),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

// ListTaxSchedules handles the ListTaxSchedules RPC
func (s *Server) ListTaxSchedules(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	schedules, err := s.ScheduleRepo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	resp, err := EncodeSchedules(schedules)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return resp, nil
}

// resolveBrackets picks the schedule for a request.
// Explicit tax_brackets win over a named tax_schedule; with neither, the default schedule is used.
func (s *Server) resolveBrackets(ctx context.Context, req *structpb.Struct) ([]domain.TaxBracket, error) {
	fields := req.GetFields()

	if !isAbsent(fields, fieldTaxBrackets) {
		values, err := listField(fields, fieldTaxBrackets)
		if err != nil {
			return nil, err
		}
		return DecodeBrackets(values)
	}

	name, err := stringField(fields, fieldTaxSchedule)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = s.DefaultSchedule
	}

	schedule, err := s.ScheduleRepo.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return schedule.Brackets, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	// Already a status (e.g. from an interceptor or a nested call)
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, domain.ErrInvalidConfiguration), errors.Is(err, ErrMalformedRequest):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrScheduleNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
