package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protojson"

	grpcadapter "github.com/simaogato/vehiclecompare-backend/internal/adapter/grpc"
	"github.com/simaogato/vehiclecompare-backend/internal/adapter/repository/memory"
	"github.com/simaogato/vehiclecompare-backend/internal/domain"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/comparison"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/seeder"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.capital, "capital", "10000", "Initial capital")
	fs.IntVar(&opts.years, "years", 20, "Investment horizon in years")
	fs.StringVar(&opts.etfReturn, "etf-return", "0.05", "ETF annual return rate")
	fs.StringVar(&opts.etfFee, "etf-fee", "0.002", "ETF annual management fee rate")
	fs.StringVar(&opts.etfCostKind, "etf-cost-kind", string(domain.CostRulePercentage), "ETF transaction cost rule: PERCENTAGE or FIXED")
	fs.StringVar(&opts.etfCost, "etf-cost", "0.001", "ETF transaction cost: rate for PERCENTAGE, amount per sale for FIXED")
	fs.StringVar(&opts.etfSales, "etf-sales", "", "Comma-separated sale counts for years 1..n; later years have no sales")
	fs.StringVar(&opts.fundReturn, "fund-return", "0.05", "Fund annual return rate")
	fs.StringVar(&opts.fundFee, "fund-fee", "0.015", "Fund annual management fee rate")
	fs.StringVar(&opts.feeTiming, "fee-timing", "", "Fee timing for both vehicles: empty (post-growth) or COMPOUNDED")
	fs.StringVar(&opts.schedule, "schedule", seeder.DefaultScheduleName, "Named tax schedule")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	input, err := opts.comparisonInput()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx := context.Background()
	repo := memory.NewTaxScheduleRepository()
	if err := seeder.NewScheduleSeeder(repo).Seed(ctx); err != nil {
		fmt.Fprintf(stderr, "Error seeding tax schedules: %v\n", err)
		return 1
	}

	schedule, err := repo.Get(ctx, opts.schedule)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	input.Brackets = schedule.Brackets

	result, err := comparison.NewComparisonService(nil).Compare(ctx, input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	msg, err := grpcadapter.EncodeComparison(result)
	if err != nil {
		fmt.Fprintf(stderr, "Error encoding result: %v\n", err)
		return 1
	}

	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		fmt.Fprintf(stderr, "Error encoding result: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, string(out))
	return 0
}

type options struct {
	capital     string
	years       int
	etfReturn   string
	etfFee      string
	etfCostKind string
	etfCost     string
	etfSales    string
	fundReturn  string
	fundFee     string
	feeTiming   string
	schedule    string
}

func parseDecimal(flagName, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid -%s %q: %w", flagName, raw, err)
	}
	return v, nil
}

func (o *options) comparisonInput() (domain.ComparisonInput, error) {
	var in domain.ComparisonInput

	if o.years > domain.MaxRequestHorizon {
		return in, fmt.Errorf("-years must be at most %d, got %d", domain.MaxRequestHorizon, o.years)
	}

	capital, err := parseDecimal("capital", o.capital)
	if err != nil {
		return in, err
	}
	etfReturn, err := parseDecimal("etf-return", o.etfReturn)
	if err != nil {
		return in, err
	}
	etfFee, err := parseDecimal("etf-fee", o.etfFee)
	if err != nil {
		return in, err
	}
	etfCost, err := parseDecimal("etf-cost", o.etfCost)
	if err != nil {
		return in, err
	}
	fundReturn, err := parseDecimal("fund-return", o.fundReturn)
	if err != nil {
		return in, err
	}
	fundFee, err := parseDecimal("fund-fee", o.fundFee)
	if err != nil {
		return in, err
	}

	sales, err := parseSales(o.etfSales, o.years)
	if err != nil {
		return in, err
	}

	timing := domain.FeeTiming(strings.ToUpper(o.feeTiming))
	fund := domain.FundParams(fundReturn, fundFee, o.years)
	fund.FeeTiming = timing

	return domain.ComparisonInput{
		InitialCapital: capital,
		Horizon:        o.years,
		ETF: domain.VehicleParams{
			ReturnRate:        etfReturn,
			ManagementFeeRate: etfFee,
			TransactionCost: domain.TransactionCostRule{
				Kind:  domain.CostRuleKind(strings.ToUpper(o.etfCostKind)),
				Value: etfCost,
			},
			SaleSchedule: sales,
			FeeTiming:    timing,
		},
		Fund: fund,
	}, nil
}

// parseSales reads "0,1,0,2" into a schedule of length years
func parseSales(raw string, years int) ([]int, error) {
	schedule := domain.NoSales(years)
	if strings.TrimSpace(raw) == "" {
		return schedule, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) > years {
		return nil, fmt.Errorf("-etf-sales lists %d years but the horizon is %d", len(parts), years)
	}

	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid -etf-sales entry %q: %w", p, err)
		}
		schedule[i] = n
	}
	return schedule, nil
}
