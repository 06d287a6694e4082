package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/vehiclecompare-backend/internal/adapter/grpc"
	"github.com/simaogato/vehiclecompare-backend/internal/adapter/repository/memory"
	"github.com/simaogato/vehiclecompare-backend/internal/observability"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/comparison"
	"github.com/simaogato/vehiclecompare-backend/internal/usecase/seeder"
)

const (
	defaultAPIToken    = "dev-token"
	defaultGRPCAddr    = ":8080"
	defaultMetricsAddr = ":9090"
)

// getEnv returns the value of key, or fallback when unset or empty
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	grpcAddr := getEnv("GRPC_ADDR", defaultGRPCAddr)
	metricsAddr := getEnv("METRICS_ADDR", defaultMetricsAddr)
	apiToken := getEnv("API_TOKEN", defaultAPIToken)
	defaultSchedule := getEnv("DEFAULT_TAX_SCHEDULE", seeder.DefaultScheduleName)

	// 1. Initialize Repositories (in-memory schedule catalog)
	scheduleRepo := memory.NewTaxScheduleRepository()

	// Seed built-in tax schedules
	ctx := context.Background()
	if err := seeder.NewScheduleSeeder(scheduleRepo).Seed(ctx); err != nil {
		log.Fatalf("Failed to seed tax schedules: %v", err)
	}
	if _, err := scheduleRepo.Get(ctx, defaultSchedule); err != nil {
		log.Fatalf("Default tax schedule unavailable: %v", err)
	}
	log.Printf("Tax schedules seeded successfully (default %q)", defaultSchedule)

	// 2. Initialize Services (Use Cases)
	metrics := observability.NewMetrics("vehiclecompare")
	comparisonService := comparison.NewComparisonService(metrics)

	// 3. Start metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsServer := &http.Server{
		Addr:              metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Metrics server listening on %s", metricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve metrics: %v", err)
		}
	}()

	// 4. Start gRPC Server
	// Reflection is a streaming service, so the unary auth interceptor does not gate it
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.MetricsInterceptor(metrics),
			grpcadapter.AuthInterceptor(apiToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(comparisonService, scheduleRepo, defaultSchedule)
	grpcadapter.RegisterComparisonServiceServer(grpcServer, grpcAdapter)

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", grpcAddr, err)
	}

	// Start server in a goroutine
	go func() {
		log.Printf("gRPC server listening on %s", grpcAddr)
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("Failed to serve gRPC server: %v", err)
		}
	}()

	// Graceful shutdown
	waitForShutdown(grpcServer, metricsServer)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(grpcServer *grpclib.Server, metricsServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	grpcServer.GracefulStop()
	log.Println("gRPC server stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Printf("Metrics server shutdown: %v", err)
	}
	log.Println("Metrics server stopped")
}
