package handler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the service reported over the gRPC health protocol.
const ServiceName = "storefront"

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// HealthReporter runs dependency checks and publishes the outcome through a
// gRPC health server and the HTTP health endpoint.
type HealthReporter struct {
	server  *health.Server
	checks  map[string]Check
	timeout time.Duration
	serving atomic.Bool
	stopped atomic.Bool
}

func NewHealthReporter(checks map[string]Check, timeout time.Duration) *HealthReporter {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	h := &HealthReporter{
		server:  health.NewServer(),
		checks:  checks,
		timeout: timeout,
	}
	h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return h
}

// Server is the health service to register on a grpc.Server.
func (h *HealthReporter) Server() *health.Server {
	return h.server
}

func (h *HealthReporter) Serving() bool {
	return h.serving.Load()
}

// RunChecks runs every check once and updates the reported status. It
// returns the names of the failing checks.
func (h *HealthReporter) RunChecks(ctx context.Context) []string {
	var failed []string
	for name, check := range h.checks {
		cctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := check(cctx)
		cancel()
		if err != nil {
			log.Printf("health: %s check failed: %v", name, err)
			failed = append(failed, name)
		}
	}

	if len(failed) == 0 {
		h.set(healthpb.HealthCheckResponse_SERVING)
	} else {
		h.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return failed
}

// Watch runs the checks every interval until ctx is done.
func (h *HealthReporter) Watch(ctx context.Context, interval time.Duration) {
	h.RunChecks(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.RunChecks(ctx)
		}
	}
}

// Shutdown reports NOT_SERVING to every watcher and refuses later updates.
func (h *HealthReporter) Shutdown() {
	h.stopped.Store(true)
	h.serving.Store(false)
	h.server.Shutdown()
}

func (h *HealthReporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	if h.stopped.Load() {
		return
	}
	h.serving.Store(status == healthpb.HealthCheckResponse_SERVING)
	h.server.SetServingStatus(ServiceName, status)
	h.server.SetServingStatus("", status)
}
