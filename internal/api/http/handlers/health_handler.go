package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/diary-service/internal/api/dto"
	"github.com/spec-kit/diary-service/internal/persistence"
)

const probeTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe can reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe describes one readiness dependency. Optional probes never fail readiness.
type Probe struct {
	Name     string
	Pinger   Pinger
	Optional bool
	Disabled bool
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	probes      []Probe
}

// NewHealthHandler probes Postgres as required and Redis as optional.
func NewHealthHandler(serviceName, version string, postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return NewHealthHandlerWithProbes(serviceName, version,
		Probe{Name: "postgres", Pinger: postgres},
		Probe{Name: "redis", Pinger: redis, Optional: true, Disabled: !redis.Enabled()},
	)
}

// NewHealthHandlerWithProbes builds a handler over arbitrary dependencies.
func NewHealthHandlerWithProbes(serviceName, version string, probes ...Probe) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, probes: probes}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(dto.LivenessResponse{
		Status:  "alive",
		Service: h.serviceName,
		Version: h.version,
	})
}

// Ready pings every dependency and answers 503 when a required one is down.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
	defer cancel()

	deps := make(map[string]dto.DependencyStatus, len(h.probes))
	ready := true
	for _, p := range h.probes {
		status := probe(ctx, p)
		if status.Status == "down" {
			ready = false
		}
		deps[p.Name] = status
	}

	if !ready {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "one or more dependencies unavailable",
				"details": deps,
			},
		})
	}
	return c.JSON(dto.ReadinessResponse{Status: "ready", Dependencies: deps})
}

func probe(ctx context.Context, p Probe) dto.DependencyStatus {
	if p.Disabled {
		return dto.DependencyStatus{Status: "disabled"}
	}
	started := time.Now()
	err := p.Pinger.Ping(ctx)
	status := dto.DependencyStatus{LatencyMS: time.Since(started).Milliseconds()}
	switch {
	case err == nil:
		status.Status = "ok"
	case p.Optional:
		status.Status = "degraded"
		status.Error = err.Error()
	default:
		status.Status = "down"
		status.Error = err.Error()
	}
	return status
}
