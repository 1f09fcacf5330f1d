package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gayathriimasha/smart-campus-mis/internal/config"
	"github.com/gayathriimasha/smart-campus-mis/internal/utils"
)

// Probe checks one backing dependency.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	ReportSource string            `json:"report_source"`
	Components   map[string]string `json:"components,omitempty"`
}

const probeTimeout = 2 * time.Second

// HealthCheck returns a handler that reports application health information.
// A failing probe marks the service degraded; the status code stays 200.
func HealthCheck(cfg config.Config, probes ...Probe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:       "ok",
			Timestamp:    time.Now().UTC(),
			Service:      cfg.AppName,
			Environment:  cfg.AppEnv,
			ReportSource: cfg.ReportSource,
		}

		if len(probes) > 0 {
			payload.Components = make(map[string]string, len(probes))
			ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
			defer cancel()
			for _, probe := range probes {
				if err := probe.Check(ctx); err != nil {
					payload.Components[probe.Name] = "down"
					payload.Status = "degraded"
					continue
				}
				payload.Components[probe.Name] = "up"
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
