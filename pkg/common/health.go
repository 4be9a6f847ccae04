package common

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
)

// Health statuses
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// HealthCheck probes one dependency. A failing optional dependency
// degrades the service without failing the probe.
type HealthCheck struct {
	Run      func() error
	Optional bool
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HealthCheckWithDeps returns a health check handler with dependency checks
func HealthCheckWithDeps(serviceName, version string, checks map[string]HealthCheck) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		status := HealthHealthy
		results := make(map[string]string, len(names))

		for _, name := range names {
			check := checks[name]
			if err := check.Run(); err != nil {
				results[name] = HealthUnhealthy + ": " + err.Error()
				if check.Optional {
					if status == HealthHealthy {
						status = HealthDegraded
					}
				} else {
					status = HealthUnhealthy
				}
				continue
			}
			results[name] = HealthHealthy
		}

		statusCode := http.StatusOK
		if status == HealthUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, HealthResponse{
			Status:  status,
			Service: serviceName,
			Version: version,
			Checks:  results,
		})
	}
}
