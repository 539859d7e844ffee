package health

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthChecker provides health check functionality against MongoDB
type HealthChecker struct {
	client *mongo.Client
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(client *mongo.Client) *HealthChecker {
	return &HealthChecker{client: client}
}

// CheckDatabase pings MongoDB with a bounded timeout
func (h *HealthChecker) CheckDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return h.client.Ping(ctx, readpref.Primary())
}

// GetHealthStatus returns the overall health status
func (h *HealthChecker) GetHealthStatus(ctx context.Context) map[string]interface{} {
	status := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.CheckDatabase(ctx); err != nil {
		status["status"] = "unhealthy"
		status["database"] = err.Error()
	} else {
		status["database"] = "ok"
	}

	return status
}
