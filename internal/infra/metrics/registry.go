package metrics

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/office-hub/internal/application/directory"
	"github.com/ahrav/office-hub/internal/application/health"
	"github.com/ahrav/office-hub/internal/application/sdk/mid"
)

const namespace = "office_hub"

// Registry provides access to all metric implementations.
// It centralizes the creation and management of metrics instances.
type Registry struct {
	API       mid.APIMetrics
	Directory directory.DirectoryMetrics
	Health    health.HealthMetrics
}

// NewRegistry creates and initializes all metrics implementations.
// It uses a single meter provider to ensure consistent configuration.
func NewRegistry(mp metric.MeterProvider) (*Registry, error) {
	apiMetrics, err := newAPIMetrics(mp)
	if err != nil {
		return nil, err
	}

	directoryMetrics, err := newDirectoryMetrics(mp)
	if err != nil {
		return nil, err
	}

	healthMetrics, err := newHealthMetrics(mp)
	if err != nil {
		return nil, err
	}

	return &Registry{
		API:       apiMetrics,
		Directory: directoryMetrics,
		Health:    healthMetrics,
	}, nil
}
