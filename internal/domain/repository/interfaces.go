// Package repository defines the persistence and state-store contracts the
// domain and application layers depend on. Implementations live under
// internal/infrastructure.
package repository

import (
	"context"

	"github.com/turtacn/jalak-hijau/internal/domain/models"
)

// GeoDataset is the geospatial input collection for one analysis run. The
// Version changes whenever the underlying files change so caches can key on
// it; consumers must not care whether the data came from files or the
// synthetic generator.
type GeoDataset struct {
	ProtectedAreas []models.ProtectedArea
	Concessions    []models.Concession
	Version        string
	Synthetic      bool
}

// FinancialDataset is the financial input collection.
type FinancialDataset struct {
	Transactions []models.Transaction
	Companies    []models.Company
	Version      string
	Synthetic    bool
}

// GeoDataRepository serves geospatial datasets.
type GeoDataRepository interface {
	Load(ctx context.Context) (*GeoDataset, error)
}

// FinancialDataRepository serves financial datasets.
type FinancialDataRepository interface {
	Load(ctx context.Context) (*FinancialDataset, error)
}

// InvestigationRepository persists investigation cases.
type InvestigationRepository interface {
	Save(ctx context.Context, inv *models.Investigation) error
	Update(ctx context.Context, inv *models.Investigation) error
	FindByID(ctx context.Context, id string) (*models.Investigation, error)
	FindAll(ctx context.Context, limit, offset int) ([]*models.Investigation, int64, error)
}

// SessionStore keeps per-session dashboard state with a TTL.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.SessionState, error)
	Put(ctx context.Context, state *models.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

// AlertPublisher publishes alert events to downstream consumers. Disabled
// deployments use a no-op implementation.
type AlertPublisher interface {
	Publish(ctx context.Context, alert models.Alert) error
	Close() error
}
