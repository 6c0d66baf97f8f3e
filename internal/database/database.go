// Package database provides the data access layer for status checks and
// search audit records.
package database

import (
	"context"

	"github.com/Mentallyspammed1/neonsearch/internal/models"
)

// Store defines the interface for data persistence.
type Store interface {
	// Status checks
	SaveStatusCheck(ctx context.Context, check *models.StatusCheck) error
	ListStatusChecks(ctx context.Context, limit int) ([]*models.StatusCheck, error)

	// Search audit log
	LogSearch(ctx context.Context, entry *models.SearchLog) error
	RecentSearches(ctx context.Context, limit int) ([]*models.SearchLog, error)

	// Lifecycle
	Close() error
	Migrate() error
}
