package repository

import (
	"context"

	"lead_triage_backend/internal/leads/domain"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to stored leads.
type LeadReader interface {
	// List returns every stored lead in ascending id order.
	List(ctx context.Context) ([]domain.Lead, error)
}

// LeadWriter provides write operations over the lead collection.
type LeadWriter interface {
	// PutBatch assigns sequential ids and stores all leads, or none on error.
	PutBatch(ctx context.Context, leads []domain.Lead) ([]domain.Lead, error)
	// Clear removes every lead and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}

// ReportReader provides the HOT-by-source summary.
type ReportReader interface {
	GroupHotBySource(ctx context.Context) (domain.Report, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Store is the full lead store used by the service layer.
type Store interface {
	LeadReader
	LeadWriter
	ReportReader
	HealthChecker
}

// Compile-time checks.
var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
