// Package events defines the lead triage events and re-exports the platform
// bus so modules import a single package.
package events

import (
	"lead_triage_backend/platform/events"
	"lead_triage_backend/platform/logger"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a process-local bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// LeadBatchProcessed is published after an upload batch has been stored.
type LeadBatchProcessed struct {
	BaseEvent
	BatchID            uuid.UUID      `json:"batchId"`
	FileName           string         `json:"fileName"`
	Count              int            `json:"count"`
	Skipped            int            `json:"skipped"`
	ClassifierFailures int            `json:"classifierFailures"`
	NoContact          int            `json:"noContact"`
	Tiers              map[string]int `json:"tiers"`
	Adjusted           int            `json:"adjusted"`
	ArchiveKey         string         `json:"archiveKey,omitempty"`
	DurationMs         float64        `json:"durationMs"`
}

func (e LeadBatchProcessed) EventName() string { return "leads.batch.processed" }

// LeadsCleared is published after the lead store has been emptied.
type LeadsCleared struct {
	BaseEvent
	Count int `json:"count"`
}

func (e LeadsCleared) EventName() string { return "leads.cleared" }
