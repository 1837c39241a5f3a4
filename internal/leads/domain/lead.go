// Package domain contains the lead triage model shared by the ingest, scoring,
// tiering, storage and reporting packages. It holds no I/O.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Canonical field names as they appear in the raw data mapping.
const (
	FieldName               = "name"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldMessage            = "message"
	FieldLocationPreference = "location_preference"
	FieldBudget             = "budget"
	FieldTimeframeToMove    = "timeframe_to_move"
	FieldPropertyType       = "property_type"
	FieldSource             = "source"
)

// CanonicalFields lists the canonical field names in display order.
var CanonicalFields = []string{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldMessage,
	FieldLocationPreference,
	FieldBudget,
	FieldTimeframeToMove,
	FieldPropertyType,
	FieldSource,
}

// Fields is a normalized lead draft. Empty strings mean the value was absent.
type Fields struct {
	Name               string
	Email              string
	Phone              string
	Message            string
	LocationPreference string
	Budget             string
	TimeframeToMove    string
	PropertyType       string
	Source             string
}

// Get returns the value of a canonical field by name.
func (f Fields) Get(name string) string {
	switch name {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	case FieldMessage:
		return f.Message
	case FieldLocationPreference:
		return f.LocationPreference
	case FieldBudget:
		return f.Budget
	case FieldTimeframeToMove:
		return f.TimeframeToMove
	case FieldPropertyType:
		return f.PropertyType
	case FieldSource:
		return f.Source
	}
	return ""
}

// Set assigns a canonical field by name. It reports false for unknown names.
func (f *Fields) Set(name, value string) bool {
	switch name {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldMessage:
		f.Message = value
	case FieldLocationPreference:
		f.LocationPreference = value
	case FieldBudget:
		f.Budget = value
	case FieldTimeframeToMove:
		f.TimeframeToMove = value
	case FieldPropertyType:
		f.PropertyType = value
	case FieldSource:
		f.Source = value
	default:
		return false
	}
	return true
}

// HasContact reports whether at least one of email or phone is present.
func (f Fields) HasContact() bool {
	return f.Email != "" || f.Phone != ""
}

// Lead is a scored, tiered lead. Leads are immutable once stored.
type Lead struct {
	ID           int64
	BatchID      uuid.UUID
	Row          int
	Fields       Fields
	Extra        map[string]string
	Score        int
	Breakdown    Breakdown
	Tier         Tier
	BaseTier     Tier
	TierAdjusted bool
	TierRule     string
	Action       string
	AI           *AIAnalysis
	CreatedAt    time.Time
}

// Data returns the raw field mapping: every canonical field plus any extra columns.
func (l Lead) Data() map[string]string {
	data := make(map[string]string, len(CanonicalFields)+len(l.Extra))
	for key, value := range l.Extra {
		data[key] = value
	}
	for _, name := range CanonicalFields {
		data[name] = l.Fields.Get(name)
	}
	return data
}

// SourceOrUnknown returns the lead's source, bucketing a missing or whitespace-only one as "Unknown".
func (l Lead) SourceOrUnknown() string {
	if strings.TrimSpace(l.Fields.Source) == "" {
		return UnknownSource
	}
	return l.Fields.Source
}

// UnknownSource is the report bucket for leads without a source.
const UnknownSource = "Unknown"
