// Package domain contains the core incident model shared across layers.
package domain

import "time"

// Severity is the ordinal urgency of an incident.
// Serialized as its integer value on the wire.
type Severity int

// Severity levels, lowest to highest.
const (
	SeverityLow      Severity = 1
	SeverityMedium   Severity = 2
	SeverityHigh     Severity = 3
	SeverityCritical Severity = 4
)

// IsValid checks if the severity is a known level.
func (s Severity) IsValid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// Status is the lifecycle stage of an incident.
// Serialized as its integer value on the wire.
type Status int

// Lifecycle stages. Transitions are unrestricted; the set-once timestamps
// on Incident are the only ordering the model enforces.
const (
	StatusOpen         Status = 1
	StatusAcknowledged Status = 2
	StatusResolved     Status = 3
)

// IsValid checks if the status is a known stage.
func (s Status) IsValid() bool {
	return s >= StatusOpen && s <= StatusResolved
}

func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusAcknowledged:
		return "acknowledged"
	case StatusResolved:
		return "resolved"
	}
	return "unknown"
}

// Incident represents a tracked issue record.
//
// AcknowledgedAt and ResolvedAt are set exactly once, the first time the
// incident reaches the corresponding status, and never reset afterwards even
// if the status moves back.
type Incident struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Severity       Severity   `json:"severity"`
	Status         Status     `json:"status"`
	Assignee       *string    `json:"assignee"`
	CreatedAt      time.Time  `json:"createdAt"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt"`
	ResolvedAt     *time.Time `json:"resolvedAt"`
}

// IsResolved returns true if the incident is currently in the Resolved stage.
func (i *Incident) IsResolved() bool {
	return i.Status == StatusResolved
}
