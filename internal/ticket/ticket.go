package ticket

import "time"

// Ticket types.
const (
	TypeIT         = "IT"
	TypeFacilities = "Facilities"
)

// Ticket statuses.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusOnHold     = "On Hold"
	StatusClosed     = "Closed"
)

// Ticket priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// SLAFlags are the four sticky notification markers. A set flag stays set
// for the life of the ticket, even when recalculation replaces the due dates,
// so no threshold ever alerts twice.
type SLAFlags struct {
	ResponseNearing    bool `json:"response_sla_nearing_breach_notified"`
	ResponseBreached   bool `json:"response_sla_breach_notified"`
	ResolutionNearing  bool `json:"resolution_sla_nearing_breach_notified"`
	ResolutionBreached bool `json:"resolution_sla_breach_notified"`
}

// Ticket is the ticket entity with its SLA bookkeeping fields. Due instants
// are absolute UTC times; nil means no policy applied.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	RequesterID string    `json:"requester_id"`
	AssigneeID  *string   `json:"assignee_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SLAPolicyID        *string    `json:"sla_policy_id,omitempty"`
	ResponseDueAt      *time.Time `json:"response_due_at,omitempty"`
	ResolutionDueAt    *time.Time `json:"resolution_due_at,omitempty"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
	SLAPausedAt        *time.Time `json:"sla_paused_at,omitempty"`
	TotalPausedSeconds float64    `json:"total_paused_duration_seconds"`
	Flags              SLAFlags   `json:"sla_flags"`
}

// ValidType reports whether s is a known ticket type.
func ValidType(s string) bool {
	return s == TypeIT || s == TypeFacilities
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusOnHold, StatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether s is a known priority.
func ValidPriority(s string) bool {
	return s == PriorityLow || s == PriorityMedium || s == PriorityHigh
}

// Terminal reports whether a status ends the ticket lifecycle.
func Terminal(status string) bool { return status == StatusClosed }

// Paused reports whether a status suspends the SLA clock.
func Paused(status string) bool { return status == StatusOnHold }
