package sla

// TicketTypeAll is the wildcard ticket type a policy may carry to match any
// ticket of its priority.
const TicketTypeAll = "All"

// Policy is one row of the SLA policy table. Hour targets are business
// hours, not wall-clock hours.
type Policy struct {
	ID              string  `json:"policy_id"`
	Name            string  `json:"name"`
	Priority        string  `json:"priority"`
	TicketType      string  `json:"ticket_type"`
	ResponseHours   float64 `json:"response_time_hours"`
	ResolutionHours float64 `json:"resolution_time_hours"`
}

// MatchPolicy selects the policy applying to a (priority, ticketType) pair.
// An exact match on both fields wins; failing that, a policy for the same
// priority with the "All" wildcard type; failing that, nil. Within each pass
// the first match in table order wins. There is no cross-priority fallback.
func MatchPolicy(priority, ticketType string, policies []Policy) *Policy {
	for i := range policies {
		if policies[i].Priority == priority && policies[i].TicketType == ticketType {
			return &policies[i]
		}
	}
	for i := range policies {
		if policies[i].Priority == priority && policies[i].TicketType == TicketTypeAll {
			return &policies[i]
		}
	}
	return nil
}
