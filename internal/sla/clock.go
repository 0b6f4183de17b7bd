package sla

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/timmytot666/ticketing-go/internal/ticket"
)

// Clock drives a ticket's SLA bookkeeping fields through lifecycle events.
// The state lives on the ticket row; Clock holds only the calendar and the
// policy table. All mutations are in-memory; callers persist the ticket.
//
// SLA handling is best effort throughout: a failed computation logs and
// leaves the fields null, it never fails the enclosing ticket operation.
type Clock struct {
	cal      *Calendar
	policies []Policy
}

// NewClock builds a clock over a calendar and policy table.
func NewClock(cal *Calendar, policies []Policy) *Clock {
	return &Clock{cal: cal, policies: policies}
}

// ApplyOnCreate matches a policy for a freshly created ticket and computes
// both due instants anchored at CreatedAt. No matching policy leaves the SLA
// fields null.
func (c *Clock) ApplyOnCreate(t *ticket.Ticket) {
	c.recalculate(t)
}

// Reapply recomputes policy match and due dates after a priority or type
// change. Due dates stay anchored to the original CreatedAt, not the moment
// of recalculation. If no policy matches anymore the policy id and due
// fields are cleared. The notification flags are intentionally not reset:
// an alert that already went out stays acknowledged under the new targets.
func (c *Clock) Reapply(t *ticket.Ticket) {
	c.recalculate(t)
}

func (c *Clock) recalculate(t *ticket.Ticket) {
	p := MatchPolicy(t.Priority, t.Type, c.policies)
	if p == nil {
		t.SLAPolicyID = nil
		t.ResponseDueAt = nil
		t.ResolutionDueAt = nil
		return
	}
	respDue, err := ComputeDueDate(t.CreatedAt, p.ResponseHours, c.cal)
	if err != nil {
		log.Error().Err(err).Str("ticket", t.ID).Str("policy", p.ID).Msg("response due date calculation failed, leaving SLA unset")
		return
	}
	resoDue, err := ComputeDueDate(t.CreatedAt, p.ResolutionHours, c.cal)
	if err != nil {
		log.Error().Err(err).Str("ticket", t.ID).Str("policy", p.ID).Msg("resolution due date calculation failed, leaving SLA unset")
		return
	}
	id := p.ID
	t.SLAPolicyID = &id
	t.ResponseDueAt = &respDue
	t.ResolutionDueAt = &resoDue
}

// ApplyStatusChange dispatches the SLA side effects of a status transition:
// entering On Hold pauses the clock, leaving it resumes, and the first move
// from Open into active work records the response instant.
func (c *Clock) ApplyStatusChange(t *ticket.Ticket, from, to string, now time.Time) {
	if !ticket.Paused(from) && ticket.Paused(to) {
		c.pause(t, now)
	}
	if ticket.Paused(from) && !ticket.Paused(to) {
		c.resume(t, now)
	}
	if from == ticket.StatusOpen && to == ticket.StatusInProgress {
		c.RecordResponse(t, now)
	}
}

// RecordResponse sets the first-response instant. Later responses are
// ignored; only the first one counts against the response target.
func (c *Clock) RecordResponse(t *ticket.Ticket, now time.Time) {
	if t.RespondedAt != nil {
		return
	}
	ts := now.UTC()
	t.RespondedAt = &ts
}

func (c *Clock) pause(t *ticket.Ticket, now time.Time) {
	if t.SLAPausedAt != nil {
		return
	}
	ts := now.UTC()
	t.SLAPausedAt = &ts
}

// resume folds the finished pause interval into the cumulative total. The
// total only ever grows; due dates are untouched by pause/resume.
func (c *Clock) resume(t *ticket.Ticket, now time.Time) {
	if t.SLAPausedAt == nil {
		return
	}
	t.TotalPausedSeconds += now.Sub(*t.SLAPausedAt).Seconds()
	t.SLAPausedAt = nil
}
