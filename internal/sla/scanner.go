package sla

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/timmytot666/ticketing-go/internal/metrics"
	"github.com/timmytot666/ticketing-go/internal/ticket"
)

// dimension names the two SLA targets a ticket carries.
type dimension string

const (
	dimResponse   dimension = "response"
	dimResolution dimension = "resolution"
)

// Nearing-breach windows. Hard-coded for now; nearingWindow is the single
// lookup to touch if these ever become per-policy configuration.
const (
	responseNearingWindow   = time.Hour
	resolutionNearingWindow = 8 * time.Hour
)

func nearingWindow(d dimension) time.Duration {
	if d == dimResponse {
		return responseNearingWindow
	}
	return resolutionNearingWindow
}

// TicketSource lists tickets eligible for scanning and persists flag
// updates. Flag writes are batched: one update per ticket per scan pass.
type TicketSource interface {
	ListOpenForScan(ctx context.Context) ([]ticket.Ticket, error)
	UpdateSLAFlags(ctx context.Context, id string, f ticket.SLAFlags) error
}

// Notifier delivers a message to one user. Fire and forget: the scanner
// logs failures and moves on.
type Notifier interface {
	Notify(ctx context.Context, userID, message, ticketID string) error
}

// Directory resolves escalation recipients.
type Directory interface {
	ManagerIDs(ctx context.Context) ([]string, error)
}

// Scanner sweeps open tickets and raises nearing/breach notifications
// exactly once per threshold crossing. The host schedules Scan serially;
// the scanner itself never sleeps or re-arms.
type Scanner struct {
	Tickets  TicketSource
	Notifier Notifier
	Dir      Directory
}

// Scan runs one pass at the given instant. Tickets in a terminal status or
// with the clock paused are skipped. If listing tickets or managers fails
// the whole pass aborts; a bad individual ticket only skips that ticket.
func (s *Scanner) Scan(ctx context.Context, now time.Time) error {
	tickets, err := s.Tickets.ListOpenForScan(ctx)
	if err != nil {
		return fmt.Errorf("list tickets for sla scan: %w", err)
	}
	managers, err := s.Dir.ManagerIDs(ctx)
	if err != nil {
		return fmt.Errorf("list managers for sla scan: %w", err)
	}

	now = now.UTC()
	for i := range tickets {
		t := &tickets[i]
		if ticket.Terminal(t.Status) || t.SLAPausedAt != nil {
			continue
		}
		// Paused duration pulls the effective clock backward; the due
		// instants themselves never move.
		effNow := now.Add(-time.Duration(t.TotalPausedSeconds * float64(time.Second)))

		flags := t.Flags
		if t.RespondedAt == nil && t.ResponseDueAt != nil {
			s.checkDimension(ctx, t, dimResponse, *t.ResponseDueAt, effNow, managers,
				&flags.ResponseNearing, &flags.ResponseBreached)
		}
		if t.ResolutionDueAt != nil {
			s.checkDimension(ctx, t, dimResolution, *t.ResolutionDueAt, effNow, managers,
				&flags.ResolutionNearing, &flags.ResolutionBreached)
		}
		if flags != t.Flags {
			if err := s.Tickets.UpdateSLAFlags(ctx, t.ID, flags); err != nil {
				log.Error().Err(err).Str("ticket", t.ID).Msg("persist sla flags")
			}
		}
	}
	metrics.SLAScansTotal.Inc()
	return nil
}

// checkDimension raises at most one notification per pass: a fresh breach
// wins, otherwise the nearing check runs. A ticket past due still gets its
// nearing notice on a later pass if that flag was never set, since the
// remaining margin is below the window either way.
func (s *Scanner) checkDimension(ctx context.Context, t *ticket.Ticket, d dimension, due, effNow time.Time, managers []string, nearing, breached *bool) {
	if effNow.After(due) && !*breached {
		msg := fmt.Sprintf("%s SLA breached for ticket %s (was due %s)", d, t.ID, due.Format(time.RFC3339))
		s.escalate(ctx, t, msg, managers)
		*breached = true
		metrics.SLABreachesTotal.WithLabelValues(string(d)).Inc()
		return
	}
	if !*nearing && due.Sub(effNow) < nearingWindow(d) {
		msg := fmt.Sprintf("%s SLA nearing breach for ticket %s (due %s)", d, t.ID, due.Format(time.RFC3339))
		s.notifyAssignee(ctx, t, msg)
		*nearing = true
		metrics.SLANearingTotal.WithLabelValues(string(d)).Inc()
	}
}

// escalate notifies the assignee plus every manager other than the assignee.
func (s *Scanner) escalate(ctx context.Context, t *ticket.Ticket, msg string, managers []string) {
	s.notifyAssignee(ctx, t, msg)
	for _, m := range managers {
		if t.AssigneeID != nil && m == *t.AssigneeID {
			continue
		}
		if err := s.Notifier.Notify(ctx, m, msg, t.ID); err != nil {
			log.Error().Err(err).Str("ticket", t.ID).Str("user", m).Msg("notify manager")
		}
	}
}

func (s *Scanner) notifyAssignee(ctx context.Context, t *ticket.Ticket, msg string) {
	if t.AssigneeID == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, *t.AssigneeID, msg, t.ID); err != nil {
		log.Error().Err(err).Str("ticket", t.ID).Str("user", *t.AssigneeID).Msg("notify assignee")
	}
}
