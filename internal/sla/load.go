package sla

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// DB is the narrow pgx surface the loaders need, kept small so tests can
// fake it.
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// LoadCalendar reads the business-hours schedule and holiday list from the
// settings tables. Rows with null times are closed days; malformed rows
// degrade to closed inside ParseCalendar.
func LoadCalendar(ctx context.Context, db DB) (*Calendar, error) {
	weekly := map[string][]string{}
	rows, err := db.Query(ctx, `select day, open_time, close_time from business_hours`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var day string
		var open, close_ *string
		if err := rows.Scan(&day, &open, &close_); err != nil {
			log.Warn().Err(err).Msg("skipping unreadable business hours row")
			continue
		}
		if open == nil || close_ == nil {
			weekly[day] = nil
			continue
		}
		weekly[day] = []string{*open, *close_}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var holidays []string
	hrows, err := db.Query(ctx, `select date from holidays`)
	if err != nil {
		return nil, err
	}
	defer hrows.Close()
	for hrows.Next() {
		var d time.Time
		if err := hrows.Scan(&d); err != nil {
			log.Warn().Err(err).Msg("skipping unreadable holiday row")
			continue
		}
		holidays = append(holidays, d.UTC().Format("2006-01-02"))
	}
	if err := hrows.Err(); err != nil {
		return nil, err
	}
	return ParseCalendar(weekly, holidays), nil
}

// LoadPolicies reads the SLA policy table. Records with missing required
// fields or negative hour targets are dropped with a warning, never fatal.
func LoadPolicies(ctx context.Context, db DB) ([]Policy, error) {
	rows, err := db.Query(ctx, `select id::text, name, priority, ticket_type, response_time_hours, resolution_time_hours from sla_policies order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Policy{}
	for rows.Next() {
		var p Policy
		if err := rows.Scan(&p.ID, &p.Name, &p.Priority, &p.TicketType, &p.ResponseHours, &p.ResolutionHours); err != nil {
			log.Warn().Err(err).Msg("skipping unreadable SLA policy row")
			continue
		}
		if p.ID == "" || p.Priority == "" || p.TicketType == "" {
			log.Warn().Str("policy", p.ID).Msg("SLA policy missing required fields, skipping")
			continue
		}
		if p.ResponseHours < 0 || p.ResolutionHours < 0 {
			log.Warn().Str("policy", p.ID).Msg("SLA policy has negative hour targets, skipping")
			continue
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
