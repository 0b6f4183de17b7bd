package ticket

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// DB is the pgx surface the store uses, narrow enough to fake in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Storer is the persistence contract the handlers and the scanner consume.
type Storer interface {
	Insert(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id string) (*Ticket, error)
	Update(ctx context.Context, t *Ticket) error
	ListOpenForScan(ctx context.Context) ([]Ticket, error)
	UpdateSLAFlags(ctx context.Context, id string, f SLAFlags) error
}

// Store persists tickets in Postgres.
type Store struct {
	DB DB
}

func NewStore(db DB) *Store { return &Store{DB: db} }

const ticketColumns = `id::text, title, description, type, status, priority,
	requester_id::text, assignee_id::text, created_at, updated_at,
	sla_policy_id, response_due_at, resolution_due_at, responded_at,
	sla_paused_at, total_paused_duration_seconds,
	response_sla_nearing_notified, response_sla_breached_notified,
	resolution_sla_nearing_notified, resolution_sla_breached_notified`

func scanTicket(row pgx.Row, t *Ticket) error {
	return row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Type, &t.Status, &t.Priority,
		&t.RequesterID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
		&t.SLAPolicyID, &t.ResponseDueAt, &t.ResolutionDueAt, &t.RespondedAt,
		&t.SLAPausedAt, &t.TotalPausedSeconds,
		&t.Flags.ResponseNearing, &t.Flags.ResponseBreached,
		&t.Flags.ResolutionNearing, &t.Flags.ResolutionBreached,
	)
}

// Insert writes a new ticket including its SLA bookkeeping fields.
func (s *Store) Insert(ctx context.Context, t *Ticket) error {
	const q = `insert into tickets (
		id, title, description, type, status, priority, requester_id, assignee_id,
		created_at, updated_at, sla_policy_id, response_due_at, resolution_due_at,
		responded_at, sla_paused_at, total_paused_duration_seconds,
		response_sla_nearing_notified, response_sla_breached_notified,
		resolution_sla_nearing_notified, resolution_sla_breached_notified)
	values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`
	_, err := s.DB.Exec(ctx, q,
		t.ID, t.Title, t.Description, t.Type, t.Status, t.Priority,
		t.RequesterID, t.AssigneeID, t.CreatedAt, t.UpdatedAt,
		t.SLAPolicyID, t.ResponseDueAt, t.ResolutionDueAt, t.RespondedAt,
		t.SLAPausedAt, t.TotalPausedSeconds,
		t.Flags.ResponseNearing, t.Flags.ResponseBreached,
		t.Flags.ResolutionNearing, t.Flags.ResolutionBreached)
	return err
}

// Get loads one ticket by id; pgx.ErrNoRows when absent.
func (s *Store) Get(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	row := s.DB.QueryRow(ctx, `select `+ticketColumns+` from tickets where id=$1`, id)
	if err := scanTicket(row, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update persists the mutable lifecycle and SLA fields of a ticket as one
// write. Callers set UpdatedAt before persisting.
func (s *Store) Update(ctx context.Context, t *Ticket) error {
	const q = `update tickets set
		title=$2, description=$3, type=$4, status=$5, priority=$6, assignee_id=$7,
		updated_at=$8, sla_policy_id=$9, response_due_at=$10, resolution_due_at=$11,
		responded_at=$12, sla_paused_at=$13, total_paused_duration_seconds=$14,
		response_sla_nearing_notified=$15, response_sla_breached_notified=$16,
		resolution_sla_nearing_notified=$17, resolution_sla_breached_notified=$18
	where id=$1`
	_, err := s.DB.Exec(ctx, q,
		t.ID, t.Title, t.Description, t.Type, t.Status, t.Priority, t.AssigneeID,
		t.UpdatedAt, t.SLAPolicyID, t.ResponseDueAt, t.ResolutionDueAt,
		t.RespondedAt, t.SLAPausedAt, t.TotalPausedSeconds,
		t.Flags.ResponseNearing, t.Flags.ResponseBreached,
		t.Flags.ResolutionNearing, t.Flags.ResolutionBreached)
	return err
}

// ListOpenForScan returns every ticket the alert scanner should look at:
// anything not closed. Paused tickets are included; the scanner skips them
// itself so the skip shows up in its accounting. An unreadable row is
// skipped with a warning rather than failing the whole sweep.
func (s *Store) ListOpenForScan(ctx context.Context) ([]Ticket, error) {
	rows, err := s.DB.Query(ctx, `select `+ticketColumns+` from tickets where status <> $1`, StatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Ticket{}
	for rows.Next() {
		var t Ticket
		if err := scanTicket(rows, &t); err != nil {
			log.Warn().Err(err).Msg("skipping unreadable ticket row in sla sweep")
			continue
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpdateSLAFlags writes all four notification flags in one statement.
func (s *Store) UpdateSLAFlags(ctx context.Context, id string, f SLAFlags) error {
	const q = `update tickets set
		response_sla_nearing_notified=$2, response_sla_breached_notified=$3,
		resolution_sla_nearing_notified=$4, resolution_sla_breached_notified=$5,
		updated_at=$6
	where id=$1`
	_, err := s.DB.Exec(ctx, q, id, f.ResponseNearing, f.ResponseBreached,
		f.ResolutionNearing, f.ResolutionBreached, time.Now().UTC())
	return err
}
