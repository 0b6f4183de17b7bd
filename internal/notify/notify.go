package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/timmytot666/ticketing-go/internal/ticket"
)

// QueueKey is the redis list the worker drains.
const QueueKey = "jobs"

// Job is the envelope pushed onto the redis queue.
type Job struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NotifyJob is the payload for a "notify" job.
type NotifyJob struct {
	UserID   string `json:"user_id"`
	Message  string `json:"message"`
	TicketID string `json:"ticket_id,omitempty"`
}

// Queue pushes notification jobs onto redis for the worker to deliver.
type Queue struct {
	R *redis.Client
}

func NewQueue(r *redis.Client) *Queue { return &Queue{R: r} }

// Notify enqueues one notification. Delivery is the worker's problem; a
// failed push is the only error surfaced here.
func (q *Queue) Notify(ctx context.Context, userID, message, ticketID string) error {
	data, err := json.Marshal(NotifyJob{UserID: userID, Message: message, TicketID: ticketID})
	if err != nil {
		return err
	}
	job, err := json.Marshal(Job{Type: "notify", Data: data})
	if err != nil {
		return err
	}
	return q.R.LPush(ctx, QueueKey, job).Err()
}

// Store writes notification rows straight to Postgres. The worker uses it
// when draining the queue; callers without redis can use it directly.
type Store struct {
	DB ticket.DB
}

func NewStore(db ticket.DB) *Store { return &Store{DB: db} }

// Notify inserts one unread notification row.
func (s *Store) Notify(ctx context.Context, userID, message, ticketID string) error {
	const q = `insert into notifications (id, user_id, message, ticket_id, is_read, created_at)
		values ($1, $2, $3, nullif($4,''), false, $5)`
	_, err := s.DB.Exec(ctx, q, uuid.NewString(), userID, message, ticketID, time.Now().UTC())
	return err
}
