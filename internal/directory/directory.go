package directory

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// DB is the pgx query surface the directory needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// Directory resolves users by role for escalation.
type Directory struct {
	DB DB
}

func New(db DB) *Directory { return &Directory{DB: db} }

// UserIDsByRole returns ids of users holding any of the given roles.
func (d *Directory) UserIDsByRole(ctx context.Context, roles ...string) ([]string, error) {
	rows, err := d.DB.Query(ctx, `select id::text from users where role = any($1)`, roles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ManagerIDs returns the escalation recipients for SLA breaches.
func (d *Directory) ManagerIDs(ctx context.Context) ([]string, error) {
	return d.UserIDsByRole(ctx, "Manager")
}
