package sla

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { return r.i < len(r.data) }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i]
	r.i++
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = row[i].(string)
		case **string:
			if row[i] == nil {
				*d = nil
			} else {
				s := row[i].(string)
				*d = &s
			}
		case *float64:
			*d = row[i].(float64)
		case *time.Time:
			*d = row[i].(time.Time)
		}
	}
	return nil
}

type fakeDB struct {
	hours    [][]any
	holidays [][]any
	policies [][]any
}

func (db fakeDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	switch sql {
	case "select day, open_time, close_time from business_hours":
		return &fakeRows{data: db.hours}, nil
	case "select date from holidays":
		return &fakeRows{data: db.holidays}, nil
	}
	return &fakeRows{data: db.policies}, nil
}

func TestLoadCalendar(t *testing.T) {
	db := fakeDB{
		hours: [][]any{
			{"monday", "09:00", "17:00"},
			{"tuesday", "10:00", "15:00"},
			{"wednesday", nil, nil},
			{"thursday", "17:00", "09:00"}, // degrades to closed
		},
		holidays: [][]any{
			// Not midnight; the loader normalizes to the calendar date.
			{time.Date(2024, 7, 4, 15, 30, 0, 0, time.UTC)},
		},
	}
	cal, err := LoadCalendar(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h, ok := cal.Hours[time.Monday]; !ok || h.OpenSec != 9*3600 || h.CloseSec != 17*3600 {
		t.Fatalf("unexpected Monday hours: %+v", h)
	}
	if h, ok := cal.Hours[time.Tuesday]; !ok || h.OpenSec != 10*3600 {
		t.Fatalf("unexpected Tuesday hours: %+v", h)
	}
	if _, ok := cal.Hours[time.Wednesday]; ok {
		t.Fatal("expected Wednesday to be closed")
	}
	if _, ok := cal.Hours[time.Thursday]; ok {
		t.Fatal("expected inverted Thursday hours to degrade to closed")
	}
	if _, ok := cal.Holidays[time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)]; !ok {
		t.Fatal("expected holiday to be normalized to midnight UTC")
	}
}

func TestLoadPoliciesDropsInvalidRows(t *testing.T) {
	db := fakeDB{
		policies: [][]any{
			{"p1", "IT High", "High", "IT", 1.0, 8.0},
			{"p2", "Broken", "High", "All", -1.0, 8.0}, // negative target
			{"", "No ID", "Low", "All", 1.0, 2.0},      // missing id
		},
	}
	policies, err := LoadPolicies(context.Background(), db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(policies) != 1 || policies[0].ID != "p1" {
		t.Fatalf("expected only p1 to survive, got %+v", policies)
	}
}
