package store

import (
	"context"
	"time"
)

type AuditEntry struct {
	ID        int64     `json:"id"`
	ActorID   *int64    `json:"actor_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// LogAction appends to the audit log. A nil actor is the system or the
// configured admin.
func (s *Store) LogAction(ctx context.Context, actorID *int64, action, details string) error {
	ins := s.sb.Insert("logs").
		Columns("actor_id", "action", "details", "created_at").
		Values(actorID, action, details, unixNow())
	_, err := qExec(ctx, s.db, ins)
	return err
}

func (s *Store) ListLogs(ctx context.Context, limit uint64) ([]AuditEntry, error) {
	q := s.sb.Select("id", "actor_id", "action", "details", "created_at").
		From("logs").
		OrderBy("id DESC").
		Limit(limit)
	rows, err := qQuery(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AuditEntry{}
	for rows.Next() {
		var e AuditEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Details, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(created, 0).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
