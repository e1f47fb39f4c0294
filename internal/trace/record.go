package trace

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/fluxcore/internal/ir"
	"github.com/roach88/fluxcore/internal/store"
)

// Record is one stored dispatch event.
type Record struct {
	Seq        int64
	StoreID    string
	StoreName  string
	EventType  store.EventType
	ActionType string

	// Payload is the canonical JSON of the action payload. Empty when the
	// payload has no JSON form (floats, channels, funcs).
	Payload     string
	PayloadHash string

	Version  int64
	Error    string
	Duration time.Duration
}

// Write stores one event. Payloads without a canonical JSON form are kept
// as a NULL payload rather than failing the write.
func (d *DB) Write(ctx context.Context, e store.Event) (int64, error) {
	var payload, hash sql.NullString
	if v, err := ir.FromPayload(e.Action.Payload); err == nil {
		if data, err := ir.MarshalCanonical(v); err == nil {
			payload = sql.NullString{String: string(data), Valid: true}
		}
		if h, err := ir.PayloadHash(v); err == nil {
			hash = sql.NullString{String: h, Valid: true}
		}
	}

	var errText string
	if e.Err != nil {
		errText = e.Err.Error()
	}

	res, err := d.db.ExecContext(ctx, `
		INSERT INTO dispatch_events
		(store_id, store_name, event_type, action_type, payload, payload_hash, version, error, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.StoreID,
		e.StoreName,
		string(e.Type),
		e.Action.Type,
		payload,
		hash,
		e.Version,
		errText,
		e.Duration.Nanoseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("write dispatch event: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write dispatch event: %w", err)
	}
	return seq, nil
}

// ReadStore returns every event of one store in seq order.
// Returns an empty slice (not nil) when there are none.
func (d *DB) ReadStore(ctx context.Context, storeID string) ([]Record, error) {
	return d.query(ctx, `
		SELECT seq, store_id, store_name, event_type, action_type, payload, payload_hash, version, error, duration_ns
		FROM dispatch_events
		WHERE store_id = ?
		ORDER BY seq ASC
	`, storeID)
}

// ReadAction returns every event for one action identifier across stores.
func (d *DB) ReadAction(ctx context.Context, actionType string) ([]Record, error) {
	return d.query(ctx, `
		SELECT seq, store_id, store_name, event_type, action_type, payload, payload_hash, version, error, duration_ns
		FROM dispatch_events
		WHERE action_type = ?
		ORDER BY seq ASC
	`, actionType)
}

// Count returns the number of events of the given type for a store.
func (d *DB) Count(ctx context.Context, storeID string, typ store.EventType) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM dispatch_events WHERE store_id = ? AND event_type = ?
	`, storeID, string(typ)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count dispatch events: %w", err)
	}
	return n, nil
}

func (d *DB) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query dispatch events: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			r          Record
			eventType  string
			payload    sql.NullString
			hash       sql.NullString
			durationNS int64
		)
		if err := rows.Scan(&r.Seq, &r.StoreID, &r.StoreName, &eventType, &r.ActionType,
			&payload, &hash, &r.Version, &r.Error, &durationNS); err != nil {
			return nil, fmt.Errorf("scan dispatch event: %w", err)
		}
		r.EventType = store.EventType(eventType)
		r.Payload = payload.String
		r.PayloadHash = hash.String
		r.Duration = time.Duration(durationNS)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dispatch events: %w", err)
	}
	return records, nil
}
