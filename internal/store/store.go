// =============================================================================
// internal/store/store.go - SQLite persistence for results and alerts
// =============================================================================
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/bryanCE/dnspector/internal/dns"
	"github.com/bryanCE/dnspector/internal/monitor"
)

const schema = `
CREATE TABLE IF NOT EXISTS dns_logs (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    domain     TEXT NOT NULL,
    resolver   TEXT NOT NULL,
    ip         TEXT,
    ttl        INTEGER,
    status     TEXT NOT NULL,
    latency_ms REAL NOT NULL,
    timestamp  DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS ip_alerts (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    domain    TEXT NOT NULL,
    resolver  TEXT NOT NULL,
    old_ip    TEXT,
    new_ip    TEXT,
    reason    TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_domain ON dns_logs(domain);
CREATE INDEX IF NOT EXISTS idx_resolver ON dns_logs(resolver);
CREATE INDEX IF NOT EXISTS idx_timestamp ON dns_logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_domain_resolver ON dns_logs(domain, resolver);
`

// Store persists resolution results and change alerts in a SQLite database.
type Store struct {
	db *sql.DB
}

var _ monitor.Store = (*Store)(nil)

// Open opens (and if necessary creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initializing schema")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendResult records one resolution result.
func (s *Store) AppendResult(ctx context.Context, result dns.Result) error {
	ip := sql.NullString{String: result.IP, Valid: result.IP != ""}
	var ttl sql.NullInt64
	if result.TTL != nil {
		ttl = sql.NullInt64{Int64: int64(*result.TTL), Valid: true}
	}
	ts := result.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dns_logs (domain, resolver, ip, ttl, status, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.Domain, result.Resolver, ip, ttl, string(result.Status),
		result.LatencyMs, ts.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "inserting result")
}

// AppendAlert records one change event.
func (s *Store) AppendAlert(ctx context.Context, event dns.ChangeEvent) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ip_alerts (domain, resolver, old_ip, new_ip, reason, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.Domain, event.Resolver, event.OldIP, event.NewIP, event.Reason,
		ts.UTC().Format(time.RFC3339Nano))
	return errors.Wrap(err, "inserting alert")
}

// LastKnownAddress returns the most recent successful address recorded for
// the (domain, resolver) pair, or "" when none exists.
func (s *Store) LastKnownAddress(ctx context.Context, domain, resolver string) (string, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ip FROM dns_logs
		WHERE domain = ? AND resolver = ? AND ip IS NOT NULL
		ORDER BY timestamp DESC, id DESC LIMIT 1`,
		domain, resolver)

	var ip string
	if err := row.Scan(&ip); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", errors.Wrap(err, "querying last address")
	}
	return ip, nil
}

// History returns results for a domain, newest first. An empty resolver
// matches all resolvers.
func (s *Store) History(ctx context.Context, domain, resolver string, limit int) ([]dns.Result, error) {
	query := `
		SELECT domain, resolver, ip, ttl, status, latency_ms, timestamp FROM dns_logs
		WHERE domain = ?`
	args := []interface{}{domain}
	if resolver != "" {
		query += ` AND resolver = ?`
		args = append(args, resolver)
	}
	query += ` ORDER BY timestamp DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying history")
	}
	defer rows.Close()

	var results []dns.Result
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, errors.Wrap(rows.Err(), "reading history rows")
}

// RecentAlerts returns the most recent change events, newest first.
func (s *Store) RecentAlerts(ctx context.Context, limit int) ([]dns.ChangeEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT domain, resolver, old_ip, new_ip, reason, timestamp FROM ip_alerts
		ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying alerts")
	}
	defer rows.Close()

	var events []dns.ChangeEvent
	for rows.Next() {
		var event dns.ChangeEvent
		var ts string
		if err := rows.Scan(&event.Domain, &event.Resolver, &event.OldIP,
			&event.NewIP, &event.Reason, &ts); err != nil {
			return nil, errors.Wrap(err, "scanning alert row")
		}
		event.Timestamp = parseTimestamp(ts)
		events = append(events, event)
	}
	return events, errors.Wrap(rows.Err(), "reading alert rows")
}

// Domains returns every domain ever recorded, sorted.
func (s *Store) Domains(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT domain FROM dns_logs ORDER BY domain`)
}

// Resolvers returns every resolver name ever recorded, sorted.
func (s *Store) Resolvers(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, `SELECT DISTINCT resolver FROM dns_logs ORDER BY resolver`)
}

func (s *Store) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "querying distinct values")
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scanning row")
		}
		values = append(values, v)
	}
	return values, errors.Wrap(rows.Err(), "reading rows")
}

func scanResult(rows *sql.Rows) (dns.Result, error) {
	var result dns.Result
	var ip sql.NullString
	var ttl sql.NullInt64
	var ts string
	if err := rows.Scan(&result.Domain, &result.Resolver, &ip, &ttl,
		&result.Status, &result.LatencyMs, &ts); err != nil {
		return dns.Result{}, errors.Wrap(err, "scanning result row")
	}
	if ip.Valid {
		result.IP = ip.String
	}
	if ttl.Valid {
		v := uint32(ttl.Int64)
		result.TTL = &v
	}
	result.Timestamp = parseTimestamp(ts)
	return result, nil
}

func parseTimestamp(s string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
