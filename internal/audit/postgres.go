package audit

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
}

const createTableSQL = `CREATE TABLE IF NOT EXISTS attendance_audit_log (
	id            UUID PRIMARY KEY,
	action        TEXT NOT NULL,
	severity      TEXT NOT NULL,
	upload_id     UUID,
	file_name     TEXT,
	subject       TEXT,
	format        TEXT,
	rows_affected INTEGER,
	code          TEXT,
	reason        TEXT,
	ip_address    INET,
	user_agent    TEXT,
	created_at    TIMESTAMPTZ NOT NULL
)`

const insertSQL = `INSERT INTO attendance_audit_log (
	id, action, severity, upload_id, file_name, subject, format,
	rows_affected, code, reason, ip_address, user_agent, created_at
) VALUES ($1::uuid, $2, $3, NULLIF($4, '')::uuid, NULLIF($5, ''), NULLIF($6, ''),
	NULLIF($7, ''), $8, NULLIF($9, ''), NULLIF($10, ''), $11, NULLIF($12, ''), $13)`

const selectSQL = `SELECT id::text, action, severity, COALESCE(upload_id::text, ''),
	COALESCE(file_name, ''), COALESCE(subject, ''), COALESCE(format, ''),
	COALESCE(rows_affected, 0), COALESCE(code, ''), COALESCE(reason, ''),
	COALESCE(host(ip_address), ''), COALESCE(user_agent, ''), created_at
	FROM attendance_audit_log`

// PgSink stores entries in PostgreSQL.
type PgSink struct {
	db DBTX
}

// NewPgSink returns a sink writing through db.
func NewPgSink(db DBTX) *PgSink {
	return &PgSink{db: db}
}

// Connect opens a pool for url and makes sure the audit table exists.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, *PgSink, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect audit database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping audit database: %w", err)
	}

	sink := NewPgSink(pool)
	if err := sink.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, sink, nil
}

// EnsureSchema creates the audit table if it does not exist.
func (p *PgSink) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create audit table: %w", err)
	}
	return nil
}

// Write inserts e.
func (p *PgSink) Write(ctx context.Context, e Entry) error {
	_, err := p.db.Exec(ctx, insertSQL,
		e.ID,
		string(e.Action),
		string(e.Severity),
		e.UploadID,
		e.FileName,
		e.Subject,
		e.Format,
		e.RowsAffected,
		e.Code,
		e.Reason,
		parseIP(e.IPAddress),
		e.UserAgent,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns matching entries, newest first.
func (p *PgSink) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	query, args := buildListQuery(opts)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var action, severity string
		if err := rows.Scan(&e.ID, &action, &severity, &e.UploadID, &e.FileName,
			&e.Subject, &e.Format, &e.RowsAffected, &e.Code, &e.Reason,
			&e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = Action(action)
		e.Severity = Severity(severity)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	return entries, nil
}

func buildListQuery(opts ListOptions) (string, []any) {
	var where []string
	var args []any

	if opts.Action != "" {
		args = append(args, string(opts.Action))
		where = append(where, fmt.Sprintf("action = $%d", len(args)))
	}
	if opts.Severity != "" {
		args = append(args, string(opts.Severity))
		where = append(where, fmt.Sprintf("severity = $%d", len(args)))
	}

	var b strings.Builder
	b.WriteString(selectSQL)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	args = append(args, opts.limit(), max(opts.Offset, 0))
	fmt.Fprintf(&b, " ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return b.String(), args
}

// parseIP strips a port if present. Unparseable addresses become NULL.
func parseIP(s string) *netip.Addr {
	if s == "" {
		return nil
	}
	host := s
	if h, _, err := net.SplitHostPort(s); err == nil {
		host = h
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return nil
	}
	return &addr
}
