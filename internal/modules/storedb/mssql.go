package storedb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/storeops/posdesk-backend/internal/modules/store"
)

const appName = "posdesk-backend"

// MSSQLDialer opens SQL Server sessions against per-store instances using
// the shared fleet credentials.
type MSSQLDialer struct {
	user        string
	password    string
	dialTimeout time.Duration
}

func NewMSSQLDialer(user, password string, dialTimeout time.Duration) *MSSQLDialer {
	return &MSSQLDialer{user: user, password: password, dialTimeout: dialTimeout}
}

func (d *MSSQLDialer) Dial(ctx context.Context, endpoint store.DatabaseEndpoint) (Session, error) {
	dsn := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(d.user, d.password),
		Host:   endpoint.Server,
	}
	q := url.Values{}
	q.Set("database", endpoint.Database)
	q.Set("dial timeout", fmt.Sprintf("%d", int(d.dialTimeout.Seconds())))
	q.Set("app name", appName)
	dsn.RawQuery = q.Encode()

	db, err := sql.Open("sqlserver", dsn.String())
	if err != nil {
		return nil, err
	}
	// One operation per session; the pool must not linger on a store handle.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &mssqlSession{db: db}, nil
}

type mssqlSession struct{ db *sql.DB }

func (s *mssqlSession) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make(Row, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, values)
	}
	return out, rows.Err()
}

func (s *mssqlSession) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some EXEC batches do not report a count; the call itself succeeded.
		return 0, nil
	}
	return affected, nil
}

func (s *mssqlSession) Close() error { return s.db.Close() }
