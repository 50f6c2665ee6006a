package storedb

import (
	"context"
	"log/slog"
	"time"

	"github.com/storeops/posdesk-backend/internal/modules/store"
)

// QueryKind is declared by the caller instead of sniffing the statement
// text, so statements with leading whitespace or comments behave the same.
type QueryKind int

const (
	QueryRead QueryKind = iota
	QueryWrite
)

// Row is one result row in column order.
type Row []any

// Session is a live connection to one store's database.
type Session interface {
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Close() error
}

// Dialer opens sessions against a resolved database endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint store.DatabaseEndpoint) (Session, error)
}

// Querier is the slice of Manager the document services depend on.
type Querier interface {
	Query(ctx context.Context, storeCode, query string, args ...any) ([]Row, error)
	Exec(ctx context.Context, storeCode, query string, args ...any) (int64, error)
	Ping(ctx context.Context, storeCode string) error
}

// Config tunes connection handling for the whole store fleet.
type Config struct {
	ConnectTimeout     time.Duration
	QueryTimeout       time.Duration
	SlowQueryThreshold time.Duration
	MaxRetries         int           // additional attempts after the first
	BackoffStep        time.Duration // delay before retry i is i*BackoffStep
}

// DefaultConfig mirrors the timeouts the store fleet is provisioned for.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:     15 * time.Second,
		QueryTimeout:       30 * time.Second,
		SlowQueryThreshold: 3 * time.Second,
		MaxRetries:         2,
		BackoffStep:        2 * time.Second,
	}
}

// Manager executes queries against per-store databases with scoped
// connections, bounded retry and typed failure classification. Connections
// are never shared across operations; every attempt dials fresh.
type Manager struct {
	dialer Dialer
	cfg    Config
	logger *slog.Logger
	sleep  func(time.Duration)
}

func NewManager(dialer Dialer, cfg Config, logger *slog.Logger) *Manager {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Manager{dialer: dialer, cfg: cfg, logger: logger, sleep: time.Sleep}
}

// WithSession runs fn inside a scoped connection to the store. The session
// is closed on every exit path. Errors are returned classified.
func (m *Manager) WithSession(ctx context.Context, storeCode string, fn func(Session) error) error {
	endpoint := store.ResolveDatabaseEndpoint(storeCode)

	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.ConnectTimeout)
	defer cancel()

	start := time.Now()
	sess, err := m.dialer.Dial(dialCtx, endpoint)
	if err != nil {
		se := Classify(storeCode, err)
		m.logger.Error("store connection failed",
			"store", storeCode, "server", endpoint.Server, "kind", se.Kind, "err", err)
		return se
	}
	m.logger.Info("store connected",
		"store", storeCode, "server", endpoint.Server, "elapsed", time.Since(start))

	defer func() {
		if cerr := sess.Close(); cerr != nil {
			m.logger.Warn("store connection close failed", "store", storeCode, "err", cerr)
		} else {
			m.logger.Debug("store connection closed", "store", storeCode)
		}
	}()

	if err := fn(sess); err != nil {
		return Classify(storeCode, err)
	}
	return nil
}

// Ping opens and immediately releases a connection, as a cheap reachability
// probe for a store code supplied by staff.
func (m *Manager) Ping(ctx context.Context, storeCode string) error {
	return m.WithSession(ctx, storeCode, func(Session) error { return nil })
}

// Query runs a read statement with the retry policy and returns all rows.
func (m *Manager) Query(ctx context.Context, storeCode, query string, args ...any) ([]Row, error) {
	rows, _, err := m.execute(ctx, storeCode, QueryRead, query, args...)
	return rows, err
}

// Exec runs a write statement with the retry policy and returns the
// affected-row count. The write is committed before the session is released.
func (m *Manager) Exec(ctx context.Context, storeCode, query string, args ...any) (int64, error) {
	_, affected, err := m.execute(ctx, storeCode, QueryWrite, query, args...)
	return affected, err
}

// execute makes up to MaxRetries+1 attempts, each on a fresh connection,
// sleeping (attempt+1)*BackoffStep after a failed attempt. There is no sleep
// after the final attempt; the last classified error is surfaced. Errors
// marked non-retryable stop the loop immediately.
func (m *Manager) execute(ctx context.Context, storeCode string, kind QueryKind, query string, args ...any) ([]Row, int64, error) {
	var (
		rows     []Row
		affected int64
		lastErr  *StoreError
	)

	for attempt := 0; attempt <= m.cfg.MaxRetries; attempt++ {
		err := m.WithSession(ctx, storeCode, func(sess Session) error {
			qctx, cancel := context.WithTimeout(ctx, m.cfg.QueryTimeout)
			defer cancel()

			started := time.Now()
			var qerr error
			switch kind {
			case QueryRead:
				rows, qerr = sess.Query(qctx, query, args...)
			default:
				affected, qerr = sess.Exec(qctx, query, args...)
			}
			if elapsed := time.Since(started); qerr == nil && elapsed > m.cfg.SlowQueryThreshold {
				m.logger.Warn("slow query", "store", storeCode, "elapsed", elapsed)
			}
			return qerr
		})
		if err == nil {
			return rows, affected, nil
		}

		lastErr = Classify(storeCode, err)
		if !lastErr.Retryable() || attempt == m.cfg.MaxRetries {
			break
		}
		wait := time.Duration(attempt+1) * m.cfg.BackoffStep
		m.logger.Warn("retrying store query",
			"store", storeCode, "attempt", attempt+1, "wait", wait, "kind", lastErr.Kind)
		m.sleep(wait)
	}

	m.logger.Error("store query failed",
		"store", storeCode, "attempts", m.cfg.MaxRetries+1, "kind", lastErr.Kind, "err", lastErr.Err)
	return nil, 0, lastErr
}
