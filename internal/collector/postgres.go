package collector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/wafreport/wafreport/pkg/config"
)

// PostgresClient handles connections and read-only queries against the
// firewall's PostgreSQL database. The schema belongs to the WAF product;
// this client never writes to it.
type PostgresClient struct {
	conn   *sql.DB
	config *config.Config
	pacer  *QueryPacer
	retry  retryConfig
}

// NewPostgresClient opens and verifies a connection using the configured
// connection string.
func NewPostgresClient(cfg *config.Config) (*PostgresClient, error) {
	conn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// One report run issues a handful of sequential queries; a big pool
	// would only take connections away from the firewall itself.
	conn.SetMaxOpenConns(2)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Debug("connected to WAF database")
	return newPostgresClient(conn, cfg), nil
}

// newPostgresClient wires a client around an existing handle; tests use
// it to inject a mock database.
func newPostgresClient(conn *sql.DB, cfg *config.Config) *PostgresClient {
	return &PostgresClient{
		conn:   conn,
		config: cfg,
		pacer:  NewQueryPacer(cfg.QueryRate),
		retry:  defaultRetryConfig(),
	}
}

// query runs one statement under the query timeout, the pacer and the
// bounded retry policy. The scan callback must be restartable: it is
// invoked once per attempt and starts from fresh rows.
func (c *PostgresClient) query(ctx context.Context, stmt string, args []interface{}, scan func(*sql.Rows) error) error {
	qctx, cancel := withTotalTimeoutContext(ctx, c.config.QueryTimeout)
	defer cancel()

	return executeWithRetry(qctx, c.retry, func() error {
		if err := c.pacer.Wait(qctx); err != nil {
			return err
		}

		rows, err := c.conn.QueryContext(qctx, stmt, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		if err := scan(rows); err != nil {
			return err
		}
		return rows.Err()
	})
}

// Close closes the database connection.
func (c *PostgresClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
