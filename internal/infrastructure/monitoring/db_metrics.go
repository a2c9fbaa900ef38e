package monitoring

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// DBMetricsCollector samples sql.DB pool stats on a ticker until ctx ends.
type DBMetricsCollector struct {
	db       *sql.DB
	lastWait int64
}

func NewDBMetricsCollector(db *sql.DB) *DBMetricsCollector {
	return &DBMetricsCollector{db: db}
}

func (c *DBMetricsCollector) StartCollecting(ctx context.Context, interval time.Duration) {
	c.collectMetrics()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.collectMetrics()
			}
		}
	}()
}

func (c *DBMetricsCollector) collectMetrics() {
	stats := c.db.Stats()

	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))

	// WaitCount is cumulative on the pool; the counter only takes the delta.
	if delta := stats.WaitCount - c.lastWait; delta > 0 {
		DBConnectionWaitsTotal.Add(float64(delta))
	}
	c.lastWait = stats.WaitCount
}

func observeQuery(queryType, table string, start time.Time, err error) {
	DBQueryDuration.WithLabelValues(queryType, table).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		DBQueryErrorsTotal.WithLabelValues(queryType, table).Inc()
	}
}

func InstrumentQuery(ctx context.Context, db *sql.DB, queryType, table, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	observeQuery(queryType, table, start, err)
	return rows, err
}

func InstrumentExec(ctx context.Context, db *sql.DB, queryType, table, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.ExecContext(ctx, query, args...)
	observeQuery(queryType, table, start, err)
	return result, err
}

// InstrumentQueryRow times the round trip only; the row's error surfaces at
// Scan and is not counted.
func InstrumentQueryRow(ctx context.Context, db *sql.DB, queryType, table, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := db.QueryRowContext(ctx, query, args...)
	observeQuery(queryType, table, start, nil)
	return row
}

func InstrumentTxExec(ctx context.Context, tx *sql.Tx, queryType, table, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := tx.ExecContext(ctx, query, args...)
	observeQuery(queryType, table, start, err)
	return result, err
}
