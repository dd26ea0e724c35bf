package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"SentiCast/internal/domain/models"
	domrepo "SentiCast/internal/domain/repository"
	pkgch "SentiCast/pkg/clickhouse"
	applogger "SentiCast/pkg/logger"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ClickHouseSource reads and writes observations in a ClickHouse table.
type ClickHouseSource struct {
	ch    *pkgch.Client
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewClickHouseSource validates table as a (database.)table identifier.
func NewClickHouseSource(ch *pkgch.Client, table string, l *applogger.Logger) (*ClickHouseSource, error) {
	if !identRe.MatchString(table) {
		return nil, fmt.Errorf("invalid clickhouse table name %q", table)
	}
	return &ClickHouseSource{ch: ch, db: ch.DB(), table: table, l: l}, nil
}

func (s *ClickHouseSource) Name() string { return "clickhouse:" + s.table }

// SchemaStatements returns the DDL for the observation table.
func SchemaStatements(table string) []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            run_id    String,
            date      Date,
            actual    Float64,
            predicted Float64
        )
        ENGINE = ReplacingMergeTree
        ORDER BY (run_id, date)
    `, table)}
}

// Init creates the table when missing.
func (s *ClickHouseSource) Init(ctx context.Context) error {
	if err := s.ch.InitSchema(ctx, SchemaStatements(s.table)); err != nil {
		return fmt.Errorf("init %s: %w", s.table, err)
	}
	return nil
}

// Fingerprint combines row count and the latest date.
func (s *ClickHouseSource) Fingerprint(ctx context.Context) (string, error) {
	q := fmt.Sprintf("SELECT count(), toString(max(date)) FROM %s", s.table)
	var (
		n    uint64
		last string
	)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n, &last); err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", s.table, err)
	}
	return fmt.Sprintf("%d-%s", n, last), nil
}

func (s *ClickHouseSource) Load(ctx context.Context) ([]models.RawObservation, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT run_id, toString(date), actual, predicted
        FROM %s
        ORDER BY run_id ASC, date ASC
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		s.l.Error("clickhouse load query error",
			applogger.String("table", s.table),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("load observations: %w", err)
	}
	defer rows.Close()

	out := make([]models.RawObservation, 0, 1024)
	for rows.Next() {
		var o models.RawObservation
		if err := rows.Scan(&o.RunID, &o.Date, &o.Actual, &o.Predicted); err != nil {
			s.l.Error("clickhouse load scan error",
				applogger.String("table", s.table),
				applogger.Error(err),
			)
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	s.l.Info("clickhouse load ok",
		applogger.String("table", s.table),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// StoreBatch inserts rows in multi-row VALUES chunks.
func (s *ClickHouseSource) StoreBatch(ctx context.Context, rows []models.RawObservation) error {
	const chunkSize = 2000
	for start := 0; start < len(rows); start += chunkSize {
		end := min(start+chunkSize, len(rows))

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*4)
		for _, o := range rows[start:end] {
			if o.RunID == "" || o.Date == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?)")
			args = append(args, o.RunID, o.Date, o.Actual, o.Predicted)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (run_id, date, actual, predicted) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert observations [%d:%d]: %w", start, end, err)
		}
	}
	return nil
}

var (
	_ domrepo.ObservationSource = (*ClickHouseSource)(nil)
	_ domrepo.ObservationStore  = (*ClickHouseSource)(nil)
)
