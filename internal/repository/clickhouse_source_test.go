package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgch "SentiCast/pkg/clickhouse"
	applogger "SentiCast/pkg/logger"
)

type ddlRecorder struct {
	mu    sync.Mutex
	stmts []string
	fail  bool
}

func (r *ddlRecorder) Open(string) (driver.Conn, error) { return &ddlConn{r: r}, nil }

type ddlConn struct{ r *ddlRecorder }

func (c *ddlConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *ddlConn) Close() error              { return nil }
func (c *ddlConn) Begin() (driver.Tx, error) { return nil, errors.New("tx not supported") }

func (c *ddlConn) ExecContext(_ context.Context, q string, _ []driver.NamedValue) (driver.Result, error) {
	c.r.mu.Lock()
	defer c.r.mu.Unlock()
	if c.r.fail {
		return nil, errors.New("table is read-only")
	}
	c.r.stmts = append(c.r.stmts, q)
	return driver.RowsAffected(0), nil
}

var ddl = &ddlRecorder{}

func init() { sql.Register("ch-ddl", ddl) }

func TestClickHouseSourceInitCreatesTable(t *testing.T) {
	db, err := sql.Open("ch-ddl", "")
	require.NoError(t, err)
	defer db.Close()

	src, err := NewClickHouseSource(pkgch.FromDB(db), "senticast.preds", applogger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "clickhouse:senticast.preds", src.Name())

	require.NoError(t, src.Init(context.Background()))
	assert.Equal(t, SchemaStatements("senticast.preds"), ddl.stmts)

	ddl.fail = true
	defer func() { ddl.fail = false }()
	err = src.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init senticast.preds")
	assert.Contains(t, err.Error(), "table is read-only")
}
