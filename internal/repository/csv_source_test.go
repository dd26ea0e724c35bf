package repository

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiCast/internal/domain/models"
	applogger "SentiCast/pkg/logger"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "preds.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestParseObservations(t *testing.T) {
	in := strings.Join([]string{
		" Predicted , DATE,run_id,Actual,notes",
		"1.5,2024-01-02 00:00:00,ws20_scalerRobustScaler_lossmse_bs32_ep200,1.0,first",
		"",
		"2.5,2024-01-03T00:00:00Z,ws20_scalerRobustScaler_lossmse_bs32_ep200,2.0,",
		"oops,2024-01-04,ws20_scalerRobustScaler_lossmse_bs32_ep200,3.0,",
		",,,,",
		"4.5,2024-01-05,baseline_ws20_scalerRobustScaler_lossmse_bs32_ep200,4.0",
		"5.5,2024-01-06",
	}, "\n")

	rows, skipped, err := ParseObservations(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 2, skipped)
	assert.Equal(t, []models.RawObservation{
		{RunID: "ws20_scalerRobustScaler_lossmse_bs32_ep200", Date: "2024-01-02", Actual: 1.0, Predicted: 1.5},
		{RunID: "ws20_scalerRobustScaler_lossmse_bs32_ep200", Date: "2024-01-03", Actual: 2.0, Predicted: 2.5},
		{RunID: "baseline_ws20_scalerRobustScaler_lossmse_bs32_ep200", Date: "2024-01-05", Actual: 4.0, Predicted: 4.5},
	}, rows)
}

func TestParseObservationsEmptyAndNonFiniteCells(t *testing.T) {
	in := strings.Join([]string{
		"run_id,date,actual,predicted",
		"ws20_scalerRobustScaler_lossmse_bs32_ep200,2024-1-2,1.5,",
		"ws20_scalerRobustScaler_lossmse_bs32_ep200,2024-01-03,1.5,NaN",
		"ws20_scalerRobustScaler_lossmse_bs32_ep200,2024-01-04,,",
	}, "\n")

	rows, skipped, err := ParseObservations(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)

	assert.Equal(t, "2024-01-02", rows[0].Date)
	assert.Equal(t, 1.5, rows[0].Actual)
	assert.True(t, math.IsNaN(rows[0].Predicted))
	assert.True(t, math.IsNaN(rows[1].Predicted))
}

func TestParseObservationsMissingColumn(t *testing.T) {
	_, _, err := ParseObservations(context.Background(), strings.NewReader("run_id,date,actual\nx,2024-01-01,1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), "predicted")

	_, _, err = ParseObservations(context.Background(), strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestParseObservationsHeaderOnly(t *testing.T) {
	rows, skipped, err := ParseObservations(context.Background(), strings.NewReader("\ufeffrun_id,date,actual,predicted\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, skipped)
}

func TestCSVSourceLoadAndFingerprint(t *testing.T) {
	p := writeCSV(t, "run_id,date,actual,predicted\nws20_scalerRobustScaler_lossmse_bs32_ep200,2024-01-02,1,2\n")
	src := NewCSVSource(p, applogger.Nop())

	rows, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "csv:"+p, src.Name())

	fp1, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	fp2, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fp1, fp2)

	require.NoError(t, os.WriteFile(p, []byte("run_id,date,actual,predicted\n"), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(p, later, later))
	fp3, err := src.Fingerprint(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, fp1, fp3)
}

func TestCSVSourceMissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"), applogger.Nop())
	_, err := src.Load(context.Background())
	assert.Error(t, err)
	_, err = src.Fingerprint(context.Background())
	assert.Error(t, err)
}

func TestNewClickHouseSourceRejectsBadTable(t *testing.T) {
	_, err := NewClickHouseSource(nil, "preds; DROP TABLE x", applogger.Nop())
	assert.Error(t, err)
}

func TestSchemaStatements(t *testing.T) {
	stmts := SchemaStatements("senticast.forecast_predictions")
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS senticast.forecast_predictions")
}
