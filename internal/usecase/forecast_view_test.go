package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SentiCast/internal/domain/models"
	applogger "SentiCast/pkg/logger"
)

func newLoadedView(t *testing.T) (*ForecastViewUseCase, *fakeMetrics) {
	t.Helper()
	m := newFakeMetrics()
	svc := NewCatalogService(&fakeSource{rows: datasetRows(), fp: "v1"}, m, applogger.Nop())
	_, err := svc.Reload(context.Background(), false)
	require.NoError(t, err)
	return NewForecastViewUseCase(svc, m, applogger.Nop()), m
}

func TestForecastViewModels(t *testing.T) {
	uc, _ := newLoadedView(t)

	got, err := uc.Models()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "lstm", got[0].Name)
	assert.Equal(t, "LSTM", got[0].Label)
	assert.Equal(t, 3, got[0].Runs)
	assert.Equal(t, []string{"20", "10"}, got[0].WindowSize)
	assert.Equal(t, models.Selection{WindowSize: "20", Scaler: "RobustScaler", LossFn: "mse", BatchSize: "32", Epochs: "200"}, got[0].Defaults)
	assert.Equal(t, "GRU", got[1].Label)
}

func TestForecastViewSeriesDefaults(t *testing.T) {
	uc, m := newLoadedView(t)

	v, err := uc.Series("lstm", models.Selection{}, models.IncludeBoth)
	require.NoError(t, err)

	assert.False(t, v.Fallback)
	assert.Equal(t, v.Requested, v.Resolved)
	want := models.AlignedSeries{
		Dates: []string{"2024-01-02", "2024-01-03", "2024-01-04"},
		Series: []models.Series{
			{Label: models.SeriesActual, Values: []models.Point{models.Value(10), models.Value(12), models.Missing}},
			{Label: models.SeriesWithSentiment, Values: []models.Point{models.Value(11), models.Value(12.5), models.Missing}},
			{Label: models.SeriesWithoutSentiment, Values: []models.Point{models.Missing, models.Value(13), models.Value(14)}},
		},
	}
	if diff := cmp.Diff(want, v.Chart); diff != "" {
		t.Fatalf("chart mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, m.resolves["lstm/false"])
}

func TestForecastViewSeriesPartialSelection(t *testing.T) {
	uc, _ := newLoadedView(t)

	v, err := uc.Series("lstm", models.Selection{WindowSize: "10", Scaler: "MinMaxScaler", LossFn: "mae", BatchSize: "64", Epochs: "100"}, models.IncludeWith)
	require.NoError(t, err)
	assert.False(t, v.Fallback)
	assert.Equal(t, []string{"2024-01-02"}, v.Chart.Dates)
	require.Len(t, v.Chart.Series, 2)
	assert.Equal(t, models.SeriesWithSentiment, v.Chart.Series[1].Label)
}

func TestForecastViewSeriesFallback(t *testing.T) {
	uc, m := newLoadedView(t)

	v, err := uc.Series("lstm", models.Selection{WindowSize: "99"}, models.IncludeWithout)
	require.NoError(t, err)
	assert.True(t, v.Fallback)
	assert.Equal(t, "99", v.Requested.WindowSize)
	assert.Equal(t, "20", v.Resolved.WindowSize)
	assert.Equal(t, 1, m.resolves["lstm/true"])
}

func TestForecastViewErrors(t *testing.T) {
	uc, _ := newLoadedView(t)
	_, err := uc.Series("prophet", models.Selection{}, models.IncludeBoth)
	assert.True(t, errors.Is(err, ErrUnknownModel))

	empty := NewForecastViewUseCase(NewCatalogService(&fakeSource{}, newFakeMetrics(), applogger.Nop()), newFakeMetrics(), applogger.Nop())
	_, err = empty.Models()
	assert.True(t, errors.Is(err, ErrCatalogLoading))
}
