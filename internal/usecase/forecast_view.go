package usecase

import (
	"errors"
	"fmt"

	"SentiCast/internal/domain/models"
	domrepo "SentiCast/internal/domain/repository"
	"SentiCast/internal/services/forecast"
	applogger "SentiCast/pkg/logger"
)

// ErrUnknownModel is returned for a model absent from the catalog.
var ErrUnknownModel = errors.New("unknown model")

// ModelSummary describes one model's selectable dimensions.
type ModelSummary struct {
	Name       string           `json:"name"`
	Label      string           `json:"label"`
	Runs       int              `json:"runs"`
	WindowSize []string         `json:"window_size"`
	Scaler     []string         `json:"scaler"`
	LossFn     []string         `json:"loss_fn"`
	BatchSize  []string         `json:"batch_size"`
	Epochs     []string         `json:"epochs"`
	Defaults   models.Selection `json:"defaults"`
}

// ForecastView is a resolved chart for one model.
type ForecastView struct {
	Model     string                 `json:"model"`
	Label     string                 `json:"label"`
	Requested models.Selection       `json:"requested"`
	Resolved  models.Selection       `json:"resolved"`
	Fallback  bool                   `json:"fallback"`
	Sentiment models.SentimentFilter `json:"sentiment"`
	Chart     models.AlignedSeries   `json:"chart"`
}

type ForecastViewUseCase struct {
	catalog *CatalogService
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewForecastViewUseCase(catalog *CatalogService, metrics domrepo.Metrics, l *applogger.Logger) *ForecastViewUseCase {
	return &ForecastViewUseCase{catalog: catalog, metrics: metrics, l: l}
}

// Models lists catalog models in first-seen order.
func (uc *ForecastViewUseCase) Models() ([]ModelSummary, error) {
	snap, err := uc.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	names := snap.Catalog.Models()
	out := make([]ModelSummary, 0, len(names))
	for _, name := range names {
		e, _ := snap.Catalog.Entry(name)
		out = append(out, ModelSummary{
			Name:       name,
			Label:      forecast.ModelLabel(name),
			Runs:       len(e.Configs),
			WindowSize: e.WindowSize,
			Scaler:     e.Scaler,
			LossFn:     e.LossFn,
			BatchSize:  e.BatchSize,
			Epochs:     e.Epochs,
			Defaults:   forecast.DefaultSelection(e),
		})
	}
	return out, nil
}

// Series resolves partial against the model's defaults and aligns the
// matching runs.
func (uc *ForecastViewUseCase) Series(model string, partial models.Selection, include models.SentimentFilter) (*ForecastView, error) {
	snap, err := uc.catalog.Snapshot()
	if err != nil {
		return nil, err
	}
	entry, ok := snap.Catalog.Entry(model)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	if include == "" {
		include = models.IncludeBoth
	}

	requested := partial.Merge(forecast.DefaultSelection(entry))
	res, err := forecast.Resolve(entry.Configs, requested, model)
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordResolve(model, res.Fallback)
	if res.Fallback {
		uc.l.Debug("selection fell back to first run",
			applogger.String("model", model),
			applogger.Any("requested", requested),
			applogger.String("resolved", forecast.EncodeRunID(res.Config)),
		)
	}

	return &ForecastView{
		Model:     model,
		Label:     forecast.ModelLabel(model),
		Requested: requested,
		Resolved:  res.Config.Selection(),
		Fallback:  res.Fallback,
		Sentiment: include,
		Chart:     forecast.Align(snap.Catalog.Rows(), res.Config, include),
	}, nil
}
