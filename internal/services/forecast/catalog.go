package forecast

import (
	"SentiCast/internal/domain/models"
	applogger "SentiCast/pkg/logger"
)

// Catalog groups decoded runs by model. It is immutable once built;
// rebuild by calling BuildCatalog again with the full row set.
type Catalog struct {
	rows    []models.RawObservation
	entries map[string]*models.ModelCatalogEntry
	order   []string
	runs    int
	skipped int
}

// BuildCatalog decodes every row's run id and indexes the result per model.
// Rows whose identifier does not decode are skipped and counted.
func BuildCatalog(rows []models.RawObservation, l *applogger.Logger) *Catalog {
	c := &Catalog{
		rows:    rows,
		entries: make(map[string]*models.ModelCatalogEntry),
	}

	seenRuns := make(map[models.RunConfig]struct{})
	seenValues := make(map[string]map[string]struct{})
	badIDs := make(map[string]struct{})

	for _, row := range rows {
		cfg, err := DecodeRunID(row.RunID)
		if err != nil {
			c.skipped++
			if _, logged := badIDs[row.RunID]; !logged {
				badIDs[row.RunID] = struct{}{}
				l.Warn("catalog skipped row", applogger.String("run_id", row.RunID), applogger.Error(err))
			}
			continue
		}

		entry, ok := c.entries[cfg.ModelName]
		if !ok {
			entry = &models.ModelCatalogEntry{ModelName: cfg.ModelName}
			c.entries[cfg.ModelName] = entry
			c.order = append(c.order, cfg.ModelName)
		}

		if _, dup := seenRuns[cfg]; dup {
			continue
		}
		seenRuns[cfg] = struct{}{}
		entry.Configs = append(entry.Configs, cfg)

		addValue(seenValues, cfg.ModelName, models.FieldWindowSize, cfg.WindowSize, &entry.WindowSize)
		addValue(seenValues, cfg.ModelName, models.FieldScaler, cfg.Scaler, &entry.Scaler)
		addValue(seenValues, cfg.ModelName, models.FieldLossFn, cfg.LossFn, &entry.LossFn)
		addValue(seenValues, cfg.ModelName, models.FieldBatchSize, cfg.BatchSize, &entry.BatchSize)
		addValue(seenValues, cfg.ModelName, models.FieldEpochs, cfg.Epochs, &entry.Epochs)
	}
	c.runs = len(seenRuns)

	l.Info("catalog built",
		applogger.Int("rows", len(rows)),
		applogger.Int("models", len(c.order)),
		applogger.Int("runs", c.runs),
		applogger.Int("skipped", c.skipped),
	)
	return c
}

func addValue(seen map[string]map[string]struct{}, model, field, value string, dst *[]string) {
	key := model + "\x00" + field
	set, ok := seen[key]
	if !ok {
		set = make(map[string]struct{})
		seen[key] = set
	}
	if _, dup := set[value]; dup {
		return
	}
	set[value] = struct{}{}
	*dst = append(*dst, value)
}

// Models returns model names in first-seen order.
func (c *Catalog) Models() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entry returns the index for one model.
func (c *Catalog) Entry(model string) (*models.ModelCatalogEntry, bool) {
	e, ok := c.entries[model]
	return e, ok
}

// Rows returns the observations the catalog was built from. Callers must
// not modify the slice.
func (c *Catalog) Rows() []models.RawObservation { return c.rows }

// Runs is the number of distinct decoded run configs.
func (c *Catalog) Runs() int { return c.runs }

// Skipped is the number of rows whose run id failed to decode.
func (c *Catalog) Skipped() int { return c.skipped }

var modelLabels = map[string]string{
	"lstm":             "LSTM",
	"stacked_lstm":     "Stacked LSTM",
	"gru":              "GRU",
	"lstm_gru":         "LSTM+GRU",
	"transformer":      "Transformer",
	"cnn_lstm":         "CNN+LSTM",
	"bi_lstm":          "BiLSTM",
	"bilstm_attention": "BiLSTM+Attention",
	"lstm_attention":   "LSTM+Attention",
}

// ModelLabel returns the display name for a model.
func ModelLabel(model string) string {
	if label, ok := modelLabels[model]; ok {
		return label
	}
	return model
}
