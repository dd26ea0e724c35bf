package forecast

import (
	"errors"
	"fmt"

	"SentiCast/internal/domain/models"
)

// ErrNoRuns is returned when a model has no configs to resolve against.
var ErrNoRuns = errors.New("no runs for model")

// Resolution is the concrete run chosen for a selection. Fallback is set
// when no config matched and the first catalog entry was used instead.
type Resolution struct {
	Config   models.RunConfig `json:"config"`
	Fallback bool             `json:"fallback"`
}

// Resolve finds the first config in catalog order whose five
// hyperparameters equal desired. Without a match it falls back to
// configs[0]; the fallback is reported, not returned as an error.
func Resolve(configs []models.RunConfig, desired models.Selection, model string) (Resolution, error) {
	if len(configs) == 0 {
		return Resolution{}, fmt.Errorf("%w: %s", ErrNoRuns, model)
	}
	for _, c := range configs {
		if c.Selection() == desired {
			return Resolution{Config: c}, nil
		}
	}
	return Resolution{Config: configs[0], Fallback: true}, nil
}

var canonicalSelection = models.Selection{
	WindowSize: "20",
	Scaler:     "RobustScaler",
	LossFn:     "mse",
	BatchSize:  "32",
	Epochs:     "200",
}

// DefaultSelection picks the canonical value of each dimension when the
// model has it, else the first available value. Dimensions are chosen
// independently, so the result need not name an existing run.
func DefaultSelection(entry *models.ModelCatalogEntry) models.Selection {
	var sel models.Selection
	for _, field := range models.SelectionFields {
		want, _ := canonicalSelection.Get(field)
		sel, _ = sel.With(field, pickDefault(entry.Values(field), want))
	}
	return sel
}

func pickDefault(available []string, canonical string) string {
	for _, v := range available {
		if v == canonical {
			return v
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return ""
}

// Selections holds per-model selections owned by the caller. It is not
// safe for concurrent mutation.
type Selections map[string]models.Selection

// InitDefaults seeds a selection for every catalog model that has none.
func (s Selections) InitDefaults(c *Catalog) {
	for _, model := range c.Models() {
		if _, ok := s[model]; ok {
			continue
		}
		entry, _ := c.Entry(model)
		s[model] = DefaultSelection(entry)
	}
}

// Set changes one field of one model's selection.
func (s Selections) Set(model, field, value string) error {
	next, err := s[model].With(field, value)
	if err != nil {
		return err
	}
	s[model] = next
	return nil
}
