package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// RawObservation is one input row: a run, a calendar date and two values.
// A NaN value is a cell the source left empty.
type RawObservation struct {
	RunID     string  `json:"run_id"`
	Date      string  `json:"date"`
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
}

// RunConfig is a decoded run identifier. Two configs are the same run iff
// every field is equal, so plain == comparison applies.
type RunConfig struct {
	UseSentiment bool   `json:"use_sentiment"`
	WindowSize   string `json:"window_size"`
	Scaler       string `json:"scaler"`
	LossFn       string `json:"loss_fn"`
	BatchSize    string `json:"batch_size"`
	Epochs       string `json:"epochs"`
	ModelName    string `json:"model_name"`
}

// Selection returns the five hyperparameter fields of c.
func (c RunConfig) Selection() Selection {
	return Selection{
		WindowSize: c.WindowSize,
		Scaler:     c.Scaler,
		LossFn:     c.LossFn,
		BatchSize:  c.BatchSize,
		Epochs:     c.Epochs,
	}
}

// SameRunAs reports whether c and o describe the same experiment,
// ignoring the sentiment flag.
func (c RunConfig) SameRunAs(o RunConfig) bool {
	return c.ModelName == o.ModelName && c.Selection() == o.Selection()
}

// Selection field names, shared by query params and Selections.Set.
const (
	FieldWindowSize = "window_size"
	FieldScaler     = "scaler"
	FieldLossFn     = "loss_fn"
	FieldBatchSize  = "batch_size"
	FieldEpochs     = "epochs"
)

// SelectionFields lists the hyperparameter dimensions in display order.
var SelectionFields = []string{FieldWindowSize, FieldScaler, FieldLossFn, FieldBatchSize, FieldEpochs}

// Selection is a user's desired hyperparameters for one model. Empty
// fields are unset.
type Selection struct {
	WindowSize string `json:"window_size" query:"window_size"`
	Scaler     string `json:"scaler" query:"scaler"`
	LossFn     string `json:"loss_fn" query:"loss_fn"`
	BatchSize  string `json:"batch_size" query:"batch_size"`
	Epochs     string `json:"epochs" query:"epochs"`
}

// Get returns the value of a named field.
func (s Selection) Get(field string) (string, error) {
	switch field {
	case FieldWindowSize:
		return s.WindowSize, nil
	case FieldScaler:
		return s.Scaler, nil
	case FieldLossFn:
		return s.LossFn, nil
	case FieldBatchSize:
		return s.BatchSize, nil
	case FieldEpochs:
		return s.Epochs, nil
	default:
		return "", fmt.Errorf("unknown selection field %q", field)
	}
}

// With returns a copy of s with one field replaced.
func (s Selection) With(field, value string) (Selection, error) {
	switch field {
	case FieldWindowSize:
		s.WindowSize = value
	case FieldScaler:
		s.Scaler = value
	case FieldLossFn:
		s.LossFn = value
	case FieldBatchSize:
		s.BatchSize = value
	case FieldEpochs:
		s.Epochs = value
	default:
		return s, fmt.Errorf("unknown selection field %q", field)
	}
	return s, nil
}

// Merge returns s with every unset field taken from base.
func (s Selection) Merge(base Selection) Selection {
	for _, f := range SelectionFields {
		if v, _ := s.Get(f); v == "" {
			bv, _ := base.Get(f)
			s, _ = s.With(f, bv)
		}
	}
	return s
}

// ModelCatalogEntry indexes the runs of one model.
type ModelCatalogEntry struct {
	ModelName  string      `json:"model_name"`
	WindowSize []string    `json:"window_size"`
	Scaler     []string    `json:"scaler"`
	LossFn     []string    `json:"loss_fn"`
	BatchSize  []string    `json:"batch_size"`
	Epochs     []string    `json:"epochs"`
	Configs    []RunConfig `json:"configs"`
}

// Values returns the observed values for a named dimension.
func (e *ModelCatalogEntry) Values(field string) []string {
	switch field {
	case FieldWindowSize:
		return e.WindowSize
	case FieldScaler:
		return e.Scaler
	case FieldLossFn:
		return e.LossFn
	case FieldBatchSize:
		return e.BatchSize
	case FieldEpochs:
		return e.Epochs
	default:
		return nil
	}
}

// SentimentFilter selects which sentiment variants an alignment includes.
type SentimentFilter string

const (
	IncludeWith    SentimentFilter = "with"
	IncludeWithout SentimentFilter = "without"
	IncludeBoth    SentimentFilter = "both"
)

// Includes reports whether the variant with the given flag is requested.
func (f SentimentFilter) Includes(useSentiment bool) bool {
	switch f {
	case IncludeWith:
		return useSentiment
	case IncludeWithout:
		return !useSentiment
	default:
		return true
	}
}

// Series labels, as rendered by the chart.
const (
	SeriesActual           = "Test Actual"
	SeriesWithSentiment    = "Test Predicted (with sentiment)"
	SeriesWithoutSentiment = "Test Predicted (no sentiment)"
)

// Point is one aligned value. Valid=false is the missing marker and
// encodes as JSON null, never as zero.
type Point struct {
	Value float64
	Valid bool
}

// Missing is the missing marker.
var Missing = Point{}

// Value wraps a present observation.
func Value(v float64) Point { return Point{Value: v, Valid: true} }

// Observed is Value for finite v and Missing for NaN or infinities.
func Observed(v float64) Point {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing
	}
	return Value(v)
}

// MarshalJSON encodes the missing marker as null.
func (p Point) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON decodes null as the missing marker.
func (p *Point) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Value(v)
	return nil
}

// Series is one labelled dataset aligned to AlignedSeries.Dates.
type Series struct {
	Label  string  `json:"label"`
	Values []Point `json:"data"`
}

// AlignedSeries is chart-ready output: ascending unique dates and series
// aligned index-for-index with them.
type AlignedSeries struct {
	Dates  []string `json:"labels"`
	Series []Series `json:"datasets"`
}

// Lookup returns the series with the given label.
func (a AlignedSeries) Lookup(label string) (Series, bool) {
	for _, s := range a.Series {
		if s.Label == label {
			return s, true
		}
	}
	return Series{}, false
}
