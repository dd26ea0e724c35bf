package forecast

import (
	"errors"
	"fmt"
	"strings"

	"SentiCast/internal/domain/models"
)

const (
	// DefaultModelName applies when a run identifier has no model suffix.
	DefaultModelName = "lstm"

	baselineMarker = "baseline"
	positional     = 5
)

// ErrMalformedRunID reports an identifier with too few positional tokens.
var ErrMalformedRunID = errors.New("malformed run id")

var positionalPrefixes = [positional]string{"ws", "scaler", "loss", "bs", "ep"}

// DecodeRunID parses
//
//	["baseline_"] "ws"<int> "_scaler"<name> "_loss"<name> "_bs"<int> "_ep"<int> ["_"<model_name>]
//
// into a RunConfig.
func DecodeRunID(id string) (models.RunConfig, error) {
	parts := strings.Split(id, "_")

	cfg := models.RunConfig{UseSentiment: true}
	idx := 0
	if parts[0] == baselineMarker {
		cfg.UseSentiment = false
		idx = 1
	}
	if len(parts)-idx < positional {
		return models.RunConfig{}, fmt.Errorf("%w: %q has %d of %d positional tokens", ErrMalformedRunID, id, len(parts)-idx, positional)
	}

	var vals [positional]string
	for i, prefix := range positionalPrefixes {
		vals[i] = strings.TrimPrefix(parts[idx+i], prefix)
	}
	cfg.WindowSize = vals[0]
	cfg.Scaler = vals[1]
	cfg.LossFn = vals[2]
	cfg.BatchSize = vals[3]
	cfg.Epochs = vals[4]

	cfg.ModelName = strings.Join(parts[idx+positional:], "_")
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModelName
	}
	return cfg, nil
}

// EncodeRunID is the inverse of DecodeRunID. The model suffix is omitted
// for the default model.
func EncodeRunID(cfg models.RunConfig) string {
	var b strings.Builder
	if !cfg.UseSentiment {
		b.WriteString(baselineMarker)
		b.WriteByte('_')
	}
	vals := [positional]string{cfg.WindowSize, cfg.Scaler, cfg.LossFn, cfg.BatchSize, cfg.Epochs}
	for i, prefix := range positionalPrefixes {
		if i > 0 {
			b.WriteByte('_')
		}
		b.WriteString(prefix)
		b.WriteString(vals[i])
	}
	if cfg.ModelName != "" && cfg.ModelName != DefaultModelName {
		b.WriteByte('_')
		b.WriteString(cfg.ModelName)
	}
	return b.String()
}
