package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionMerge(t *testing.T) {
	base := Selection{WindowSize: "20", Scaler: "RobustScaler", LossFn: "mse", BatchSize: "32", Epochs: "200"}
	got := Selection{Scaler: "MinMax"}.Merge(base)
	assert.Equal(t, Selection{WindowSize: "20", Scaler: "MinMax", LossFn: "mse", BatchSize: "32", Epochs: "200"}, got)
}

func TestSelectionWithUnknownField(t *testing.T) {
	_, err := Selection{}.With("dropout", "0.1")
	assert.Error(t, err)
	_, err = Selection{}.Get("dropout")
	assert.Error(t, err)
}

func TestPointJSON(t *testing.T) {
	b, err := json.Marshal([]Point{Value(1.5), Missing, Value(0)})
	require.NoError(t, err)
	assert.JSONEq(t, `[1.5, null, 0]`, string(b))

	var back []Point
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []Point{Value(1.5), Missing, Value(0)}, back)
}

func TestSentimentFilterIncludes(t *testing.T) {
	assert.True(t, IncludeWith.Includes(true))
	assert.False(t, IncludeWith.Includes(false))
	assert.True(t, IncludeWithout.Includes(false))
	assert.True(t, IncludeBoth.Includes(true))
	assert.True(t, IncludeBoth.Includes(false))
}

func TestLabelParseAndTone(t *testing.T) {
	for _, l := range []Label{LabelPositive, LabelNegative, LabelNeutral, LabelFailed, LabelUnknown} {
		assert.Equal(t, l, ParseLabel(l.String()))
		assert.NotEmpty(t, l.Tone().Text)
		assert.NotEmpty(t, l.Tone().Badge)
	}
	assert.Equal(t, LabelUnknown, ParseLabel("Bullish"))
	assert.Equal(t, LabelUnknown, ParseLabel("positive"))
}

func TestEndpointResultJSONRoundTrip(t *testing.T) {
	in := EndpointResult{Model: "FinBERT", Sentiment: "Negative", Label: LabelNegative, Tone: LabelNegative.Tone(), Confidence: "91%"}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"label":"Negative"`)

	var out EndpointResult
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
