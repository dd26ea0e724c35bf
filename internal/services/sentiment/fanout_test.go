package sentiment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"SentiCast/internal/domain/models"
	xhttp "SentiCast/pkg/http"
	applogger "SentiCast/pkg/logger"
)

type stubReply struct {
	status int
	body   string
	delay  time.Duration
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// stubTransport answers by request host and honors the request context
// while delaying.
func stubTransport(replies map[string]stubReply) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		rep, ok := replies[r.URL.Host]
		if !ok {
			return nil, io.ErrUnexpectedEOF
		}
		if rep.delay > 0 {
			select {
			case <-time.After(rep.delay):
			case <-r.Context().Done():
				return nil, r.Context().Err()
			}
		}
		return &http.Response{
			StatusCode: rep.status,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(rep.body)),
			Request:    r,
		}, nil
	})
}

func endpoint(name string, conf bool) models.SentimentEndpoint {
	return models.SentimentEndpoint{Name: name, URL: "http://" + name + ".test/", SupportsConfidence: conf}
}

func newStubFanOut(eps []models.SentimentEndpoint, replies map[string]stubReply, timeout time.Duration) *FanOut {
	return NewFanOut(eps, applogger.Nop(),
		WithTimeout(timeout),
		WithClientOptions(xhttp.WithTransport(stubTransport(replies))),
	)
}

func TestClassifyMajorityIgnoresFailures(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	eps := []models.SentimentEndpoint{endpoint("a", false), endpoint("b", false), endpoint("c", false)}
	f := newStubFanOut(eps, map[string]stubReply{
		"a.test": {status: 200, body: `{"sentiment":"positive"}`},
		"b.test": {status: 500, body: `boom`},
		"c.test": {status: 200, body: `{"sentiment":"Positive"}`},
	}, time.Second)

	got := f.Classify(context.Background(), "Stocks rallied")

	require.Len(t, got.Results, 3)
	assert.Equal(t, "Positive", got.Overall)
	assert.Equal(t, models.LabelPositive.Tone(), got.OverallTone)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got.Results[0].Model, got.Results[1].Model, got.Results[2].Model})

	assert.Equal(t, "Positive", got.Results[0].Sentiment)
	assert.True(t, got.Results[1].Failed())
	assert.Equal(t, models.FailedSentiment, got.Results[1].Sentiment)
	assert.Equal(t, "API call failed: HTTP error! status: 500", got.Results[1].Note)
	assert.False(t, got.AllSucceeded())
}

func TestClassifyAllFailed(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	eps := []models.SentimentEndpoint{endpoint("a", true), endpoint("b", false)}
	f := newStubFanOut(eps, map[string]stubReply{
		"a.test": {status: 503},
		"b.test": {status: 200, body: `not json`},
	}, time.Second)

	got := f.Classify(context.Background(), "text")

	assert.Equal(t, models.UnknownSentiment, got.Overall)
	for _, r := range got.Results {
		assert.Equal(t, models.FailedSentiment, r.Sentiment)
		assert.Equal(t, models.LabelFailed, r.Label)
		assert.True(t, strings.HasPrefix(r.Note, "API call failed: "), r.Note)
		assert.Empty(t, r.Confidence)
	}
}

func TestClassifyKeepsDeclarationOrder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	eps := []models.SentimentEndpoint{endpoint("slow", false), endpoint("mid", false), endpoint("fast", false)}
	f := newStubFanOut(eps, map[string]stubReply{
		"slow.test": {status: 200, body: `{"sentiment":"negative"}`, delay: 80 * time.Millisecond},
		"mid.test":  {status: 200, body: `{"sentiment":"neutral"}`, delay: 40 * time.Millisecond},
		"fast.test": {status: 200, body: `{"sentiment":"positive"}`},
	}, time.Second)

	got := f.Classify(context.Background(), "text")

	require.Len(t, got.Results, 3)
	assert.Equal(t, "Negative", got.Results[0].Sentiment)
	assert.Equal(t, "Neutral", got.Results[1].Sentiment)
	assert.Equal(t, "Positive", got.Results[2].Sentiment)
	// three-way tie goes to the first declared endpoint
	assert.Equal(t, "Negative", got.Overall)
}

func TestClassifyTimeoutIsEndpointFailure(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	eps := []models.SentimentEndpoint{endpoint("hang", false), endpoint("ok", false)}
	f := newStubFanOut(eps, map[string]stubReply{
		"hang.test": {status: 200, body: `{"sentiment":"negative"}`, delay: 5 * time.Second},
		"ok.test":   {status: 200, body: `{"sentiment":"neutral"}`},
	}, 50*time.Millisecond)

	start := time.Now()
	got := f.Classify(context.Background(), "text")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, got.Results[0].Failed())
	assert.Equal(t, "Neutral", got.Results[1].Sentiment)
	assert.Equal(t, "Neutral", got.Overall)
}

func TestClassifyConfidence(t *testing.T) {
	eps := []models.SentimentEndpoint{
		endpoint("lr", true),
		endpoint("llm", false),
		endpoint("odd", true),
		endpoint("zero", true),
		endpoint("range", true),
	}
	f := newStubFanOut(eps, map[string]stubReply{
		"lr.test":    {status: 200, body: `{"sentiment":"positive","confidence":0.873}`},
		"llm.test":   {status: 200, body: `{"sentiment":"positive","confidence":0.9}`},
		"odd.test":   {status: 200, body: `{"sentiment":"positive","confidence":"high"}`},
		"zero.test":  {status: 200, body: `{"sentiment":"neutral","confidence":0}`},
		"range.test": {status: 200, body: `{"sentiment":"neutral","confidence":3.5}`},
	}, time.Second)

	got := f.Classify(context.Background(), "text")

	assert.Equal(t, "87%", got.Results[0].Confidence)
	assert.Empty(t, got.Results[1].Confidence)
	assert.Empty(t, got.Results[2].Confidence)
	assert.False(t, got.Results[2].Failed())
	assert.Equal(t, "0%", got.Results[3].Confidence)
	assert.Empty(t, got.Results[4].Confidence)
}

func TestClassifyMissingSentiment(t *testing.T) {
	eps := []models.SentimentEndpoint{endpoint("none", false), endpoint("blank", false), endpoint("num", false)}
	f := newStubFanOut(eps, map[string]stubReply{
		"none.test":  {status: 200, body: `{"label":"positive"}`},
		"blank.test": {status: 200, body: `{"sentiment":"   "}`},
		"num.test":   {status: 200, body: `{"sentiment":1}`},
	}, time.Second)

	got := f.Classify(context.Background(), "text")

	for _, r := range got.Results {
		assert.True(t, r.Failed(), r.Model)
	}
	assert.Equal(t, models.UnknownSentiment, got.Overall)
}

func TestClassifyOverHTTP(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sentiment":"negative","confidence":0.51}`))
	}))
	defer srv.Close()

	f := NewFanOut([]models.SentimentEndpoint{{Name: "FinBERT", URL: srv.URL, SupportsConfidence: true}}, applogger.Nop())
	got := f.Classify(context.Background(), "Shares slumped")

	assert.JSONEq(t, `{"text":"Shares slumped"}`, gotBody)
	require.Len(t, got.Results, 1)
	assert.Equal(t, "Negative", got.Results[0].Sentiment)
	assert.Equal(t, "51%", got.Results[0].Confidence)
	assert.Equal(t, "Negative", got.Overall)
}
