package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	xhttp "SentiCast/pkg/http"
)

const defaultCallTimeout = 10 * time.Second

// endpointClient posts text to a classifier and decodes its reply.
type endpointClient struct {
	client  *xhttp.Client
	timeout time.Duration
}

func newEndpointClient(timeout time.Duration, opts ...xhttp.ClientOption) *endpointClient {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout)}, opts...)
	return &endpointClient{
		client:  xhttp.NewClient(opts...),
		timeout: timeout,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

// classifyResponse keeps confidence raw: a non-numeric value means
// "no confidence", not a failed call.
type classifyResponse struct {
	Sentiment  *string         `json:"sentiment"`
	Confidence json.RawMessage `json:"confidence"`
}

var errMissingSentiment = errors.New("response has no sentiment")

// PostJSON posts payload to url and decodes JSON into dest.
func (c *endpointClient) PostJSON(ctx context.Context, url string, payload interface{}, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("sentiment http client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	return c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    url,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
}

// call returns the raw sentiment text and, when present and numeric, the
// confidence.
func (c *endpointClient) call(ctx context.Context, url, text string) (string, *float64, error) {
	var resp classifyResponse
	if err := c.PostJSON(ctx, url, classifyRequest{Text: text}, &resp); err != nil {
		return "", nil, err
	}
	if resp.Sentiment == nil {
		return "", nil, errMissingSentiment
	}

	var conf *float64
	if len(resp.Confidence) > 0 {
		var f float64
		if err := json.Unmarshal(resp.Confidence, &f); err == nil {
			conf = &f
		}
	}
	return *resp.Sentiment, conf, nil
}
