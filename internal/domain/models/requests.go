package models

// Requests for the HTTP API. Defined in domain for consistency and reuse.

type SeriesRequest struct {
	Model     string          `query:"model" json:"model" default:"lstm" validate:"required,max=128"`
	Sentiment SentimentFilter `query:"sentiment" json:"sentiment" default:"both" validate:"oneof=with without both"`
	Selection
}

type ClassifyRequest struct {
	Text string `json:"text" validate:"required,max=5000"`
}
