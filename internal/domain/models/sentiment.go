package models

import "time"

// Label is the closed set of sentiment outcomes the dashboard renders.
type Label int

const (
	LabelUnknown Label = iota
	LabelPositive
	LabelNegative
	LabelNeutral
	LabelFailed
)

// Reserved markers for failed endpoints and an empty consensus.
const (
	FailedSentiment  = "Error"
	UnknownSentiment = "Unknown"
)

func (l Label) String() string {
	switch l {
	case LabelPositive:
		return "Positive"
	case LabelNegative:
		return "Negative"
	case LabelNeutral:
		return "Neutral"
	case LabelFailed:
		return FailedSentiment
	default:
		return UnknownSentiment
	}
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	*l = ParseLabel(string(b))
	return nil
}

// ParseLabel maps normalized sentiment text onto a Label. Text outside the
// known set is Unknown.
func ParseLabel(s string) Label {
	switch s {
	case "Positive":
		return LabelPositive
	case "Negative":
		return LabelNegative
	case "Neutral":
		return LabelNeutral
	case FailedSentiment:
		return LabelFailed
	default:
		return LabelUnknown
	}
}

// Tone holds presentation classes for a label.
type Tone struct {
	Text  string `json:"text"`
	Badge string `json:"badge"`
}

// Tone is total over Label.
func (l Label) Tone() Tone {
	switch l {
	case LabelPositive:
		return Tone{Text: "text-green-600 dark:text-green-400", Badge: "bg-green-50 dark:bg-green-900/20 border-green-200 dark:border-green-800"}
	case LabelNegative:
		return Tone{Text: "text-red-600 dark:text-red-400", Badge: "bg-red-50 dark:bg-red-900/20 border-red-200 dark:border-red-800"}
	case LabelNeutral:
		return Tone{Text: "text-yellow-600 dark:text-yellow-400", Badge: "bg-yellow-50 dark:bg-yellow-900/20 border-yellow-200 dark:border-yellow-800"}
	case LabelFailed:
		return Tone{Text: "text-red-600 dark:text-red-400", Badge: "bg-gray-50 dark:bg-gray-800 border-gray-200 dark:border-gray-700"}
	default:
		return Tone{Text: "text-gray-600 dark:text-gray-400", Badge: "bg-gray-50 dark:bg-gray-800 border-gray-200 dark:border-gray-700"}
	}
}

// SentimentEndpoint is one remote classifier, called with {"text": ...}.
type SentimentEndpoint struct {
	Name               string `json:"name"`
	URL                string `json:"-"`
	SupportsConfidence bool   `json:"supports_confidence"`
}

// EndpointResult is the outcome of one classifier call.
type EndpointResult struct {
	Model      string `json:"model"`
	Sentiment  string `json:"sentiment"`
	Label      Label  `json:"label"`
	Tone       Tone   `json:"tone"`
	Confidence string `json:"confidence,omitempty"`
	Note       string `json:"explanation,omitempty"`
}

// Failed reports whether the endpoint call failed.
func (r EndpointResult) Failed() bool { return r.Label == LabelFailed }

// Classification is the fan-out result: per-endpoint results in declaration
// order and the majority label.
type Classification struct {
	Results     []EndpointResult `json:"results"`
	Overall     string           `json:"overall"`
	OverallTone Tone             `json:"overall_tone"`
	Cached      bool             `json:"cached"`
}

// AllSucceeded reports whether no endpoint failed.
func (c Classification) AllSucceeded() bool {
	for _, r := range c.Results {
		if r.Failed() {
			return false
		}
	}
	return true
}

// SentimentClassified is published after each classification.
type SentimentClassified struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Overall string           `json:"overall"`
	Results []EndpointResult `json:"results"`
	At      time.Time        `json:"at"`
}

// DatasetUpdated asks the service to rebuild its run catalog.
type DatasetUpdated struct {
	Source string `json:"source"`
	Force  bool   `json:"force"`
}
