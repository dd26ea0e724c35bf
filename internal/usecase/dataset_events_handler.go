package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"SentiCast/internal/domain/models"
	applogger "SentiCast/pkg/logger"
)

// DatasetEventsHandler reloads the catalog when a DatasetUpdated message
// arrives on the dataset topic.
type DatasetEventsHandler struct {
	topic    string
	reloader Reloader
	l        *applogger.Logger
}

func NewDatasetEventsHandler(topic string, r Reloader, l *applogger.Logger) *DatasetEventsHandler {
	return &DatasetEventsHandler{topic: topic, reloader: r, l: l}
}

func (h *DatasetEventsHandler) Topic() string { return h.topic }

// Handle treats an empty payload as a non-forced update.
func (h *DatasetEventsHandler) Handle(ctx context.Context, data []byte) error {
	var ev models.DatasetUpdated
	if len(data) > 0 {
		if err := json.Unmarshal(data, &ev); err != nil {
			// not retryable; drop it
			h.l.Warn("invalid dataset event", applogger.Error(err))
			return nil
		}
	}
	changed, err := h.reloader.Reload(ctx, ev.Force)
	if err != nil {
		return fmt.Errorf("reload on dataset event: %w", err)
	}
	h.l.Info("dataset event handled",
		applogger.String("source", ev.Source),
		applogger.Bool("force", ev.Force),
		applogger.Bool("changed", changed),
	)
	return nil
}
