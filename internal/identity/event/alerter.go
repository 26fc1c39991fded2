package event

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/gounified/internal/identity/entity"
)

// ImbalanceAlerter warns when a finished analysis shows a bucket deviating
// from the mean by more than Threshold percent.
type ImbalanceAlerter struct {
	Threshold float64
	Logger    *slog.Logger
}

func (a ImbalanceAlerter) Handle(ctx context.Context, event entity.AnalysisCompletedEvent) error {
	if event.EventID == "" {
		return errors.New("missing event id")
	}

	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		"event_id", event.EventID,
		"analysis_id", event.AnalysisID,
		"strategy", event.Strategy,
		"partitions", event.Partitions,
		"samples", event.Samples,
		"spread", event.Spread,
	}

	if a.Threshold > 0 && event.Spread > a.Threshold {
		logger.WarnContext(ctx, "partition imbalance above threshold", append(attrs, "threshold", a.Threshold)...)
		return nil
	}

	logger.InfoContext(ctx, "partition balance within threshold", attrs...)
	return nil
}
