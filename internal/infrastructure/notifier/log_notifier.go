package notifier

import (
	"context"
	"log/slog"

	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/pkg/logx"
)

// LogNotifier writes alerts to the service log when no chat is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyReview(ctx context.Context, alert entity.ReviewAlert) error {
	logger(ctx).Warn(
		"review needed",
		slog.String(logx.FieldStockNumber, alert.StockNumber.String()),
		slog.String(logx.FieldVIN, alert.VIN),
		slog.String(logx.FieldBuyer, alert.BuyerName),
		slog.String(logx.FieldRedFlag, alert.RedFlag.String()),
		slog.Bool("hq-appraisal", alert.HQAppraisalSuggested),
		slog.String("projected-gross", alert.ProjectedGross.String()),
	)

	return nil
}
