package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"

	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/pkg/contextx"
	"acquisition_desk/pkg/logx"
)

const (
	TypeReview  = "acquisition:review"
	QueueAlerts = "alerts"

	reviewMaxRetry = 5
	reviewTimeout  = 30 * time.Second
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type reviewPayload struct {
	StockNumber          string          `json:"stock_number"`
	VIN                  string          `json:"vin"`
	Description          string          `json:"description,omitempty"`
	BuyerName            string          `json:"buyer_name,omitempty"`
	Channel              string          `json:"channel"`
	RedFlag              string          `json:"red_flag"`
	HQAppraisalSuggested bool            `json:"hq_appraisal_suggested"`
	PurchasePrice        decimal.Decimal `json:"purchase_price"`
	ProjectedGross       decimal.Decimal `json:"projected_gross"`
	ReconPercentage      decimal.Decimal `json:"recon_percentage"`
	TraceID              string          `json:"trace_id,omitempty"`
}

func newReviewPayload(a entity.ReviewAlert) reviewPayload {
	return reviewPayload{
		StockNumber:          a.StockNumber.String(),
		VIN:                  a.VIN,
		Description:          a.Description,
		BuyerName:            a.BuyerName,
		Channel:              a.Channel.String(),
		RedFlag:              a.RedFlag.String(),
		HQAppraisalSuggested: a.HQAppraisalSuggested,
		PurchasePrice:        a.PurchasePrice,
		ProjectedGross:       a.ProjectedGross,
		ReconPercentage:      a.ReconPercentage,
	}
}

func (p reviewPayload) alert() entity.ReviewAlert {
	return entity.ReviewAlert{
		StockNumber:          value.StockNumber(p.StockNumber),
		VIN:                  p.VIN,
		Description:          p.Description,
		BuyerName:            p.BuyerName,
		Channel:              value.Channel(p.Channel),
		RedFlag:              value.RedFlag(p.RedFlag),
		HQAppraisalSuggested: p.HQAppraisalSuggested,
		PurchasePrice:        p.PurchasePrice,
		ProjectedGross:       p.ProjectedGross,
		ReconPercentage:      p.ReconPercentage,
	}
}

// NewReviewTask builds the task for a vehicle. The task ID keeps one pending
// alert per stock number and red flag. The trace id of ctx travels with the
// payload.
func NewReviewTask(ctx context.Context, vehicle entity.Vehicle) (*asynq.Task, error) {
	payload := newReviewPayload(entity.NewReviewAlert(vehicle))

	if traceID, err := contextx.TraceIDFromContext(ctx); err == nil {
		payload.TraceID = traceID.String()
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(
		TypeReview,
		b,
		asynq.Queue(QueueAlerts),
		asynq.MaxRetry(reviewMaxRetry),
		asynq.Timeout(reviewTimeout),
		asynq.TaskID(fmt.Sprintf("review:%s:%s:%t", vehicle.StockNumber, vehicle.RedFlagStatus, vehicle.HQAppraisalSuggested)),
	), nil
}

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReviewQueue hands flagged vehicles to the asynq alerts queue.
type ReviewQueue struct {
	client Enqueuer
}

func NewReviewQueue(client Enqueuer) *ReviewQueue {
	return &ReviewQueue{client: client}
}

func (q *ReviewQueue) EnqueueReview(ctx context.Context, vehicle entity.Vehicle) error {
	task, err := NewReviewTask(ctx, vehicle)
	if err != nil {
		return err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Debug(
		"review alert enqueued",
		slog.String(logx.FieldStockNumber, vehicle.StockNumber.String()),
		slog.String("task-id", info.ID),
	)

	return nil
}

type Notifier interface {
	NotifyReview(ctx context.Context, alert entity.ReviewAlert) error
}

type ReviewHandler struct {
	notifier Notifier
}

func NewReviewHandler(notifier Notifier) *ReviewHandler {
	return &ReviewHandler{notifier: notifier}
}

func (h *ReviewHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload reviewPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
	}

	if payload.StockNumber == "" {
		return fmt.Errorf("empty stock number: %w", asynq.SkipRetry)
	}

	ctx = contextWithTask(ctx, task.Type(), payload.StockNumber, payload.TraceID)

	if err := h.notifier.NotifyReview(ctx, payload.alert()); err != nil {
		logger(ctx).Error("review alert not delivered", logx.Error(err))
		return fmt.Errorf("notifier.NotifyReview: %w", err)
	}

	logger(ctx).Info("review alert delivered")

	return nil
}
