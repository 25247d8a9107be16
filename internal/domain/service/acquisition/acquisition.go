// Package acquisition turns vehicle submissions into stored inventory
// records. It serializes stock number allocation per prefix, relies on the
// storage unique constraint as the final arbiter and retries on conflict.
package acquisition

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"acquisition_desk/internal/domain"
	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/service/stocknumber"
	"acquisition_desk/internal/domain/service/valuation"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/pkg/errcodes"
	"acquisition_desk/pkg/logx"
)

const (
	MaxPageSize    = 100
	reevaluatePage = 200
	dayDuration    = 24 * time.Hour
)

//nolint:gochecknoglobals
var storeCodePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Mode selects how the next sequence for a prefix is found.
type Mode string

const (
	ModeScan    Mode = "scan"
	ModeCounter Mode = "counter"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	StockNumbersWithPrefix(ctx context.Context, prefix string) ([]value.StockNumber, error)
	GetByStockNumber(ctx context.Context, stockNumber value.StockNumber) (*entity.Vehicle, error)
	List(ctx context.Context, limit, offset int) ([]entity.Vehicle, error)
	Count(ctx context.Context) (int, error)
	UpdateEvaluations(ctx context.Context, vehicles []entity.Vehicle) error
}

type SequenceRepository interface {
	Next(ctx context.Context, prefix string) (int, error)
}

type Locker interface {
	Lock(ctx context.Context, prefix string) (func(context.Context) error, error)
}

// ReviewQueue receives vehicles that need a manager's attention.
type ReviewQueue interface {
	EnqueueReview(ctx context.Context, vehicle entity.Vehicle) error
}

type Config struct {
	StoreCode   string
	Mode        Mode
	MaxAttempts int
	DedupWindow time.Duration
	Policy      valuation.Policy
}

type Option func(s *Service)

func WithReviewQueue(q ReviewQueue) Option {
	return func(s *Service) {
		s.reviews = q
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

type Service struct {
	vehicles  VehicleRepository
	sequences SequenceRepository
	locker    Locker
	reviews   ReviewQueue
	metrics   *Metrics
	recent    *cache.Cache
	config    Config
	now       func() time.Time
}

func NewService(
	vehicles VehicleRepository,
	sequences SequenceRepository,
	locker Locker,
	config Config,
	opts ...Option,
) *Service {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	if config.Mode == "" {
		config.Mode = ModeScan
	}

	s := &Service{
		vehicles:  vehicles,
		sequences: sequences,
		locker:    locker,
		config:    config,
		recent:    cache.New(config.DedupWindow, time.Minute),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Policy() valuation.Policy {
	return s.config.Policy
}

// Submit allocates a stock number, evaluates and stores the acquisition.
func (s *Service) Submit(ctx context.Context, acquisition entity.Acquisition) (*entity.Vehicle, error) {
	acquisition, err := s.normalize(acquisition)
	if err != nil {
		return nil, err
	}

	if key, ok := dedupKey(acquisition); ok && s.config.DedupWindow > 0 {
		if err := s.recent.Add(key, struct{}{}, cache.DefaultExpiration); err != nil {
			return nil, domain.NewError(errcodes.DuplicateSubmission, "vehicle was already submitted by this buyer")
		}

		defer func() {
			if err != nil {
				s.recent.Delete(key)
			}
		}()
	}

	today := s.today()
	prefix := stocknumber.Prefix(acquisition.StoreCode, acquisition.Channel, acquisition.BuyerName)

	vehicle := &entity.Vehicle{
		Acquisition:   acquisition,
		Evaluation:    valuation.Evaluate(acquisition, s.config.Policy),
		CurrentStatus: value.VehicleStatusAcquired,
		DateLogged:    today,
		StatusDate:    today,
	}

	if err = s.allocate(ctx, prefix, vehicle); err != nil {
		return nil, err
	}

	s.metrics.submitted(stocknumber.SourceCode(acquisition.Channel), vehicle.RedFlagStatus.String())

	logger(ctx).Info(
		"vehicle acquired",
		slog.String(logx.FieldStockNumber, vehicle.StockNumber.String()),
		slog.String(logx.FieldVIN, vehicle.VIN),
		slog.String(logx.FieldRedFlag, vehicle.RedFlagStatus.String()),
	)

	if vehicle.NeedsReview() {
		s.requestReview(ctx, *vehicle)
	}

	return vehicle, nil
}

// allocate runs the lock, allocate, commit cycle until a stock number sticks
// or the attempts are exhausted.
func (s *Service) allocate(ctx context.Context, prefix string, vehicle *entity.Vehicle) error {
	started := time.Now()
	defer func() {
		s.metrics.allocated(time.Since(started).Seconds())
	}()

	var err error

	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		err = s.allocateOnce(ctx, prefix, vehicle)
		if err == nil {
			return nil
		}

		if !domain.IsAllocationConflict(err) {
			return err
		}

		s.metrics.conflict()

		logger(ctx).Warn(
			"stock number taken concurrently",
			slog.String(logx.FieldPrefix, prefix),
			slog.String(logx.FieldStockNumber, vehicle.StockNumber.String()),
			slog.Int(logx.FieldAttempt, attempt),
		)
	}

	return domain.WrapError(err, errcodes.AllocationConflict, "could not allocate a unique stock number")
}

func (s *Service) allocateOnce(ctx context.Context, prefix string, vehicle *entity.Vehicle) error {
	unlock, err := s.locker.Lock(ctx, prefix)
	if err != nil {
		return err
	}

	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("unlock", slog.String(logx.FieldPrefix, prefix), logx.Error(err))
		}
	}()

	switch s.config.Mode {
	case ModeCounter:
		sequence, err := s.sequences.Next(ctx, prefix)
		if err != nil {
			return err
		}

		vehicle.StockNumber = stocknumber.Format(prefix, sequence)
	default:
		history, err := s.vehicles.StockNumbersWithPrefix(ctx, prefix)
		if err != nil {
			return err
		}

		vehicle.StockNumber = stocknumber.Allocate(vehicle.Acquisition, history)
	}

	return s.vehicles.Create(ctx, vehicle)
}

func (s *Service) requestReview(ctx context.Context, vehicle entity.Vehicle) {
	if s.reviews == nil {
		return
	}

	err := s.reviews.EnqueueReview(ctx, vehicle)
	s.metrics.reviewAlert(err == nil)

	if err != nil {
		logger(ctx).Error(
			"review alert not enqueued",
			slog.String(logx.FieldStockNumber, vehicle.StockNumber.String()),
			logx.Error(err),
		)
	}
}

func (s *Service) Get(ctx context.Context, stockNumber string) (*entity.Vehicle, error) {
	number, err := value.ParseStockNumber(stockNumber)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidStockNumber, "malformed stock number")
	}

	return s.vehicles.GetByStockNumber(ctx, number)
}

// List returns a page of vehicles and the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]entity.Vehicle, int, error) {
	if limit < 1 || limit > MaxPageSize || offset < 0 {
		return nil, 0, domain.NewError(errcodes.InvalidPaging, "limit must be 1..100 and offset non-negative")
	}

	vehicles, err := s.vehicles.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.vehicles.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return vehicles, total, nil
}

// Reevaluate recomputes one stored evaluation under the current policy.
// Evaluations are never refreshed implicitly.
func (s *Service) Reevaluate(ctx context.Context, stockNumber string) (*entity.Vehicle, error) {
	vehicle, err := s.Get(ctx, stockNumber)
	if err != nil {
		return nil, err
	}

	changed := s.refresh(vehicle)
	if changed {
		if err := s.vehicles.UpdateEvaluations(ctx, []entity.Vehicle{*vehicle}); err != nil {
			return nil, err
		}

		if vehicle.NeedsReview() {
			s.requestReview(ctx, *vehicle)
		}
	}

	s.metrics.reevaluated(changed)

	return vehicle, nil
}

type ReevaluationResult struct {
	Scanned int
	Changed int
}

// ReevaluateAll walks every stored vehicle and persists the evaluations that
// differ under the current policy.
func (s *Service) ReevaluateAll(ctx context.Context) (ReevaluationResult, error) {
	var result ReevaluationResult

	for offset := 0; ; offset += reevaluatePage {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		page, err := s.vehicles.List(ctx, reevaluatePage, offset)
		if err != nil {
			return result, err
		}

		var changed []entity.Vehicle

		for i := range page {
			differs := s.refresh(&page[i])
			if differs {
				changed = append(changed, page[i])
			}
			s.metrics.reevaluated(differs)
		}

		if len(changed) > 0 {
			if err := s.vehicles.UpdateEvaluations(ctx, changed); err != nil {
				return result, err
			}
		}

		result.Scanned += len(page)
		result.Changed += len(changed)

		if len(page) < reevaluatePage {
			break
		}
	}

	logger(ctx).Info("reevaluation finished", slog.Int("scanned", result.Scanned), slog.Int("changed", result.Changed))

	return result, nil
}

func (s *Service) refresh(vehicle *entity.Vehicle) bool {
	next := valuation.Evaluate(vehicle.Acquisition, s.config.Policy)
	changed := !sameEvaluation(vehicle.Evaluation, next)
	vehicle.Evaluation = next

	return changed
}

type Preview struct {
	Prefix     string
	Evaluation entity.Evaluation
}

// Preview evaluates a submission without storing or allocating anything.
func (s *Service) Preview(acquisition entity.Acquisition) (Preview, error) {
	acquisition, err := s.normalize(acquisition)
	if err != nil {
		return Preview{}, err
	}

	return Preview{
		Prefix:     stocknumber.Prefix(acquisition.StoreCode, acquisition.Channel, acquisition.BuyerName),
		Evaluation: valuation.Evaluate(acquisition, s.config.Policy),
	}, nil
}

func (s *Service) normalize(a entity.Acquisition) (entity.Acquisition, error) {
	a.VIN = strings.ToUpper(strings.TrimSpace(a.VIN))
	a.BuyerName = strings.TrimSpace(a.BuyerName)
	a.Channel = value.ParseChannel(a.Channel.String())

	a.StoreCode = strings.ToUpper(strings.TrimSpace(a.StoreCode))
	if a.StoreCode == "" {
		a.StoreCode = s.config.StoreCode
	}

	if !storeCodePattern.MatchString(a.StoreCode) {
		return a, domain.NewError(errcodes.InvalidVehicle, "store code must be letters and digits")
	}

	if a.PurchaseDate.IsZero() {
		a.PurchaseDate = s.today()
	}

	return a, nil
}

func (s *Service) today() time.Time {
	return s.now().UTC().Truncate(dayDuration)
}

func dedupKey(a entity.Acquisition) (string, bool) {
	if a.VIN == "" {
		return "", false
	}

	return a.VIN + "|" + a.Channel.String() + "|" + strings.ToLower(a.BuyerName), true
}

func sameEvaluation(a, b entity.Evaluation) bool {
	return a.ProjectedGross.Equal(b.ProjectedGross) &&
		a.MarketVariance.Equal(b.MarketVariance) &&
		a.ReconPercentage.Equal(b.ReconPercentage) &&
		a.HQAppraisalSuggested == b.HQAppraisalSuggested &&
		a.RedFlagStatus == b.RedFlagStatus
}
