package acquisition_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"acquisition_desk/internal/domain"
	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/service/acquisition"
	"acquisition_desk/internal/domain/service/valuation"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/internal/infrastructure/lock"
	"acquisition_desk/pkg/errcodes"
	"acquisition_desk/pkg/tests"
)

var fixedNow = time.Date(2024, 5, 17, 15, 30, 0, 0, time.UTC) //nolint:gochecknoglobals

type fixture struct {
	service  *acquisition.Service
	vehicles *memoryVehicles
	queue    *recordingQueue
	registry *prometheus.Registry
	metrics  *acquisition.Metrics
}

func newFixture(mode acquisition.Mode, configure ...func(c *acquisition.Config)) fixture {
	config := acquisition.Config{
		StoreCode:   "ST1",
		Mode:        mode,
		MaxAttempts: 3,
		DedupWindow: time.Minute,
		Policy:      valuation.DefaultPolicy(),
	}

	for _, fn := range configure {
		fn(&config)
	}

	f := fixture{
		vehicles: newMemoryVehicles(),
		queue:    &recordingQueue{},
		registry: prometheus.NewRegistry(),
	}

	f.metrics = acquisition.NewMetrics(f.registry)

	f.service = acquisition.NewService(
		f.vehicles,
		&memorySequences{},
		lock.NewLocalLocker(time.Second),
		config,
		acquisition.WithReviewQueue(f.queue),
		acquisition.WithMetrics(f.metrics),
		acquisition.WithClock(func() time.Time { return fixedNow }),
	)

	return f
}

func healthy(vin, buyer string) entity.Acquisition {
	return entity.Acquisition{
		VIN:           vin,
		Year:          2019,
		Make:          "Honda",
		Model:         "Accord",
		Channel:       "Trade-In",
		BuyerName:     buyer,
		PurchasePrice: decimal.NewFromInt(20000),
		PlannedRetail: decimal.NewFromInt(25000),
		EstReconCost:  decimal.NewFromInt(1000),
		MMRValue:      decimal.NewFromInt(24000),
	}
}

func vin(i int) string {
	return fmt.Sprintf("1HGCM82633A%06d", i)
}

func TestSubmit(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)
	ctx := context.Background()

	first, err := f.service.Submit(ctx, healthy(vin(1), "John Smith"))
	rq.NoError(err)

	rq.Equal(value.StockNumber("ST1-TRD-JS-0001"), first.StockNumber)
	rq.Equal(value.ChannelTradeIn, first.Channel)
	rq.Equal("ST1", first.StoreCode)
	rq.Equal(value.VehicleStatusAcquired, first.CurrentStatus)
	rq.Equal(value.RedFlagNone, first.RedFlagStatus)
	rq.True(decimal.NewFromInt(4000).Equal(first.ProjectedGross))

	today := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	rq.Equal(today, first.DateLogged)
	rq.Equal(today, first.StatusDate)
	rq.Equal(today, first.PurchaseDate)

	second, err := f.service.Submit(ctx, healthy(vin(2), "John Smith"))
	rq.NoError(err)
	rq.Equal(value.StockNumber("ST1-TRD-JS-0002"), second.StockNumber)

	other, err := f.service.Submit(ctx, healthy(vin(3), "Mary Ann Lee"))
	rq.NoError(err)
	rq.Equal(value.StockNumber("ST1-TRD-MA-0001"), other.StockNumber)

	rq.Zero(f.queue.len())
	rq.InDelta(3, testutil.ToFloat64(f.metrics.Submissions().WithLabelValues("TRD", "None")), 0)
}

func TestSubmitStoreCode(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)
	ctx := context.Background()

	a := healthy(vin(1), "John Smith")
	a.StoreCode = " st2 "

	vehicle, err := f.service.Submit(ctx, a)
	rq.NoError(err)
	rq.Equal(value.StockNumber("ST2-TRD-JS-0001"), vehicle.StockNumber)

	a = healthy(vin(2), "John Smith")
	a.StoreCode = "ST-2"

	_, err = f.service.Submit(ctx, a)
	rq.True(domain.HasCode(err, errcodes.InvalidVehicle))
}

func TestSubmitConcurrentUnique(t *testing.T) {
	for _, mode := range []acquisition.Mode{acquisition.ModeScan, acquisition.ModeCounter} {
		t.Run(string(mode), func(t *testing.T) {
			rq := require.New(t)
			f := newFixture(mode)
			ctx := context.Background()

			const n = 40

			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				numbers = make(map[value.StockNumber]struct{}, n)
			)

			for i := range n {
				wg.Add(1)

				go func() {
					defer wg.Done()

					vehicle, err := f.service.Submit(ctx, healthy(vin(i), "John Smith"))
					if err != nil {
						t.Error(err)
						return
					}

					mu.Lock()
					numbers[vehicle.StockNumber] = struct{}{}
					mu.Unlock()
				}()
			}

			wg.Wait()

			rq.Len(numbers, n)

			for i := 1; i <= n; i++ {
				rq.Contains(numbers, value.StockNumber(fmt.Sprintf("ST1-TRD-JS-%04d", i)))
			}
		})
	}
}

func TestSubmitRetriesConflict(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)

	f.vehicles.stealNext(1)

	vehicle, err := f.service.Submit(context.Background(), healthy(vin(1), "John Smith"))
	rq.NoError(err)

	rq.Equal(value.StockNumber("ST1-TRD-JS-0002"), vehicle.StockNumber)
	rq.InDelta(1, testutil.ToFloat64(f.metrics.AllocationConflicts()), 0)
}

func TestSubmitConflictExhausted(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)

	f.vehicles.stealNext(3)

	_, err := f.service.Submit(context.Background(), healthy(vin(1), "John Smith"))

	rq.True(domain.HasCode(err, errcodes.AllocationConflict))
	rq.InDelta(3, testutil.ToFloat64(f.metrics.AllocationConflicts()), 0)

	// A failed submission does not block a retry by the buyer.
	vehicle, err := f.service.Submit(context.Background(), healthy(vin(1), "John Smith"))
	rq.NoError(err)
	rq.Equal(value.StockNumber("ST1-TRD-JS-0004"), vehicle.StockNumber)
}

func TestSubmitDuplicate(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)
	ctx := context.Background()

	_, err := f.service.Submit(ctx, healthy(vin(1), "John Smith"))
	rq.NoError(err)

	again := healthy(" "+vin(1)+" ", "john smith")
	again.Channel = "trade_in"

	_, err = f.service.Submit(ctx, again)
	rq.True(domain.HasCode(err, errcodes.DuplicateSubmission))

	_, err = f.service.Submit(ctx, healthy(vin(1), "Mary Ann Lee"))
	rq.NoError(err)
}

func TestSubmitDedupDisabled(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan, func(c *acquisition.Config) { c.DedupWindow = 0 })
	ctx := context.Background()

	_, err := f.service.Submit(ctx, healthy(vin(1), "John Smith"))
	rq.NoError(err)

	_, err = f.service.Submit(ctx, healthy(vin(1), "John Smith"))
	rq.NoError(err)
}

func TestSubmitRequestsReview(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)
	ctx := context.Background()

	lowGross := healthy(vin(1), "John Smith")
	lowGross.PlannedRetail = decimal.NewFromInt(21000)

	vehicle, err := f.service.Submit(ctx, lowGross)
	rq.NoError(err)
	rq.Equal(value.RedFlagLowGross, vehicle.RedFlagStatus)
	rq.Equal(1, f.queue.len())
	rq.Equal(vehicle.StockNumber, f.queue.vehicles[0].StockNumber)

	f.queue.err = errors.New("redis down")

	expensive := healthy(vin(2), "John Smith")
	expensive.PurchasePrice = decimal.NewFromInt(60000)
	expensive.PlannedRetail = decimal.NewFromInt(70000)

	vehicle, err = f.service.Submit(ctx, expensive)
	rq.NoError(err)
	rq.True(vehicle.HQAppraisalSuggested)
	rq.InDelta(1, testutil.ToFloat64(f.metrics.ReviewAlerts().WithLabelValues("failed")), 0)
}

func TestGet(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)
	ctx := context.Background()

	created, err := f.service.Submit(ctx, healthy(vin(1), "John Smith"))
	rq.NoError(err)

	got, err := f.service.Get(ctx, created.StockNumber.String())
	rq.NoError(err)
	rq.Equal(created.VIN, got.VIN)

	_, err = f.service.Get(ctx, "ST1-TRD-JS-0099")
	rq.True(domain.HasCode(err, errcodes.VehicleNotFound))

	_, err = f.service.Get(ctx, "not-a-number")
	rq.True(domain.HasCode(err, errcodes.InvalidStockNumber))
}

func TestSubmitUnusualBuyerNames(t *testing.T) {
	buyers := map[string]value.StockNumber{
		"élodie ümit": "ST1-TRD-XX-",
		"John 3rd":    "ST1-TRD-JR-",
		"(Joe) Smith": "ST1-TRD-JS-",
		"- Smith":     "ST1-TRD-S-",
	}

	for _, mode := range []acquisition.Mode{acquisition.ModeScan, acquisition.ModeCounter} {
		t.Run(string(mode), func(t *testing.T) {
			rq := require.New(t)
			f := newFixture(mode)
			ctx := context.Background()

			i := 0

			for buyer, prefix := range buyers {
				for seq := 1; seq <= 2; seq++ {
					i++

					created, err := f.service.Submit(ctx, healthy(vin(i), buyer))
					rq.NoError(err, buyer)
					rq.Equal(value.StockNumber(fmt.Sprintf("%s%04d", prefix, seq)), created.StockNumber)

					got, err := f.service.Get(ctx, created.StockNumber.String())
					rq.NoError(err, buyer)
					rq.Equal(created.VIN, got.VIN)

					_, err = f.service.Reevaluate(ctx, created.StockNumber.String())
					rq.NoError(err, buyer)
				}
			}
		})
	}
}

func TestList(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeCounter)
	ctx := context.Background()

	for i := range 5 {
		_, err := f.service.Submit(ctx, healthy(vin(i), "John Smith"))
		rq.NoError(err)
	}

	page, total, err := f.service.List(ctx, 2, 2)
	rq.NoError(err)
	rq.Equal(5, total)
	rq.Len(page, 2)
	rq.Equal(value.StockNumber("ST1-TRD-JS-0003"), page[0].StockNumber)

	for _, paging := range [][2]int{{0, 0}, {101, 0}, {10, -1}} {
		_, _, err = f.service.List(ctx, paging[0], paging[1])
		rq.True(domain.HasCode(err, errcodes.InvalidPaging))
	}
}

func TestReevaluate(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newFixture(acquisition.ModeScan)

	created, err := f.service.Submit(ctx, healthy(vin(1), "John Smith"))
	rq.NoError(err)
	rq.Equal(value.RedFlagNone, created.RedFlagStatus)

	strict := valuation.DefaultPolicy()
	strict.MinGrossProfit = decimal.NewFromInt(5000)

	stricter := acquisition.NewService(
		f.vehicles,
		&memorySequences{},
		lock.NewLocalLocker(time.Second),
		acquisition.Config{StoreCode: "ST1", Policy: strict},
		acquisition.WithReviewQueue(f.queue),
	)

	stored, err := f.service.Get(ctx, created.StockNumber.String())
	rq.NoError(err)
	rq.Equal(value.RedFlagNone, stored.RedFlagStatus)

	updated, err := stricter.Reevaluate(ctx, created.StockNumber.String())
	rq.NoError(err)
	rq.Equal(value.RedFlagLowGross, updated.RedFlagStatus)
	rq.Equal(1, f.queue.len())

	stored, err = f.service.Get(ctx, created.StockNumber.String())
	rq.NoError(err)
	rq.Equal(value.RedFlagLowGross, stored.RedFlagStatus)
}

func TestReevaluateAll(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	f := newFixture(acquisition.ModeScan)

	for i := range 3 {
		_, err := f.service.Submit(ctx, healthy(vin(i), "John Smith"))
		rq.NoError(err)
	}

	result, err := f.service.ReevaluateAll(ctx)
	rq.NoError(err)
	rq.Equal(acquisition.ReevaluationResult{Scanned: 3, Changed: 0}, result)

	strict := valuation.DefaultPolicy()
	strict.MaxReconPercentage = decimal.RequireFromString("0.01")

	stricter := acquisition.NewService(
		f.vehicles,
		&memorySequences{},
		lock.NewLocalLocker(time.Second),
		acquisition.Config{StoreCode: "ST1", Policy: strict},
	)

	result, err = stricter.ReevaluateAll(ctx)
	rq.NoError(err)
	rq.Equal(acquisition.ReevaluationResult{Scanned: 3, Changed: 3}, result)

	page, _, err := f.service.List(ctx, 10, 0)
	rq.NoError(err)

	for _, v := range page {
		rq.Equal(value.RedFlagHighRecon, v.RedFlagStatus)
	}
}

func TestPreview(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeScan)

	preview, err := f.service.Preview(entity.Acquisition{
		Channel:       "private party",
		BuyerName:     "",
		PurchasePrice: decimal.NewFromInt(10000),
		PlannedRetail: decimal.NewFromInt(11000),
		EstReconCost:  decimal.NewFromInt(200),
		MMRValue:      decimal.NewFromInt(12000),
	})
	rq.NoError(err)

	rq.Equal("ST1-PRV-XX-", preview.Prefix)
	rq.Equal(value.RedFlagLowGross, preview.Evaluation.RedFlagStatus)

	count, err := f.vehicles.Count(context.Background())
	rq.NoError(err)
	rq.Zero(count)
}

func TestSubmitRandomVehicles(t *testing.T) {
	rq := require.New(t)
	f := newFixture(acquisition.ModeCounter)
	random := tests.NewRandomizer()
	ctx := context.Background()

	pattern := regexp.MustCompile(`^ST1-(TRD|AUC|PRV|WHL|OTH)-[A-Z]{0,2}-\d{4,}$`)
	channels := []value.Channel{"trade-in", "auction", "private-party", "wholesale", "fleet"}
	buyers := []string{"John Smith", "", "prince", "Mary Ann Lee"}

	for i := range 30 {
		a := entity.Acquisition{
			VIN:           fmt.Sprintf("%s%d", random.VIN()[:15], i%100),
			Year:          2015,
			Channel:       channels[random.Intn(len(channels))],
			BuyerName:     buyers[random.Intn(len(buyers))],
			PurchasePrice: random.Amount(80000),
			PlannedRetail: random.Amount(90000),
			EstReconCost:  random.Amount(5000),
			MMRValue:      random.Amount(90000),
		}

		vehicle, err := f.service.Submit(ctx, a)
		rq.NoError(err)

		rq.Regexp(pattern, vehicle.StockNumber.String())
		want := valuation.Evaluate(a, valuation.DefaultPolicy())
		rq.True(want.ProjectedGross.Equal(vehicle.ProjectedGross))
		rq.True(want.ReconPercentage.Equal(vehicle.ReconPercentage))
		rq.Equal(want.RedFlagStatus, vehicle.RedFlagStatus)
		rq.Equal(want.HQAppraisalSuggested, vehicle.HQAppraisalSuggested)
	}
}
