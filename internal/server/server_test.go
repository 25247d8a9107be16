package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"acquisition_desk/internal/domain"
	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/service/acquisition"
	"acquisition_desk/internal/domain/service/stocknumber"
	"acquisition_desk/internal/domain/service/valuation"
	"acquisition_desk/internal/domain/value"
	"acquisition_desk/internal/server"
	"acquisition_desk/pkg/errcodes"
	"acquisition_desk/pkg/logx"
	"acquisition_desk/pkg/rest"
	"acquisition_desk/pkg/tests"
)

type serviceMock struct {
	submitted []entity.Acquisition
	vehicles  map[string]entity.Vehicle
	err       error
}

func newServiceMock() *serviceMock {
	return &serviceMock{vehicles: make(map[string]entity.Vehicle)}
}

func (m *serviceMock) Submit(_ context.Context, a entity.Acquisition) (*entity.Vehicle, error) {
	if m.err != nil {
		return nil, m.err
	}

	m.submitted = append(m.submitted, a)

	if a.StoreCode == "" {
		a.StoreCode = "ST1"
	}

	v := entity.Vehicle{
		ID:            int64(len(m.submitted)),
		StockNumber:   stocknumber.Allocate(a, nil),
		Acquisition:   a,
		Evaluation:    valuation.Evaluate(a, valuation.DefaultPolicy()),
		CurrentStatus: value.VehicleStatusAcquired,
		DateLogged:    time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
	}
	m.vehicles[v.StockNumber.String()] = v

	return &v, nil
}

func (m *serviceMock) Get(_ context.Context, stockNumber string) (*entity.Vehicle, error) {
	if _, err := value.ParseStockNumber(stockNumber); err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidStockNumber, "malformed stock number")
	}

	v, ok := m.vehicles[stockNumber]
	if !ok {
		return nil, domain.NewError(errcodes.VehicleNotFound, "vehicle not found")
	}

	return &v, nil
}

func (m *serviceMock) List(_ context.Context, limit, offset int) ([]entity.Vehicle, int, error) {
	if limit < 1 || limit > acquisition.MaxPageSize || offset < 0 {
		return nil, 0, domain.NewError(errcodes.InvalidPaging, "bad paging")
	}

	result := make([]entity.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		result = append(result, v)
	}

	return result, len(m.vehicles), nil
}

func (m *serviceMock) Reevaluate(ctx context.Context, stockNumber string) (*entity.Vehicle, error) {
	return m.Get(ctx, stockNumber)
}

func (m *serviceMock) Preview(a entity.Acquisition) (acquisition.Preview, error) {
	return acquisition.Preview{
		Prefix:     stocknumber.Prefix("ST1", a.Channel, a.BuyerName),
		Evaluation: valuation.Evaluate(a, valuation.DefaultPolicy()),
	}, nil
}

func (m *serviceMock) Policy() valuation.Policy {
	return valuation.DefaultPolicy()
}

func newTestServer(t *testing.T, svc *serviceMock) tests.APIClient {
	t.Helper()

	srv := server.NewServer(server.NewVehicleServer(svc))
	httpServer := httptest.NewServer(srv.Handler(logx.NewSensitiveDataMasker(), 4096))
	t.Cleanup(httpServer.Close)

	return tests.NewAPIClient(httpServer.URL, httpServer.Client())
}

const submissionJSON = `{
	"vin": "1HGCM82633A004352",
	"year": 2019,
	"make": "Honda",
	"model": "Accord",
	"channel": "Trade-In",
	"buyerName": "John Smith",
	"purchasePrice": "$20,000",
	"plannedRetail": 25000,
	"estReconCost": "1000",
	"mmrValue": 24000,
	"kbbWholesale": null,
	"customerName": "Jane Roe"
}`

func TestPostVehicle(t *testing.T) {
	rq := require.New(t)
	svc := newServiceMock()
	client := newTestServer(t, svc)

	var vehicle rest.Vehicle

	resp, err := client.Post(context.Background(), "/v1/vehicles", nil, submissionJSON, &vehicle, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.NotEmpty(resp.Header.Get("X-Trace-Id"))

	rq.Equal("ST1-TRD-JS-0001", vehicle.StockNumber)
	rq.Equal("None", vehicle.RedFlagStatus)
	rq.Equal("Acquired", vehicle.CurrentStatus)
	rq.True(decimal.NewFromInt(4000).Equal(vehicle.ProjectedGross.Decimal))
	rq.Equal("2024-05-17", vehicle.DateLogged.Format(time.DateOnly))

	rq.Len(svc.submitted, 1)
	rq.True(decimal.NewFromInt(20000).Equal(svc.submitted[0].PurchasePrice))
	rq.True(svc.submitted[0].KBBWholesale.IsZero())
	rq.Equal(value.Channel("Trade-In"), svc.submitted[0].Channel)
}

func TestPostVehicleValidation(t *testing.T) {
	rq := require.New(t)
	client := newTestServer(t, newServiceMock())

	testCases := []struct {
		name string
		body string
	}{
		{name: "Short VIN", body: `{"vin":"123","year":2019}`},
		{name: "Year out of range", body: `{"vin":"1HGCM82633A004352","year":1975}`},
		{name: "Odometer out of range", body: `{"vin":"1HGCM82633A004352","year":2019,"odometer":900000}`},
		{name: "Broken JSON", body: `{"vin":`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var apiErr rest.Error

			resp, err := client.Post(context.Background(), "/v1/vehicles", nil, tc.body, nil, &apiErr)
			rq.NoError(err)
			rq.Equal(http.StatusBadRequest, resp.StatusCode)
			rq.Equal(rest.ErrorCode(errcodes.ValidationError), apiErr.Code)
		})
	}
}

func TestErrorStatuses(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "Duplicate",
			err:    domain.NewError(errcodes.DuplicateSubmission, "vehicle was already submitted by this buyer"),
			status: http.StatusConflict,
			code:   "DuplicateSubmission",
		},
		{
			name:   "Conflict",
			err:    domain.NewError(errcodes.AllocationConflict, "could not allocate a unique stock number"),
			status: http.StatusConflict,
			code:   "AllocationConflict",
		},
		{
			name:   "Lock busy",
			err:    domain.NewError(errcodes.LockNotObtained, "allocation lock is busy"),
			status: http.StatusServiceUnavailable,
			code:   "LockNotObtained",
		},
		{
			name:   "Invalid store",
			err:    domain.NewError(errcodes.InvalidVehicle, "store code must be letters and digits"),
			status: http.StatusBadRequest,
			code:   "InvalidVehicle",
		},
		{
			name:   "Storage failure",
			err:    domain.WrapError(errors.New("connection refused"), errcodes.InternalServerError, "failed to create vehicle"),
			status: http.StatusInternalServerError,
			code:   "InternalServerError",
		},
		{
			name:   "Plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "InternalServerError",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			svc := newServiceMock()
			svc.err = tc.err
			client := newTestServer(t, svc)

			var apiErr rest.Error

			resp, err := client.Post(context.Background(), "/v1/vehicles", nil, submissionJSON, nil, &apiErr)
			rq.NoError(err)
			rq.Equal(tc.status, resp.StatusCode)
			rq.Equal(rest.ErrorCode(tc.code), apiErr.Code)
			rq.Equal(resp.Header.Get("X-Trace-Id"), apiErr.SupportID)
			rq.NotContains(apiErr.Message, "connection refused")
		})
	}
}

func TestGetVehicle(t *testing.T) {
	rq := require.New(t)
	svc := newServiceMock()
	client := newTestServer(t, svc)
	ctx := context.Background()

	_, err := client.Post(ctx, "/v1/vehicles", nil, submissionJSON, nil, nil)
	rq.NoError(err)

	var vehicle rest.Vehicle

	resp, err := client.Get(ctx, "/v1/vehicles/ST1-TRD-JS-0001", nil, &vehicle, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("1HGCM82633A004352", vehicle.VIN)

	var apiErr rest.Error

	resp, err = client.Get(ctx, "/v1/vehicles/ST1-TRD-JS-0002", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.VehicleNotFound), apiErr.Code)

	resp, err = client.Get(ctx, "/v1/vehicles/garbage", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.InvalidStockNumber), apiErr.Code)

	resp, err = client.Post(ctx, "/v1/vehicles/ST1-TRD-JS-0001/evaluation", nil, nil, &vehicle, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("ST1-TRD-JS-0001", vehicle.StockNumber)
}

func TestListVehicles(t *testing.T) {
	rq := require.New(t)
	svc := newServiceMock()
	client := newTestServer(t, svc)
	ctx := context.Background()

	_, err := client.Post(ctx, "/v1/vehicles", nil, submissionJSON, nil, nil)
	rq.NoError(err)

	var list rest.VehicleList

	resp, err := client.Get(ctx, "/v1/vehicles", nil, &list, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(1, list.Total)
	rq.Equal(20, list.Limit)
	rq.Len(list.Items, 1)

	var apiErr rest.Error

	for _, query := range []string{"?limit=abc", "?limit=0", "?offset=-5"} {
		resp, err = client.Get(ctx, "/v1/vehicles"+query, nil, nil, &apiErr)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode, query)
		rq.Equal(rest.ErrorCode(errcodes.InvalidPaging), apiErr.Code, query)
	}
}

func TestPreviewEvaluation(t *testing.T) {
	rq := require.New(t)
	client := newTestServer(t, newServiceMock())

	var preview rest.EvaluationPreview

	resp, err := client.Post(
		context.Background(),
		"/v1/evaluations",
		nil,
		`{"channel":"auction","purchasePrice":10000,"plannedRetail":"11000","estReconCost":200,"mmrValue":"n/a"}`,
		&preview,
		nil,
	)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.Equal("ST1-AUC-XX-", preview.Prefix)
	rq.Equal("Low Gross", preview.RedFlagStatus)
	rq.True(decimal.NewFromInt(11000).Equal(preview.MarketVariance.Decimal))
}

func TestGetPolicy(t *testing.T) {
	rq := require.New(t)
	client := newTestServer(t, newServiceMock())

	var policy rest.Policy

	resp, err := client.Get(context.Background(), "/v1/policy", nil, &policy, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	rq.True(decimal.NewFromInt(1500).Equal(policy.MinGrossProfit.Decimal))
	rq.True(decimal.RequireFromString("0.2").Equal(policy.MaxReconPercentage.Decimal))
	rq.True(decimal.NewFromInt(50000).Equal(policy.HQPriceThreshold.Decimal))
}
