package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"
	"github.com/go-chi/chi/v5"

	"acquisition_desk/internal/domain/entity"
	"acquisition_desk/internal/domain/service/acquisition"
	"acquisition_desk/internal/domain/service/valuation"
	"acquisition_desk/pkg/errcodes"
	"acquisition_desk/pkg/httpx/reply"
	"acquisition_desk/pkg/httpx/req"
	"acquisition_desk/pkg/lox"
	"acquisition_desk/pkg/rest"
)

const defaultPageSize = 20

type vehicleService interface {
	Submit(ctx context.Context, a entity.Acquisition) (*entity.Vehicle, error)
	Get(ctx context.Context, stockNumber string) (*entity.Vehicle, error)
	List(ctx context.Context, limit, offset int) ([]entity.Vehicle, int, error)
	Reevaluate(ctx context.Context, stockNumber string) (*entity.Vehicle, error)
	Preview(a entity.Acquisition) (acquisition.Preview, error)
	Policy() valuation.Policy
}

type VehicleServer struct {
	vehicleService vehicleService
}

func NewVehicleServer(vehicleService vehicleService) VehicleServer {
	return VehicleServer{
		vehicleService: vehicleService,
	}
}

func (s VehicleServer) postV1Vehicle(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.VehicleSubmission

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	vehicle, err := s.vehicleService.Submit(ctx, newDomainAcquisition(request))
	if err != nil {
		return fmt.Errorf("vehicleService.Submit: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTVehicle(*vehicle))

	return nil
}

func (s VehicleServer) getV1Vehicles(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := queryInt(r, "limit", defaultPageSize)
	if err != nil {
		return err
	}

	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return err
	}

	vehicles, total, err := s.vehicleService.List(ctx, limit, offset)
	if err != nil {
		return fmt.Errorf("vehicleService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.VehicleList{
		Items:  lox.Map(vehicles, newRESTVehicle),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})

	return nil
}

func (s VehicleServer) getV1Vehicle(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	vehicle, err := s.vehicleService.Get(ctx, chi.URLParam(r, "stockNumber"))
	if err != nil {
		return fmt.Errorf("vehicleService.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTVehicle(*vehicle))

	return nil
}

func (s VehicleServer) postV1VehicleEvaluation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	vehicle, err := s.vehicleService.Reevaluate(ctx, chi.URLParam(r, "stockNumber"))
	if err != nil {
		return fmt.Errorf("vehicleService.Reevaluate: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTVehicle(*vehicle))

	return nil
}

func (s VehicleServer) postV1Evaluation(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.VehicleSubmission

	if err := req.Decode(r, &request); err != nil {
		return fmt.Errorf("req.Decode: %w", err)
	}

	preview, err := s.vehicleService.Preview(newDomainAcquisition(request))
	if err != nil {
		return fmt.Errorf("vehicleService.Preview: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTPreview(preview))

	return nil
}

func (s VehicleServer) getV1Policy(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, newRESTPolicy(s.vehicleService.Policy()))

	return nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.NewInvalidArgumentError(
			fmt.Sprintf("strconv.Atoi: %s", err),
			failure.WithCode(errcodes.InvalidPaging),
			failure.WithDescription(name+" must be an integer"),
		)
	}

	return n, nil
}
