package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acquisition_desk/internal/domain"
	"acquisition_desk/pkg/errcodes"
	"acquisition_desk/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Route("/vehicles", func(r chi.Router) {
			r.Post("/", handler(s.postV1Vehicle))
			r.Get("/", handler(s.getV1Vehicles))
			r.Get("/{stockNumber}", handler(s.getV1Vehicle))
			r.Post("/{stockNumber}/evaluation", handler(s.postV1VehicleEvaluation))
		})

		r.Post("/evaluations", handler(s.postV1Evaluation))
		r.Get("/policy", handler(s.getV1Policy))
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

// writeError maps domain error codes to statuses and leaves the rest to
// reply.Error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var appErr *domain.AppError
	if !errors.As(err, &appErr) {
		reply.Error(ctx, w, err)
		return
	}

	switch appErr.Code {
	case errcodes.VehicleNotFound:
		reply.Status(ctx, w, http.StatusNotFound, appErr.Code, appErr.Message, err)
	case errcodes.AllocationConflict, errcodes.DuplicateSubmission:
		reply.Status(ctx, w, http.StatusConflict, appErr.Code, appErr.Message, err)
	case errcodes.InvalidVehicle, errcodes.InvalidStockNumber, errcodes.InvalidPaging, errcodes.InvalidPolicy:
		reply.Status(ctx, w, http.StatusBadRequest, appErr.Code, appErr.Message, err)
	case errcodes.LockNotObtained:
		reply.Status(ctx, w, http.StatusServiceUnavailable, appErr.Code, appErr.Message, err)
	default:
		reply.Status(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError, "internal server error", err)
	}
}
