package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"acquisition_desk/pkg/logx"
	"acquisition_desk/pkg/middlewarex"
)

// Server groups the HTTP handlers of the service.
type Server struct {
	VehicleServer
}

func NewServer(
	vehicleServer VehicleServer,
) Server {
	return Server{
		VehicleServer: vehicleServer,
	}
}

// Handler wires the middleware chain and the routes.
func (s Server) Handler(sensitiveDataMasker logx.SensitiveDataMaskerInterface, logFieldMaxLen int) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.RequestLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.ResponseLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.Recovery,
	)

	s.RegisterRoutes(r)

	return r
}
