package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iosugomez/kotxea/internal/middleware"
	"github.com/iosugomez/kotxea/internal/service"
)

// Routes registers every endpoint and wraps the mux with the middleware chain.
func Routes(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /save", h.Save)                             // Persist trips and reports
	mux.HandleFunc("GET /datos", h.Records)                          // Stored trip list
	mux.HandleFunc("GET /csv/viajes", h.Report(service.ReportRides)) // Seat balance report
	mux.HandleFunc("GET /csv/dinero", h.Report(service.ReportMoney)) // Money balance report
	mux.HandleFunc("POST /pagos-minimos", h.Settle)                  // Settlement, not persisted
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.Chain(mux,
		middleware.Recover,
		middleware.RequestID,
		middleware.Logging,
		middleware.Metrics,
		middleware.CORS,
	)
}
