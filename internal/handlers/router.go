package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markjakearzadon/rxmate-checkout/internal/services"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

// Deps is everything the router needs to serve requests.
type Deps struct {
	Directory      *services.DirectoryService
	Checkout       *services.CheckoutService
	Payments       *services.PaymentService
	Accounts       *services.AccountService
	Contact        *services.ContactService
	Cache          *session.Cache
	Sessions       *session.Manager
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	directoryHandler := NewDirectoryHandler(d.Directory)
	paymentHandler := NewPaymentHandler(d.Checkout, d.Payments, d.Cache)
	accountHandler := NewAccountHandler(d.Accounts)
	contactHandler := NewContactHandler(d.Contact)

	router := mux.NewRouter()
	router.Use(requestLogger(d.Logger))
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")
	if d.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	// gateway callbacks carry no browser session
	router.HandleFunc("/api/payment/webhook", paymentHandler.Webhook).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(d.Sessions.Middleware)

	api.HandleFunc("/universities", directoryHandler.ListUniversities).Methods("GET")
	api.HandleFunc("/universities/{universityID}", directoryHandler.GetUniversity).Methods("GET")
	api.HandleFunc("/universities/{universityID}/cohorts", directoryHandler.UniversityCohorts).Methods("GET")
	api.HandleFunc("/cohorts", directoryHandler.ListCohorts).Methods("GET")
	api.HandleFunc("/cohorts/{cohortID}", directoryHandler.GetCohort).Methods("GET")
	api.HandleFunc("/catalog", directoryHandler.Catalog).Methods("GET")

	api.HandleFunc("/checkout", paymentHandler.Checkout).Methods("POST")
	api.HandleFunc("/checkout/session", paymentHandler.ClearSession).Methods("DELETE")
	api.HandleFunc("/payment/verify", paymentHandler.Verify).Methods("GET")
	api.HandleFunc("/payment/{reference}", paymentHandler.Status).Methods("GET")

	api.HandleFunc("/account-setup", accountHandler.Setup).Methods("POST")
	api.HandleFunc("/contact", contactHandler.Contact).Methods("POST")
	api.HandleFunc("/newsletter/subscribe", contactHandler.Subscribe).Methods("POST")

	return cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", services.SignatureHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(router)
}
