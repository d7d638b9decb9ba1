package http

import (
	"net/http"

	"doctor-connect/internal/delivery/http/handler"
	"doctor-connect/internal/delivery/http/middleware"
	"doctor-connect/pkg/metrics"
	"doctor-connect/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	userHandler        *handler.UserHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	metrics            *metrics.Metrics
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metrics *metrics.Metrics,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		userHandler:        userHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		metrics:            metrics,
	}
}

// Setup registers every route. CORS wraps the router itself so preflight
// requests are answered before route matching.
func (r *Router) Setup() http.Handler {
	r.router.Use(r.metrics.Middleware)
	r.router.Handle("/metrics", r.metrics.Handler()).Methods(http.MethodGet)

	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctors (public)
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/slots", r.doctorHandler.GetSlots).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/dashboard", r.doctorHandler.GetDashboard).Methods(http.MethodGet)

	// Appointments (public, guest booking allowed)
	api.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	api.HandleFunc("/appointments/availability", r.appointmentHandler.CheckAvailability).Methods(http.MethodGet)
	api.Handle("/appointments", r.authMiddleware.Optional(http.HandlerFunc(r.appointmentHandler.CreateAppointment))).Methods(http.MethodPost)
	api.HandleFunc("/appointments/{id}", r.appointmentHandler.GetAppointment).Methods(http.MethodGet)

	// Users and auth (public)
	api.HandleFunc("/users", r.userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", r.userHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/me", r.userHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/me").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/dashboard", r.doctorHandler.GetMyDashboard).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
