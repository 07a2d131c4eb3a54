package routes

import (
	"net/http"

	"github.com/medatlas/directory-api/internal/api/handlers"
	"github.com/medatlas/directory-api/internal/api/middleware"
	"github.com/medatlas/directory-api/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler    *handlers.SearchHandler
	hospitalHandler  *handlers.HospitalHandler
	doctorHandler    *handlers.DoctorHandler
	treatmentHandler *handlers.TreatmentHandler
	directoryHandler *handlers.DirectoryHandler
	inquiryHandler   *handlers.InquiryHandler

	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	hospitalHandler *handlers.HospitalHandler,
	doctorHandler *handlers.DoctorHandler,
	treatmentHandler *handlers.TreatmentHandler,
	directoryHandler *handlers.DirectoryHandler,
	inquiryHandler *handlers.InquiryHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		searchHandler:    searchHandler,
		hospitalHandler:  hospitalHandler,
		doctorHandler:    doctorHandler,
		treatmentHandler: treatmentHandler,
		directoryHandler: directoryHandler,
		inquiryHandler:   inquiryHandler,

		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Combined search
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)

	// Hospital endpoints
	r.mux.HandleFunc("GET /api/hospitals", r.hospitalHandler.ListHospitals)
	r.mux.HandleFunc("GET /api/hospitals/{slug}", r.hospitalHandler.GetHospital)

	// Doctor endpoints
	r.mux.HandleFunc("GET /api/doctors", r.doctorHandler.ListDoctors)
	r.mux.HandleFunc("GET /api/doctors/{slug}", r.doctorHandler.GetDoctor)

	// Treatment endpoints
	r.mux.HandleFunc("GET /api/treatments", r.treatmentHandler.ListTreatments)
	r.mux.HandleFunc("GET /api/treatments/{slug}", r.treatmentHandler.GetTreatment)

	// Lookup collections
	r.mux.HandleFunc("GET /api/cities", r.directoryHandler.ListCities)
	r.mux.HandleFunc("GET /api/departments", r.directoryHandler.ListDepartments)

	// Form relay endpoints
	r.mux.HandleFunc("POST /api/contact", r.inquiryHandler.SubmitContact)
	r.mux.HandleFunc("POST /api/register", r.inquiryHandler.SubmitRegistration)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so cached responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	handler = middleware.ResponseOptimization(handler)

	handler = middleware.CORSMiddleware(handler)

	return handler
}
