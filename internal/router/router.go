package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/docintegrity/pdf-forensics-api/internal/handlers"
	"github.com/docintegrity/pdf-forensics-api/internal/middleware"
	"github.com/docintegrity/pdf-forensics-api/internal/services"
	"github.com/docintegrity/pdf-forensics-api/internal/utils"
)

func NewRouter(service services.AnalysisService, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Recovery(logger))

	// Analysis handler
	analysisHandler := handlers.NewAnalysisHandler(service, logger)

	// Routes
	api := r.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Document endpoints
	api.HandleFunc("/documents/upload", analysisHandler.UploadDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}/analyze", analysisHandler.AnalyzeDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}/report", analysisHandler.GetReport).Methods(http.MethodGet)
	api.HandleFunc("/documents/{id}", analysisHandler.GetDocument).Methods(http.MethodGet)

	return r
}
