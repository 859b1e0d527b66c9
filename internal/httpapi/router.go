package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lingobridge/internal/httpapi/handlers"
	"lingobridge/internal/httpkit"
	"lingobridge/internal/pkg/middleware"
)

// Deps is what the router needs; it is handed through to the handlers.
type Deps = handlers.Deps

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Recovery(d.Log))

	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   d.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(d)

	r.Get("/health", h.Health)

	// ---- TRANSLATION FLOW ----
	r.Post("/request-upload-sas", h.RequestUploadSAS)
	r.Post("/start-translation", h.StartTranslation)
	r.Get("/check-status/{jobID}", h.CheckStatus)
	r.Get("/download/{blobName}", h.Download)

	// ---- SIGNED URL FULFILLMENT (localfs / gdrive providers) ----
	r.Put("/blobs/{blobName}", h.PutBlob)
	r.Get("/blobs/{blobName}", h.GetBlob)

	return r
}
