package handlers

import (
	"context"
	"net/http"
	"time"

	"lingobridge/internal/httpkit"
)

// Health performs a health check of the service.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	health := map[string]any{
		"status":  "ok",
		"service": "lingobridge-api",
		"version": "0.1.0",
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := h.deepHealthCheck(ctx)
		health["checks"] = checks

		for _, check := range checks {
			if checkMap, ok := check.(map[string]any); ok {
				if checkMap["status"] != "ok" {
					health["status"] = "degraded"
					log.Warn("health check degraded", "checks", checks)
					break
				}
			}
		}
	}

	httpkit.WriteJSON(w, 200, health)
}

func (h *Handler) deepHealthCheck(ctx context.Context) map[string]any {
	checks := make(map[string]any)
	checks["job_store"] = h.checkJobStore(ctx)
	checks["storage"] = h.checkStorage(ctx)
	checks["translator"] = h.checkTranslator()
	return checks
}

func (h *Handler) checkJobStore(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{"status": "ok"}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.jobs.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}

	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

func (h *Handler) checkStorage(_ context.Context) map[string]any {
	// Report the active provider; connectivity checks would burn a storage
	// round-trip on every probe.
	return map[string]any{
		"status":   "ok",
		"provider": h.blobs.Provider(),
	}
}

func (h *Handler) checkTranslator() map[string]any {
	result := map[string]any{"status": "ok"}
	if h.cfg.TranslatorEndpoint == "" {
		result["status"] = "error"
		result["error"] = "AZURE_TRANSLATOR_ENDPOINT not configured"
	}
	return result
}
