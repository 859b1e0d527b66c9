package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lingobridge/internal/httpkit"
	"lingobridge/internal/jobs"
	"lingobridge/internal/ports"
	"lingobridge/internal/translator"
)

type TranslationRequest struct {
	TargetLanguages []string `json:"target_languages"`
}

// StartTranslation delegates container access to the translator, submits the
// batch job and spawns the background poller for it. The response carries
// only the service-assigned job id; progress is read via check-status.
func (h *Handler) StartTranslation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.log.FromContext(ctx)

	var req TranslationRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid json body", nil)
		return
	}

	langs := make([]string, 0, len(req.TargetLanguages))
	for _, lang := range req.TargetLanguages {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	if len(langs) == 0 {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "target_languages must contain at least one language",
			map[string]any{"field": "target_languages"})
		return
	}

	container, err := h.blobs.SignContainer(ctx, h.cfg.ContainerSASTTL)
	if err != nil {
		if errors.Is(err, ports.ErrNotSupported) {
			httpkit.WriteErr(w, 412, "STORAGE_UNSUPPORTED",
				"storage provider cannot delegate container access to the translator",
				map[string]any{"provider": h.blobs.Provider()})
			return
		}
		log.Error("container sas failed", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to sign container url", nil)
		return
	}

	// Snapshot the container so the renamer can tell sources from outputs
	// once the job succeeds.
	listing, err := h.blobs.List(ctx)
	if err != nil {
		log.Error("container listing failed", "error", err.Error())
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to list container", nil)
		return
	}
	sources := make([]string, 0, len(listing))
	for _, b := range listing {
		sources = append(sources, b.Name)
	}

	jobID, err := h.translator.Submit(ctx, translator.NewBatchRequest(container.URL, langs))
	if err != nil {
		var upstream *translator.UpstreamError
		if errors.As(err, &upstream) {
			httpkit.WriteErr(w, upstream.StatusCode, "TRANSLATOR_REJECTED",
				"translation submission rejected", map[string]any{"detail": upstream.Body})
			return
		}
		log.Error("translation submit failed", "error", err.Error())
		httpkit.WriteErr(w, 502, "TRANSLATOR_UNREACHABLE", "failed to reach translation service", nil)
		return
	}

	job := &jobs.Job{
		ID:              jobID,
		Status:          jobs.StatusRunning,
		SourceBlobs:     sources,
		TargetLanguages: langs,
	}
	if err := h.jobs.Create(ctx, job); err != nil {
		log.Error("job record create failed", "error", err.Error(), "job_id", jobID)
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to record job", nil)
		return
	}

	h.poller.Watch(h.pollCtx, jobID)
	log.Info("translation started", "job_id", jobID, "languages", langs, "sources", len(sources))

	httpkit.WriteJSON(w, 202, map[string]any{"job_id": jobID})
}

// CheckStatus returns the last recorded job state. Unknown ids answer 200
// with a sentinel status, matching the lookup semantics clients rely on.
func (h *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID := chi.URLParam(r, "jobID")

	job, ok, err := h.jobs.Get(ctx, jobID)
	if err != nil {
		h.log.FromContext(ctx).Error("job lookup failed", "error", err.Error(), "job_id", jobID)
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "job lookup failed", nil)
		return
	}
	if !ok {
		httpkit.WriteJSON(w, 200, map[string]any{"status": "Unknown job_id"})
		return
	}

	httpkit.WriteJSON(w, 200, job)
}
