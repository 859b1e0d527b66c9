package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lingobridge/internal/httpkit"
)

// Download issues a read-scoped signed URL for an existing blob.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blobName := chi.URLParam(r, "blobName")

	signed, err := h.blobs.SignDownload(ctx, blobName, h.cfg.DownloadSASTTL)
	if err != nil {
		h.log.FromContext(ctx).Error("download sas failed", "error", err.Error(), "blob", blobName)
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to sign download url", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"download_url": signed.URL,
		"expires_at":   signed.ExpiresAt,
	})
}
