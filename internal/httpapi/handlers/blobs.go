package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lingobridge/internal/httpkit"
	"lingobridge/internal/storage/urlsign"
)

// PutBlob and GetBlob fulfill proxied signed URLs for providers without
// native ones (localfs, gdrive). Every request carries the HMAC token minted
// by urlsign; nothing here is reachable without a valid, unexpired signature.

func (h *Handler) PutBlob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blobName := chi.URLParam(r, "blobName")

	if err := h.verifySignature(w, blobName, r, urlsign.ScopeUpload); err != nil {
		return
	}

	contentType := r.Header.Get("Content-Type")
	size, err := h.blobs.Put(ctx, blobName, contentType, r.Body)
	if err != nil {
		h.log.FromContext(ctx).Error("blob upload failed", "error", err.Error(), "blob", blobName)
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "blob upload failed", nil)
		return
	}

	httpkit.WriteJSON(w, 201, map[string]any{
		"blob_name":  blobName,
		"size_bytes": size,
	})
}

func (h *Handler) GetBlob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	blobName := chi.URLParam(r, "blobName")

	if err := h.verifySignature(w, blobName, r, urlsign.ScopeDownload); err != nil {
		return
	}

	rc, contentType, size, err := h.blobs.Get(ctx, blobName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			httpkit.WriteErr(w, 404, "BLOB_NOT_FOUND", "blob not found", map[string]any{"blob_name": blobName})
			return
		}
		h.log.FromContext(ctx).Error("blob read failed", "error", err.Error(), "blob", blobName)
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "blob read failed", nil)
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	_, _ = io.Copy(w, rc)
}

func (h *Handler) verifySignature(w http.ResponseWriter, blobName string, r *http.Request, want urlsign.Scope) error {
	err := h.signer.Verify(blobName, r.URL.Query(), want)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, urlsign.ErrExpired):
		httpkit.WriteErr(w, 403, "URL_EXPIRED", "signed url expired", nil)
	case errors.Is(err, urlsign.ErrBadRequest):
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "missing signed url parameters", nil)
	default:
		httpkit.WriteErr(w, 403, "FORBIDDEN", "invalid signature", nil)
	}
	return err
}
