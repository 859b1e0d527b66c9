package handlers

import (
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"lingobridge/internal/httpkit"
)

type UploadRequest struct {
	Filename string `json:"filename"`
}

// RequestUploadSAS issues a write-scoped signed URL for a new blob. The blob
// name is the filename prefixed with a fresh UUID, so repeated uploads of the
// same file never collide.
func (h *Handler) RequestUploadSAS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req UploadRequest
	if err := httpkit.DecodeJSON(r, &req); err != nil {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "invalid json body", nil)
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		httpkit.WriteErr(w, 400, "VALIDATION_ERROR", "filename is required", map[string]any{"field": "filename"})
		return
	}

	blobName := uuid.NewString() + "-" + sanitizeFilename(req.Filename)

	signed, err := h.blobs.SignUpload(ctx, blobName, h.cfg.UploadSASTTL)
	if err != nil {
		h.log.FromContext(ctx).Error("upload sas failed", "error", err.Error(), "blob", blobName)
		httpkit.WriteErr(w, 500, "INTERNAL_ERROR", "failed to sign upload url", nil)
		return
	}

	httpkit.WriteJSON(w, 200, map[string]any{
		"blob_name":  blobName,
		"upload_url": signed.URL,
		"expires_at": signed.ExpiresAt,
	})
}

// sanitizeFilename flattens the client-supplied filename into a safe flat
// blob name segment.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))

	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == '.', c == '_', c == '-':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}

	out := strings.Trim(b.String(), ".")
	if out == "" {
		return "file"
	}
	return out
}
