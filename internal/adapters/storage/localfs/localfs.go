package localfs

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lingobridge/internal/ports"
	"lingobridge/internal/storage/urlsign"
)

// LocalFS implements ports.BlobStore on a root directory. Signed URLs are
// HMAC tokens pointing back at the API's /blobs endpoints, so the full
// upload/translate/download flow works without a cloud account.
type LocalFS struct {
	root   string
	signer *urlsign.Signer
}

func New(root string, signer *urlsign.Signer) *LocalFS {
	return &LocalFS{root: root, signer: signer}
}

func (l *LocalFS) Provider() string { return "localfs" }

func (l *LocalFS) path(name string) string {
	return filepath.Join(l.root, filepath.FromSlash(name))
}

func (l *LocalFS) Put(ctx context.Context, name, contentType string, r io.Reader) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("blob name is required")
	}

	dst := l.path(name)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return io.Copy(f, r)
}

func (l *LocalFS) Get(ctx context.Context, name string) (rc io.ReadCloser, contentType string, size int64, err error) {
	f, err := os.Open(l.path(name))
	if err != nil {
		return nil, "", 0, err
	}

	if st, statErr := f.Stat(); statErr == nil {
		size = st.Size()
	}

	// Prefer extension-based type. If empty, sniff first bytes.
	contentType = mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		buf := make([]byte, 512)
		n, _ := f.Read(buf)
		_, _ = f.Seek(0, 0)
		contentType = http.DetectContentType(buf[:n])
	}

	return f, contentType, size, nil
}

func (l *LocalFS) List(ctx context.Context) ([]ports.BlobInfo, error) {
	var out []ports.BlobInfo
	err := filepath.Walk(l.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		out = append(out, ports.BlobInfo{
			Name: filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

func (l *LocalFS) Copy(ctx context.Context, src, dst string) error {
	in, err := os.Open(l.path(src))
	if err != nil {
		return err
	}
	defer in.Close()

	target := l.path(dst)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (l *LocalFS) Delete(ctx context.Context, name string) error {
	return os.Remove(l.path(name))
}

func (l *LocalFS) SignUpload(ctx context.Context, name string, ttl time.Duration) (ports.SignedURL, error) {
	if strings.Contains(name, "..") {
		return ports.SignedURL{}, fmt.Errorf("invalid blob name: %s", name)
	}
	u, exp := l.signer.SignBlob(name, urlsign.ScopeUpload, ttl)
	return ports.SignedURL{URL: u, ExpiresAt: exp}, nil
}

func (l *LocalFS) SignDownload(ctx context.Context, name string, ttl time.Duration) (ports.SignedURL, error) {
	u, exp := l.signer.SignBlob(name, urlsign.ScopeDownload, ttl)
	return ports.SignedURL{URL: u, ExpiresAt: exp}, nil
}

func (l *LocalFS) SignContainer(ctx context.Context, ttl time.Duration) (ports.SignedURL, error) {
	u, exp := l.signer.SignContainer(ttl)
	return ports.SignedURL{URL: u, ExpiresAt: exp}, nil
}
