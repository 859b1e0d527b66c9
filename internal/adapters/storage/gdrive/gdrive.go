package gdrive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"lingobridge/internal/ports"
	"lingobridge/internal/storage/urlsign"
)

// Store implements ports.BlobStore on a Google Drive folder. Blob names map
// to file names inside the folder; fileIds are resolved per call. Signed URLs
// are proxied through the API's /blobs endpoints because Drive has no
// client-facing signed upload URLs.
//
// SignContainer is not supported: the external translator cannot read a Drive
// folder, so start-translation is rejected on this provider.
type Store struct {
	srv      *drive.Service
	folderID string
	signer   *urlsign.Signer
}

func New(srv *drive.Service, folderID string, signer *urlsign.Signer) *Store {
	return &Store{srv: srv, folderID: folderID, signer: signer}
}

func (s *Store) Provider() string { return "gdrive" }

func (s *Store) Put(ctx context.Context, name, contentType string, r io.Reader) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("blob name is required")
	}

	// Replace rather than duplicate when the name already exists.
	if existing, err := s.resolve(ctx, name); err == nil && existing != "" {
		if err := s.srv.Files.Delete(existing).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
			return 0, fmt.Errorf("gdrive replace %s: %w", name, err)
		}
	}

	file := &drive.File{Name: name}
	if s.folderID != "" {
		file.Parents = []string{s.folderID}
	}

	call := s.srv.Files.Create(file)
	if contentType != "" {
		call = call.Media(r, googleapi.ContentType(contentType))
	} else {
		call = call.Media(r)
	}

	created, err := call.Fields("id", "size").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("gdrive upload %s: %w", name, err)
	}
	return created.Size, nil
}

func (s *Store) Get(ctx context.Context, name string) (io.ReadCloser, string, int64, error) {
	id, err := s.resolve(ctx, name)
	if err != nil {
		return nil, "", 0, err
	}

	resp, err := s.srv.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, "", 0, fmt.Errorf("gdrive download %s: %w", name, err)
	}
	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

func (s *Store) List(ctx context.Context) ([]ports.BlobInfo, error) {
	var out []ports.BlobInfo

	q := "trashed = false"
	if s.folderID != "" {
		q = fmt.Sprintf("'%s' in parents and trashed = false", s.folderID)
	}

	pageToken := ""
	for {
		call := s.srv.Files.List().
			Q(q).
			Fields("nextPageToken, files(id, name, size)").
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("gdrive list: %w", err)
		}
		for _, f := range res.Files {
			out = append(out, ports.BlobInfo{Name: f.Name, Size: f.Size})
		}
		if res.NextPageToken == "" {
			return out, nil
		}
		pageToken = res.NextPageToken
	}
}

func (s *Store) Copy(ctx context.Context, src, dst string) error {
	id, err := s.resolve(ctx, src)
	if err != nil {
		return err
	}

	copyFile := &drive.File{Name: dst}
	if s.folderID != "" {
		copyFile.Parents = []string{s.folderID}
	}

	if _, err := s.srv.Files.Copy(id, copyFile).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gdrive copy %s -> %s: %w", src, dst, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	id, err := s.resolve(ctx, name)
	if err != nil {
		return err
	}
	if err := s.srv.Files.Delete(id).SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gdrive delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) SignUpload(ctx context.Context, name string, ttl time.Duration) (ports.SignedURL, error) {
	u, exp := s.signer.SignBlob(name, urlsign.ScopeUpload, ttl)
	return ports.SignedURL{URL: u, ExpiresAt: exp}, nil
}

func (s *Store) SignDownload(ctx context.Context, name string, ttl time.Duration) (ports.SignedURL, error) {
	u, exp := s.signer.SignBlob(name, urlsign.ScopeDownload, ttl)
	return ports.SignedURL{URL: u, ExpiresAt: exp}, nil
}

func (s *Store) SignContainer(ctx context.Context, ttl time.Duration) (ports.SignedURL, error) {
	return ports.SignedURL{}, ports.ErrNotSupported
}

// resolve finds the fileId for a blob name inside the folder.
func (s *Store) resolve(ctx context.Context, name string) (string, error) {
	escaped := strings.ReplaceAll(name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)

	q := fmt.Sprintf("name = '%s' and trashed = false", escaped)
	if s.folderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", s.folderID)
	}

	res, err := s.srv.Files.List().
		Q(q).
		Fields("files(id)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("gdrive resolve %s: %w", name, err)
	}
	if len(res.Files) == 0 {
		return "", fmt.Errorf("gdrive blob not found: %s", name)
	}
	return res.Files[0].Id, nil
}
