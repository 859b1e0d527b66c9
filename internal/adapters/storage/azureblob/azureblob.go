// Package azureblob implements ports.BlobStore on Azure Blob Storage with
// shared-key SAS issuance. This is the production provider: the translator
// reads and writes documents through the container SAS it returns.
package azureblob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"lingobridge/internal/ports"
)

const (
	// clockSkew backdates SAS start times so freshly minted tokens are valid
	// on storage nodes with slightly behind clocks.
	clockSkew = 5 * time.Minute

	copyPollInterval = 500 * time.Millisecond
	copyPollMax      = 2 * time.Minute
)

type Store struct {
	client     *azblob.Client
	cred       *azblob.SharedKeyCredential
	serviceURL string
	container  string
}

func New(account, key, containerName string) (*Store, error) {
	cred, err := azblob.NewSharedKeyCredential(account, key)
	if err != nil {
		return nil, fmt.Errorf("azureblob credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", account)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("azureblob client: %w", err)
	}

	return &Store{
		client:     client,
		cred:       cred,
		serviceURL: serviceURL,
		container:  containerName,
	}, nil
}

func (s *Store) Provider() string { return "azureblob" }

func (s *Store) Put(ctx context.Context, name, contentType string, r io.Reader) (int64, error) {
	cr := &countingReader{r: r}

	opts := &azblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}

	if _, err := s.client.UploadStream(ctx, s.container, name, cr, opts); err != nil {
		return 0, fmt.Errorf("azureblob upload %s: %w", name, err)
	}
	return cr.n, nil
}

func (s *Store) Get(ctx context.Context, name string) (io.ReadCloser, string, int64, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		return nil, "", 0, fmt.Errorf("azureblob download %s: %w", name, err)
	}

	var contentType string
	if resp.ContentType != nil {
		contentType = *resp.ContentType
	}
	var size int64
	if resp.ContentLength != nil {
		size = *resp.ContentLength
	}
	return resp.Body, contentType, size, nil
}

func (s *Store) List(ctx context.Context) ([]ports.BlobInfo, error) {
	var out []ports.BlobInfo

	pager := s.client.NewListBlobsFlatPager(s.container, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("azureblob list: %w", err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := ports.BlobInfo{Name: *item.Name}
			if item.Properties != nil && item.Properties.ContentLength != nil {
				info.Size = *item.Properties.ContentLength
			}
			out = append(out, info)
		}
	}
	return out, nil
}

// Copy server-side copies src to dst and polls blob properties until the
// copy leaves the pending state.
func (s *Store) Copy(ctx context.Context, src, dst string) error {
	srcURL, err := s.SignDownload(ctx, src, 15*time.Minute)
	if err != nil {
		return err
	}

	cc := s.client.ServiceClient().NewContainerClient(s.container)
	dstBlob := cc.NewBlobClient(dst)

	if _, err := dstBlob.StartCopyFromURL(ctx, srcURL.URL, nil); err != nil {
		return fmt.Errorf("azureblob copy %s -> %s: %w", src, dst, err)
	}

	deadline := time.Now().Add(copyPollMax)
	for {
		props, err := dstBlob.GetProperties(ctx, nil)
		if err != nil {
			return fmt.Errorf("azureblob copy poll %s: %w", dst, err)
		}
		if props.CopyStatus == nil || *props.CopyStatus == blob.CopyStatusTypeSuccess {
			return nil
		}
		if *props.CopyStatus != blob.CopyStatusTypePending {
			return fmt.Errorf("azureblob copy %s -> %s: status %s", src, dst, *props.CopyStatus)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("azureblob copy %s -> %s: still pending after %s", src, dst, copyPollMax)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(copyPollInterval):
		}
	}
}

func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		return fmt.Errorf("azureblob delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) SignUpload(ctx context.Context, name string, ttl time.Duration) (ports.SignedURL, error) {
	perms := sas.BlobPermissions{Write: true, Create: true}
	return s.signBlob(name, perms.String(), ttl)
}

func (s *Store) SignDownload(ctx context.Context, name string, ttl time.Duration) (ports.SignedURL, error) {
	perms := sas.BlobPermissions{Read: true}
	return s.signBlob(name, perms.String(), ttl)
}

func (s *Store) SignContainer(ctx context.Context, ttl time.Duration) (ports.SignedURL, error) {
	now := time.Now().UTC()
	expiry := now.Add(ttl)

	perms := sas.ContainerPermissions{Read: true, List: true, Write: true, Create: true}
	vals := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-clockSkew),
		ExpiryTime:    expiry,
		ContainerName: s.container,
		Permissions:   perms.String(),
	}

	qp, err := vals.SignWithSharedKey(s.cred)
	if err != nil {
		return ports.SignedURL{}, fmt.Errorf("azureblob container sas: %w", err)
	}

	return ports.SignedURL{
		URL:       fmt.Sprintf("%s/%s?%s", s.serviceURL, s.container, qp.Encode()),
		ExpiresAt: expiry,
	}, nil
}

func (s *Store) signBlob(name, permissions string, ttl time.Duration) (ports.SignedURL, error) {
	now := time.Now().UTC()
	expiry := now.Add(ttl)

	vals := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		StartTime:     now.Add(-clockSkew),
		ExpiryTime:    expiry,
		ContainerName: s.container,
		BlobName:      name,
		Permissions:   permissions,
	}

	qp, err := vals.SignWithSharedKey(s.cred)
	if err != nil {
		return ports.SignedURL{}, fmt.Errorf("azureblob blob sas %s: %w", name, err)
	}

	return ports.SignedURL{
		URL:       fmt.Sprintf("%s/%s/%s?%s", s.serviceURL, s.container, url.PathEscape(name), qp.Encode()),
		ExpiresAt: expiry,
	}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
