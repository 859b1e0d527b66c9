package urlsign

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSignBlobRoundTrip(t *testing.T) {
	s := New("test-secret", "http://localhost:8080")

	signed, exp := s.SignBlob("doc.pdf", ScopeUpload, time.Hour)
	if !strings.HasPrefix(signed, "http://localhost:8080/blobs/doc.pdf?") {
		t.Fatalf("unexpected url: %s", signed)
	}
	if exp.Before(time.Now().UTC()) {
		t.Error("expected expiry in the future")
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Verify("doc.pdf", u.Query(), ScopeUpload); err != nil {
		t.Errorf("expected valid signature, got %v", err)
	}
}

func TestVerifyRejectsWrongScope(t *testing.T) {
	s := New("test-secret", "http://localhost:8080")

	signed, _ := s.SignBlob("doc.pdf", ScopeUpload, time.Hour)
	u, _ := url.Parse(signed)

	if err := s.Verify("doc.pdf", u.Query(), ScopeDownload); err == nil {
		t.Error("expected upload token to be rejected for download scope")
	}
}

func TestVerifyRejectsTamperedName(t *testing.T) {
	s := New("test-secret", "http://localhost:8080")

	signed, _ := s.SignBlob("doc.pdf", ScopeDownload, time.Hour)
	u, _ := url.Parse(signed)

	if err := s.Verify("other.pdf", u.Query(), ScopeDownload); err == nil {
		t.Error("expected signature mismatch for a different blob name")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	s := New("test-secret", "http://localhost:8080")

	signed, _ := s.SignBlob("doc.pdf", ScopeDownload, -time.Minute)
	u, _ := url.Parse(signed)

	if err := s.Verify("doc.pdf", u.Query(), ScopeDownload); err != ErrExpired {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyRejectsDifferentSecret(t *testing.T) {
	a := New("secret-a", "http://localhost:8080")
	b := New("secret-b", "http://localhost:8080")

	signed, _ := a.SignBlob("doc.pdf", ScopeDownload, time.Hour)
	u, _ := url.Parse(signed)

	if err := b.Verify("doc.pdf", u.Query(), ScopeDownload); err != ErrBadSig {
		t.Errorf("expected ErrBadSig, got %v", err)
	}
}

func TestVerifyMissingParams(t *testing.T) {
	s := New("test-secret", "http://localhost:8080")

	if err := s.Verify("doc.pdf", url.Values{}, ScopeDownload); err != ErrBadRequest {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestContainerTokenSatisfiesBlobScopes(t *testing.T) {
	s := New("test-secret", "http://localhost:8080")

	signed, _ := s.SignContainer(time.Hour)
	u, _ := url.Parse(signed)

	for _, want := range []Scope{ScopeUpload, ScopeDownload} {
		if err := s.Verify("any-blob.txt", u.Query(), want); err != nil {
			t.Errorf("container token rejected for scope %s: %v", want, err)
		}
	}
}
