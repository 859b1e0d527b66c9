// Package urlsign mints and verifies HMAC-signed blob URLs for storage
// providers without native signed-URL support (localfs, gdrive). The API
// serves the signed URLs itself under /blobs/{name}.
package urlsign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrExpired    = errors.New("signed url expired")
	ErrBadSig     = errors.New("signature mismatch")
	ErrBadRequest = errors.New("malformed signed url parameters")
)

// Scope restricts what a token grants.
type Scope string

const (
	ScopeUpload    Scope = "upload"
	ScopeDownload  Scope = "download"
	ScopeContainer Scope = "container"
)

type Signer struct {
	secret  []byte
	baseURL string // e.g. http://localhost:8080
}

func New(secret, baseURL string) *Signer {
	return &Signer{secret: []byte(secret), baseURL: strings.TrimRight(baseURL, "/")}
}

// SignBlob returns a URL for /blobs/{name} carrying scope, expiry and signature.
func (s *Signer) SignBlob(name string, scope Scope, ttl time.Duration) (string, time.Time) {
	exp := time.Now().UTC().Add(ttl)
	sig := s.sign(name, scope, exp.Unix())
	u := fmt.Sprintf("%s/blobs/%s?scope=%s&exp=%d&sig=%s",
		s.baseURL, url.PathEscape(name), scope, exp.Unix(), sig)
	return u, exp
}

// SignContainer returns a URL for /blobs (the whole container).
func (s *Signer) SignContainer(ttl time.Duration) (string, time.Time) {
	exp := time.Now().UTC().Add(ttl)
	sig := s.sign("", ScopeContainer, exp.Unix())
	u := fmt.Sprintf("%s/blobs?scope=%s&exp=%d&sig=%s", s.baseURL, ScopeContainer, exp.Unix(), sig)
	return u, exp
}

// Verify checks the query parameters of an incoming request against name.
// want is the scope the endpoint requires; container tokens satisfy any scope.
func (s *Signer) Verify(name string, q url.Values, want Scope) error {
	scope := Scope(q.Get("scope"))
	expStr := q.Get("exp")
	sig := q.Get("sig")
	if scope == "" || expStr == "" || sig == "" {
		return ErrBadRequest
	}

	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return ErrBadRequest
	}
	if time.Now().UTC().Unix() > exp {
		return ErrExpired
	}

	signedName := name
	if scope == ScopeContainer {
		signedName = ""
	} else if scope != want {
		return ErrBadSig
	}

	expect := s.sign(signedName, scope, exp)
	if !hmac.Equal([]byte(expect), []byte(sig)) {
		return ErrBadSig
	}
	return nil
}

func (s *Signer) sign(name string, scope Scope, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", name, scope, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
