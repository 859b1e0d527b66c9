package translator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewBatchRequest(t *testing.T) {
	req := NewBatchRequest("https://store/docs?sas", []string{"fr", "de"})

	if len(req.Inputs) != 1 {
		t.Fatalf("expected 1 input, got %d", len(req.Inputs))
	}
	in := req.Inputs[0]
	if in.Source.SourceURL != "https://store/docs?sas" {
		t.Errorf("unexpected source url: %s", in.Source.SourceURL)
	}
	if len(in.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(in.Targets))
	}
	if in.Targets[0].Language != "fr" || in.Targets[1].Language != "de" {
		t.Errorf("unexpected target languages: %+v", in.Targets)
	}
	if in.Targets[0].TargetURL != in.Source.SourceURL {
		t.Error("expected target url to match source url")
	}
}

func TestSubmit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/batches" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Error("missing subscription key header")
		}
		w.Header().Set("Operation-Location", srvJobURL(r, "job-42"))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key")
	jobID, err := c.Submit(context.Background(), NewBatchRequest("https://store/docs", []string{"fr"}))
	if err != nil {
		t.Fatal(err)
	}
	if jobID != "job-42" {
		t.Errorf("expected job-42, got %s", jobID)
	}
}

func srvJobURL(r *http.Request, id string) string {
	return "http://" + r.Host + "/batches/" + id
}

func TestSubmitUpstreamRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid subscription key"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "bad-key")
	_, err := c.Submit(context.Background(), NewBatchRequest("https://store/docs", []string{"fr"}))

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", upstream.StatusCode)
	}
	if upstream.Body != "invalid subscription key" {
		t.Errorf("expected upstream body to be preserved, got %q", upstream.Body)
	}
}

func TestSubmitMissingOperationLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key")
	_, err := c.Submit(context.Background(), NewBatchRequest("https://store/docs", []string{"fr"}))
	if err == nil {
		t.Fatal("expected error for missing Operation-Location header")
	}
}

func TestGetStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/batches/job-42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"job-42","status":"Succeeded","summary":{"total":3,"success":3}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key")
	st, err := c.GetStatus(context.Background(), "job-42")
	if err != nil {
		t.Fatal(err)
	}
	if st.Status != "Succeeded" {
		t.Errorf("expected Succeeded, got %s", st.Status)
	}
	if st.Raw["id"] != "job-42" {
		t.Errorf("expected raw document to be preserved, got %v", st.Raw)
	}
}

func TestGetStatusUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("job does not exist"))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key")
	_, err := c.GetStatus(context.Background(), "nope")

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", upstream.StatusCode)
	}
}
