package downloader

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dyndns/config"
)

func TestDownload(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		io.WriteString(w, "Current IP Address: 203.0.113.5</body>")
	}))
	defer srv.Close()

	d, err := New(context.Background(), config.Download{})
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}

	data, err := d.Download(context.Background(), srv.URL, "dyndnsd/test")
	if err != nil {
		t.Fatalf("Download failed: %s", err)
	}

	if want := "Current IP Address: 203.0.113.5</body>"; string(data) != want {
		t.Errorf("body = %q, want %q", data, want)
	}
	if gotAgent != "dyndnsd/test" {
		t.Errorf("User-Agent = %q, want dyndnsd/test", gotAgent)
	}
}

func TestDownloadRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	d, err := New(context.Background(), config.Download{})
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}

	if _, err := d.Download(context.Background(), srv.URL, ""); err == nil {
		t.Fatal("expected an error for status 403")
	}
}

func TestDownloadReadLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "0123456789ABCDEF")
	}))
	defer srv.Close()

	d, err := New(context.Background(), config.Download{
		Config: map[string]any{"timeout": "5s", "max_read": 8},
	})
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}

	data, err := d.Download(context.Background(), srv.URL, "")
	if err != nil {
		t.Fatalf("Download failed: %s", err)
	}
	if want := "01234567"; string(data) != want {
		t.Errorf("body = %q, want %q", data, want)
	}
}

func TestNewBadConfig(t *testing.T) {
	_, err := New(context.Background(), config.Download{
		Config: map[string]any{"timeout": "soon"},
	})
	if err == nil {
		t.Fatal("expected an error for a bad timeout")
	}
}

func TestDownloadConnectionFailure(t *testing.T) {
	d, err := New(context.Background(), config.Download{})
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}

	if _, err := d.Download(context.Background(), "http://127.0.0.1:1/", ""); err == nil {
		t.Fatal("expected a connection error")
	}
}
