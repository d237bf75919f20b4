package mdmath

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetchScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("---\ntitle: Remote\n---\n$a + b$\n"))
	}))
	defer srv.Close()

	res, err := FetchScan(context.Background(), HTTPScanRequest{
		URL:     srv.URL + "/doc.md",
		Client:  srv.Client(),
		Options: []ScanOption{WithFrontMatter(true)},
	})
	if err != nil {
		t.Fatalf("fetch scan: %v", err)
	}
	if res.FrontMatter == nil || res.FrontMatter.Data["title"] != "Remote" {
		t.Fatalf("expected remote front matter, got %+v", res.FrontMatter)
	}
	if len(res.Formulas) != 1 || Render(res.Formulas[0].Expr) != "a + b" {
		t.Fatalf("unexpected formulas %v", res.Blocks())
	}

	_, err = FetchScan(context.Background(), HTTPScanRequest{URL: srv.URL + "/missing"})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetchScanRejectsBadRequests(t *testing.T) {
	if _, err := FetchScan(context.Background(), HTTPScanRequest{}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
	if _, err := FetchScan(context.Background(), HTTPScanRequest{URL: "ftp://example.com/a.md"}); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}
}
