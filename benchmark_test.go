package mdmath

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

var benchExpressions = map[string]string{
	"arithmetic": "2 + 3 * 4 - 5 / 6 = x",
	"gamma":      `\Gamma(z) = \int_{0}^{\infty} t^{z-1} e^{-t} dt`,
	"norms":      "||x|+|y|| + ||v|| + |a| |b| |c|",
	"matrix":     `\begin{bmatrix} 1 & 2 & 3 \\ 4 & 5 & 6 \\ 7 & 8 & 9 \end{bmatrix}`,
	"derivative": `\frac{d}{dx}[\int_{a}^{x} f(t) dt] = f(x)`,
}

func BenchmarkParse(b *testing.B) {
	for name, src := range benchExpressions {
		src := src
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Parse(src); err != nil {
					b.Fatalf("parse: %v", err)
				}
			}
		})
	}
}

func BenchmarkScanSamples(b *testing.B) {
	samples := map[string][]byte{
		"basic":   readSample(b, "testdata/basic.md"),
		"physics": readSample(b, "testdata/physics.md"),
	}
	for name, data := range samples {
		data := data
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			reader := bytes.NewReader(data)
			for i := 0; i < b.N; i++ {
				reader.Reset(data)
				if _, err := Scan(ScanRequest{Reader: reader, Options: []ScanOption{WithFrontMatter(true)}}); err != nil {
					b.Fatalf("scan: %v", err)
				}
			}
		})
	}
}

func BenchmarkFetchScan(b *testing.B) {
	data := readSample(b, "testdata/physics.md")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := FetchScan(context.Background(), HTTPScanRequest{URL: server.URL}); err != nil {
			b.Fatalf("fetch scan: %v", err)
		}
	}
}

func TestParseAllocations(t *testing.T) {
	src := benchExpressions["gamma"]
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = Parse(src)
	})
	if allocs > 200 {
		t.Fatalf("too many allocations per Parse: got %.2f", allocs)
	}
}
