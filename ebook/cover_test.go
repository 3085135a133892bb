package ebook

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchCoverRejectsNonHTTPURLs(t *testing.T) {
	f := NewHTTPCoverFetcher(time.Second, 0)
	for _, raw := range []string{
		"file:///etc/passwd",
		"ftp://covers.example.com/c.jpg",
		"gopher://covers.example.com/",
		"//covers.example.com/c.jpg",
		"http:///c.jpg",
		"not a url\x7f",
	} {
		if _, err := f.FetchCover(context.Background(), raw); !errors.Is(err, ErrCoverURL) {
			t.Errorf("FetchCover(%q) = %v, want ErrCoverURL", raw, err)
		}
	}
}

func TestFetchCoverRefusesLoopback(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(jpegBytes(t))
	}))
	defer srv.Close()

	_, err := NewHTTPCoverFetcher(time.Second, 2).FetchCover(context.Background(), srv.URL+"/c.jpg")
	if !errors.Is(err, ErrCoverURL) {
		t.Fatalf("FetchCover = %v, want ErrCoverURL", err)
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server received %d requests", n)
	}
}

func TestRefusePrivateAddress(t *testing.T) {
	tests := []struct {
		address string
		refused bool
	}{
		{"127.0.0.1:80", true},
		{"[::1]:443", true},
		{"10.1.2.3:80", true},
		{"192.168.0.10:80", true},
		{"169.254.169.254:80", true},
		{"[::ffff:127.0.0.1]:80", true},
		{"0.0.0.0:80", true},
		{"93.184.216.34:443", false},
		{"[2606:2800:220:1::1]:443", false},
	}
	for _, tt := range tests {
		err := refusePrivateAddress("tcp", tt.address, nil)
		if got := errors.Is(err, ErrCoverURL); got != tt.refused {
			t.Errorf("refusePrivateAddress(%s) = %v, want refused %v", tt.address, err, tt.refused)
		}
	}
}

func TestFetchCover(t *testing.T) {
	cover := jpegBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/c.jpg":
			w.Write(cover)
		case "/big.jpg":
			w.Write(bytes.Repeat([]byte{0xff}, 16<<10))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	f := newHTTPCoverFetcher(time.Second, 0, true, 4096)

	got, err := f.FetchCover(context.Background(), srv.URL+"/c.jpg")
	if err != nil {
		t.Fatalf("FetchCover: %v", err)
	}
	if !bytes.Equal(got, cover) {
		t.Errorf("cover bytes changed for a JPEG source")
	}
	if _, err := f.FetchCover(context.Background(), srv.URL+"/big.jpg"); err == nil {
		t.Error("expected oversized cover to fail")
	}
	if _, err := f.FetchCover(context.Background(), srv.URL+"/missing.jpg"); err == nil {
		t.Error("expected 404 to fail")
	}
}
