package ebook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	_ "image/gif"
	_ "image/png"

	"github.com/go-resty/resty/v2"
	_ "golang.org/x/image/webp"
)

// maxCoverBytes bounds a downloaded cover image.
const maxCoverBytes = 20 << 20

// ErrCoverURL rejects cover URLs that are not public http(s) locations.
var ErrCoverURL = errors.New("cover URL not allowed")

// CoverFetcher downloads a cover image and returns it as JPEG bytes.
type CoverFetcher interface {
	FetchCover(ctx context.Context, url string) ([]byte, error)
}

// HTTPCoverFetcher fetches covers with a per-attempt timeout and bounded retries.
// Connections to loopback, private and link-local addresses are refused at dial
// time, which also covers redirects.
type HTTPCoverFetcher struct {
	client *resty.Client
}

func NewHTTPCoverFetcher(timeout time.Duration, retries int) *HTTPCoverFetcher {
	return newHTTPCoverFetcher(timeout, retries, false, maxCoverBytes)
}

func newHTTPCoverFetcher(timeout time.Duration, retries int, allowPrivate bool, limit int) *HTTPCoverFetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	dialer := &net.Dialer{Timeout: timeout}
	if !allowPrivate {
		dialer.Control = refusePrivateAddress
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	client := resty.New().
		SetTransport(transport).
		SetResponseBodyLimit(limit).
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "image/*").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if errors.Is(err, ErrCoverURL) || errors.Is(err, resty.ErrResponseBodyTooLarge) {
				return false
			}
			return err != nil || r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})
	return &HTTPCoverFetcher{client: client}
}

func (f *HTTPCoverFetcher) FetchCover(ctx context.Context, rawURL string) ([]byte, error) {
	if err := checkCoverURL(rawURL); err != nil {
		return nil, err
	}
	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cover request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cover request returned status %d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, errors.New("cover response was empty")
	}
	return normalizeCover(body)
}

func checkCoverURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCoverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrCoverURL, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("%w: missing host", ErrCoverURL)
	}
	return nil
}

// refusePrivateAddress runs after DNS resolution, so hostnames that resolve to
// internal addresses are refused too.
func refusePrivateAddress(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCoverURL, err)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCoverURL, err)
	}
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsMulticast() || ip.IsUnspecified() {
		return fmt.Errorf("%w: address %s is not public", ErrCoverURL, ip)
	}
	return nil
}

// normalizeCover re-encodes non-JPEG images so the archive entry matches cover.jpg.
func normalizeCover(data []byte) ([]byte, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}
	if format == "jpeg" {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s cover: %w", format, err)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode cover as JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
