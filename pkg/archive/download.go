package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrDownloadFailed   = errors.New("download failed")
)

// Downloader fetches archives over HTTP.
type Downloader struct {
	client    *retryablehttp.Client
	userAgent string
	timeout   time.Duration
}

func NewDownloader(opts ...Option) *Downloader {
	o := defaultOptions().apply(opts...)

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = o.retries
	client.RetryWaitMin = o.retryWaitMin
	client.RetryWaitMax = o.retryWaitMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if o.httpClient != nil {
		client.HTTPClient = o.httpClient
	}

	return &Downloader{
		client:    client,
		userAgent: o.userAgent,
		timeout:   o.timeout,
	}
}

// Download writes the body of a GET to url into dest and returns the number of bytes written.
// dest is removed again if anything goes wrong.
func (d *Downloader) Download(ctx context.Context, url, dest string) (int64, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %s from %s", ErrUnexpectedStatus, resp.Status, url)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return n, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	return n, nil
}
