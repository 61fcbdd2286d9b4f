// Package http implements the outbound plain-HTTP collaborators: document
// downloads, content-type classification and sitemap discovery.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// UserAgent identifies outbound requests.
const UserAgent = "siteask/1.0 (+https://github.com/fwojciec/siteask)"

// get issues a GET request and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}

// head issues a HEAD request and returns the response with its body closed.
func head(ctx context.Context, client *http.Client, targetURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}
