package page

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// Loader fetches the rendered catalog page from a file or an http(s) URL.
// Locations ending in .gz are decompressed. Remote pages are sanitised
// with RemotePolicy; local files are trusted as they are.
type Loader struct {
	client *http.Client
	policy *bluemonday.Policy
}

// NewLoader creates a loader whose remote fetches time out after timeout
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
		policy: RemotePolicy(),
	}
}

// Load returns the raw page markup found at location
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, fmt.Errorf("no catalog page location provided")
	}

	var (
		body io.ReadCloser
		err  error
	)
	remote := strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
	if remote {
		body, err = l.open(ctx, location)
	} else {
		body, err = os.Open(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog page %s: %w", location, err)
	}
	defer body.Close()

	var r io.Reader = body
	if strings.HasSuffix(location, ".gz") {
		gz, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog page %s: %w", location, err)
	}
	if remote {
		b = l.policy.SanitizeBytes(b)
	}
	return b, nil
}

func (l *Loader) open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download page: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
