// Package docs fetches the human-readable reference documentation for a
// resource type from the provider's source repository. Documentation is a
// description source only: its absence degrades description quality but
// never blocks generation.
package docs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"tfsmith/internal/logging"
	"tfsmith/internal/naming"
)

const defaultBaseURL = "https://raw.githubusercontent.com"

// Fetcher downloads provider resource documentation.
type Fetcher struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

// NewFetcher creates a Fetcher with retrying HTTP transport.
func NewFetcher() *Fetcher {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.RetryMax = 2
	rc.Logger = nil
	return &Fetcher{baseURL: defaultBaseURL, httpClient: rc}
}

// SetBaseURL overrides the download host. Tests point this at a local server.
func (f *Fetcher) SetBaseURL(u string) {
	f.baseURL = u
}

// Fetch returns the markdown documentation for a resource type, or empty
// text when the document does not exist or cannot be retrieved.
func (f *Fetcher) Fetch(ctx context.Context, supplier, providerName, version, resourceType string) string {
	short := naming.ShortName(resourceType, providerName)
	url := fmt.Sprintf("%s/%s/terraform-provider-%s/v%s/website/docs/r/%s.html.markdown",
		f.baseURL, supplier, providerName, version, short)

	logging.DocsDebug("fetching documentation from %s", url)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logging.DocsWarn("failed to build documentation request for %s: %v", resourceType, err)
		return ""
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		logging.DocsWarn("documentation fetch failed for %s: %v", resourceType, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.DocsWarn("no documentation for %s (status %d)", resourceType, resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logging.DocsWarn("failed to read documentation for %s: %v", resourceType, err)
		return ""
	}
	return string(body)
}
