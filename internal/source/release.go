package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrz1836/specify/internal/constants"
	"github.com/mrz1836/specify/internal/domain"
	specerrors "github.com/mrz1836/specify/internal/errors"
)

// Release is the subset of the GitHub release payload specify reads.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// ReleaseClient queries the GitHub releases API.
type ReleaseClient struct {
	http    HTTPClient
	baseURL string
	token   string
	timeout time.Duration
}

// NewReleaseClient creates a client against baseURL (the API root, for
// example https://api.github.com). timeout bounds each listing request.
func NewReleaseClient(httpClient HTTPClient, baseURL, token string, timeout time.Duration) *ReleaseClient {
	if baseURL == "" {
		baseURL = constants.DefaultAPIBaseURL
	}
	if timeout <= 0 {
		timeout = constants.DefaultListTimeout
	}
	return &ReleaseClient{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
	}
}

// GetLatestRelease fetches the latest published release of owner/repo.
// Non-200 responses, transport failures, timeouts, and undecodable bodies
// all return *errors.NetworkError.
func (c *ReleaseClient) GetLatestRelease(ctx context.Context, owner, repo string) (*Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, owner, repo)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &specerrors.NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Accept", constants.GitHubAcceptHeader)
	req.Header.Set("X-GitHub-Api-Version", constants.GitHubAPIVersion)
	setCommonHeaders(req, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &specerrors.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // HTTP response body close

	body, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &specerrors.NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       specerrors.Truncate(string(body), constants.ListingBodyLimit),
		}
	}
	if readErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &specerrors.NetworkError{URL: url, StatusCode: resp.StatusCode, Header: resp.Header.Clone(), Err: readErr}
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, &specerrors.NetworkError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       specerrors.Truncate(string(body), constants.DecodeBodyLimit),
			Err:        fmt.Errorf("failed to parse release JSON: %w", err),
		}
	}
	return &release, nil
}

// AssetPattern returns the name fragment that identifies the template for
// an assistant and script flavor.
func AssetPattern(assistant, script string) string {
	return fmt.Sprintf("%s-%s-%s", constants.AssetPrefix, assistant, script)
}

// SelectAsset returns the first asset whose name contains the template
// pattern and ends in .zip. Listing order decides between several matches.
// No match returns ErrNotFound naming the assets that were available.
func SelectAsset(release *Release, assistant, script string) (domain.TemplateAsset, error) {
	pattern := AssetPattern(assistant, script)
	for _, a := range release.Assets {
		if strings.Contains(a.Name, pattern) && strings.HasSuffix(a.Name, constants.AssetExtension) {
			return domain.TemplateAsset{
				Filename:    a.Name,
				SizeBytes:   a.Size,
				ReleaseTag:  release.TagName,
				DownloadURL: a.BrowserDownloadURL,
			}, nil
		}
	}

	names := make([]string, 0, len(release.Assets))
	for _, a := range release.Assets {
		names = append(names, a.Name)
	}
	available := "(no assets)"
	if len(names) > 0 {
		available = strings.Join(names, ", ")
	}
	return domain.TemplateAsset{}, fmt.Errorf("no release asset matches %q in %s (available: %s): %w",
		pattern, release.TagName, available, specerrors.ErrNotFound)
}
