package source

import (
	"crypto/tls"
	"net/http"
	"os"
	"strings"

	"github.com/mrz1836/specify/internal/constants"
)

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client that verifies TLS against the system roots.
// Passing skipTLS disables certificate verification for every request made
// through the client.
func NewHTTPClient(skipTLS bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: skipTLS, //#nosec G402 -- explicit opt-out via --skip-tls
	}
	return &http.Client{Transport: transport}
}

// ResolveToken returns explicit when it is non-blank, then GH_TOKEN, then
// GITHUB_TOKEN. The result is trimmed; empty means unauthenticated.
func ResolveToken(explicit string) string {
	for _, candidate := range []string{
		explicit,
		os.Getenv(constants.EnvGHToken),
		os.Getenv(constants.EnvGitHubToken),
	} {
		if token := strings.TrimSpace(candidate); token != "" {
			return token
		}
	}
	return ""
}

func setCommonHeaders(req *http.Request, token string) {
	req.Header.Set("User-Agent", constants.AppName+"-cli")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
