package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

const (
	googleBooksName = "Google Books"
	openLibraryName = "Open Library"

	checkTimeout = 10 * time.Second
	// probeISBN is a long-lived edition (Dune, Ace) both catalogs index.
	probeISBN = "9780441013593"
)

// CheckGoogleBooks verifies the volumes endpoint answers and accepts the key.
// A blank key is reported as skipped.
func CheckGoogleBooks(ctx context.Context, baseURL, apiKey string) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: googleBooksName, Detail: "missing base url"}
	}
	if strings.TrimSpace(apiKey) == "" {
		return Result{Name: googleBooksName, Skipped: true, Detail: "API key missing; searches skip this catalog"}
	}

	params := url.Values{}
	params.Set("q", "isbn:"+probeISBN)
	params.Set("maxResults", "1")
	params.Set("key", strings.TrimSpace(apiKey))
	status, err := probe(ctx, base+"/volumes?"+params.Encode(), nil)
	if err != nil {
		return Result{Name: googleBooksName, Detail: summarizeError(err)}
	}

	switch status {
	case http.StatusOK:
		return Result{Name: googleBooksName, Passed: true, Detail: "API reachable"}
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return Result{Name: googleBooksName, Detail: fmt.Sprintf("API key rejected (%d)", status)}
	case http.StatusTooManyRequests:
		return Result{Name: googleBooksName, Detail: "rate limited (daily quota may be exhausted)"}
	default:
		return Result{Name: googleBooksName, Detail: fmt.Sprintf("health check failed (%d)", status)}
	}
}

// CheckOpenLibrary verifies the search endpoint answers.
func CheckOpenLibrary(ctx context.Context, baseURL, userAgent string) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: openLibraryName, Detail: "missing base url"}
	}

	params := url.Values{}
	params.Set("isbn", probeISBN)
	params.Set("limit", "1")
	params.Set("fields", "key")
	header := http.Header{}
	if ua := strings.TrimSpace(userAgent); ua != "" {
		header.Set("User-Agent", ua)
	}
	status, err := probe(ctx, base+"/search.json?"+params.Encode(), header)
	if err != nil {
		return Result{Name: openLibraryName, Detail: summarizeError(err)}
	}
	if status != http.StatusOK {
		return Result{Name: openLibraryName, Detail: fmt.Sprintf("health check failed (%d)", status)}
	}
	return Result{Name: openLibraryName, Passed: true, Detail: "Reachable"}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// probe issues a single GET without retries and returns the status code.
func probe(ctx context.Context, target string, header http.Header) (int, error) {
	checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	client := &http.Client{Timeout: checkTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("health check timed out after %s", checkTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (catalog unreachable)"
	}
	return fmt.Sprintf("unreachable (%v)", err)
}
