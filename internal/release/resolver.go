package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	// DefaultIndexURL is the upstream release listing.
	DefaultIndexURL = "https://go.dev/dl/"
	// DefaultTimeout is the HTTP request timeout for index fetches.
	DefaultTimeout = 2 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "gosetup/1.0"

	// checksumWindow bounds how far past an artifact filename the HTML
	// fallback scans for its digest. Keeps the positional heuristic from
	// picking up a digest belonging to a later artifact on the page.
	checksumWindow = 2048
)

var hexDigestPattern = regexp.MustCompile(`\b[0-9a-fA-F]{64}\b`)

// Resolver discovers release versions and published checksums from the
// upstream download index.
type Resolver struct {
	client    *http.Client
	indexURL  string
	userAgent string
}

// NewResolver creates a resolver against the given index URL. An empty
// URL selects the upstream default; a mirror can be configured instead.
func NewResolver(indexURL string) *Resolver {
	if indexURL == "" {
		indexURL = DefaultIndexURL
	}
	return &Resolver{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		indexURL:  strings.TrimSuffix(indexURL, "/") + "/",
		userAgent: DefaultUserAgent,
	}
}

// manifestRelease mirrors one entry of the ?mode=json manifest.
type manifestRelease struct {
	Version string         `json:"version"` // "go1.22.4"
	Stable  bool           `json:"stable"`
	Files   []manifestFile `json:"files"`
}

type manifestFile struct {
	Filename string `json:"filename"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	SHA256   string `json:"sha256"`
	Size     int64  `json:"size"`
	Kind     string `json:"kind"` // "archive", "installer", "source"
}

// ResolveLatest returns the newest stable version that publishes an
// archive for the given platform tag. The JSON manifest is consulted
// first; the HTML listing is the fallback. The returned token is NOT
// validated; callers pass it through Validate like any other input.
func (r *Resolver) ResolveLatest(ctx context.Context, tag string) (string, error) {
	releases, err := r.fetchManifest(ctx)
	if err == nil {
		if v, ok := latestFromManifest(releases, tag); ok {
			return v, nil
		}
	}

	// Degraded mode: scrape the listing page.
	body, scrapeErr := r.get(ctx, r.indexURL)
	if scrapeErr != nil {
		if err != nil {
			return "", &ResolutionError{URL: r.indexURL, Cause: err}
		}
		return "", &ResolutionError{URL: r.indexURL, Cause: scrapeErr}
	}

	v, ok := latestFromListing(string(body), tag)
	if !ok {
		return "", &ResolutionError{URL: r.indexURL}
	}
	return v, nil
}

// LookupChecksum fetches the published SHA-256 digest for an artifact
// filename. It always fetches fresh, never reusing state from resolution
// time, so a manifest change between resolve and verify is caught.
func (r *Resolver) LookupChecksum(ctx context.Context, filename string) (string, error) {
	releases, err := r.fetchManifest(ctx)
	if err == nil {
		for _, rel := range releases {
			for _, f := range rel.Files {
				if f.Filename == filename {
					if !isHexDigest(f.SHA256) {
						return "", &ChecksumFetchError{Filename: filename, Cause: fmt.Errorf("manifest digest %q is not 64 hex characters", f.SHA256)}
					}
					return strings.ToLower(f.SHA256), nil
				}
			}
		}
	}

	// Degraded mode: first 64-hex token within a bounded window after the
	// filename on the listing page.
	body, scrapeErr := r.get(ctx, r.indexURL)
	if scrapeErr != nil {
		if err != nil {
			return "", &ChecksumFetchError{Filename: filename, Cause: err}
		}
		return "", &ChecksumFetchError{Filename: filename, Cause: scrapeErr}
	}

	digest, ok := checksumFromListing(string(body), filename)
	if !ok {
		return "", &ChecksumFetchError{Filename: filename}
	}
	return digest, nil
}

// Describe builds the artifact descriptor for a validated version and
// platform tag. The signature URL points at the detached GPG signature
// the upstream publishes alongside each archive.
func (r *Resolver) Describe(version Version, tag string) *Artifact {
	filename := version.Tarball(tag)
	return &Artifact{
		Version:      version,
		Platform:     tag,
		Filename:     filename,
		URL:          r.indexURL + filename,
		SignatureURL: r.indexURL + filename + ".asc",
	}
}

// fetchManifest retrieves and decodes the structured JSON manifest.
func (r *Resolver) fetchManifest(ctx context.Context) ([]manifestRelease, error) {
	body, err := r.get(ctx, r.indexURL+"?mode=json")
	if err != nil {
		return nil, err
	}

	var releases []manifestRelease
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return releases, nil
}

// get performs a single GET request and returns the response body.
func (r *Resolver) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// latestFromManifest picks the newest stable version carrying an archive
// for the platform tag.
func latestFromManifest(releases []manifestRelease, tag string) (string, bool) {
	best := ""
	for _, rel := range releases {
		if !rel.Stable {
			continue
		}
		v := strings.TrimPrefix(rel.Version, "go")
		if !hasArchiveFor(rel.Files, tag) {
			continue
		}
		if best == "" || semver.Compare("v"+v, "v"+best) > 0 {
			best = v
		}
	}
	return best, best != ""
}

// hasArchiveFor reports whether a release lists a tar.gz archive for the
// platform tag.
func hasArchiveFor(files []manifestFile, tag string) bool {
	for _, f := range files {
		if f.Kind != "" && f.Kind != "archive" {
			continue
		}
		if strings.Contains(f.Filename, "."+tag+".tar.gz") {
			return true
		}
	}
	return false
}

// latestFromListing extracts the newest version token from the HTML
// listing whose artifact name matches the platform's naming convention.
func latestFromListing(body, tag string) (string, bool) {
	pattern := regexp.MustCompile(`go(\d+\.\d+\.\d+)\.` + regexp.QuoteMeta(tag) + `\.tar\.gz`)
	matches := pattern.FindAllStringSubmatch(body, -1)

	best := ""
	for _, m := range matches {
		v := m[1]
		if best == "" || semver.Compare("v"+v, "v"+best) > 0 {
			best = v
		}
	}
	return best, best != ""
}

// checksumFromListing finds the first 64-hex-digit token within the
// bounded window of text following the artifact filename.
func checksumFromListing(body, filename string) (string, bool) {
	idx := strings.Index(body, filename)
	if idx < 0 {
		return "", false
	}

	start := idx + len(filename)
	end := start + checksumWindow
	if end > len(body) {
		end = len(body)
	}

	digest := hexDigestPattern.FindString(body[start:end])
	if digest == "" {
		return "", false
	}
	return strings.ToLower(digest), true
}

// isHexDigest reports whether s is exactly one 64-hex-character digest.
func isHexDigest(s string) bool {
	if len(s) != 64 {
		return false
	}
	return hexDigestPattern.MatchString(s)
}
