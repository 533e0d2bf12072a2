// Package fetch downloads prebuilt toolchain and sysroot assets from GitHub
// releases and unpacks them into the configured locations.
package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"wasixcc/report"
)

const (
	llvmRepo     = "wasix-org/llvm-project"
	sysrootRepo  = "wasix-org/wasix-libc"
	binaryenRepo = "WebAssembly/binaryen"
)

// TagSpec selects a release: the latest one, or a specific tag.
type TagSpec struct {
	tag string // empty means latest
}

// Latest is the TagSpec selecting the most recent release.
var Latest = TagSpec{}

// ParseTagSpec parses a tag specification: 'latest', a tag starting with
// 'v', or one starting with 'version_'.
func ParseTagSpec(s string) (TagSpec, error) {
	switch {
	case s == "latest":
		return Latest, nil
	case strings.HasPrefix(s, "v"), strings.HasPrefix(s, "version_"):
		return TagSpec{tag: s}, nil
	default:
		return TagSpec{}, fmt.Errorf(
			"invalid tag specification: `%s`. Use 'latest', a tag starting with 'v', or 'version_XXX'", s)
	}
}

func (t TagSpec) String() string {
	if t.tag == "" {
		return "latest"
	}

	return t.tag
}

// releasePath is the GitHub API path segment selecting this release.
func (t TagSpec) releasePath() string {
	if t.tag == "" {
		return "latest"
	}

	return "tags/" + t.tag
}

type releaseData struct {
	Assets []releaseAsset `json:"assets"`
}

type releaseAsset struct {
	BrowserDownloadURL string `json:"browser_download_url"`
	Name               string `json:"name"`
}

// newRequest builds a GitHub API request.  An API token from GITHUB_TOKEN
// is attached when present, which prevents 403 errors when the IP is
// throttled by the GitHub API.
func newRequest(url string) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "wasixcc")

	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// fetchRelease retrieves the release metadata of the given repository.
func fetchRelease(repo string, tag TagSpec) (*releaseData, error) {
	releaseURL := fmt.Sprintf("https://api.github.com/repos/%s/releases/%s", repo, tag.releasePath())

	report.Infof("retrieving release info from %s", releaseURL)

	req, err := newRequest(releaseURL)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not download release info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not download release info: %s returned %s", releaseURL, resp.Status)
	}

	var release releaseData
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("could not deserialize release info: %w", err)
	}

	return &release, nil
}

// findAsset returns the first asset satisfying the predicate.
func (r *releaseData) findAsset(describe string, match func(releaseAsset) bool) (releaseAsset, error) {
	for _, asset := range r.Assets {
		if match(asset) {
			return asset, nil
		}
	}

	return releaseAsset{}, fmt.Errorf("could not find asset %s in release", describe)
}
