package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/mailtui/mailtui/internal/config"
	"golang.org/x/mod/semver"
)

const (
	githubAPIURL     = "https://api.github.com/repos/mailtui/mailtui/releases/latest"
	cacheFileName    = "update_check.json"
	cacheDuration    = 1 * time.Hour
	devCacheDuration = 15 * time.Minute
)

// Release is the slice of the GitHub release payload the checker reads.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// UpdateInfo describes an available update. DownloadURL and Size are zero
// when no asset matches the running platform.
type UpdateInfo struct {
	CurrentVersion string
	LatestVersion  string
	DownloadURL    string
	AssetName      string
	Size           int64
	IsDevBuild     bool
}

// CheckForUpdate reports whether a newer release exists. It never installs
// anything. Results are cached under the mailtui home directory so repeated
// invocations don't hammer the GitHub API; force bypasses the cache.
//
// A nil UpdateInfo with a nil error means the current version is up to date.
func CheckForUpdate(ctx context.Context, currentVersion string, force bool) (*UpdateInfo, error) {
	clean := strings.TrimPrefix(currentVersion, "v")
	dev := isDevBuildVersion(clean)

	if !force {
		if info, ok := checkCache(currentVersion, clean, dev); ok {
			return info, nil
		}
	}

	release, err := fetchLatestRelease(ctx)
	if err != nil {
		return nil, err
	}
	saveCache(release.TagName)

	latest := strings.TrimPrefix(release.TagName, "v")
	if !dev && !isNewer(latest, clean) {
		return nil, nil
	}

	info := &UpdateInfo{
		CurrentVersion: currentVersion,
		LatestVersion:  release.TagName,
		IsDevBuild:     dev,
	}
	name := fmt.Sprintf("mailtui_%s_%s_%s.tar.gz", latest, runtime.GOOS, runtime.GOARCH)
	if a := findAsset(release.Assets, name); a != nil {
		info.DownloadURL = a.BrowserDownloadURL
		info.AssetName = a.Name
		info.Size = a.Size
	}
	return info, nil
}

func fetchLatestRelease(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, githubAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "mailtui-update")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned %s", resp.Status)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

// findAsset locates the platform-specific archive among release assets.
func findAsset(assets []Asset, name string) *Asset {
	for i := range assets {
		if assets[i].Name == name {
			return &assets[i]
		}
	}
	return nil
}

// cachedCheck is the on-disk record of the last release lookup.
type cachedCheck struct {
	CheckedAt time.Time `json:"checked_at"`
	Version   string    `json:"version"`
}

func cacheFile() string {
	return filepath.Join(config.DefaultHome(), cacheFileName)
}

// checkCache answers an update check from the on-disk cache when it can.
// The second return is false when the cache is missing, expired, or records
// a newer version whose asset details must be refetched.
func checkCache(currentVersion, cleanVersion string, isDevBuild bool) (*UpdateInfo, bool) {
	data, err := os.ReadFile(cacheFile())
	if err != nil {
		return nil, false
	}
	var cached cachedCheck
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}

	ttl := cacheDuration
	if isDevBuild {
		ttl = devCacheDuration
	}
	if time.Since(cached.CheckedAt) >= ttl {
		return nil, false
	}

	if isDevBuild {
		// Dev builds always surface the latest release tag.
		return &UpdateInfo{
			CurrentVersion: currentVersion,
			LatestVersion:  cached.Version,
			IsDevBuild:     true,
		}, true
	}
	if isNewer(strings.TrimPrefix(cached.Version, "v"), cleanVersion) {
		// An update exists but the cache holds no asset details.
		return nil, false
	}
	return nil, true
}

func saveCache(version string) {
	data, err := json.Marshal(cachedCheck{CheckedAt: time.Now(), Version: version})
	if err != nil {
		return
	}
	path := cacheFile()
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	_ = os.WriteFile(path, data, 0600)
}

// gitDescribeSuffix matches the trailing "-<n>-g<hash>" (optionally "-dirty")
// that git describe appends to builds past a tag.
var gitDescribeSuffix = regexp.MustCompile(`-\d+-g[0-9a-f]+(-dirty)?$`)

// extractBaseSemver returns the "major.minor[.patch]" part of a version
// string, or "" when the string doesn't start with one.
func extractBaseSemver(v string) string {
	v = strings.TrimPrefix(v, "v")
	base, _, _ := strings.Cut(v, "-")
	if base == "" || base[0] < '0' || base[0] > '9' || !strings.Contains(base, ".") {
		return ""
	}
	return base
}

// isDevBuildVersion reports whether v names an unreleased build: a bare
// string like "dev", a commit hash, or a git-describe version.
func isDevBuildVersion(v string) bool {
	v = strings.TrimPrefix(v, "v")
	return extractBaseSemver(v) == "" || gitDescribeSuffix.MatchString(v)
}

// isNewer reports whether candidate is a strictly newer release than current.
// Prereleases sort below their base version; git-describe versions compare as
// their base. Anything that isn't a version at all is never newer.
func isNewer(candidate, current string) bool {
	if extractBaseSemver(candidate) == "" || extractBaseSemver(current) == "" {
		return false
	}
	return semver.Compare(normalizeSemver(candidate), normalizeSemver(current)) > 0
}

// alphaNumIdent matches a prerelease identifier of letters followed by
// digits, e.g. "rc10". Anchored so "rc10a" is left alone.
var alphaNumIdent = regexp.MustCompile(`^([A-Za-z]+)(\d+)$`)

// normalizeSemver prepares a version string for semver.Compare: strips any
// git-describe suffix and rewrites prerelease identifiers like "rc10" as
// "rc.10" so the numeric part compares as a number (semver compares "rc10"
// lexicographically, putting it below "rc2").
func normalizeSemver(v string) string {
	v = gitDescribeSuffix.ReplaceAllString(strings.TrimPrefix(v, "v"), "")
	base, pre, ok := strings.Cut(v, "-")
	if !ok {
		return "v" + base
	}
	return "v" + base + "-" + normalizePrerelease(pre)
}

func normalizePrerelease(pre string) string {
	var out []string
	for _, id := range strings.Split(pre, ".") {
		m := alphaNumIdent.FindStringSubmatch(id)
		if m == nil || (len(m[2]) > 1 && m[2][0] == '0') {
			// Leading zeros stay put: "rc.010" is not a valid numeric
			// identifier, so splitting would break semver.Compare.
			out = append(out, id)
			continue
		}
		out = append(out, m[1], m[2])
	}
	return strings.Join(out, ".")
}

// FormatSize formats a byte count as a human-readable string.
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	units := [...]string{"KB", "MB", "GB", "TB", "PB", "EB"}
	size := float64(n) / unit
	i := 0
	for size >= unit && i < len(units)-1 {
		size /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
