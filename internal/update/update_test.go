package update

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestExtractBaseSemver(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    string
	}{
		{"0.2.1", "0.2.1"},
		{"v1.4.0", "1.4.0"},
		{"2.0", "2.0"},
		{"0.3.0-rc2", "0.3.0"},
		{"0.3.0-4-g1a2b3c", "0.3.0"},
		{"v0.3.0-4-g1a2b3c-dirty", "0.3.0"},
		{"dev", ""},
		{"7f3c21a", ""},
		{"", ""},
		{"v", ""},
		{"3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			if got := extractBaseSemver(tt.version); got != tt.want {
				t.Errorf("extractBaseSemver(%q) = %q, want %q", tt.version, got, tt.want)
			}
		})
	}
}

func TestIsDevBuildVersion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    bool
	}{
		{"0.2.1", false},
		{"v1.0.0", false},
		{"dev", true},
		{"7f3c21a", true},
		{"0.2.1-3-g9aa0f1", true},
		{"v0.2.1-3-g9aa0f1-dirty", true},
		{"0.2.1-rc1", false},
		{"v2.0.0-beta.3", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			if got := isDevBuildVersion(tt.version); got != tt.want {
				t.Errorf("isDevBuildVersion(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestIsNewer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name               string
		candidate, current string
		want               bool
	}{
		{"patch bump", "0.2.2", "0.2.1", true},
		{"minor bump", "0.3.0", "0.2.9", true},
		{"major bump", "1.0.0", "0.9.9", true},
		{"equal versions", "0.2.1", "0.2.1", false},
		{"candidate older", "0.2.0", "0.2.1", false},
		{"v prefixes accepted", "v0.3.0", "v0.2.0", true},
		{"candidate not a version", "dev", "0.2.1", false},
		{"current not a version", "0.2.1", "7f3c21a", false},
		{"git describe compares as its base", "0.2.1", "0.2.1-3-g9aa0f1", false},
		{"next patch beats git describe", "0.2.2", "0.2.1-3-g9aa0f1", true},
		{"release beats its own rc", "0.3.0", "0.3.0-rc1", true},
		{"rc stays below the release", "0.3.0-rc1", "0.3.0", false},
		{"rc sequence", "0.3.0-rc2", "0.3.0-rc1", true},
		{"two digit rc compares numerically", "0.3.0-rc10", "0.3.0-rc9", true},
		{"rc9 below rc10", "0.3.0-rc9", "0.3.0-rc10", false},
		{"beta numbering", "1.0.0-beta12", "1.0.0-beta3", true},
		{"beta below rc", "1.0.0-beta1", "1.0.0-rc1", false},
		{"dotted prerelease", "0.3.0-rc.3", "0.3.0-rc.2", true},
		{"numeric identifier below alphanumeric", "0.3.0-2", "0.3.0-rc2", false},
		{"rc of next version beats current release", "0.4.0-rc1", "0.3.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isNewer(tt.candidate, tt.current); got != tt.want {
				t.Errorf("isNewer(%q, %q) = %v, want %v", tt.candidate, tt.current, got, tt.want)
			}
		})
	}
}

func TestNormalizeSemver(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    string
	}{
		{"0.3.0", "v0.3.0"},
		{"v0.3.0", "v0.3.0"},
		{"0.3.0-rc10", "v0.3.0-rc.10"},
		{"0.3.0-rc.10", "v0.3.0-rc.10"},
		{"0.3.0-beta2.rc10", "v0.3.0-beta.2.rc.10"},
		{"0.3.0-rc010", "v0.3.0-rc010"},
		{"0.3.0-rc10a", "v0.3.0-rc10a"},
		{"0.3.0-3-g9aa0f1", "v0.3.0"},
		{"0.3.0-3-g9aa0f1-dirty", "v0.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			if got := normalizeSemver(tt.version); got != tt.want {
				t.Errorf("normalizeSemver(%q) = %q, want %q", tt.version, got, tt.want)
			}
		})
	}
}

func TestFindAsset(t *testing.T) {
	t.Parallel()
	assets := []Asset{
		{Name: "mailtui_0.2.0_linux_amd64.tar.gz", Size: 1000, BrowserDownloadURL: "https://example.com/linux_amd64"},
		{Name: "mailtui_0.2.0_darwin_arm64.tar.gz", Size: 2000, BrowserDownloadURL: "https://example.com/darwin_arm64"},
		{Name: "SHA256SUMS", Size: 500, BrowserDownloadURL: "https://example.com/checksums"},
	}

	asset := findAsset(assets, "mailtui_0.2.0_darwin_arm64.tar.gz")
	if asset == nil {
		t.Fatal("findAsset() = nil, want darwin_arm64 asset")
	}
	if asset.BrowserDownloadURL != "https://example.com/darwin_arm64" {
		t.Errorf("asset URL = %q, want https://example.com/darwin_arm64", asset.BrowserDownloadURL)
	}
	if asset.Size != 2000 {
		t.Errorf("asset size = %d, want 2000", asset.Size)
	}

	if missing := findAsset(assets, "mailtui_0.2.0_freebsd_amd64.tar.gz"); missing != nil {
		t.Errorf("findAsset() = %+v for missing platform, want nil", missing)
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{10485760, "10.0 MB"},
		{536870912, "512.0 MB"},
		{1073741824, "1.0 GB"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := FormatSize(tt.bytes); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestCheckCacheSameVersion(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MAILTUI_HOME", tmpDir)

	saveCache("v0.1.0")

	info, done := checkCache("0.1.0", "0.1.0", false)
	if !done {
		t.Fatal("checkCache() done = false, want cached result")
	}
	if info != nil {
		t.Errorf("checkCache() info = %+v, want nil when up to date", info)
	}
}

func TestCheckCacheNewerVersionForcesRefetch(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MAILTUI_HOME", tmpDir)

	// A cached newer version still needs a fresh fetch for asset info.
	saveCache("v9.9.9")

	info, done := checkCache("0.1.0", "0.1.0", false)
	if done {
		t.Errorf("checkCache() done = true, want refetch; info = %+v", info)
	}
}

func TestCheckCacheDevBuild(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MAILTUI_HOME", tmpDir)

	saveCache("v0.2.0")

	info, done := checkCache("abc1234", "abc1234", true)
	if !done {
		t.Fatal("checkCache() done = false, want cached result for dev build")
	}
	if info == nil {
		t.Fatal("checkCache() info = nil, want dev build info")
	}
	if !info.IsDevBuild {
		t.Error("info.IsDevBuild = false, want true")
	}
	if info.LatestVersion != "v0.2.0" {
		t.Errorf("info.LatestVersion = %q, want v0.2.0", info.LatestVersion)
	}
}

func TestCheckCacheExpired(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MAILTUI_HOME", tmpDir)

	stale := `{"checked_at":"` + time.Now().Add(-2*time.Hour).Format(time.RFC3339) + `","version":"v0.1.0"}`
	cachePath := filepath.Join(tmpDir, cacheFileName)
	if err := os.WriteFile(cachePath, []byte(stale), 0600); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	if _, done := checkCache("0.1.0", "0.1.0", false); done {
		t.Error("checkCache() done = true for expired cache, want refetch")
	}
}

func TestCheckCacheCorruptFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MAILTUI_HOME", tmpDir)

	cachePath := filepath.Join(tmpDir, cacheFileName)
	if err := os.WriteFile(cachePath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write cache: %v", err)
	}

	if _, done := checkCache("0.1.0", "0.1.0", false); done {
		t.Error("checkCache() done = true for corrupt cache, want refetch")
	}
}

func TestSaveCacheFilePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("MAILTUI_HOME", tmpDir)

	saveCache("1.0.0")

	info, err := os.Stat(filepath.Join(tmpDir, cacheFileName))
	if err != nil {
		t.Fatalf("stat cache file: %v", err)
	}
	// Windows doesn't support Unix file permissions.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0077 != 0 {
		t.Errorf("cache file permissions = %04o, want no group/other access", info.Mode().Perm())
	}
}
