package version

import (
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, Commit, BuildTime
	Version, Commit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })
}

func TestFormatVersion(t *testing.T) {
	withVersion(t, "1.2.3", "", "")
	assert.Equal(t, "1.2.3 (development)", FormatVersion())

	withVersion(t, "1.2.3", "abc1234", "")
	assert.Equal(t, "1.2.3 (commit: abc1234)", FormatVersion())

	withVersion(t, "", "abc1234", "2026-01-02T03:04:05Z")
	assert.Equal(t, "0.0.0-dev (commit: abc1234, built at: 2026-01-02T03:04:05Z)", FormatVersion())
}

func TestLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tag_name": "v1.4.0"}`))
	}))
	defer srv.Close()

	old := ReleasesURL
	ReleasesURL = srv.URL
	defer func() { ReleasesURL = old }()

	latest, ok := LatestVersion("1.3.9")
	assert.True(t, ok)
	assert.Equal(t, "1.4.0", latest)

	_, ok = LatestVersion("1.4.0")
	assert.False(t, ok)

	_, ok = LatestVersion("0.0.0-dev")
	assert.False(t, ok)
}

func TestNewer(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.4.0", "1.3.9", true},
		{"0.10.0", "0.9.0", true},
		{"1.4.0", "1.4.0", false},
		{"1.4", "1.4.0", false},
		{"1.4.1", "1.4", true},
		{"v2.0.0", "1.9.9", true},
		{"1.4.0", "1.4.0-dirty", false},
		{"1.3.0", "1.4.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Newer(tt.a, tt.b), "%s > %s", tt.a, tt.b)
	}
}

func TestFromBuildInfo(t *testing.T) {
	withVersion(t, "0.0.0-dev", "", "")

	fromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
			{Key: "vcs.tag", Value: "v1.2.0"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	assert.Equal(t, "1.2.0-dirty", Version)
	assert.Equal(t, "0123456", Commit)
	assert.Equal(t, "2026-03-04T05:06:07Z", BuildTime)

	withVersion(t, "0.0.0-dev", "", "")
	fromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "v1.5.0"}})
	assert.Equal(t, "1.5.0", Version)
}
