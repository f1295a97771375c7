package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// Valores padrão, sobrescritos por ldflags ou pelas informações de build.
var (
	Version   = "0.0.0-dev"
	Commit    = ""
	BuildTime = ""
)

// ReleasesURL é consultada para descobrir a última versão publicada.
var ReleasesURL = "https://api.github.com/repos/diillson/campaign-analytics-go/releases/latest"

const devVersion = "0.0.0-dev"

func init() {
	if bi, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(bi)
	}
}

// fromBuildInfo fills the version fields ldflags left at their defaults.
// A module version from `go install pkg@vX` wins over VCS settings.
func fromBuildInfo(bi *debug.BuildInfo) {
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}

	if rev := settings["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if t := settings["vcs.time"]; BuildTime == "" && t != "" {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	if Version != "" && Version != devVersion {
		return
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		Version = strings.TrimPrefix(v, "v")
		return
	}
	if tag := settings["vcs.tag"]; tag != "" {
		Version = strings.TrimPrefix(tag, "v")
		if settings["vcs.modified"] == "true" {
			Version += "-dirty"
		}
	}
}

// CheckLatestVersion avisa quando uma versão mais recente está disponível.
func CheckLatestVersion(currentVersion string) {
	latest, ok := LatestVersion(currentVersion)
	if !ok {
		return
	}
	pterm.Warning.Printfln("A new version of Campaign Analytics is available: %s", latest)
	pterm.Info.Println("Please update using: go install github.com/diillson/campaign-analytics-go/cmd/campaign-analytics@latest")
}

// LatestVersion retorna a última versão publicada quando ela é mais nova
// que currentVersion. Versões de desenvolvimento não são verificadas.
func LatestVersion(currentVersion string) (string, bool) {
	if currentVersion == "" || strings.HasSuffix(currentVersion, "-dev") {
		return "", false
	}

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(ReleasesURL)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", false
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if Newer(latest, currentVersion) {
		return latest, true
	}
	return "", false
}

// Newer reports whether version a is greater than b, comparing the dotted
// numeric parts and ignoring any pre-release or build suffix.
func Newer(a, b string) bool {
	pa, pb := parts(a), parts(b)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			return x > y
		}
	}
	return false
}

func parts(v string) []int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	var out []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out = append(out, n)
	}
	return out
}

// FormatVersion retorna a versão com commit e data de build.
// Ex.: "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)"
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return fmt.Sprintf("%s (development)", ver)
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	}

	commit := Commit
	if commit == "" {
		commit = "development"
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, commit, BuildTime)
}
