package version

import (
	"strings"
	"testing"
)

func withVersionVars(t *testing.T, v, c, date string) {
	t.Helper()
	oldV, oldC, oldD := version, gitCommit, buildDate
	version, gitCommit, buildDate = v, c, date
	t.Cleanup(func() { version, gitCommit, buildDate = oldV, oldC, oldD })
}

func TestGetVersion(t *testing.T) {
	withVersionVars(t, devVersion, "", "")
	// test binaries carry no module version
	if got := GetVersion(); got != devVersion {
		t.Errorf("GetVersion() = %q, want %q", got, devVersion)
	}
}

func TestGetVersion_Ldflags(t *testing.T) {
	withVersionVars(t, "1.2.3", "", "")
	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("GetVersion() = %q, want 1.2.3", got)
	}
}

func TestGetVersionInfo(t *testing.T) {
	withVersionVars(t, "1.2.3", "abcdef1", "2026-01-02")

	got := GetVersionInfo("speechctl")
	for _, want := range []string{"speechctl version 1.2.3", "commit: abcdef1", "built: 2026-01-02"} {
		if !strings.Contains(got, want) {
			t.Errorf("GetVersionInfo() = %q, missing %q", got, want)
		}
	}
}

func TestGetBuildInfo(t *testing.T) {
	withVersionVars(t, "1.2.3", "abcdef1", "2026-01-02")

	attrs := GetBuildInfo()
	m := map[string]any{}
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i].(string)] = attrs[i+1]
	}

	if m["version"] != "1.2.3" || m["commit"] != "abcdef1" || m["built"] != "2026-01-02" {
		t.Errorf("GetBuildInfo() = %v", attrs)
	}
	if _, ok := m["dirty"]; ok {
		t.Error("dirty must not be reported when the commit comes from ldflags")
	}
}
