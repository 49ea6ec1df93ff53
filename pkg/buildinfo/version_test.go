package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFill(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)

	tests := []struct {
		name        string
		stamped     string
		main        string
		wantVersion string
	}{
		{"module version", "dev", "v0.3.0", "v0.3.0"},
		{"devel build", "dev", "(devel)", "dev"},
		{"ldflags win", "v1.0.0", "v0.3.0", "v1.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.stamped, "none", "unknown"
			fill(&debug.BuildInfo{
				Main: debug.Module{Version: tt.main},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
				},
			})
			if Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", Version, tt.wantVersion)
			}
			if Commit != "abc123" {
				t.Errorf("Commit = %q, want abc123", Commit)
			}
			if Date != "2026-01-02T03:04:05Z" {
				t.Errorf("Date = %q, want 2026-01-02T03:04:05Z", Date)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "orca "+Version+"\n") || !strings.HasSuffix(got, "\n") {
		t.Errorf("Template() = %q", got)
	}
}
