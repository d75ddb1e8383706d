package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/polly2d/shaderc"
)

func TestParse(t *testing.T) {
	no := false
	tests := []struct {
		name string
		in   string
		want Config
		opts shaderc.Options
	}{
		{
			name: "empty",
			in:   "",
			opts: shaderc.Options{Target: shaderc.TargetGLSL, Optimize: true},
		},
		{
			name: "full",
			in: `target: msl
optimize: false
debug: true
log-file: /tmp/pollyc.log
cache:
  dir: .shaderc
  size: 64
server:
  metrics-addr: localhost:9100
`,
			want: Config{
				Target:   "msl",
				Optimize: &no,
				Debug:    true,
				LogFile:  "/tmp/pollyc.log",
				Cache:    Cache{Dir: ".shaderc", Size: 64},
				Server:   Server{MetricsAddr: "localhost:9100"},
			},
			opts: shaderc.Options{Target: shaderc.TargetMSL, DebugInfo: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
			opts, err := got.Options()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.opts, opts, cmpopts.IgnoreFields(shaderc.Options{}, "Logger")); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{"unknown key", "targte: hlsl\n", "field targte not found"},
		{"unknown target", "target: spirv\n", `unknown target "spirv"`},
		{"wrong type", "cache:\n  size: many\n", "cannot unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("err = %v, want it to contain %q", err, tt.msg)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaderc.yaml")
	if err := os.WriteFile(path, []byte("target: hlsl\ncache:\n  dir: cache\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := FromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.CacheOptions(nil); got.Dir != "cache" || got.Size != 0 {
		t.Errorf("CacheOptions() = %+v", got)
	}

	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
