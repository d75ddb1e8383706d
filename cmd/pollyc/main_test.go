package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/gen"
)

const tintShader = `#type sprite
float Intensity = 0.5;
Vec3 Tint;

Vec4 main() {
  return sample(pl_spriteImage, pl_spriteUV) * Vec4(Tint, 1) * Intensity;
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func runPollyc(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Targets(t *testing.T) {
	input := writeFile(t, t.TempDir(), "tint.shd", tintShader)
	tests := []struct {
		args []string
		want string
	}{
		{nil, "#version 330"},
		{[]string{"-target", "vulkan-glsl"}, "#version 450"},
		{[]string{"-target", "hlsl"}, "cbuffer CBuffer2 : register(b1)"},
		{[]string{"-target", "msl"}, "fragment float4 ps_main("},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			code, stdout, stderr := runPollyc(append(tt.args, input)...)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, stderr)
			}
			if !strings.Contains(stdout, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, stdout)
			}
		})
	}
}

func TestRun_OutputFileAndLayout(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "tint.shd", tintShader)
	out := filepath.Join(dir, "tint.hlsl")

	code, stdout, stderr := runPollyc("-target", "hlsl", "-layout", "-o", out, input)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}

	var layout gen.ParameterList
	if err := yaml.Unmarshal([]byte(stdout), &layout); err != nil {
		t.Fatalf("layout is not YAML: %v\n%s", err, stdout)
	}
	want := gen.ParameterList{
		Params: []gen.Parameter{
			{Name: "Intensity", Type: "float", Offset: 0, SizeInBytes: 4, Default: "0.5"},
			{Name: "Tint", Type: "Vec3", Offset: 16, SizeInBytes: 12},
		},
		CBufferSize: 32,
	}
	if diff := cmp.Diff(want, layout); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "float4 main(pl_VSOutput pl_in) : SV_Target0") {
		t.Errorf("unexpected output file:\n%s", data)
	}
}

func TestRun_ConfigAndOverride(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "tint.shd", tintShader)
	cfg := writeFile(t, dir, "pollyc.yaml", "target: msl\ndebug: true\ncache:\n  dir: "+filepath.Join(dir, "cache")+"\n")

	code, stdout, stderr := runPollyc("-config", cfg, input)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "// "+input+"\n#include <metal_stdlib>") {
		t.Errorf("config not applied:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "cache")); err != nil {
		t.Errorf("cache directory not created: %v", err)
	}

	code, stdout, stderr = runPollyc("-config", cfg, "-target", "hlsl", "-debug=false", input)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "cbuffer CBuffer2") {
		t.Errorf("flags did not override config:\n%s", stdout)
	}
}

func TestRun_Diagnostics(t *testing.T) {
	input := writeFile(t, t.TempDir(), "bad.shd", "#type sprite\nVec4 main() {\n  break;\n  return Vec4(1);\n}\n")

	code, stdout, stderr := runPollyc("-color", "never", input)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if stdout != "" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if !strings.Contains(stderr, "(3, 3): error: ") || !strings.Contains(stderr, "  3|   break;\n   |   ^\n") {
		t.Errorf("unexpected diagnostic:\n%s", stderr)
	}
	if strings.Contains(stderr, "\033[") {
		t.Error("colour used with -color never")
	}

	_, _, stderr = runPollyc("-color", "always", input)
	if !strings.HasPrefix(stderr, "\033[31;1m") {
		t.Errorf("no colour with -color always: %q", stderr)
	}
}

func TestRun_Errors(t *testing.T) {
	input := writeFile(t, t.TempDir(), "tint.shd", tintShader)
	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no input", nil, 1, "no input file specified"},
		{"missing file", []string{"nope.shd"}, 1, "Error reading file"},
		{"bad target", []string{"-target", "spirv", input}, 1, `unknown target "spirv"`},
		{"bad flag", []string{"-frobnicate", input}, 2, "flag provided but not defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runPollyc(tt.args...)
			if code != tt.code {
				t.Errorf("exit %d, want %d", code, tt.code)
			}
			if !strings.Contains(stderr, tt.msg) {
				t.Errorf("stderr missing %q:\n%s", tt.msg, stderr)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runPollyc("-version")
	if code != 0 || stdout != "pollyc version "+shaderc.Version+"\n" {
		t.Errorf("exit %d, stdout %q", code, stdout)
	}
}
