package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/cache"
	"github.com/polly2d/shaderc/ir"
)

const tintShader = `#type sprite
float Intensity = 0.5;

Vec4 main() {
  return sample(pl_spriteImage, pl_spriteUV) * pl_spriteColor * Intensity;
}
`

func hlslOptions() shaderc.Options {
	opts := shaderc.DefaultOptions()
	opts.Target = shaderc.TargetHLSL
	return opts
}

func counter(tier, result string) float64 {
	return testutil.ToFloat64(cache.Lookups.WithLabelValues(tier, result))
}

func TestKey(t *testing.T) {
	base := cache.Key(tintShader, "tint.shd", hlslOptions())

	if got := cache.Key(tintShader, "tint.shd", hlslOptions()); got != base {
		t.Errorf("key not stable: %s != %s", got, base)
	}

	variants := map[string]func(*shaderc.Options) (string, string){
		"target":   func(o *shaderc.Options) (string, string) { o.Target = shaderc.TargetMSL; return tintShader, "tint.shd" },
		"optimize": func(o *shaderc.Options) (string, string) { o.Optimize = false; return tintShader, "tint.shd" },
		"debug":    func(o *shaderc.Options) (string, string) { o.DebugInfo = true; return tintShader, "tint.shd" },
		"filename": func(o *shaderc.Options) (string, string) { return tintShader, "other.shd" },
		"source":   func(o *shaderc.Options) (string, string) { return tintShader + "\n", "tint.shd" },
	}
	for name, mod := range variants {
		t.Run(name, func(t *testing.T) {
			opts := hlslOptions()
			src, file := mod(&opts)
			if cache.Key(src, file, opts) == base {
				t.Errorf("key does not depend on %s", name)
			}
		})
	}
}

func TestCompile_MemoryTier(t *testing.T) {
	c, err := cache.New(cache.Options{Size: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	want, err := shaderc.CompileWithOptions(tintShader, "tint.shd", hlslOptions())
	if err != nil {
		t.Fatal(err)
	}

	hits := counter("memory", "hit")
	for range 3 {
		got, err := c.Compile(context.Background(), tintShader, "tint.shd", hlslOptions())
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("result mismatch (-want +got):\n%s", diff)
		}
	}
	if got := counter("memory", "hit") - hits; got != 2 {
		t.Errorf("memory hits = %v, want 2", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCompile_ErrorsAreNotCached(t *testing.T) {
	c, err := cache.New(cache.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	src := "#type sprite\nVec4 main() { break; return Vec4(1); }"
	for range 2 {
		_, err := c.Compile(context.Background(), src, "bad.shd", hlslOptions())
		var ce *ir.Error
		if !errors.As(err, &ce) {
			t.Fatalf("expected *ir.Error, got %v", err)
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}

func TestCompile_DiskTier(t *testing.T) {
	dir := t.TempDir()

	first, err := cache.New(cache.Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	want, err := first.Compile(context.Background(), tintShader, "tint.shd", hlslOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second, err := cache.New(cache.Options{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	hits := counter("disk", "hit")
	got, err := second.Compile(context.Background(), tintShader, "tint.shd", hlslOptions())
	if err != nil {
		t.Fatal(err)
	}
	if counter("disk", "hit")-hits != 1 {
		t.Error("second instance did not read the disk tier")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	if err := second.Purge(); err != nil {
		t.Fatal(err)
	}
	misses := counter("disk", "miss")
	if _, err := second.Compile(context.Background(), tintShader, "tint.shd", hlslOptions()); err != nil {
		t.Fatal(err)
	}
	if counter("disk", "miss")-misses != 1 {
		t.Error("Purge did not empty the disk tier")
	}
}

func TestCompile_CanceledContext(t *testing.T) {
	c, err := cache.New(cache.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Compile(ctx, tintShader, "tint.shd", hlslOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
