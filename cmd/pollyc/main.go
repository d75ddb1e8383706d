// Command pollyc is the Polly shader compiler CLI.
//
// Usage:
//
//	pollyc [options] <input>
//
// Examples:
//
//	pollyc tint.shd                         # Compile to GLSL on stdout
//	pollyc -target hlsl -o tint.hlsl tint.shd
//	pollyc -target msl -layout tint.shd     # Print the parameter layout
//	pollyc -cache-dir .shaderc tint.shd     # Reuse earlier results
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/cache"
	"github.com/polly2d/shaderc/cmd/internal/config"
	"github.com/polly2d/shaderc/ir"
	"github.com/polly2d/shaderc/logutil"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type flags struct {
	output     string
	target     string
	optimize   bool
	debug      bool
	layout     bool
	configPath string
	cacheDir   string
	verbose    bool
	version    bool
	color      string
}

func parseFlags(args []string, stderr io.Writer) (*flags, *flag.FlagSet, error) {
	f := &flags{}
	fs := flag.NewFlagSet("pollyc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.output, "o", "", "output file (default: stdout)")
	fs.StringVar(&f.target, "target", "glsl", "target language: glsl, vulkan-glsl, hlsl or msl")
	fs.BoolVar(&f.optimize, "O", true, "remove unused functions, variables and parameters")
	fs.BoolVar(&f.debug, "debug", false, "include debug info")
	fs.BoolVar(&f.layout, "layout", false, "print the parameter layout as YAML")
	fs.StringVar(&f.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "directory of the on-disk compile cache")
	fs.BoolVar(&f.verbose, "v", false, "log compile stages to stderr")
	fs.BoolVar(&f.version, "version", false, "print version")
	fs.StringVar(&f.color, "color", "auto", "colour diagnostics: auto, always or never")
	fs.Usage = func() { usage(fs) }
	err := fs.Parse(args)
	return f, fs, err
}

func run(args []string, stdout, stderr io.Writer) int {
	f, fs, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if f.version {
		fmt.Fprintf(stdout, "pollyc version %s\n", shaderc.Version)
		return 0
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: no input file specified")
		fs.Usage()
		return 1
	}
	inputPath := fs.Arg(0)

	cfg := &config.Config{}
	if f.configPath != "" {
		if cfg, err = config.FromFile(f.configPath); err != nil {
			fmt.Fprintf(stderr, "Error reading config: %v\n", err)
			return 1
		}
	}
	// Flags given on the command line override the file.
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "target":
			cfg.Target = f.target
		case "O":
			cfg.Optimize = &f.optimize
		case "debug":
			cfg.Debug = f.debug
		case "cache-dir":
			cfg.Cache.Dir = f.cacheDir
		}
	})
	opts, err := cfg.Options()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := openLogger(cfg.LogFile, f.verbose, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening log: %v\n", err)
		return 1
	}
	defer closeLog()
	opts.Logger = logger

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading file: %v\n", err)
		return 1
	}

	res, err := compile(string(source), inputPath, opts, cfg.CacheOptions(logger))
	if err != nil {
		printDiagnostic(stderr, err, string(source), useColor(f.color, stderr))
		return 1
	}

	if f.layout {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(res.Parameters); err != nil {
			fmt.Fprintf(stderr, "Error writing layout: %v\n", err)
			return 1
		}
		enc.Close()
	}

	switch {
	case f.output != "":
		if err := os.WriteFile(f.output, []byte(res.Code), 0o644); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
		logger.Printf("wrote %s (%d bytes)", f.output, len(res.Code))
	case !f.layout:
		if _, err := io.WriteString(stdout, res.Code); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return 1
		}
	}
	return 0
}

func compile(source, filename string, opts shaderc.Options, cacheOpts cache.Options) (shaderc.Result, error) {
	if cacheOpts.Dir == "" {
		return shaderc.CompileWithOptions(source, filename, opts)
	}
	c, err := cache.New(cacheOpts)
	if err != nil {
		return shaderc.Result{}, err
	}
	defer c.Close()
	return c.Compile(context.Background(), source, filename, opts)
}

func openLogger(path string, verbose bool, stderr io.Writer) (*log.Logger, func() error, error) {
	if path != "" {
		return logutil.OpenFile(path, "pollyc ")
	}
	if verbose {
		return logutil.New(stderr, "pollyc "), func() error { return nil }, nil
	}
	return logutil.Discard, func() error { return nil }, nil
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printDiagnostic(w io.Writer, err error, source string, color bool) {
	msg := err.Error()
	var ce *ir.Error
	if errors.As(err, &ce) {
		msg = strings.TrimRight(ce.FormatWithContext(source), "\n")
	}
	if color {
		fmt.Fprintf(w, "\033[31;1m%s\033[m\n", msg)
	} else {
		fmt.Fprintln(w, msg)
	}
}

func usage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintf(w, "Usage: pollyc [options] <input.shd>\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  pollyc tint.shd                     Compile to GLSL on stdout\n")
	fmt.Fprintf(w, "  pollyc -target hlsl -o t.hlsl t.shd Compile to a file\n")
	fmt.Fprintf(w, "  pollyc -layout -target msl t.shd    Print the parameter layout\n")
}
