// Command pollyls is the Polly language server. It speaks LSP over stdin
// and stdout.
//
// Usage:
//
//	pollyls [-config pollyc.yaml] [-target hlsl] [-metrics-addr localhost:9100]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/polly2d/shaderc/cache"
	"github.com/polly2d/shaderc/cmd/internal/config"
	"github.com/polly2d/shaderc/logutil"
	"github.com/polly2d/shaderc/lsp"
)

var (
	configPath  = flag.String("config", "", "YAML configuration file")
	target      = flag.String("target", "", "target language documents are checked against")
	metricsAddr = flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	logFile     = flag.String("log", "", "log requests to this file")
)

func init() {
	prometheus.MustRegister(cache.Lookups)
	prometheus.MustRegister(cache.CompileSeconds)
}

func main() {
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		if cfg, err = config.FromFile(*configPath); err != nil {
			log.Fatalf("pollyls: %v", err)
		}
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *metricsAddr != "" {
		cfg.Server.MetricsAddr = *metricsAddr
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}

	opts, err := cfg.Options()
	if err != nil {
		log.Fatalf("pollyls: %v", err)
	}
	// stdout carries the protocol; only a file may receive logs.
	logger, closeLog, err := logutil.OpenFile(cfg.LogFile, "pollyls ")
	if err != nil {
		log.Fatalf("pollyls: %v", err)
	}
	defer closeLog()

	c, err := cache.New(cfg.CacheOptions(logger))
	if err != nil {
		log.Fatalf("pollyls: %v", err)
	}
	defer c.Close()

	if cfg.Server.MetricsAddr != "" {
		go metrics(cfg.Server.MetricsAddr, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = lsp.Serve(ctx, lsp.Stdio(), lsp.Options{Compile: opts, Cache: c, Logger: logger})
	if err != nil && ctx.Err() == nil {
		logger.Printf("serve: %v", err)
	}
}

// metrics starts the Prometheus endpoint.
func metrics(addr string, logger *log.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(rw http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/" {
			fmt.Fprintln(rw, "pollyls metrics server; see /metrics")
		} else {
			http.NotFound(rw, req)
		}
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := http.Server{
		Addr:    addr,
		Handler: mux,
	}
	logger.Printf("metrics: %v", server.ListenAndServe())
}
