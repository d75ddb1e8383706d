// Package lsp implements a language server for Polly shaders.
//
// Every opened or changed document is compiled for the configured target
// and the first error is published as a diagnostic. Hovering an
// identifier or literal shows its resolved type.
package lsp

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/cache"
	"github.com/polly2d/shaderc/logutil"
)

// Options configures a server.
type Options struct {
	// Compile selects the target documents are checked against.
	Compile shaderc.Options

	// Cache memoizes compiles. Nil compiles every time.
	Cache *cache.Cache

	// Logger receives request traces. Nil discards them.
	Logger *log.Logger
}

// Serve runs a server on rwc until the client disconnects, sends "exit"
// or ctx is canceled.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newServer(opts)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		s.handler())
	select {
	case <-conn.DisconnectNotify():
		return nil
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	}
}

// Stdio returns the server's standard input and output as one stream.
func Stdio() io.ReadWriteCloser {
	return transport{os.Stdin, os.Stdout}
}

type transport struct{ in, out *os.File }

func (c transport) Read(p []byte) (int, error)  { return c.in.Read(p) }
func (c transport) Write(p []byte) (int, error) { return c.out.Write(p) }

func (c transport) Close() error {
	if err := c.in.Close(); err != nil {
		c.out.Close()
		return err
	}
	return c.out.Close()
}

func loggerOf(opts Options) *log.Logger { return logutil.OrDiscard(opts.Logger) }
