package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/polly2d/shaderc"
	"github.com/polly2d/shaderc/ir"
)

const diagnosticSource = "pollyc"

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	opts Options
	log  *log.Logger

	mu      sync.Mutex
	content map[lsp.DocumentURI]string
}

func newServer(opts Options) *server {
	return &server{
		opts:    opts,
		log:     loggerOf(opts),
		content: make(map[lsp.DocumentURI]string),
	}
}

func (s *server) handler() jsonrpc2.Handler {
	return routingHandler(s.log, map[string]method{
		"initialize":             s.initialize,
		"textDocument/didOpen":   s.didOpen,
		"textDocument/didChange": s.didChange,
		"textDocument/didClose":  s.didClose,
		"textDocument/hover":     s.hover,
		"shutdown":               noop,
		"exit":                   s.exit,

		"initialized":                     noop,
		"workspace/didChangeWatchedFiles": noop,
		"$/cancelRequest":                 noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(logger *log.Logger, methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		logger.Printf("lsp: %s", req.Method)
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider: true,
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.update(ctx, conn, params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// Only full sync is advertised, so the last change holds the whole text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	s.update(ctx, conn, params.TextDocument.URI, text)
	return nil, nil
}

func (s *server) didClose(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	delete(s.content, params.TextDocument.URI)
	s.mu.Unlock()
	// Clear the editor's markers for the closed file.
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: params.TextDocument.URI, Diagnostics: []lsp.Diagnostic{}})
	return nil, nil
}

func (s *server) exit(_ context.Context, conn jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	go conn.Close()
	return nil, nil
}

func (s *server) document(uri lsp.DocumentURI) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.content[uri]
	return text, ok
}

func (s *server) update(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, text string) {
	s.mu.Lock()
	s.content[uri] = text
	s.mu.Unlock()

	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: s.diagnostics(ctx, uri, text)})
}

// diagnostics compiles text and reports the first error, if any.
func (s *server) diagnostics(ctx context.Context, uri lsp.DocumentURI, text string) []lsp.Diagnostic {
	filename := filenameOf(uri)
	var err error
	if s.opts.Cache != nil {
		_, err = s.opts.Cache.Compile(ctx, text, filename, s.opts.Compile)
	} else {
		_, err = shaderc.CompileWithOptions(text, filename, s.opts.Compile)
	}
	if err == nil {
		return []lsp.Diagnostic{}
	}

	var ce *ir.Error
	if !errors.As(err, &ce) {
		return []lsp.Diagnostic{{Severity: lsp.Error, Source: diagnosticSource, Message: err.Error()}}
	}
	return []lsp.Diagnostic{{
		Range:    lspRangeFromLocation(text, ce.Location),
		Severity: lsp.Error,
		Source:   diagnosticSource,
		Message:  ce.Message,
	}}
}

func filenameOf(uri lsp.DocumentURI) string {
	return strings.TrimPrefix(string(uri), "file://")
}

// lspRangeFromLocation converts a 1-based location to a range covering
// the character at it. A missing line or column maps to the start of the
// document or line.
func lspRangeFromLocation(text string, loc ir.Location) lsp.Range {
	var start lsp.Position
	if loc.Line > 0 {
		start.Line = loc.Line - 1
	}
	if loc.Column > 0 {
		start.Character = lspCharacter(lineAt(text, start.Line), loc.Column-1)
	}
	end := start
	end.Character++
	return lsp.Range{Start: start, End: end}
}

// lineAt returns line n (0-based) of text without its terminator.
func lineAt(text string, n int) string {
	for range n {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			return ""
		}
		text = text[i+1:]
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSuffix(text, "\r")
}

// lspCharacter converts a byte offset within line to UTF-16 code units.
func lspCharacter(line string, offset int) int {
	char := 0
	for i, r := range line {
		if i >= offset {
			break
		}
		if r > 0xFFFF {
			char += 2
		} else {
			char++
		}
	}
	if offset > len(line) {
		char += offset - len(line)
	}
	return char
}

// byteOffset converts a UTF-16 character position within line to a byte
// offset.
func byteOffset(line string, character int) int {
	char := 0
	for i, r := range line {
		if char >= character {
			return i
		}
		if r > 0xFFFF {
			char += 2
		} else {
			char++
		}
	}
	return len(line)
}
