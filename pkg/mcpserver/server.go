// Package mcpserver exposes the normalizer as an MCP tool.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/mcpchecker/envelope/pkg/normalize"
	"github.com/mcpchecker/envelope/pkg/util"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	ServerName = "envelope"
	ToolName   = "normalize"

	shutdownTimeout = 5 * time.Second
)

type normalizeArgs struct {
	Input any `json:"input" jsonschema:"the value to wrap; a mapping with a data key has that value unwrapped"`
}

// New builds an MCP server with the normalize tool registered.
func New(version string) (*mcp.Server, error) {
	inputSchema, err := jsonschema.For[normalizeArgs](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build input schema: %w", err)
	}

	outputSchema, err := normalize.Schema()
	if err != nil {
		return nil, err
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools: true,
		},
	)

	server.AddTool(&mcp.Tool{
		Name:         ToolName,
		Description:  "Wrap a value in a {\"result\": ...} envelope, unwrapping the data key of mappings",
		InputSchema:  inputSchema,
		OutputSchema: outputSchema,
	}, handleNormalize)

	return server, nil
}

func handleNormalize(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := parseInput(req.Params.Arguments)
	if err != nil {
		util.Debugf(ctx, "rejected %s call: %v", ToolName, err)
		return errorResult(err), nil
	}

	env := normalize.Normalize(input)

	text, err := json.Marshal(env)
	if err != nil {
		return errorResult(fmt.Errorf("failed to encode result: %w", err)), nil
	}

	return &mcp.CallToolResult{
		Content:           []mcp.Content{&mcp.TextContent{Text: string(text)}},
		StructuredContent: env.AsMap(),
	}, nil
}

// parseInput extracts the "input" argument. Arguments are re-encoded first
// so that raw and already-decoded forms are handled alike, and numbers stay
// json.Number.
func parseInput(args any) (any, error) {
	if args == nil {
		return nil, errors.New("missing required argument 'input'")
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool arguments: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var parsed map[string]any
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("tool arguments must be an object: %w", err)
	}

	input, ok := parsed["input"]
	if !ok {
		return nil, errors.New("missing required argument 'input'")
	}

	return input, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

// Serve runs server until ctx is done. An empty addr serves over stdio,
// otherwise streamable HTTP is served at /mcp on addr.
func Serve(ctx context.Context, server *mcp.Server, addr string) error {
	if addr == "" {
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	return serveHTTP(ctx, server, listener)
}

func serveHTTP(ctx context.Context, server *mcp.Server, listener net.Listener) error {
	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{})

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)

	httpSrv := &http.Server{
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(listener)
	}()

	util.Debugf(ctx, "serving MCP over HTTP at http://%s/mcp", listener.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: failed to shut down MCP HTTP server cleanly: %v", err)
		// Long-lived streams can outlive the grace period.
		if errors.Is(err, context.DeadlineExceeded) {
			return httpSrv.Close()
		}
		return err
	}

	return nil
}
