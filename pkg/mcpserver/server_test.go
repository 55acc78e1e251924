package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()

	server, err := New("test")
	require.NoError(t, err)

	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestNormalizeTool(t *testing.T) {
	session := connect(t)

	tt := map[string]struct {
		args     map[string]any
		expected string
	}{
		"text": {
			args:     map[string]any{"input": "hello"},
			expected: `{"result": "hello"}`,
		},
		"integer stays integer": {
			args:     map[string]any{"input": 42},
			expected: `{"result": 42}`,
		},
		"mapping without data": {
			args:     map[string]any{"input": map[string]any{"name": "John", "age": 30}},
			expected: `{"result": {"name": "John", "age": 30}}`,
		},
		"mapping with data": {
			args:     map[string]any{"input": map[string]any{"data": "important info", "other": "value"}},
			expected: `{"result": "important info"}`,
		},
		"null": {
			args:     map[string]any{"input": nil},
			expected: `{"result": null}`,
		},
		"list": {
			args:     map[string]any{"input": []any{1, 2, 3}},
			expected: `{"result": [1, 2, 3]}`,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
				Name:      ToolName,
				Arguments: tc.args,
			})
			require.NoError(t, err)
			assert.False(t, res.IsError)

			assert.JSONEq(t, tc.expected, textOf(t, res))

			structured, err := json.Marshal(res.StructuredContent)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(structured))
		})
	}
}

func TestNormalizeTool_MissingInput(t *testing.T) {
	session := connect(t)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"other": 1},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res), "missing required argument 'input'")
}

func TestListTools(t *testing.T) {
	session := connect(t)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	assert.Equal(t, ToolName, res.Tools[0].Name)
	assert.NotNil(t, res.Tools[0].OutputSchema)
}

func TestParseInput(t *testing.T) {
	tt := map[string]struct {
		args      any
		expected  any
		expectErr bool
	}{
		"raw message": {
			args:     json.RawMessage(`{"input": 7}`),
			expected: json.Number("7"),
		},
		"decoded map": {
			args:     map[string]any{"input": "x"},
			expected: "x",
		},
		"nil": {
			args:      nil,
			expectErr: true,
		},
		"not an object": {
			args:      json.RawMessage(`"x"`),
			expectErr: true,
		},
		"null raw message": {
			args:      json.RawMessage(`null`),
			expectErr: true,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			got, err := parseInput(tc.args)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestServeHTTP(t *testing.T) {
	server, err := New("test")
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveHTTP(ctx, server, listener)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(context.Background(), &mcp.StreamableClientTransport{
		Endpoint: fmt.Sprintf("http://%s/mcp", listener.Addr()),
	}, nil)
	require.NoError(t, err)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"input": map[string]any{"data": true}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"result": true}`, textOf(t, res))

	require.NoError(t, session.Close())
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
