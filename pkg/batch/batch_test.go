package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mcpchecker/envelope/pkg/codec"
	"github.com/mcpchecker/envelope/pkg/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	docs := []Document{
		{Name: "text", Data: []byte(`"hello"`)},
		{Name: "number", Data: []byte(`42`)},
		{Name: "whole", Data: []byte(`{"name": "John"}`)},
		{Name: "data", Data: []byte(`{"data": "important info", "other": "value"}`)},
		{Name: "broken", Data: []byte(`{"data": [}`)},
		{Name: "yaml", Data: []byte("data:\n  - a\n  - b\n")},
	}

	items, err := Run(context.Background(), docs, Options{Format: codec.FormatAuto, Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, items, len(docs))

	for idx, doc := range docs {
		assert.Equal(t, doc.Name, items[idx].Name)
	}

	assert.Equal(t, normalize.Envelope{Result: "hello"}, items[0].Envelope)
	assert.Equal(t, normalize.Envelope{Result: json.Number("42")}, items[1].Envelope)
	assert.Equal(t, normalize.Envelope{Result: map[string]any{"name": "John"}}, items[2].Envelope)
	assert.Equal(t, normalize.Envelope{Result: "important info"}, items[3].Envelope)
	assert.Error(t, items[4].Err)
	assert.Equal(t, normalize.Envelope{Result: []any{"a", "b"}}, items[5].Envelope)

	assert.Equal(t, 1, Failed(items))
}

func TestRun_ManyDocuments(t *testing.T) {
	docs := make([]Document, 50)
	for i := range docs {
		docs[i] = Document{Name: fmt.Sprintf("doc-%d", i), Data: []byte(fmt.Sprintf(`{"data": %d}`, i))}
	}

	items, err := Run(context.Background(), docs, Options{Format: codec.FormatJSON, Concurrency: 8})
	require.NoError(t, err)

	for i, item := range items {
		assert.Equal(t, json.Number(fmt.Sprint(i)), item.Envelope.Result)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []Document{{Name: "a", Data: []byte(`1`)}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestItem_MarshalJSON(t *testing.T) {
	tt := map[string]struct {
		item     Item
		expected string
	}{
		"result": {
			item:     Item{Name: "a.json", Envelope: normalize.Envelope{Result: "x"}},
			expected: `{"name": "a.json", "result": "x"}`,
		},
		"null result": {
			item:     Item{Name: "b.json"},
			expected: `{"name": "b.json", "result": null}`,
		},
		"error": {
			item:     Item{Name: "c.json", Err: fmt.Errorf("boom")},
			expected: `{"name": "c.json", "error": "boom"}`,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			b, err := json.Marshal(tc.item)
			require.NoError(t, err)
			assert.JSONEq(t, tc.expected, string(b))
		})
	}
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`"x"`), 0o644))

	docs, err := ReadFiles([]string{path})
	require.NoError(t, err)
	assert.Equal(t, []Document{{Name: path, Data: []byte(`"x"`)}}, docs)

	_, err = ReadFiles([]string{filepath.Join(dir, "missing.json")})
	assert.ErrorContains(t, err, "failed to read input file")
}
