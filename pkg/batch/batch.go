// Package batch normalizes many documents concurrently.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mcpchecker/envelope/pkg/codec"
	"github.com/mcpchecker/envelope/pkg/normalize"
	"github.com/mcpchecker/envelope/pkg/util"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// Document is one named input.
type Document struct {
	Name string
	Data []byte
}

type Options struct {
	Format      codec.Format
	Concurrency int
}

// Item is the outcome for one document. Exactly one of Envelope and Err is
// meaningful.
type Item struct {
	Name     string
	Envelope normalize.Envelope
	Err      error
}

func (i Item) MarshalJSON() ([]byte, error) {
	if i.Err != nil {
		return json.Marshal(struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		}{Name: i.Name, Error: i.Err.Error()})
	}

	return json.Marshal(struct {
		Name   string `json:"name"`
		Result any    `json:"result"`
	}{Name: i.Name, Result: i.Envelope.Result})
}

// Run decodes and normalizes docs, returning items in the same order. A
// document that fails to decode is reported on its Item and does not stop
// the others. The only error returned is from ctx.
func Run(ctx context.Context, docs []Document, opts Options) ([]Item, error) {
	limit := opts.Concurrency
	if limit < 1 {
		limit = DefaultConcurrency
	}

	items := make([]Item, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for idx, doc := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			items[idx] = process(gctx, doc, opts.Format)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func process(ctx context.Context, doc Document, format codec.Format) Item {
	v, err := codec.Decode(doc.Data, format)
	if err != nil {
		util.Debugf(ctx, "%s: %v", doc.Name, err)
		return Item{Name: doc.Name, Err: err}
	}

	util.Debugf(ctx, "%s: normalized %s input", doc.Name, normalize.Classify(v))
	return Item{Name: doc.Name, Envelope: normalize.Normalize(v)}
}

// ReadFiles loads each path as a Document named after the path.
func ReadFiles(paths []string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file '%s': %w", path, err)
		}
		docs = append(docs, Document{Name: path, Data: data})
	}
	return docs, nil
}

// Failed counts the items that carry an error.
func Failed(items []Item) int {
	n := 0
	for _, item := range items {
		if item.Err != nil {
			n++
		}
	}
	return n
}
