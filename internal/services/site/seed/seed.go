// Package seed loads starter documents from YAML files.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/storage"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSeed []byte

// File is a parsed seed file.
type File struct {
	Collections map[string][]map[string]any `yaml:"collections"`
}

// Result counts the documents touched by Apply.
type Result struct {
	Created int
	Skipped int
}

// Default returns the embedded starter content.
func Default() (File, error) {
	return Parse(defaultSeed)
}

// Load parses a seed file from r.
func Load(r io.Reader) (File, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return File{}, fmt.Errorf("read seed: %w", err)
	}
	return Parse(content)
}

// Parse decodes content and checks that every collection exists and every
// document carries an id.
func Parse(content []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return File{}, fmt.Errorf("decode seed: %w", err)
	}
	for slug, docs := range file.Collections {
		if _, ok := collections.Lookup(slug); !ok {
			return File{}, fmt.Errorf("seed collection %q is unknown", slug)
		}
		for i, doc := range docs {
			if docID, _ := doc["id"].(string); docID == "" {
				return File{}, fmt.Errorf("seed %s[%d]: id is required", slug, i)
			}
		}
	}
	return file, nil
}

// Options tunes Apply.
type Options struct {
	// OnlyEmpty skips collections that already hold documents.
	OnlyEmpty bool
	Logger    *zap.Logger
}

// Apply validates and inserts every seed document. Documents whose id
// already exists are skipped.
func Apply(ctx context.Context, store storage.DocumentStore, file File, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var result Result
	slugs := make([]string, 0, len(file.Collections))
	for slug := range file.Collections {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		schema, _ := collections.Lookup(slug)
		docs := file.Collections[slug]
		if opts.OnlyEmpty {
			count, err := store.CountDocuments(ctx, slug)
			if err != nil {
				return result, err
			}
			if count > 0 {
				result.Skipped += len(docs)
				logger.Debug("seed collection not empty", zap.String("collection", slug), zap.Int("documents", count))
				continue
			}
		}
		for i, raw := range docs {
			docID, _ := raw["id"].(string)
			data := make(map[string]any, len(raw))
			for key, value := range raw {
				if key != "id" {
					data[key] = value
				}
			}
			valid, err := schema.Validate(data)
			if err != nil {
				return result, fmt.Errorf("seed %s[%d]: %w", slug, i, err)
			}
			err = store.CreateDocument(ctx, storage.Document{Collection: slug, ID: docID, Data: valid})
			switch {
			case errors.Is(err, storage.ErrAlreadyExists):
				result.Skipped++
			case err != nil:
				return result, fmt.Errorf("seed %s/%s: %w", slug, docID, err)
			default:
				result.Created++
			}
		}
	}
	logger.Info("seed applied", zap.Int("created", result.Created), zap.Int("skipped", result.Skipped))
	return result, nil
}
