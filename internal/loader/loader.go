// Package loader reads database descriptions from YAML or JSON documents,
// on local disk or in object storage, and turns them into a validated
// schema.Database.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/sync/errgroup"

	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/filestore"
	"github.com/koustreak/schemareg/internal/logger"
	"github.com/koustreak/schemareg/internal/schema"
)

// maxParallelFetches bounds concurrent object downloads in LoadStore.
const maxParallelFetches = 4

// Parse decodes one document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errs.New(errs.ErrKindInvalidInput, "empty schema document")
		}
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed schema document", err)
	}
	return &doc, nil
}

// Build merges docs into one database and validates it. A schema may be
// described by only one document.
func Build(docs ...*Document) (*schema.Database, error) {
	merged := make(map[string]SchemaDoc)
	for _, doc := range docs {
		for name, sd := range doc.Schemas {
			if _, dup := merged[name]; dup {
				return nil, errs.Newf(errs.ErrKindInvalidInput, "schema %q is described more than once", name)
			}
			merged[name] = sd
		}
	}
	if len(merged) == 0 {
		return nil, errs.New(errs.ErrKindInvalidInput, "no schemas described")
	}

	b := schema.NewBuilder()
	for _, name := range sortedNames(merged) {
		if err := addSchema(b.Schema(name), name, merged[name]); err != nil {
			return nil, err
		}
	}

	db, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

// LoadFile reads and builds a single document from disk.
func LoadFile(filename string) (*schema.Database, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindNotFound, "schema document not found", err)
		}
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read schema document", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	logger.With().Str("file", filename).Int("schemas", len(doc.Schemas)).Logger().
		Debug("schema document loaded")
	return Build(doc)
}

// LoadStore reads every .yaml, .yml or .json object under prefix in bucket
// and builds them as one database. Objects are fetched concurrently.
func LoadStore(ctx context.Context, store filestore.Store, bucket, prefix string) (*schema.Database, error) {
	objects, err := store.ListObjects(ctx, bucket, filestore.ListOptions{Prefix: prefix, Recursive: true})
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, o := range objects {
		if !o.IsDir && isDocument(o.Key) {
			keys = append(keys, o.Key)
		}
	}
	if len(keys) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "no schema documents under %s/%s", bucket, prefix)
	}
	slices.Sort(keys)

	docs := make([]*Document, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, key := range keys {
		g.Go(func() error {
			doc, err := fetch(gctx, store, bucket, key)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.With().Str("bucket", bucket).Str("prefix", prefix).Int("documents", len(docs)).Logger().
		Info("schema documents loaded from store")
	return Build(docs...)
}

func fetch(ctx context.Context, store filestore.Store, bucket, key string) (*Document, error) {
	obj, err := store.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read "+key, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return doc, nil
}

func isDocument(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func addSchema(sb *schema.SchemaBuilder, name string, sd SchemaDoc) error {
	types := typeResolver{enums: sd.Enums, composites: sd.CompositeTypes}

	for _, en := range sortedNames(sd.Enums) {
		sb.Enum(schema.NewEnum(en, sd.Enums[en]...))
	}
	for _, cn := range sortedNames(sd.CompositeTypes) {
		attrs, err := types.columns(sd.CompositeTypes[cn].Attributes)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, cn, err)
		}
		sb.CompositeType(schema.NewCompositeType(cn, attrs))
	}
	for _, tn := range sortedNames(sd.Tables) {
		rd := sd.Tables[tn]
		cols, err := types.columns(rd.Columns)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, tn, err)
		}
		sb.Table(schema.NewTable(tn, cols, relationships(rd.Relationships)...))
	}
	for _, vn := range sortedNames(sd.Views) {
		rd := sd.Views[vn]
		cols, err := types.columns(rd.Columns)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, vn, err)
		}
		sb.View(schema.NewView(vn, cols, relationships(rd.Relationships)...))
	}
	for _, fn := range sortedNames(sd.Functions) {
		f, err := types.function(fn, sd.Functions[fn])
		if err != nil {
			return fmt.Errorf("%s.%s: %w", name, fn, err)
		}
		sb.Function(f)
	}
	return nil
}

func relationships(docs []RelationshipDoc) []schema.Relationship {
	rels := make([]schema.Relationship, len(docs))
	for i, d := range docs {
		rels[i] = schema.Relationship(d)
	}
	return rels
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
