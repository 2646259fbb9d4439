package main

import (
	"context"

	"github.com/koustreak/schemareg/internal/config"
	"github.com/koustreak/schemareg/internal/errs"
	"github.com/koustreak/schemareg/internal/filestore"
	"github.com/koustreak/schemareg/internal/filestore/minio"
	"github.com/koustreak/schemareg/internal/loader"
	"github.com/koustreak/schemareg/internal/registry"
	"github.com/koustreak/schemareg/internal/schema"
)

// loadDatabase reads the database description named by the source section.
func loadDatabase(ctx context.Context, src config.Source) (*schema.Database, error) {
	if src.Store == nil {
		return loader.LoadFile(src.Path)
	}

	if p := src.Store.Provider; p != "" && p != filestore.ProviderMinIO {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unsupported store provider %q", p)
	}
	store, err := minio.New(ctx, src.Store)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	return loader.LoadStore(ctx, store, src.Bucket, src.Prefix)
}

func openRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, error) {
	db, err := loadDatabase(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	return registry.New(db, &cfg.Registry)
}
