package config

import (
	"fmt"

	"github.com/atinyakov/GophShop/internal/db"
	"github.com/atinyakov/GophShop/internal/repository"
	"github.com/atinyakov/GophShop/internal/storage"
)

// OpenMedium opens the key-value medium selected by o. The returned close
// function releases it and is never nil.
func OpenMedium(o *Options) (storage.Medium, func() error, error) {
	noop := func() error { return nil }

	switch o.Storage {
	case StorageMemory:
		return storage.NewMemory(), noop, nil
	case StorageFile:
		f, err := storage.OpenFile(o.DataPath)
		if err != nil {
			return nil, noop, err
		}
		return f, noop, nil
	case StorageLevelDB:
		l, err := storage.OpenLevelDB(o.DataPath)
		if err != nil {
			return nil, noop, err
		}
		return l, l.Close, nil
	case StoragePostgres:
		pg, err := db.InitPostgres(o.DatabaseDSN)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewPostgresKV(pg), pg.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", o.Storage)
	}
}
