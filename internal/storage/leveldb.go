package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDB is a Medium backed by a goleveldb database directory.
type LevelDB struct {
	db *leveldb.DB
}

// OpenLevelDB opens (creating if needed) the database at dir.
func OpenLevelDB(dir string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", dir, err)
	}
	return &LevelDB{db: db}, nil
}

func (l *LevelDB) Get(_ context.Context, key string) (string, bool, error) {
	v, err := l.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (l *LevelDB) Set(_ context.Context, key, value string) error {
	return l.db.Put([]byte(key), []byte(value), nil)
}

func (l *LevelDB) Delete(_ context.Context, key string) error {
	return l.db.Delete([]byte(key), nil)
}

// Close releases the database files.
func (l *LevelDB) Close() error {
	return l.db.Close()
}
