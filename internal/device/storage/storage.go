// Package storage owns the durable per-device bbolt database: bucket layout,
// schema upgrades and JSON record helpers shared by the device packages.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

// Bucket names.
const (
	BucketPendingWrites = "pendingWrites"
	BucketSession       = "session"
	BucketCachedTasks   = "cachedTasks"
	BucketMeta          = "meta"

	// BucketQuarantine holds pending writes that could no longer be decoded.
	BucketQuarantine = "quarantinedWrites"

	// CachePrefix prefixes every versioned response cache partition.
	CachePrefix = "cache/"
)

const schemaVersionKey = "schema_version"

// ErrBucketMissing is returned when a bucket expected by the schema is absent.
var ErrBucketMissing = errors.New("storage: bucket is missing")

// ErrLocked is returned by Open when another process holds the database,
// usually a running agent.
var ErrLocked = errors.New("storage: database is locked by another process")

// lockTimeout bounds how long Open waits for the file lock.
const lockTimeout = time.Second

// upgrade moves the schema from version-1 to version.
type upgrade struct {
	version int
	apply   func(tx *bbolt.Tx) error
}

// upgrades run in order inside one transaction; append only.
var upgrades = []upgrade{
	{version: 1, apply: createBuckets(BucketPendingWrites, BucketSession)},
	{version: 2, apply: createBuckets(BucketCachedTasks)},
	{version: 3, apply: createBuckets(BucketQuarantine)},
}

// DB is the device database handle.
type DB struct {
	db *bbolt.DB
}

// Open opens (creating when needed) the database at path and brings its
// schema up to date.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: lockTimeout})
	if errors.Is(err, berrors.ErrTimeout) {
		return nil, fmt.Errorf("open storage db %s: %w", cleanPath, ErrLocked)
	}
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &DB{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// View runs fn in a read-only transaction unless ctx is already done.
func (d *DB) View(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

// Update runs fn in a read-write transaction unless ctx is already done.
func (d *DB) Update(ctx context.Context, fn func(tx *bbolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.Update(fn)
}

// SchemaVersion returns the applied schema version.
func (d *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := d.View(ctx, func(tx *bbolt.Tx) error {
		v, err := readVersion(tx)
		version = v
		return err
	})
	return version, err
}

// Buckets lists every top-level bucket name.
func (d *DB) Buckets(ctx context.Context) ([]string, error) {
	var names []string
	err := d.View(ctx, func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// Bucket returns the named bucket or ErrBucketMissing.
func Bucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("%w: %s", ErrBucketMissing, name)
	}
	return b, nil
}

// PutJSON stores v under key as JSON.
func PutJSON(b *bbolt.Bucket, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return b.Put([]byte(key), payload)
}

// GetJSON decodes the value under key into v. It reports false when the key
// is absent.
func GetJSON(b *bbolt.Bucket, key string, v any) (bool, error) {
	payload := b.Get([]byte(key))
	if payload == nil {
		return false, nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (d *DB) migrate() error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(BucketMeta))
		if err != nil {
			return fmt.Errorf("create meta bucket: %w", err)
		}

		current, err := readVersion(tx)
		if err != nil {
			return err
		}

		for _, u := range upgrades {
			if u.version <= current {
				continue
			}
			if err := u.apply(tx); err != nil {
				return fmt.Errorf("schema upgrade %d: %w", u.version, err)
			}
			current = u.version
		}

		return meta.Put([]byte(schemaVersionKey), []byte(strconv.Itoa(current)))
	})
}

func readVersion(tx *bbolt.Tx) (int, error) {
	meta, err := Bucket(tx, BucketMeta)
	if err != nil {
		return 0, err
	}
	raw := meta.Get([]byte(schemaVersionKey))
	if raw == nil {
		return 0, nil
	}
	v, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", raw, err)
	}
	return v, nil
}

func createBuckets(names ...string) func(tx *bbolt.Tx) error {
	return func(tx *bbolt.Tx) error {
		for _, name := range names {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	}
}
