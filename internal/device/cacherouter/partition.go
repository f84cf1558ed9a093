package cacherouter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
)

// Entry is a stored response.
type Entry struct {
	URL      string      `json:"url"`
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

func (e Entry) response(req *http.Request) *http.Response {
	h := e.Header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set(HeaderCache, CacheHit)
	return newResponse(req, e.Status, h, e.Body)
}

// partition is one cache/<version> bucket.
type partition struct {
	db   *storage.DB
	name string
}

func (p *partition) activate(ctx context.Context) ([]string, error) {
	var purged []string
	err := p.db.Update(ctx, func(tx *bbolt.Tx) error {
		// Collect first: buckets must not be deleted while ForEach iterates.
		err := tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			n := string(name)
			if strings.HasPrefix(n, storage.CachePrefix) && n != p.name {
				purged = append(purged, n)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, n := range purged {
			if err := tx.DeleteBucket([]byte(n)); err != nil {
				return err
			}
		}
		_, err = tx.CreateBucketIfNotExists([]byte(p.name))
		return err
	})
	return purged, err
}

// clear drops every entry of the partition and leaves it empty.
func (p *partition) clear(ctx context.Context) error {
	return p.db.Update(ctx, func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(p.name)) != nil {
			if err := tx.DeleteBucket([]byte(p.name)); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket([]byte(p.name))
		return err
	})
}

func (p *partition) put(ctx context.Context, e Entry) error {
	return p.db.Update(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, p.name)
		if err != nil {
			return err
		}
		return storage.PutJSON(b, e.URL, e)
	})
}

func (p *partition) get(ctx context.Context, key string) (Entry, bool, error) {
	var (
		e     Entry
		found bool
	)
	err := p.db.View(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, p.name)
		if err != nil {
			return err
		}
		found, err = storage.GetJSON(b, key, &e)
		return err
	})
	return e, found, err
}
