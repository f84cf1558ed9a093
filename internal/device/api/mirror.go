package api

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/heartmarshall/pantau-subsidi/internal/device/storage"
)

const mirroredTasksKey = "all"

func (c *Client) mirrorTasks(ctx context.Context, result TasksResult) error {
	if c.db == nil {
		return nil
	}
	return c.db.Update(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketCachedTasks)
		if err != nil {
			return err
		}
		return storage.PutJSON(b, mirroredTasksKey, result)
	})
}

func (c *Client) mirroredTasks(ctx context.Context) (TasksResult, error) {
	if c.db == nil {
		return TasksResult{}, ErrOffline
	}

	var (
		result TasksResult
		found  bool
	)
	err := c.db.View(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketCachedTasks)
		if err != nil {
			return err
		}
		found, err = storage.GetJSON(b, mirroredTasksKey, &result)
		return err
	})
	if err != nil {
		return TasksResult{}, fmt.Errorf("api: read mirrored tasks: %w", err)
	}
	if !found {
		return TasksResult{}, ErrOffline
	}
	result.Stale = true
	return result, nil
}

func (c *Client) clearMirror(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Update(ctx, func(tx *bbolt.Tx) error {
		b, err := storage.Bucket(tx, storage.BucketCachedTasks)
		if err != nil {
			return err
		}
		return b.Delete([]byte(mirroredTasksKey))
	})
}
