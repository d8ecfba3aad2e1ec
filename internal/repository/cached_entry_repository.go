package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/entries"
	journal "io.winapps.traveljournal/internal/models/journal"
)

// CachedEntryRepository keeps single entries in Redis under entry:<id>.
// Lists always go to the underlying store. Every write bumps
// entry:<id>:version, and a read only fills the cache if that key did not
// move while the row was being loaded.
type CachedEntryRepository struct {
	next   entries.Store
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedEntryRepository(next entries.Store, rdb *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedEntryRepository {
	return &CachedEntryRepository{next: next, redis: rdb, ttl: ttl, logger: logger}
}

func entryKey(id string) string {
	return fmt.Sprintf("entry:%s", id)
}

func versionKey(id string) string {
	return fmt.Sprintf("entry:%s:version", id)
}

func (r *CachedEntryRepository) List(ctx context.Context, ownerID string) ([]journal.Entry, error) {
	return r.next.List(ctx, ownerID)
}

func (r *CachedEntryRepository) Get(ctx context.Context, id string) (journal.Entry, error) {
	cached, err := r.redis.Get(ctx, entryKey(id)).Result()
	if err == nil && cached != "" {
		var e journal.Entry
		if err := json.Unmarshal([]byte(cached), &e); err == nil {
			return e, nil
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Warnw("Entry cache read failed", "entry_id", id, "error", err)
	}

	return r.fill(ctx, id)
}

// fill loads id from the store and caches it under WATCH on the version key,
// so a write that lands between the load and the SET leaves the cache empty.
func (r *CachedEntryRepository) fill(ctx context.Context, id string) (journal.Entry, error) {
	var (
		e       journal.Entry
		loadErr error
		loaded  bool
	)
	err := r.redis.Watch(ctx, func(tx *redis.Tx) error {
		e, loadErr = r.next.Get(ctx, id)
		loaded = true
		if loadErr != nil {
			return nil
		}
		entryJSON, err := json.Marshal(e)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, entryKey(id), entryJSON, r.ttl)
			return nil
		})
		return err
	}, versionKey(id))

	if !loaded {
		r.logger.Warnw("Entry cache unavailable", "entry_id", id, "error", err)
		return r.next.Get(ctx, id)
	}
	if loadErr != nil {
		return journal.Entry{}, loadErr
	}
	switch {
	case errors.Is(err, redis.TxFailedErr):
		r.logger.Debugw("Entry changed while loading, not cached", "entry_id", id)
	case err != nil:
		r.logger.Warnw("Failed to cache entry in Redis", "entry_id", id, "error", err)
	}
	return e, nil
}

func (r *CachedEntryRepository) Insert(ctx context.Context, e journal.Entry) (journal.Entry, error) {
	created, err := r.next.Insert(ctx, e)
	if err != nil {
		return journal.Entry{}, err
	}
	r.store(ctx, created)
	return created, nil
}

func (r *CachedEntryRepository) Update(ctx context.Context, id, ownerID string, p journal.Patch) (journal.Entry, error) {
	updated, err := r.next.Update(ctx, id, ownerID, p)
	r.invalidate(ctx, id)
	if err != nil {
		return journal.Entry{}, err
	}
	return updated, nil
}

func (r *CachedEntryRepository) Delete(ctx context.Context, id, ownerID string) error {
	err := r.next.Delete(ctx, id, ownerID)
	r.invalidate(ctx, id)
	return err
}

func (r *CachedEntryRepository) store(ctx context.Context, e journal.Entry) {
	entryJSON, err := json.Marshal(e)
	if err != nil {
		r.logger.Warnw("Failed to marshal entry for Redis", "entry_id", e.ID, "error", err)
		return
	}
	if err := r.redis.Set(ctx, entryKey(e.ID), entryJSON, r.ttl).Err(); err != nil {
		r.logger.Warnw("Failed to cache entry in Redis", "entry_id", e.ID, "error", err)
	}
}

func (r *CachedEntryRepository) invalidate(ctx context.Context, id string) {
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), r.ttl)
		pipe.Del(ctx, entryKey(id))
		return nil
	})
	if err != nil {
		r.logger.Warnw("Failed to invalidate entry cache", "entry_id", id, "error", err)
	}
}
