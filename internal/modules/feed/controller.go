package feed

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/eldrex/core/internal/models"
	"github.com/eldrex/core/internal/modules/gateway"
	"github.com/eldrex/core/internal/pkg/pagination"
	pkgredis "github.com/eldrex/core/internal/pkg/redis"
	"go.uber.org/zap"
)

// source is the read path the controller preloads and backfills from.
type source interface {
	ListActive(ctx context.Context, category string, cur pagination.Cursor, limit int) ([]models.CommentModel, pagination.Cursor, error)
}

// statsReader is the optional aggregate-counter warmup source.
type statsReader interface {
	PlatformStats(ctx context.Context) map[string]int64
}

// Controller owns the in-memory feed cache. The cache is fed by three
// paths (initial preload, redis subscription pushes, background
// backfill) that may overlap; every insert dedupes by id so the cache
// holds each comment exactly once. It is a best-effort read replica:
// the database stays the source of truth.
type Controller struct {
	mu       sync.RWMutex
	byID     map[string]struct{}
	items    []models.CommentModel
	platform map[string]int64

	store    source
	stats    statsReader
	rc       *pkgredis.Client
	logger   *zap.Logger
	pageSize int
}

func NewController(store source, rc *pkgredis.Client, logger *zap.Logger, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Controller{
		byID:     make(map[string]struct{}),
		store:    store,
		rc:       rc,
		logger:   logger,
		pageSize: pageSize,
	}
}

// SetStats wires the aggregate counters refreshed at init and on
// every cache refresh.
func (c *Controller) SetStats(r statsReader) { c.stats = r }

// Init runs the startup sequence in its required order: warm the
// aggregate counters, preload one page, then open the realtime
// subscription, then kick off the older page backfill. The
// subscription only has to cover comments created after the preload;
// the id dedupe absorbs any overlap.
func (c *Controller) Init(ctx context.Context) error {
	c.warmStats(ctx)
	if err := c.Preload(ctx); err != nil {
		return err
	}
	if c.rc != nil {
		go c.subscribe(ctx)
	}
	go c.Backfill(ctx)
	return nil
}

// Preload fetches the newest page into the cache.
func (c *Controller) Preload(ctx context.Context) error {
	comments, _, err := c.store.ListActive(ctx, "", pagination.Cursor{}, c.pageSize)
	if err != nil {
		return err
	}
	for i := range comments {
		c.Ingest(comments[i])
	}
	return nil
}

// Backfill fetches one page older than the oldest cached comment and
// merges it in. Failures are logged only; the feed stays usable with
// whatever is already cached.
func (c *Controller) Backfill(ctx context.Context) {
	cur, ok := c.oldestCursor()
	if !ok {
		return
	}
	comments, _, err := c.store.ListActive(ctx, "", cur, c.pageSize)
	if err != nil {
		c.logger.Warn("feed backfill failed", zap.Error(err))
		return
	}
	for i := range comments {
		c.Ingest(comments[i])
	}
}

// warmStats refreshes the cached aggregate counters. Best effort:
// an empty read leaves the previous counters in place.
func (c *Controller) warmStats(ctx context.Context) {
	if c.stats == nil {
		return
	}
	m := c.stats.PlatformStats(ctx)
	if len(m) == 0 {
		return
	}
	c.mu.Lock()
	c.platform = m
	c.mu.Unlock()
}

// PlatformSnapshot returns the aggregate counters warmed at init.
func (c *Controller) PlatformSnapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int64, len(c.platform))
	for k, v := range c.platform {
		out[k] = v
	}
	return out
}

func (c *Controller) oldestCursor() (pagination.Cursor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return pagination.Cursor{}, false
	}
	last := c.items[len(c.items)-1]
	return pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, true
}

// Ingest inserts a comment into the cache, deduping by id. A comment
// strictly newer than the current head is prepended; anything else,
// equal timestamps included, triggers a full re-sort so the id
// tie-break holds even when push delivery order does not.
func (c *Controller) Ingest(cm models.CommentModel) bool {
	if cm.ID == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[cm.ID]; exists {
		return false
	}
	c.byID[cm.ID] = struct{}{}

	if len(c.items) == 0 || cm.CreatedAt.After(c.items[0].CreatedAt) {
		c.items = append([]models.CommentModel{cm}, c.items...)
		return true
	}

	c.items = append(c.items, cm)
	sort.SliceStable(c.items, func(i, j int) bool {
		if c.items[i].CreatedAt.Equal(c.items[j].CreatedAt) {
			return c.items[i].ID > c.items[j].ID
		}
		return c.items[i].CreatedAt.After(c.items[j].CreatedAt)
	})
	return true
}

// Remove drops a comment from the cache (moderation hide/remove).
func (c *Controller) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[id]; !exists {
		return
	}
	delete(c.byID, id)
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Update overwrites a cached comment's counters in place. Unknown ids
// are ingested instead.
func (c *Controller) Update(cm models.CommentModel) {
	c.mu.Lock()
	if _, exists := c.byID[cm.ID]; exists {
		for i := range c.items {
			if c.items[i].ID == cm.ID {
				c.items[i] = cm
				break
			}
		}
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.Ingest(cm)
}

// Snapshot returns the cached comments newest first, optionally
// filtered to one category. The returned slice is a copy.
func (c *Controller) Snapshot(category string) []models.CommentModel {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CommentModel, 0, len(c.items))
	for i := range c.items {
		if category != "" && string(c.items[i].Category) != category {
			continue
		}
		out = append(out, c.items[i])
	}
	return out
}

// Len returns the number of cached comments.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// pushEnvelope mirrors the gateway broadcast envelope.
type pushEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// subscribe consumes public-room broadcasts and keeps the cache live.
func (c *Controller) subscribe(ctx context.Context) {
	pubsub := c.rc.Subscribe(ctx, gateway.RedisChanPublic)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.apply([]byte(msg.Payload))
		}
	}
}

func (c *Controller) apply(raw []byte) {
	var env pushEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn("feed push unmarshal failed", zap.Error(err))
		return
	}

	switch env.Event {
	case gateway.EventCommentCreated:
		var cm models.CommentModel
		if err := json.Unmarshal(env.Payload, &cm); err != nil {
			c.logger.Warn("feed push payload unmarshal failed", zap.Error(err))
			return
		}
		c.Ingest(cm)

	case gateway.EventCommentUpdated:
		var cm models.CommentModel
		if err := json.Unmarshal(env.Payload, &cm); err != nil {
			return
		}
		if cm.Status != "" && cm.Status != models.CommentActive {
			c.Remove(cm.ID)
			return
		}
		c.Update(cm)

	case gateway.EventCommentRemoved:
		var cm models.CommentModel
		if err := json.Unmarshal(env.Payload, &cm); err != nil {
			return
		}
		c.Remove(cm.ID)
	}
}

// RefreshLoop re-preloads the cache on a fixed interval to heal any
// push gaps (items created between preload and subscription open).
func (c *Controller) RefreshLoop(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = 5 * time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.warmStats(ctx)
			if err := c.Preload(ctx); err != nil {
				c.logger.Warn("feed refresh failed", zap.Error(err))
			}
		}
	}
}
