package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"vocab-quiz-service/internal/domain"

	"golang.org/x/sync/singleflight"
)

// WordbookSource loads wordbook content from a backing store.
type WordbookSource interface {
	GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error)
}

// WordbookCache caches wordbooks with TTL to keep quiz generation off the
// database on the hot path.
type WordbookCache struct {
	source WordbookSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[int64]cachedWordbook
}

type cachedWordbook struct {
	book      domain.Wordbook
	expiresAt time.Time
}

func NewWordbookCache(source WordbookSource, ttl time.Duration) *WordbookCache {
	return &WordbookCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedWordbook),
	}
}

func (c *WordbookCache) GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.book, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[id]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.book, nil
		}
		c.mu.RUnlock()

		book, err := c.source.GetWordbook(ctx, id)
		if err != nil {
			return domain.Wordbook{}, err
		}

		c.mu.Lock()
		c.cache[id] = cachedWordbook{
			book:      book,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return book, nil
	})
	if err != nil {
		return domain.Wordbook{}, err
	}
	return result.(domain.Wordbook), nil
}

func (c *WordbookCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
