package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"vocab-quiz-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// WordbookSource loads wordbook content from a backing store.
type WordbookSource interface {
	GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error)
}

// WordbookCache keeps wordbook JSON in Redis (one key per wordbook) and falls
// back to the source on a miss. Loads are deduplicated with singleflight and
// TTLs carry jitter so cached wordbooks do not expire in lockstep.
type WordbookCache struct {
	client *redis.Client
	source WordbookSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

// cacheEntry is the stored form. The wordbook's API serialization hides the
// student access list, so it is carried separately here; losing it in the
// cache would break access checks.
type cacheEntry struct {
	Book       domain.Wordbook `json:"book"`
	StudentIDs []int64         `json:"student_ids"`
}

func encodeEntry(book domain.Wordbook) ([]byte, error) {
	return json.Marshal(cacheEntry{Book: book, StudentIDs: book.StudentIDs})
}

func decodeEntry(raw []byte) (domain.Wordbook, bool) {
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return domain.Wordbook{}, false
	}
	entry.Book.StudentIDs = entry.StudentIDs
	return entry.Book, true
}

func NewWordbookCache(client *redis.Client, source WordbookSource, ttl time.Duration) *WordbookCache {
	return &WordbookCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *WordbookCache) GetWordbook(ctx context.Context, id int64) (domain.Wordbook, error) {
	key := c.key(id)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if book, ok := decodeEntry(raw); ok {
			return book, nil
		}
		// Corrupt cache entry: drop it and reload.
		_ = c.client.Del(ctx, key).Err()
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		// Re-check the cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			if book, ok := decodeEntry(raw); ok {
				return book, nil
			}
		}

		book, err := c.source.GetWordbook(ctx, id)
		if err != nil {
			return domain.Wordbook{}, err
		}

		if data, err := encodeEntry(book); err == nil {
			// best-effort cache fill
			_ = c.client.Set(ctx, key, data, c.ttlWithJitter()).Err()
		}
		return book, nil
	})
	if err != nil {
		return domain.Wordbook{}, err
	}
	return result.(domain.Wordbook), nil
}

func (c *WordbookCache) key(id int64) string {
	return "wordbook:" + strconv.FormatInt(id, 10)
}

func (c *WordbookCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
